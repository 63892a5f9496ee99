// internal/stats/pattern.go
//
// Feedback patterns. A pattern packs the five per-position match levels of a
// guess into one base-3 integer, position 0 being the least significant digit.

package stats

import (
	"fmt"
	"strings"
)

// MatchLevel is the feedback for one letter position.
type MatchLevel int8

const (
	// Unknown marks a slot of a PartialPattern the player has not set yet.
	// It never appears inside a Pattern.
	Unknown MatchLevel = -1
	None    MatchLevel = 0
	Partial MatchLevel = 1
	Exact   MatchLevel = 2
)

// String renders a level as a single glyph.
func (l MatchLevel) String() string {
	switch l {
	case None:
		return "."
	case Partial:
		return "?"
	case Exact:
		return "+"
	default:
		return "_"
	}
}

// Pattern is a full feedback result in [0, 3^WordLen).
type Pattern uint16

// NumPatterns is the number of distinct patterns.
const NumPatterns = 243

// AllExact is the pattern of a correct guess.
const AllExact Pattern = NumPatterns - 1

var pow3 = [WordLen + 1]int{1, 3, 9, 27, 81, 243}

// String renders a pattern as five glyphs, position 0 first.
func (p Pattern) String() string {
	var sb strings.Builder
	for i := 0; i < WordLen; i++ {
		sb.WriteString(MatchLevelAt(p, i).String())
	}
	return sb.String()
}

// ParsePattern reads the glyph form produced by Pattern.String.
// Letters are accepted too: b/x for none, y for partial, g for exact.
func ParsePattern(s string) (Pattern, error) {
	if len(s) != WordLen {
		return 0, fmt.Errorf("pattern %q: want %d symbols", s, WordLen)
	}
	var p Pattern
	for i := 0; i < WordLen; i++ {
		var level MatchLevel
		switch s[i] {
		case '.', 'b', 'x', '0':
			level = None
		case '?', 'y', '1':
			level = Partial
		case '+', 'g', '2':
			level = Exact
		default:
			return 0, fmt.Errorf("pattern %q: bad symbol %q at %d", s, s[i], i)
		}
		p = UpdatedPattern(p, i, level)
	}
	return p, nil
}

// PartialPattern is feedback still being entered; Unknown slots impose no
// constraint.
type PartialPattern [WordLen]MatchLevel

// UnknownPattern returns a partial pattern with every slot Unknown.
func UnknownPattern() PartialPattern {
	return PartialPattern{Unknown, Unknown, Unknown, Unknown, Unknown}
}

// ExactPattern returns a partial pattern with every slot Exact.
func ExactPattern() PartialPattern {
	return PartialPattern{Exact, Exact, Exact, Exact, Exact}
}

// PartialOf expands a full pattern into its five levels.
func PartialOf(p Pattern) PartialPattern {
	var out PartialPattern
	for i := range out {
		out[i] = MatchLevelAt(p, i)
	}
	return out
}

func (pp PartialPattern) String() string {
	var sb strings.Builder
	for _, l := range pp {
		sb.WriteString(l.String())
	}
	return sb.String()
}

// FeedbackOf computes the pattern guess produces against answer.
//
// Each guess position claims the next unclaimed occurrence of its letter,
// scanning the answer's positions from the claim index onward: a scanned
// position equal to the guess position is Exact, any other scanned position
// is Partial, and nothing left to scan is None.
func FeedbackOf(guess string, answer *LetterDistribution) Pattern {
	var claims [26]uint8
	pattern := 0
	for i := 0; i < WordLen; i++ {
		letter := guess[i] - 'a'
		claims[letter]++
		p := &answer[letter]
		level := None
		for j := claims[letter] - 1; j < p.n; j++ {
			level = Partial
			if int(p.at[j]) == i {
				level = Exact
				break
			}
		}
		pattern += int(level) * pow3[i]
	}
	return Pattern(pattern)
}

// UpdatedPattern replaces the digit at position with level.
func UpdatedPattern(p Pattern, position int, level MatchLevel) Pattern {
	current := MatchLevelAt(p, position)
	if current == level {
		return p
	}
	w := pow3[position]
	return Pattern(int(p) - int(current)*w + int(level)*w)
}

// MatchLevelAt extracts the digit at position.
func MatchLevelAt(p Pattern, position int) MatchLevel {
	v := int(p)
	for i := 0; i < position; i++ {
		v /= 3
	}
	return MatchLevel(v % 3)
}

// MatchingPatterns returns the patterns that agree with every known slot of
// partial. The input slice is not modified.
func MatchingPatterns(patterns []Pattern, partial PartialPattern) []Pattern {
	out := make([]Pattern, 0, len(patterns))
next:
	for _, p := range patterns {
		for i, level := range partial {
			if level != Unknown && MatchLevelAt(p, i) != level {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// ResolvedPattern builds a full pattern from the known slots of partial,
// reading Unknown as None.
func ResolvedPattern(partial PartialPattern) Pattern {
	var p Pattern
	for i, level := range partial {
		if level != Unknown {
			p = UpdatedPattern(p, i, level)
		}
	}
	return p
}
