// internal/stats/distribution.go
//
// Letter distributions: for each letter a–z, the positions it occupies in a
// five-letter word. Distributions are the answer-side input to pattern
// computation and are never mutated once built.

package stats

import "fmt"

// WordLen is the number of letters in every guess and answer.
const WordLen = 5

// positions holds the ordered slots a single letter occupies.
type positions struct {
	n  uint8
	at [WordLen]uint8
}

// LetterDistribution maps each letter (index 0 = 'a') to the ordered
// positions where it appears. Value type; copies are independent.
type LetterDistribution [26]positions

// DistributionOf records, for each character of word, the positions it
// occupies in order of appearance. Callers guarantee a lowercase a–z word of
// WordLen letters.
func DistributionOf(word string) LetterDistribution {
	var d LetterDistribution
	for i := 0; i < WordLen; i++ {
		p := &d[word[i]-'a']
		p.at[p.n] = uint8(i)
		p.n++
	}
	return d
}

// WordOf rebuilds the word a distribution was created from.
// A slot left unfilled means the distribution did not come from a
// five-letter word; that is a caller bug and panics.
func WordOf(d LetterDistribution) string {
	buf := [WordLen]byte{'_', '_', '_', '_', '_'}
	for letter := range d {
		p := &d[letter]
		for j := uint8(0); j < p.n; j++ {
			buf[p.at[j]] = byte('a' + letter)
		}
	}
	for i, c := range buf {
		if c == '_' {
			panic(fmt.Sprintf("stats: distribution has no letter at position %d", i))
		}
	}
	return string(buf[:])
}

// Positions returns the positions occupied by letter, in appearance order.
func (d *LetterDistribution) Positions(letter byte) []int {
	p := &d[letter-'a']
	out := make([]int, p.n)
	for i := range out {
		out[i] = int(p.at[i])
	}
	return out
}

// Distributions converts a word list to distributions, preserving order.
func Distributions(words []string) []LetterDistribution {
	out := make([]LetterDistribution, len(words))
	for i, w := range words {
		out[i] = DistributionOf(w)
	}
	return out
}

// Words is the inverse of Distributions.
func Words(ds []LetterDistribution) []string {
	out := make([]string, len(ds))
	for i := range ds {
		out[i] = WordOf(ds[i])
	}
	return out
}

// ValidWord reports whether w is WordLen lowercase a–z letters, the only
// input DistributionOf and FeedbackOf accept.
func ValidWord(w string) bool {
	if len(w) != WordLen {
		return false
	}
	for i := 0; i < WordLen; i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
