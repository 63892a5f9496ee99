package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func TestLoadEmbedded(t *testing.T) {
	t.Parallel()
	l, err := Load("", "")
	require.NoError(t, err)
	a, g := l.Stats()
	assert.Positive(t, a)
	assert.Greater(t, g, a)
	for _, w := range l.Answers {
		assert.True(t, l.IsAllowed(w), w)
		assert.Len(t, w, 5)
	}
	assert.True(t, l.IsAllowed("raise"))
	assert.False(t, l.IsAnswer("raise"))
}

func TestLoadBothFiles(t *testing.T) {
	t.Parallel()
	answers := writeList(t, "answers.txt", "# comment", "Cigar", "rebut", "", "toolong", "cigar")
	allowed := writeList(t, "allowed.txt", "raise", "ab1de", "slate")
	l, err := Load(answers, allowed)
	require.NoError(t, err)
	assert.Equal(t, []string{"cigar", "rebut"}, l.Answers)
	assert.Equal(t, []string{"raise", "slate", "cigar", "rebut"}, l.Allowed)
	assert.True(t, l.IsAnswer("CIGAR"))
}

func TestLoadAllowedOnly(t *testing.T) {
	t.Parallel()
	allowed := writeList(t, "allowed.txt", "raise", "slate")
	l, err := Load("", allowed)
	require.NoError(t, err)
	assert.Equal(t, l.Answers, l.Allowed)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	_, err := Load(writeList(t, "a.txt", "cigar"), "")
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = Load("", writeList(t, "empty.txt", "# nothing"))
	assert.Error(t, err)
}
