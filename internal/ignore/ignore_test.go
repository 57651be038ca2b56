package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnoreFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ignore.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    []string
	}{
		"one name per line": {
			content: "indi-asu\nindi-ahp-xc\n",
			want:    []string{"indi-asu", "indi-ahp-xc"},
		},
		"comma separated": {
			content: "indi-asu,indi-ahp-xc, indi-foo\n",
			want:    []string{"indi-asu", "indi-ahp-xc", "indi-foo"},
		},
		"whitespace separated": {
			content: "indi-asu indi-ahp-xc\tindi-foo\n",
			want:    []string{"indi-asu", "indi-ahp-xc", "indi-foo"},
		},
		"comments stripped": {
			content: "# full-line comment\nindi-asu # trailing comment\n",
			want:    []string{"indi-asu"},
		},
		"blank lines and empty tokens dropped": {
			content: "\n\nindi-asu,,\n   \n",
			want:    []string{"indi-asu"},
		},
		"empty file yields empty set": {
			content: "",
			want:    nil,
		},
		"comment-only file yields empty set": {
			content: "# nothing real here\n",
			want:    nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			set, err := Load(writeIgnoreFile(t, tt.content))
			require.NoError(t, err)
			assert.Len(t, set, len(tt.want))
			for _, n := range tt.want {
				assert.True(t, set.Has(n), "expected %q in set", n)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestSet_Has_OrderIndependent(t *testing.T) {
	t.Parallel()

	// Membership does not depend on construction order.
	a := NewSet("A", "B")
	b := NewSet("B", "A")

	for _, name := range []string{"A", "B"} {
		assert.True(t, a.Has(name))
		assert.True(t, b.Has(name))
	}
	assert.False(t, a.Has("C"))
}

func TestSet_MatchesSubstring(t *testing.T) {
	t.Parallel()

	set := NewSet("indi-asu", "indi-ahp-xc")

	assert.True(t, set.MatchesSubstring("indi-asu-wheel"))
	assert.True(t, set.MatchesSubstring("indi-ahp-xc"))
	assert.False(t, set.MatchesSubstring("indi-gpsd"))
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	assert.True(t, DefaultGitHub().Has("cmake_modules"))
	assert.False(t, DefaultGitHub().Has("indi-gpsd"))
	assert.True(t, DefaultSalsa().MatchesSubstring("indi-asu"))
}

func TestSet_Names_Sorted(t *testing.T) {
	t.Parallel()

	set := NewSet("b", "a", "c")
	assert.Equal(t, []string{"a", "b", "c"}, set.Names())
}
