package drivers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGitInfo(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 11, 3, 14, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		hash      string
		prefixLen int
		want      string
	}{
		"seven char prefix": {
			hash:      "a1b2c3d4e5f6a7b8",
			prefixLen: 7,
			want:      "git20241103.a1b2c3d",
		},
		"eight char prefix": {
			hash:      "a1b2c3d4e5f6a7b8",
			prefixLen: 8,
			want:      "git20241103.a1b2c3d4",
		},
		"short hash passed through": {
			hash:      "abc",
			prefixLen: 8,
			want:      "git20241103.abc",
		},
		"empty hash is unknown": {
			hash:      "",
			prefixLen: 7,
			want:      Unknown,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GitInfo(date, tt.hash, tt.prefixLen))
		})
	}
}

func TestSortByName(t *testing.T) {
	t.Parallel()

	records := []Record{{Name: "libapogee"}, {Name: "indi-asi"}, {Name: "indi-apogee"}}
	SortByName(records)

	assert.Equal(t, "indi-apogee", records[0].Name)
	assert.Equal(t, "indi-asi", records[1].Name)
	assert.Equal(t, "libapogee", records[2].Name)
}
