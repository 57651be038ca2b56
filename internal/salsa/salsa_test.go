package salsa

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoblet/indi-driver-fetcher/internal/drivers"
	"github.com/thenoblet/indi-driver-fetcher/internal/fetch"
	"github.com/thenoblet/indi-driver-fetcher/internal/ignore"
)

// salsaFixture serves a minimal slice of the GitLab group/project API.
type salsaFixture struct {
	pages    []string          // JSON project arrays, one per page
	defaults map[string]string // project id -> default branch
	commits  map[string]string // "id:branch" -> commits JSON
	files    map[string]string // "id:branch:path" -> raw content
}

func (f *salsaFixture) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		segments := strings.Split(strings.TrimPrefix(path, "/"), "/")

		switch {
		case path == "/groups/debian-astro-team":
			fmt.Fprint(w, `{"id": 99}`)

		case path == "/groups/99/projects":
			page := r.URL.Query().Get("page")
			var idx int
			fmt.Sscanf(page, "%d", &idx)
			if idx < 1 || idx > len(f.pages) {
				fmt.Fprint(w, `[]`)
				return
			}
			fmt.Fprint(w, f.pages[idx-1])

		case len(segments) == 2 && segments[0] == "projects":
			branch, ok := f.defaults[segments[1]]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"id": %s, "default_branch": %q}`, segments[1], branch)

		case len(segments) == 4 && segments[2] == "repository" && segments[3] == "commits":
			key := segments[1] + ":" + r.URL.Query().Get("ref_name")
			body, ok := f.commits[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, body)

		case len(segments) > 4 && segments[2] == "repository" && segments[3] == "files" && segments[len(segments)-1] == "raw":
			filePath := strings.Join(segments[4:len(segments)-1], "/")
			key := segments[1] + ":" + r.URL.Query().Get("ref") + ":" + filePath
			content, ok := f.files[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, content)

		default:
			t.Errorf("unexpected request path %s", path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestEnumerator(t *testing.T, f *salsaFixture, opts ...Option) *Enumerator {
	t.Helper()

	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	client := fetch.NewClient(time.Second, fetch.HeaderToken("PRIVATE-TOKEN", "glpat-test"),
		&fetch.ExponentialBackoff{Base: time.Millisecond, MaxRetries: 3}, nil)
	return NewEnumerator(client, nil, append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func projectJSON(id int, name, activity string) string {
	return fmt.Sprintf(`{"id": %d, "name": %q, "default_branch": "main", "last_activity_at": %q}`, id, name, activity)
}

func TestEnumerate_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	f := &salsaFixture{
		pages: []string{"[" + strings.Join([]string{
			projectJSON(1, "libapogee", "2024-05-01T10:00:00Z"),
			projectJSON(2, "indi-gpsd", "2024-06-02T10:00:00Z"),
			projectJSON(3, "gnuastro", "2024-01-01T10:00:00Z"),      // no matching prefix
			projectJSON(4, "indi-asu-wheel", "2024-01-01T10:00:00Z"), // ignored substring
		}, ",") + "]"},
		defaults: map[string]string{"1": "main", "2": "main"},
		commits: map[string]string{
			"1:debian/main": `[{"id": "aabbccddeeff0011"}]`,
			"2:debian/main": `[{"id": "1122334455667788"}]`,
		},
		files: map[string]string{
			"1:debian/main:debian/changelog": "libapogee (3.1-2) unstable; urgency=low\n",
			"2:debian/main:debian/changelog": "indi-gpsd (0.5-1) unstable; urgency=low\n",
		},
	}

	records, err := newTestEnumerator(t, f).Enumerate(context.Background(), ignore.NewSet("indi-asu"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Sorted by name regardless of listing or completion order.
	assert.Equal(t, "indi-gpsd", records[0].Name)
	assert.Equal(t, "0.5-1", records[0].Version)
	assert.Equal(t, "git20240602.11223344", records[0].GitInfo)
	assert.True(t, records[0].ChangelogFound)
	assert.Equal(t, "debian/main", records[0].ChangelogBranch)
	assert.Equal(t, "debian/changelog", records[0].ChangelogPath)

	assert.Equal(t, "libapogee", records[1].Name)
	assert.Equal(t, "3.1-2", records[1].Version)
	assert.Equal(t, "git20240501.aabbccdd", records[1].GitInfo)
}

func TestEnumerate_ChangelogOnFallbackCandidate(t *testing.T) {
	t.Parallel()

	// Nothing on debian/main; the default branch carries the changelog in a
	// speculative location.
	f := &salsaFixture{
		pages:    []string{"[" + projectJSON(7, "indi-eqmod", "2024-03-10T00:00:00Z") + "]"},
		defaults: map[string]string{"7": "main"},
		commits:  map[string]string{"7:main": `[{"id": "99aabbcc00112233"}]`},
		files: map[string]string{
			"7:main:packaging/debian/changelog": "indi-eqmod (2.0~beta1-1) experimental; urgency=low\n",
		},
	}

	records, err := newTestEnumerator(t, f).Enumerate(context.Background(), ignore.NewSet())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "2.0~beta1-1", records[0].Version)
	assert.Equal(t, "main", records[0].ChangelogBranch)
	assert.Equal(t, "packaging/debian/changelog", records[0].ChangelogPath)
	assert.Equal(t, "git20240310.99aabbcc", records[0].GitInfo)
}

func TestEnumerate_ProjectWithNoCommitsDegrades(t *testing.T) {
	t.Parallel()

	f := &salsaFixture{
		pages: []string{"[" +
			projectJSON(1, "indi-dead", "2024-01-01T00:00:00Z") + "," +
			projectJSON(2, "indi-alive", "2024-02-02T00:00:00Z") + "]"},
		defaults: map[string]string{"2": "main"}, // project 1's detail call 404s too
		commits:  map[string]string{"2:debian/main": `[{"id": "deadbeef00000000"}]`},
		files: map[string]string{
			"2:debian/main:debian/changelog": "indi-alive (1.0-1) unstable; urgency=low\n",
		},
	}

	records, err := newTestEnumerator(t, f).Enumerate(context.Background(), ignore.NewSet())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The dead project still appears with degraded fields and does not
	// block its sibling.
	assert.Equal(t, "indi-alive", records[0].Name)
	assert.Equal(t, "git20240202.deadbeef", records[0].GitInfo)

	assert.Equal(t, "indi-dead", records[1].Name)
	assert.Equal(t, drivers.Unknown, records[1].Version)
	assert.Equal(t, drivers.Unknown, records[1].GitInfo)
	assert.False(t, records[1].ChangelogFound)
}

func TestEnumerate_Pagination(t *testing.T) {
	t.Parallel()

	f := &salsaFixture{
		pages: []string{
			"[" + projectJSON(1, "indi-b", "2024-01-01T00:00:00Z") + "]",
			"[" + projectJSON(2, "indi-a", "2024-01-01T00:00:00Z") + "]",
		},
		defaults: map[string]string{"1": "main", "2": "main"},
		commits: map[string]string{
			"1:debian/main": `[{"id": "0000000011111111"}]`,
			"2:debian/main": `[{"id": "2222222233333333"}]`,
		},
		files: map[string]string{
			"1:debian/main:debian/changelog": "indi-b (1.0-1) unstable; urgency=low\n",
			"2:debian/main:debian/changelog": "indi-a (2.0-1) unstable; urgency=low\n",
		},
	}

	records, err := newTestEnumerator(t, f, WithPageSize(1)).Enumerate(context.Background(), ignore.NewSet())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Collected across pages, then sorted by name.
	assert.Equal(t, "indi-a", records[0].Name)
	assert.Equal(t, "indi-b", records[1].Name)
}

func TestEnumerate_GroupLookupExhaustsBackoff(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := fetch.NewClient(time.Second, nil, &fetch.ExponentialBackoff{Base: time.Millisecond, MaxRetries: 2}, nil)
	e := NewEnumerator(client, nil, WithBaseURL(srv.URL))

	_, err := e.Enumerate(context.Background(), ignore.NewSet())
	require.Error(t, err)
	assert.ErrorIs(t, err, fetch.ErrRetriesExhausted)
	assert.EqualValues(t, 2, calls.Load())
}

func TestEnumerate_BranchPriorityPrefersPackagingBranch(t *testing.T) {
	t.Parallel()

	// Both debian/main and the default branch have commits; debian/main wins.
	f := &salsaFixture{
		pages:    []string{"[" + projectJSON(5, "indi-dual", "2024-04-04T00:00:00Z") + "]"},
		defaults: map[string]string{"5": "main"},
		commits: map[string]string{
			"5:debian/main": `[{"id": "aaaa000011112222"}]`,
			"5:main":        `[{"id": "bbbb000011112222"}]`,
		},
		files: map[string]string{
			"5:main:debian/changelog": "indi-dual (4.0-1) unstable; urgency=low\n",
		},
	}

	records, err := newTestEnumerator(t, f).Enumerate(context.Background(), ignore.NewSet())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "git20240404.aaaa0000", records[0].GitInfo)
	// Changelog search also walks the branch priority and lands on main.
	assert.Equal(t, "main", records[0].ChangelogBranch)
}
