package changelog

import "context"

// Source identifies where a changelog was found.
type Source struct {
	Branch string
	Path   string
}

// FileFetcher retrieves one file from a repository ref. The found flag is
// false for a 404-equivalent response; err covers transport failures. Both
// simply advance the search to the next candidate.
type FileFetcher func(ctx context.Context, branch, path string) (content string, found bool, err error)

// Locate tries each (branch, path) candidate in priority order and returns
// the first non-empty content. Branches form the outer loop: earlier branch
// entries take precedence even when a later branch would also succeed.
// Exhausting all candidates returns found=false with an empty Source.
func Locate(ctx context.Context, fetch FileFetcher, branches, paths []string) (string, Source, bool) {
	for _, branch := range branches {
		if branch == "" {
			continue
		}
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return "", Source{}, false
			}
			content, ok, err := fetch(ctx, branch, path)
			if err != nil || !ok {
				continue
			}
			if content != "" {
				return content, Source{Branch: branch, Path: path}, true
			}
		}
	}
	return "", Source{}, false
}

// DefaultPaths is the ordered list of changelog locations tried within each
// branch, from the standard Debian layout to speculative packaging layouts.
func DefaultPaths() []string {
	return []string{
		"debian/changelog",
		"packaging/debian/changelog",
		"debian.upstream/changelog",
		"orig/debian/changelog",
	}
}
