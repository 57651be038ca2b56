package changelog

import (
	"regexp"
	"strings"
)

// VersionUnknown is reported when no changelog candidate yielded a parseable
// first line.
const VersionUnknown = "Unknown"

// versionPattern captures the first parenthesized group on a line.
var versionPattern = regexp.MustCompile(`\((.*?)\)`)

// ExtractVersion pulls the version token from changelog content. It takes the
// first line, trims surrounding whitespace outside the parentheses, and
// returns the interior of the first parenthesized group verbatim. Empty
// content or a first line without parentheses yields VersionUnknown.
func ExtractVersion(content string) string {
	if content == "" {
		return VersionUnknown
	}

	lines := strings.SplitN(content, "\n", 2)
	firstLine := strings.TrimSpace(lines[0])

	m := versionPattern.FindStringSubmatch(firstLine)
	if m == nil {
		return VersionUnknown
	}
	return m[1]
}
