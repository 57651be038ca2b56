// Package ignore loads and applies the name exclusion list used during
// driver enumeration. Lists come from an optional external file or from a
// built-in default per host.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// tokenSplit separates entries on commas and any run of whitespace.
var tokenSplit = regexp.MustCompile(`[,\s]+`)

// Set is a collection of names excluded from enumeration.
// It is built once per run and never mutated afterwards.
type Set map[string]struct{}

// NewSet builds a Set from the given names, discarding empties.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is an exact member of the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// MatchesSubstring reports whether any entry of the set occurs as a
// substring of name. The salsa host filters projects this way.
func (s Set) MatchesSubstring(name string) bool {
	for entry := range s {
		if strings.Contains(name, entry) {
			return true
		}
	}
	return false
}

// Names returns the set's entries in sorted order, for logging.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads an ignore-list file. Lines may carry '#' comments; remaining
// tokens are split on commas and whitespace. An empty file yields an empty
// set, which is distinct from an absent file (callers fall back to a
// built-in default for that case).
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	defer f.Close()

	set := make(Set)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, token := range tokenSplit.Split(line, -1) {
			if token != "" {
				set[token] = struct{}{}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return set, nil
}

// DefaultGitHub is the built-in exclusion list for the GitHub host. These
// are repository subdirectories that are not drivers.
func DefaultGitHub() Set {
	return NewSet(".circleci", ".github", "cmake_modules", "debian", "examples", "scripts", "spec", "obsolete")
}

// DefaultSalsa is the built-in exclusion list for the salsa host, matched
// as substrings of project names.
func DefaultSalsa() Set {
	return NewSet("indi-asu", "indi-ahp-xc")
}
