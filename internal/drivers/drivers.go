// Package drivers defines the per-project record produced by enumeration and
// the contract both hosting backends implement.
package drivers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/thenoblet/indi-driver-fetcher/internal/ignore"
)

// Unknown is the placeholder for fields no API call could resolve.
const Unknown = "Unknown"

// Record holds everything resolved for one driver or package. It is built
// once per enumerated project and discarded after printing.
type Record struct {
	// Name is the driver subdirectory or project name, unique per run.
	Name string
	// Version is the changelog version token, or Unknown when no candidate
	// yielded a parseable first line.
	Version string
	// GitInfo is "git<YYYYMMDD>.<hash-prefix>", or Unknown when no branch
	// yielded a commit.
	GitInfo string
	// ChangelogFound reports whether any (branch, path) candidate produced
	// content.
	ChangelogFound bool
	// ChangelogBranch and ChangelogPath identify the winning candidate.
	// Empty when ChangelogFound is false.
	ChangelogBranch string
	ChangelogPath   string
}

// Enumerator lists an organization's drivers and resolves a Record for each.
// Implementations tolerate partial failure: a single project's trouble
// degrades that record, never the whole run.
type Enumerator interface {
	Enumerate(ctx context.Context, ignored ignore.Set) ([]Record, error)
}

// GitInfo formats a commit reference as git<YYYYMMDD>.<prefix of hash>.
func GitInfo(date time.Time, hash string, prefixLen int) string {
	if hash == "" {
		return Unknown
	}
	if len(hash) > prefixLen {
		hash = hash[:prefixLen]
	}
	return fmt.Sprintf("git%s.%s", date.Format("20060102"), hash)
}

// SortByName orders records by name for deterministic output independent of
// completion order.
func SortByName(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
}
