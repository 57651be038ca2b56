// Package salsa enumerates INDI-related packaging projects of the Debian
// Astro team through the GitLab REST API on salsa.debian.org. Projects are
// paginated and each page is resolved with a bounded concurrent fan-out;
// one project's failure degrades its own record without touching siblings.
package salsa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thenoblet/indi-driver-fetcher/internal/changelog"
	"github.com/thenoblet/indi-driver-fetcher/internal/drivers"
	"github.com/thenoblet/indi-driver-fetcher/internal/fetch"
	"github.com/thenoblet/indi-driver-fetcher/internal/ignore"
)

const (
	// DefaultBaseURL is the salsa GitLab API root.
	DefaultBaseURL = "https://salsa.debian.org/api/v4"
	// DefaultGroup is the packaging team whose projects are enumerated.
	DefaultGroup = "debian-astro-team"
	// DefaultPageSize is the projects-per-page fetch size.
	DefaultPageSize = 100

	fallbackBranch   = "master"
	packagingBranch  = "debian/main"
	hashPrefixLen    = 8
	activityDatePart = "2006-01-02"
)

// namePrefixes select the INDI-related subset of the group's projects.
var namePrefixes = []string{"indi-", "lib"}

// project is the slice of GitLab's project JSON this enumerator reads.
type project struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	DefaultBranch  string `json:"default_branch"`
	LastActivityAt string `json:"last_activity_at"`
}

// commitEntry is one entry of a repository commits listing.
type commitEntry struct {
	ID string `json:"id"`
}

// Enumerator lists the Debian Astro team's INDI packaging projects.
type Enumerator struct {
	baseURL     string
	group       string
	pageSize    int
	concurrency int
	client      *fetch.Client
	log         *slog.Logger
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(e *Enumerator) {
		if u != "" {
			e.baseURL = u
		}
	}
}

// WithPageSize sets the projects-per-page fetch size.
func WithPageSize(n int) Option {
	return func(e *Enumerator) {
		if n >= 1 {
			e.pageSize = n
		}
	}
}

// WithConcurrency bounds the per-page fan-out. Zero keeps the page size as
// the de facto ceiling.
func WithConcurrency(n int) Option {
	return func(e *Enumerator) {
		if n >= 1 {
			e.concurrency = n
		}
	}
}

// NewEnumerator builds an Enumerator for the given group.
func NewEnumerator(client *fetch.Client, log *slog.Logger, opts ...Option) *Enumerator {
	if log == nil {
		log = slog.Default()
	}
	e := &Enumerator{
		baseURL:  DefaultBaseURL,
		group:    DefaultGroup,
		pageSize: DefaultPageSize,
		client:   client,
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enumerate resolves the group id, pages through its projects, and fans out
// per page to resolve each surviving project. Records come back sorted by
// name so output is deterministic regardless of completion order.
func (e *Enumerator) Enumerate(ctx context.Context, ignored ignore.Set) ([]drivers.Record, error) {
	e.log.Info("resolving group id", "group", e.group)
	groupID, err := e.groupID(ctx)
	if err != nil {
		return nil, err
	}

	e.log.Info("fetching project pages", "group_id", groupID)

	var records []drivers.Record
	for page := 1; ; page++ {
		projects, err := e.projectPage(ctx, groupID, page)
		if err != nil {
			return nil, err
		}
		if len(projects) == 0 {
			break
		}

		pageRecords, err := e.resolvePage(ctx, e.filter(projects, ignored))
		if err != nil {
			return nil, err
		}
		records = append(records, pageRecords...)
	}

	drivers.SortByName(records)
	return records, nil
}

// groupID resolves the numeric id of the configured group. Rate limiting is
// retried by the underlying backoff policy; exhaustion is terminal for the
// whole run since nothing can proceed without the id.
func (e *Enumerator) groupID(ctx context.Context) (int, error) {
	res, err := e.client.Get(ctx, fmt.Sprintf("%s/groups/%s", e.baseURL, url.QueryEscape(e.group)), nil)
	if err != nil {
		return 0, fmt.Errorf("fetching group %s: %w", e.group, err)
	}
	if !res.OK() {
		return 0, fmt.Errorf("fetching group %s: unexpected status %d", e.group, res.StatusCode)
	}
	var group struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(res.Body, &group); err != nil {
		return 0, fmt.Errorf("parsing group info: %w", err)
	}
	return group.ID, nil
}

// projectPage fetches one page of the group's project listing.
func (e *Enumerator) projectPage(ctx context.Context, groupID, page int) ([]project, error) {
	u := fmt.Sprintf("%s/groups/%d/projects?page=%d&per_page=%d&order_by=name&sort=asc",
		e.baseURL, groupID, page, e.pageSize)
	res, err := e.client.Get(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching projects page %d: %w", page, err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("fetching projects page %d: unexpected status %d", page, res.StatusCode)
	}
	var projects []project
	if err := json.Unmarshal(res.Body, &projects); err != nil {
		return nil, fmt.Errorf("parsing projects page %d: %w", page, err)
	}
	return projects, nil
}

// filter keeps projects whose name carries an INDI-related prefix and
// contains no ignored substring.
func (e *Enumerator) filter(projects []project, ignored ignore.Set) []project {
	kept := projects[:0:0]
	for _, p := range projects {
		if !hasAnyPrefix(p.Name, namePrefixes) || ignored.MatchesSubstring(p.Name) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// resolvePage fans out one task per project and awaits the batch. Each task
// writes only its own slot of the results slice, so no shared state is
// mutated concurrently. Task failures degrade their own record; the group
// error is reserved for context cancellation.
func (e *Enumerator) resolvePage(ctx context.Context, projects []project) ([]drivers.Record, error) {
	records := make([]drivers.Record, len(projects))

	g, ctx := errgroup.WithContext(ctx)
	limit := e.concurrency
	if limit <= 0 {
		limit = e.pageSize
	}
	g.SetLimit(limit)

	for i, p := range projects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				records[i] = errorRecord(p)
				return err
			}
			records[i] = e.resolveProject(ctx, p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// resolveProject builds the record for one project. Every lookup degrades
// independently: a failed branch or changelog search leaves the matching
// fields Unknown and resolution continues.
func (e *Enumerator) resolveProject(ctx context.Context, p project) drivers.Record {
	e.log.Debug("processing project", "project", p.Name)

	record := drivers.Record{
		Name:    p.Name,
		Version: changelog.VersionUnknown,
		GitInfo: drivers.Unknown,
	}

	branches := e.branchPriority(ctx, p)

	if commitID := e.latestCommitID(ctx, p.ID, branches); commitID != "" {
		record.GitInfo = gitInfo(p.LastActivityAt, commitID)
	}

	content, source, found := changelog.Locate(ctx, e.fileFetcher(p.ID), branches, changelog.DefaultPaths())
	if found {
		record.ChangelogFound = true
		record.ChangelogBranch = source.Branch
		record.ChangelogPath = source.Path
		record.Version = changelog.ExtractVersion(content)
	} else {
		e.log.Warn("no changelog found for project", "project", p.Name)
	}

	return record
}

// branchPriority returns the fixed branch search order: the packaging
// branch, the project's default branch, then the conventional fallback.
// Duplicates are collapsed so no branch is probed twice.
func (e *Enumerator) branchPriority(ctx context.Context, p project) []string {
	def := e.defaultBranch(ctx, p.ID)

	branches := make([]string, 0, 3)
	seen := map[string]bool{}
	for _, b := range []string{packagingBranch, def, fallbackBranch} {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		branches = append(branches, b)
	}
	return branches
}

// defaultBranch asks the project endpoint for the default branch, falling
// back to master when the call or the field comes up empty.
func (e *Enumerator) defaultBranch(ctx context.Context, projectID int) string {
	res, err := e.client.Get(ctx, fmt.Sprintf("%s/projects/%d", e.baseURL, projectID), nil)
	if err != nil || !res.OK() {
		return fallbackBranch
	}
	var p project
	if err := json.Unmarshal(res.Body, &p); err != nil || p.DefaultBranch == "" {
		return fallbackBranch
	}
	return p.DefaultBranch
}

// latestCommitID returns the newest commit id from the first branch in the
// priority list that has one. Failures on a branch advance to the next.
func (e *Enumerator) latestCommitID(ctx context.Context, projectID int, branches []string) string {
	for _, branch := range branches {
		u := fmt.Sprintf("%s/projects/%d/repository/commits?ref_name=%s&per_page=1",
			e.baseURL, projectID, url.QueryEscape(branch))
		res, err := e.client.Get(ctx, u, nil)
		if err != nil || !res.OK() {
			continue
		}
		var commits []commitEntry
		if err := json.Unmarshal(res.Body, &commits); err != nil || len(commits) == 0 {
			continue
		}
		return commits[0].ID
	}
	return ""
}

// fileFetcher adapts the raw-file endpoint to the changelog locator's
// contract.
func (e *Enumerator) fileFetcher(projectID int) changelog.FileFetcher {
	return func(ctx context.Context, branch, path string) (string, bool, error) {
		u := fmt.Sprintf("%s/projects/%d/repository/files/%s/raw?ref=%s",
			e.baseURL, projectID, url.QueryEscape(path), url.QueryEscape(branch))
		res, err := e.client.Get(ctx, u, nil)
		if err != nil {
			return "", false, err
		}
		if !res.OK() {
			return "", false, nil
		}
		return string(res.Body), true, nil
	}
}

// errorRecord is the degraded record for a project that could not be
// resolved at all.
func errorRecord(p project) drivers.Record {
	return drivers.Record{
		Name:    p.Name,
		Version: changelog.VersionUnknown,
		GitInfo: drivers.Unknown,
	}
}

// gitInfo formats last-activity date plus commit id prefix. An unparseable
// activity timestamp leaves the field Unknown, as the hash alone does not
// satisfy the output format.
func gitInfo(lastActivityAt, commitID string) string {
	if len(lastActivityAt) < len(activityDatePart) {
		return drivers.Unknown
	}
	date, err := time.Parse(activityDatePart, lastActivityAt[:len(activityDatePart)])
	if err != nil {
		return drivers.Unknown
	}
	return drivers.GitInfo(date, commitID, hashPrefixLen)
}
