// Package github enumerates driver subdirectories of the indi-3rdparty
// repository through the GitHub REST API. The host is polled sequentially:
// every request blocks behind the shared rate-limited fetcher, and output
// preserves the repository listing order.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/thenoblet/indi-driver-fetcher/internal/changelog"
	"github.com/thenoblet/indi-driver-fetcher/internal/drivers"
	"github.com/thenoblet/indi-driver-fetcher/internal/fetch"
	"github.com/thenoblet/indi-driver-fetcher/internal/ignore"
)

// DefaultBaseURL is the repository API root for indilib/indi-3rdparty.
const DefaultBaseURL = "https://api.github.com/repos/indilib/indi-3rdparty"

const (
	commitDateLayout = "2006-01-02T15:04:05Z"
	hashPrefixLen    = 7
)

// contentEntry is one item of a repository contents listing.
type contentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// contentFile is the contents response for a single file.
type contentFile struct {
	DownloadURL string `json:"download_url"`
}

// commitInfo is one entry of a commits listing.
type commitInfo struct {
	SHA    string `json:"sha"`
	Commit struct {
		Committer struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// Enumerator lists drivers of the indi-3rdparty repository.
type Enumerator struct {
	baseURL string
	client  *fetch.Client
	log     *slog.Logger
}

// NewEnumerator builds an Enumerator. baseURL is overridable for tests;
// empty means DefaultBaseURL.
func NewEnumerator(client *fetch.Client, baseURL string, log *slog.Logger) *Enumerator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Enumerator{baseURL: baseURL, client: client, log: log}
}

// Enumerate lists the repository's top-level directories, skips ignored
// names, and resolves a record per surviving driver. A single driver's
// failure degrades its record and enumeration continues; only the initial
// listing call is terminal.
func (e *Enumerator) Enumerate(ctx context.Context, ignored ignore.Set) ([]drivers.Record, error) {
	e.log.Info("fetching repository contents")

	res, err := e.client.Get(ctx, e.baseURL+"/contents", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching repository contents: %w", err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("fetching repository contents: unexpected status %d", res.StatusCode)
	}

	var entries []contentEntry
	if err := json.Unmarshal(res.Body, &entries); err != nil {
		return nil, fmt.Errorf("parsing repository contents: %w", err)
	}

	var records []drivers.Record
	for _, entry := range entries {
		if entry.Type != "dir" || ignored.Has(entry.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		e.log.Info("processing driver", "driver", entry.Name)
		records = append(records, e.resolveDriver(ctx, entry.Name))
	}

	return records, nil
}

// resolveDriver builds the record for one driver. Changelog and commit
// lookups degrade independently to Unknown.
func (e *Enumerator) resolveDriver(ctx context.Context, name string) drivers.Record {
	record := drivers.Record{
		Name:    name,
		Version: changelog.VersionUnknown,
		GitInfo: drivers.Unknown,
	}

	content, found := e.fetchChangelog(ctx, name)
	if found {
		record.ChangelogFound = true
		// The changelog path on this host is singular and fixed.
		record.ChangelogBranch = "master"
		record.ChangelogPath = fmt.Sprintf("debian/%s/changelog", name)
		record.Version = changelog.ExtractVersion(content)
	}

	gitInfo, err := e.fetchLatestCommit(ctx, name)
	if err != nil {
		e.log.Warn("error fetching commit data for driver", "driver", name, "error", err)
		return record
	}
	record.GitInfo = gitInfo

	return record
}

// fetchChangelog retrieves debian/<name>/changelog via the contents API,
// following the download_url it reports.
func (e *Enumerator) fetchChangelog(ctx context.Context, name string) (string, bool) {
	url := fmt.Sprintf("%s/contents/debian/%s/changelog", e.baseURL, name)
	res, err := e.client.Get(ctx, url, nil)
	if err != nil || !res.OK() {
		e.log.Warn("changelog not found for driver", "driver", name)
		return "", false
	}

	var file contentFile
	if err := json.Unmarshal(res.Body, &file); err != nil || file.DownloadURL == "" {
		e.log.Warn("changelog response has unexpected format", "driver", name)
		return "", false
	}

	raw, err := e.client.Get(ctx, file.DownloadURL, nil)
	if err != nil || !raw.OK() {
		e.log.Warn("error downloading changelog", "driver", name, "error", err)
		return "", false
	}
	return string(raw.Body), true
}

// fetchLatestCommit returns the formatted git info for the most recent
// commit touching the driver's directory.
func (e *Enumerator) fetchLatestCommit(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/commits?path=%s&per_page=1", e.baseURL, name)
	res, err := e.client.Get(ctx, url, nil)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var commits []commitInfo
	if err := json.Unmarshal(res.Body, &commits); err != nil {
		return "", fmt.Errorf("parsing commit listing: %w", err)
	}
	if len(commits) == 0 {
		return drivers.Unknown, nil
	}

	date, err := time.Parse(commitDateLayout, commits[0].Commit.Committer.Date)
	if err != nil {
		return "", fmt.Errorf("parsing commit date: %w", err)
	}
	return drivers.GitInfo(date, commits[0].SHA, hashPrefixLen), nil
}
