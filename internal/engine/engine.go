// Package engine orchestrates one report run: listing the tree at HEAD,
// filtering ignored paths, resolving munchers, reusing cached per-file tech
// where the cache-reuse policy allows it, classifying the remaining blobs,
// rolling everything up into a Report, and deriving contributor reports.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stackmuncher/stm-app/internal/cache"
	"github.com/stackmuncher/stm-app/internal/classify"
	"github.com/stackmuncher/stm-app/internal/gitcli"
	"github.com/stackmuncher/stm-app/internal/kwc"
	"github.com/stackmuncher/stm-app/internal/report"
	"github.com/stackmuncher/stm-app/internal/rules"
	"github.com/stackmuncher/stm-app/internal/tech"
)

// Options configures one Run.
type Options struct {
	// RepoPath is the working directory of the git repository to analyze.
	RepoPath string

	// OldReport is the previously generated report for this project, if
	// any; nil means a fresh, cache-empty run.
	OldReport *report.Report

	// BlobCacheSize bounds the in-memory blob content cache; 0 selects
	// cache.DefaultBlobCacheSize.
	BlobCacheSize int64

	// Now is the time the report is stamped with; exposed for deterministic
	// tests, defaulting to time.Now() when zero.
	Now time.Time

	Logger *slog.Logger
}

// Run executes one full engine pass against opts.RepoPath and returns the
// resulting Report.
func Run(ctx context.Context, opts Options) (*report.Report, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repo, err := gitcli.OpenRepository(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	reg, err := rules.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	logEntries, headSha1, err := repo.Log(ctx, gitcli.LogOptions{}, reg.ShouldIgnore)
	if err != nil {
		return nil, fmt.Errorf("reading commit log: %w", err)
	}

	treeEntries, err := repo.ListTreeBlobs(ctx, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("listing tree: %w", err)
	}

	r := report.New(now)
	r.ReportCommitSha1 = headSha1.String()

	logSha1s := make([]string, 0, len(logEntries))
	for _, c := range logEntries {
		logSha1s = append(logSha1s, c.Sha1.String())
	}

	r.LogHash = cache.HashLogSha1s(logSha1s)

	if len(logEntries) > 0 {
		r.DateHead = logEntries[0].DateISO
		r.DateInit = logEntries[len(logEntries)-1].DateISO
	}

	blobVersions, lastTouch, treeFiles := buildBlobVersions(treeEntries, logEntries, reg)
	r.TreeFiles = treeFiles

	oldMuncherHashes := oldMuncherHashSet(opts.OldReport)

	needsReprocess := true
	if opts.OldReport != nil {
		needsReprocess = cache.HasContentOrMuncherChanges(
			reg, headSha1, opts.OldReport.ReportCommitSha1, oldMuncherHashes, treeFiles,
		)
		logger.DebugContext(ctx, "old report compared", "needs_reprocess", needsReprocess)
	}

	oldPerFile := oldPerFileIndex(opts.OldReport)

	blobCache := cache.NewBlobCache(opts.BlobCacheSize)

	var unprocessed []string

	unknownTypes := make(kwc.Counter)

	for _, entry := range treeEntries {
		if reg.ShouldIgnore(entry.Path) {
			continue
		}

		m, ok, matchErr := reg.GetMuncher(entry.Path)
		if matchErr != nil {
			logger.WarnContext(ctx, "muncher load failed", "path", entry.Path, "error", matchErr)
			unprocessed = append(unprocessed, entry.Path)

			continue
		}

		if !ok {
			if kw, valid := kwc.NewKeyword(extensionOrPath(entry.Path)); valid {
				unknownTypes.Add(kw)
			}

			unprocessed = append(unprocessed, entry.Path)

			continue
		}

		bv := blobVersions[entry.Path]

		if opts.OldReport != nil {
			if old, ok := oldPerFile[entry.Path]; ok &&
				cache.PerFileReusable(blobVersions, reg, entry.Path, old.CommitSha1, old.MuncherHash) {
				r.PerFileTech = append(r.PerFileTech, old)
				r.MergeAggregate(old)

				continue
			}
		}

		content, hit := blobCache.Get(entry.Hash)
		if !hit {
			raw, blobErr := repo.BlobContents(ctx, entry.Hash)
			if blobErr != nil {
				logger.WarnContext(ctx, "blob fetch failed", "path", entry.Path, "error", blobErr)
				unprocessed = append(unprocessed, entry.Path)

				continue
			}

			blobCache.Put(entry.Hash, raw)
			content = raw
		}

		text := classify.DecodeText(content)

		var commitEpoch int64

		var commitDateISO string

		if c, ok := lastTouch[entry.Path]; ok {
			commitEpoch = c.EpochSeconds
			commitDateISO = c.DateISO
		}

		t := classify.File(m, text, entry.Path, bv.CommitSha1, commitEpoch, commitDateISO)
		r.PerFileTech = append(r.PerFileTech, t)
		r.MergeAggregate(t)
	}

	r.UnprocessedFileNames = unprocessed
	r.UnknownFileTypes = unknownTypes.Values()

	contributors, err := buildContributors(ctx, repo, reg, blobCache, logEntries, r, opts.OldReport)
	if err != nil {
		return nil, fmt.Errorf("building contributor reports: %w", err)
	}

	r.Contributors = contributors

	r.CommitCountProject = len(logEntries)

	commitEpochs := make([]int64, 0, len(logEntries))
	for _, c := range logEntries {
		commitEpochs = append(commitEpochs, c.EpochSeconds)
	}

	recent, all := report.BuildHistograms(commitEpochs, now)
	r.CommitTimeHistoRecent = &recent
	r.CommitTimeHistoAll = &all

	if opts.OldReport != nil && len(logSha1s) > 0 {
		r.IsSingleCommit = cache.IsSingleCommit(opts.OldReport.ReportCommitSha1, opts.OldReport.LogHash, logSha1s[1:])
	}

	r.FinalizeOverview("")

	return r, nil
}

// buildBlobVersions pairs each tree path with the most recent commit (by log order,
// newest first) that touched it, matching the cache-reuse layer's notion of
// "the commit that introduced this content version".
func buildBlobVersions(
	treeEntries []gitcli.TreeEntry, logEntries []gitcli.CommitEntry, reg *rules.Registry,
) (versions map[string]cache.BlobVersion, lastTouch map[string]gitcli.CommitEntry, paths []string) {
	lastTouch = make(map[string]gitcli.CommitEntry)

	// logEntries is newest-first; record only the first (i.e. newest)
	// commit seen per path.
	for _, c := range logEntries {
		for _, p := range c.FilePaths {
			if _, ok := lastTouch[p]; !ok {
				lastTouch[p] = c
			}
		}
	}

	versions = make(map[string]cache.BlobVersion, len(treeEntries))
	paths = make([]string, 0, len(treeEntries))

	for _, entry := range treeEntries {
		if reg.ShouldIgnore(entry.Path) {
			continue
		}

		paths = append(paths, entry.Path)

		if c, ok := lastTouch[entry.Path]; ok {
			versions[entry.Path] = cache.BlobVersion{Path: entry.Path, CommitSha1: c.Sha1.String()}
		} else {
			versions[entry.Path] = cache.BlobVersion{Path: entry.Path}
		}
	}

	return versions, lastTouch, paths
}

func oldMuncherHashSet(old *report.Report) map[uint64]bool {
	set := make(map[uint64]bool)
	if old == nil {
		return set
	}

	for _, t := range old.Tech {
		if t.MuncherHash > 0 {
			set[t.MuncherHash] = true
		}
	}

	return set
}

func oldPerFileIndex(old *report.Report) map[string]*tech.Tech {
	idx := make(map[string]*tech.Tech)
	if old == nil {
		return idx
	}

	for _, t := range old.PerFileTech {
		idx[t.FilePath] = t
	}

	return idx
}

func extensionOrPath(path string) string {
	token, ok := rules.ExtensionToken(path)
	if ok {
		return token
	}

	return path
}
