package engine

import (
	"context"
	"fmt"

	"github.com/stackmuncher/stm-app/internal/cache"
	"github.com/stackmuncher/stm-app/internal/classify"
	"github.com/stackmuncher/stm-app/internal/gitcli"
	"github.com/stackmuncher/stm-app/internal/report"
	"github.com/stackmuncher/stm-app/internal/rules"
	"github.com/stackmuncher/stm-app/internal/tech"
)

// buildContributors groups commits into per-contributor records and
// produces each contributor's finalized report: touched files are fetched
// (grouped by commit, to minimize git calls) at the commit that last
// changed them for that contributor and classified; the blob content cache
// is what makes this cheap on a rerun, since most touched-file blobs were
// already fetched while building the project's own per-file tech.
func buildContributors(
	ctx context.Context, repo *gitcli.Repository, reg *rules.Registry, blobCache *cache.BlobCache,
	commits []gitcli.CommitEntry, projectReport *report.Report, _ *report.Report,
) ([]*report.Contributor, error) {
	contributors := report.GroupContributors(commits)

	for _, ctr := range contributors {
		byCommit := make(map[string][]report.TouchedFile)
		for _, f := range ctr.TouchedFiles {
			byCommit[f.CommitSha1] = append(byCommit[f.CommitSha1], f)
		}

		perFileTech := make([]*tech.Tech, 0, len(ctr.TouchedFiles))

		for commitSha1, files := range byCommit {
			entries, err := repo.ListTreeBlobs(ctx, commitSha1)
			if err != nil {
				return nil, fmt.Errorf("listing tree at %s: %w", commitSha1, err)
			}

			byPath := make(map[string]gitcli.TreeEntry, len(entries))
			for _, e := range entries {
				byPath[e.Path] = e
			}

			for _, f := range files {
				entry, ok := byPath[f.Path]
				if !ok {
					continue
				}

				m, ok, muncherErr := reg.GetMuncher(f.Path)
				if muncherErr != nil || !ok {
					continue
				}

				content, hit := blobCache.Get(entry.Hash)
				if !hit {
					raw, blobErr := repo.BlobContents(ctx, entry.Hash)
					if blobErr != nil {
						continue
					}

					blobCache.Put(entry.Hash, raw)
					content = raw
				}

				text := classify.DecodeText(content)
				t := classify.File(m, text, f.Path, commitSha1, f.CommitEpoch, f.CommitDateISO)
				perFileTech = append(perFileTech, t)
			}
		}

		ctr.Finalize(
			perFileTech, projectReport.Tech, len(contributors), len(commits),
			projectReport.DateInit, projectReport.DateHead, "",
		)
	}

	return contributors, nil
}
