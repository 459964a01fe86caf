package cache

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"

	"github.com/stackmuncher/stm-app/internal/gitcli"
	"github.com/stackmuncher/stm-app/internal/rules"
)

// BlobVersion is what the reuse policy needs to know about one blob in
// the current tree: the path it lives at and the commit that introduced
// that content version.
type BlobVersion struct {
	Path       string
	CommitSha1 string
}

// HashLogSha1s returns the sha1 of the concatenation of sha1 strings in
// order, used both as the report's log_hash (over the whole log, HEAD
// included) and, here, to re-derive it for single-commit detection.
func HashLogSha1s(sha1s []string) string {
	h := sha1.New() //nolint:gosec

	for _, s := range sha1s {
		h.Write([]byte(s))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// PerFileReusable reports whether a cached per-file Tech for filePath at
// cachedCommitSha1, produced by a muncher with hash cachedMuncherHash, can
// be reused verbatim: the path must still be present in the current tree
// at the same commit, and the muncher that applies to it today must hash
// the same as it did when the cached record was produced.
func PerFileReusable(
	current map[string]BlobVersion, reg *rules.Registry,
	filePath, cachedCommitSha1 string, cachedMuncherHash uint64,
) bool {
	bv, ok := current[filePath]
	if !ok {
		return false
	}

	if bv.CommitSha1 != cachedCommitSha1 {
		return false
	}

	m, ok, err := reg.GetMuncher(filePath)
	if err != nil || !ok {
		return false
	}

	return m.Hash == cachedMuncherHash
}

// AggregateReusable reports whether a cached aggregate Tech with the given
// muncher hash may be retained as-is: true unless that hash appears among
// munchers that produced changed per-file data this run.
func AggregateReusable(muncherHash uint64, changedMuncherHashes map[uint64]bool) bool {
	return !changedMuncherHashes[muncherHash]
}

// HasContentOrMuncherChanges reports whether re-running the engine against
// files (the current tree's blobs) could produce a report different from
// oldMuncherHashes + oldReportCommitSha1 — i.e. whether full reclassification
// is required. It returns true (must reprocess) whenever:
//   - there is no old report commit sha1 to compare against, or it differs
//     from the current HEAD;
//   - any file's applicable muncher today has a hash not present among the
//     munchers that contributed to the old report.
//
// oldMuncherHashes is the set of tech.muncher_hash values (>0) recorded in
// the old report's aggregate Tech list.
func HasContentOrMuncherChanges(
	reg *rules.Registry, headSha1 gitcli.Hash, oldReportCommitSha1 string,
	oldMuncherHashes map[uint64]bool, currentPaths []string,
) bool {
	if oldReportCommitSha1 == "" || headSha1.String() != oldReportCommitSha1 {
		return true
	}

	for _, path := range currentPaths {
		m, ok, err := reg.GetMuncher(path)
		if err != nil || !ok {
			continue
		}

		if !oldMuncherHashes[m.Hash] {
			return true
		}
	}

	return false
}

// IsSingleCommit reports whether the new head's parent equals the
// previously reported commit and the remaining log (everything after the
// new head) is unchanged, per the single-commit fast path: oldReportSha1
// must equal currentLogTail's first entry's sha1 and oldLogHash must equal
// the sha1 hash of every sha1 in currentLogTail.
func IsSingleCommit(oldReportSha1, oldLogHash string, currentLogTail []string) bool {
	if len(currentLogTail) == 0 {
		return false
	}

	if oldReportSha1 == "" || oldLogHash == "" {
		return false
	}

	if oldReportSha1 != currentLogTail[0] {
		return false
	}

	return oldLogHash == HashLogSha1s(currentLogTail)
}
