// Package report implements the Report record, its JSON serialization,
// commit-time histograms, overviews and the canonical on-disk location
// reports for a project are grouped under.
package report

import (
	"crypto/sha1" //nolint:gosec // directory fingerprint, not a security boundary
	"encoding/hex"
	"regexp"
	"strings"
)

// maxDirNameBytes is the ceiling a canonical project directory name is
// truncated to.
const maxDirNameBytes = 250

var nonAlphaNumRun = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// CanonicalProjectDir derives the directory name reports for
// absProjectPath are grouped under: non-alphanumeric runs collapse to a
// single '_', the result is lowercased and trimmed of leading/trailing
// '_', then an 8-hex-char sha1 prefix of that normalized string is
// appended. If the result exceeds maxDirNameBytes, leading '_'-separated
// segments are dropped until it fits.
func CanonicalProjectDir(absProjectPath string) string {
	normalized := strings.Trim(nonAlphaNumRun.ReplaceAllString(absProjectPath, "_"), "_")
	normalized = strings.ToLower(normalized)

	sum := sha1.Sum([]byte(normalized)) //nolint:gosec
	suffix := hex.EncodeToString(sum[:])[:8]

	dirName := normalized + "_" + suffix

	return truncateDirName(dirName, suffix)
}

// truncateDirName drops leading "_"-separated segments from dirName until
// it is at most maxDirNameBytes, always preserving the hash suffix.
func truncateDirName(dirName, suffix string) string {
	for len(dirName) > maxDirNameBytes {
		segments := strings.SplitN(dirName, "_", 2)
		if len(segments) < 2 {
			// Nothing left to drop; truncate hard, keeping the suffix.
			keep := maxDirNameBytes - len(suffix) - 1
			if keep < 0 {
				keep = 0
			}

			return dirName[:keep] + "_" + suffix
		}

		dirName = segments[1]
	}

	return dirName
}
