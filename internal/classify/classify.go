package classify

import (
	"strings"

	"github.com/stackmuncher/stm-app/internal/kwc"
	"github.com/stackmuncher/stm-app/internal/rules"
	"github.com/stackmuncher/stm-app/internal/tech"
)

// File classifies the decoded text of one blob against m, returning a
// per-file Tech. An empty or entirely undecodable blob yields a Tech with
// every counter at zero and Files=1, never an error: decoding failures
// are a per-blob skip condition handled by the caller, not by File.
func File(
	m rules.Muncher, text string,
	filePath, commitSha1 string, commitEpoch int64, commitDateISO string,
) *tech.Tech {
	t := tech.NewPerFile(m.Language, m.Name, m.Hash, filePath, commitSha1, commitEpoch, commitDateISO)

	if text == "" {
		return t
	}

	insideBlock := false

	for _, line := range splitLines(text) {
		t.TotalLines++

		switch {
		case insideBlock:
			t.BlockComments++

			if _, _, ok := m.BlockCommentsEnd.Match(line); ok {
				insideBlock = false
			}

		case matchesAny(m.BlockCommentsStart, line):
			t.BlockComments++

			if _, _, ok := m.BlockCommentsEnd.Match(line); !ok {
				insideBlock = true
			}

		case matchesAny(m.DocComments, line):
			t.DocComments++

		case matchesAny(m.LineComments, line):
			t.LineComments++

		case matchesAny(m.InlineComments, line):
			t.InlineComments++

		case matchesAny(m.BracketOnly, line):
			t.BracketOnlyLines++

		case matchesAny(m.BlankLine, line):
			t.BlankLines++

		default:
			t.CodeLines++
			accumulate(m.Refs, line, t.Refs, true)
			accumulate(m.Packages, line, t.Packages, true)
			accumulate(m.Keywords, line, t.Keywords, false)
		}
	}

	return t
}

func matchesAny(ps rules.PatternSet, line string) bool {
	_, _, ok := ps.Match(line)

	return ok
}

// splitLines splits text on line feeds, trimming a trailing carriage
// return per line so CRLF source files classify the same as LF ones.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))

	for _, l := range raw {
		out = append(out, strings.TrimSuffix(l, "\r"))
	}

	// A trailing newline produces one extra empty element that was never
	// really a line in the file.
	if len(out) > 0 && out[len(out)-1] == "" && strings.HasSuffix(text, "\n") {
		out = out[:len(out)-1]
	}

	return out
}

// accumulate runs every pattern in ps against line and, for each match,
// routes the captured key into dst as either a ref (split at the first
// non-identifier byte) or a plain keyword. A line can satisfy several
// independent patterns in the same category (e.g. two import syntaxes),
// so every pattern is tried rather than stopping at the first hit.
func accumulate(ps rules.PatternSet, line string, dst kwc.Counter, asRef bool) {
	for _, groups := range ps.MatchAll(line) {
		key := captureKey(groups)

		var (
			kw    kwc.Keyword
			valid bool
		)

		if asRef {
			kw, valid = kwc.NewRef(key)
		} else {
			kw, valid = kwc.NewKeyword(key)
		}

		if valid {
			dst.Add(kw)
		}
	}
}

// captureKey derives the match key per the muncher capture rule: if the
// regex has explicit capture groups, join every captured group (skipping
// group 0, the full match) with a single space and trim; otherwise use
// the full match verbatim.
func captureKey(groups []string) string {
	if len(groups) <= 1 {
		return strings.TrimSpace(groups[0])
	}

	parts := make([]string, 0, len(groups)-1)

	for _, g := range groups[1:] {
		if g != "" {
			parts = append(parts, g)
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}
