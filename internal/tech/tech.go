// Package tech implements the Tech record: the per-file and aggregate
// language summary the rest of the engine builds, merges and rolls up.
package tech

import (
	"maps"

	"github.com/stackmuncher/stm-app/internal/kwc"
)

// Tech is a per-file or aggregate language summary. Per-file records carry
// FilePath/CommitSha1/CommitEpoch/CommitDateISO; aggregate records have
// those fields cleared and Files holds the summed file count instead of 1.
type Tech struct {
	Language    string `json:"language"`
	MuncherName string `json:"muncher_name"`
	MuncherHash uint64 `json:"muncher_hash"`

	FilePath      string `json:"file_path,omitempty"`
	CommitSha1    string `json:"commit_sha1,omitempty"`
	CommitEpoch   int64  `json:"commit_epoch,omitempty"`
	CommitDateISO string `json:"commit_date,omitempty"`

	Files             int `json:"files"`
	TotalLines        int `json:"total_lines"`
	BlankLines        int `json:"blank_lines"`
	BracketOnlyLines  int `json:"bracket_only_lines"`
	CodeLines         int `json:"code_lines"`
	LineComments      int `json:"line_comments"`
	InlineComments    int `json:"inline_comments"`
	BlockComments     int `json:"block_comments"`
	DocComments       int `json:"doc_comments"`

	Keywords kwc.Counter `json:"keywords,omitempty"`
	Refs     kwc.Counter `json:"refs,omitempty"`
	Packages kwc.Counter `json:"packages,omitempty"`

	// RefsKw and PkgsKw are derived from Refs/Packages only at final
	// rollup (see Split); per-file and mid-aggregation Tech values never
	// populate them.
	RefsKw kwc.Counter `json:"refs_kw,omitempty"`
	PkgsKw kwc.Counter `json:"pkgs_kw,omitempty"`
}

// NewPerFile returns an empty per-file Tech for one classification pass.
func NewPerFile(language, muncherName string, muncherHash uint64, filePath, commitSha1 string, commitEpoch int64, commitDateISO string) *Tech {
	return &Tech{
		Language:      language,
		MuncherName:   muncherName,
		MuncherHash:   muncherHash,
		FilePath:      filePath,
		CommitSha1:    commitSha1,
		CommitEpoch:   commitEpoch,
		CommitDateISO: commitDateISO,
		Files:         1,
		Keywords:      make(kwc.Counter),
		Refs:          make(kwc.Counter),
		Packages:      make(kwc.Counter),
	}
}

// AggregateKey identifies an aggregate Tech's slot: language + muncher.
type AggregateKey struct {
	MuncherName string
	Language    string
}

// Key returns t's aggregate key.
func (t *Tech) Key() AggregateKey {
	return AggregateKey{MuncherName: t.MuncherName, Language: t.Language}
}

// CheckTotal reports whether the invariant total_lines = blank +
// bracket_only + code + line_comments + inline_comments + doc + block
// holds for t.
func (t *Tech) CheckTotal() bool {
	return t.TotalLines == t.BlankLines+t.BracketOnlyLines+t.CodeLines+
		t.LineComments+t.InlineComments+t.DocComments+t.BlockComments
}

// ToAggregate returns a copy of t with file-identifying fields cleared,
// ready to seed or merge into an aggregate Tech.
func (t *Tech) ToAggregate() *Tech {
	agg := *t
	agg.FilePath = ""
	agg.CommitSha1 = ""
	agg.CommitEpoch = 0
	agg.CommitDateISO = ""

	for _, c := range []*kwc.Counter{&agg.Keywords, &agg.Refs, &agg.Packages} {
		if *c == nil {
			continue
		}

		cp := make(kwc.Counter, len(*c))
		for k, kw := range *c {
			kw.T = maps.Clone(kw.T)
			cp[k] = kw
		}

		*c = cp
	}

	return &agg
}

// Merge folds other into t: all integer counters add, and keyword/ref/pkg
// counter sets union with summed per-key counts. t keeps its own
// MuncherHash, Language and MuncherName; callers are responsible for only
// merging Techs that share an aggregate key (or have cleared MuncherName
// first, for language-only rollups).
func (t *Tech) Merge(other *Tech) {
	t.Files += other.Files
	t.TotalLines += other.TotalLines
	t.BlankLines += other.BlankLines
	t.BracketOnlyLines += other.BracketOnlyLines
	t.CodeLines += other.CodeLines
	t.LineComments += other.LineComments
	t.InlineComments += other.InlineComments
	t.BlockComments += other.BlockComments
	t.DocComments += other.DocComments

	if t.Keywords == nil {
		t.Keywords = make(kwc.Counter)
	}

	if t.Refs == nil {
		t.Refs = make(kwc.Counter)
	}

	if t.Packages == nil {
		t.Packages = make(kwc.Counter)
	}

	t.Keywords.Merge(other.Keywords)
	t.Refs.Merge(other.Refs)
	t.Packages.Merge(other.Packages)
}

// ClearMuncherName blanks the muncher name, used before merging two
// reports' aggregate Techs purely by language (contributor finalization).
func (t *Tech) ClearMuncherName() {
	t.MuncherName = ""
}

// minSplitComponentLen is the shortest substring kept when deriving
// refs_kw/pkgs_kw from a dotted reference or package key.
const minSplitComponentLen = 3

// Split derives RefsKw from Refs and PkgsKw from Packages: each key is
// split on '.', and every resulting component longer than 2 characters is
// recorded with the parent key's count (not per-occurrence). This must
// only be called once, at final rollup.
func (t *Tech) Split() {
	t.RefsKw = splitCounter(t.Refs)
	t.PkgsKw = splitCounter(t.Packages)
}

func splitCounter(src kwc.Counter) kwc.Counter {
	if len(src) == 0 {
		return nil
	}

	out := make(kwc.Counter)

	for _, kw := range src {
		for _, part := range splitDot(kw.K) {
			if len(part) <= minSplitComponentLen-1 {
				continue
			}

			out.Add(kwc.Keyword{K: part, C: kw.C})
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

func splitDot(s string) []string {
	var parts []string

	start := 0

	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	parts = append(parts, s[start:])

	return parts
}
