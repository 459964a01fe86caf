package rules

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// MuncherDef is the JSON shape a muncher definition file is decoded into
// before its pattern strings are compiled. Field names match the keys
// used in the on-disk rule files.
type MuncherDef struct {
	MuncherName        string   `json:"muncher_name"`
	Language           string   `json:"language"`
	Keywords           []string `json:"keywords,omitempty"`
	BracketOnly        []string `json:"bracket_only,omitempty"`
	LineComments       []string `json:"line_comments,omitempty"`
	InlineComments     []string `json:"inline_comments,omitempty"`
	DocComments        []string `json:"doc_comments,omitempty"`
	BlockCommentsStart []string `json:"block_comments_start,omitempty"`
	BlockCommentsEnd   []string `json:"block_comments_end,omitempty"`
	Refs               []string `json:"refs,omitempty"`
	Packages           []string `json:"packages,omitempty"`
}

// blankLinePattern is always present in every muncher regardless of its
// JSON definition: a line of only whitespace is never language-specific.
const blankLinePattern = `^\s*$`

// Muncher is a MuncherDef with every pattern category compiled, plus a
// 64-bit content hash that changes whenever any of its patterns or its
// language label change. Reports record the hash of the muncher that
// produced each Tech entry so a later run can tell whether re-classifying
// a file would actually change the result.
type Muncher struct {
	Name     string
	Language string
	Hash     uint64

	Keywords           PatternSet
	BracketOnly        PatternSet
	LineComments       PatternSet
	InlineComments     PatternSet
	DocComments        PatternSet
	BlockCommentsStart PatternSet
	BlockCommentsEnd   PatternSet
	Refs               PatternSet
	Packages           PatternSet
	BlankLine          PatternSet
}

// Compile builds a Muncher from def. Any single pattern that fails to
// compile rejects the entire definition: a muncher is all-or-nothing, it
// is never partially loaded.
func Compile(name string, def MuncherDef) (Muncher, error) {
	m := Muncher{Name: name, Language: def.Language}

	sets := []struct {
		dst  *PatternSet
		cat  string
		pats []string
	}{
		{&m.Keywords, "keywords", def.Keywords},
		{&m.BracketOnly, "bracket_only", def.BracketOnly},
		{&m.LineComments, "line_comments", def.LineComments},
		{&m.InlineComments, "inline_comments", def.InlineComments},
		{&m.DocComments, "doc_comments", def.DocComments},
		{&m.BlockCommentsStart, "block_comments_start", def.BlockCommentsStart},
		{&m.BlockCommentsEnd, "block_comments_end", def.BlockCommentsEnd},
		{&m.Refs, "refs", def.Refs},
		{&m.Packages, "packages", def.Packages},
	}

	for _, s := range sets {
		ps, err := NewPatternSet(s.cat, s.pats)
		if err != nil {
			return Muncher{}, fmt.Errorf("muncher %s: %w", name, err)
		}

		*s.dst = ps
	}

	blank, err := NewPatternSet("blank_line", []string{blankLinePattern})
	if err != nil {
		return Muncher{}, fmt.Errorf("muncher %s: %w", name, err)
	}

	m.BlankLine = blank
	m.Hash = contentHash(def)

	return m, nil
}

// contentHash derives a stable 64-bit hash over the muncher's language and
// every pattern string, in field-declaration order, so that changing any
// single pattern (including adding or removing one) changes the hash.
func contentHash(def MuncherDef) uint64 {
	h := xxhash.New()

	write := func(s string) {
		var length [8]byte
		binary.LittleEndian.PutUint64(length[:], uint64(len(s)))
		h.Write(length[:])
		h.Write([]byte(s))
	}

	write(def.Language)

	for _, group := range [][]string{
		def.Keywords, def.BracketOnly, def.LineComments, def.InlineComments,
		def.DocComments, def.BlockCommentsStart, def.BlockCommentsEnd,
		def.Refs, def.Packages,
	} {
		write(fmt.Sprintf("%d", len(group)))

		for _, p := range group {
			write(p)
		}
	}

	return h.Sum64()
}
