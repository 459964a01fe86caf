// Package kwc implements the keyword/reference counter used to tally how
// many times a classified line matches a muncher's keyword or ref pattern,
// and which distinct tail tokens were seen for each one.
package kwc

import (
	"encoding/json"
	"sort"
	"strings"
)

// isIdentByte reports whether b belongs to the reference identifier set
// [A-Za-z0-9._\-@]. The first byte in a match that is NOT in this set is
// where new_ref splits the head from its tail, so "std::collections::Map"
// splits at the first ':' (not an identifier byte) into k="std",
// t="::collections::Map".
func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '.' || b == '_' || b == '-' || b == '@':
		return true
	default:
		return false
	}
}

// Keyword is one distinct keyword or reference seen while classifying code
// lines, together with how many times it occurred (C) and, for references,
// the distinct tails it was seen with (T).
type Keyword struct {
	K string          `json:"k"`
	C uint64          `json:"c"`
	T map[string]bool `json:"-"`
}

// keywordJSON is Keyword's on-disk shape: T as a sorted array of strings
// rather than the internal map-as-set representation.
type keywordJSON struct {
	K string   `json:"k"`
	C uint64   `json:"c"`
	T []string `json:"t,omitempty"`
}

// MarshalJSON renders T as a sorted string array.
func (kw Keyword) MarshalJSON() ([]byte, error) {
	out := keywordJSON{K: kw.K, C: kw.C}

	if len(kw.T) > 0 {
		out.T = make([]string, 0, len(kw.T))
		for tail := range kw.T {
			out.T = append(out.T, tail)
		}

		sort.Strings(out.T)
	}

	return json.Marshal(out)
}

// UnmarshalJSON rebuilds T from its array form.
func (kw *Keyword) UnmarshalJSON(data []byte) error {
	var in keywordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	kw.K = in.K
	kw.C = in.C

	if len(in.T) > 0 {
		kw.T = make(map[string]bool, len(in.T))
		for _, tail := range in.T {
			kw.T[tail] = true
		}
	}

	return nil
}

// NewKeyword builds a Keyword from a full match with no tail splitting.
// Used for plain keyword regex hits, which are recorded verbatim.
func NewKeyword(match string) (Keyword, bool) {
	match = strings.TrimSpace(match)
	if match == "" {
		return Keyword{}, false
	}

	return Keyword{K: match, C: 1}, true
}

// NewRef builds a Keyword from a reference match, splitting it at the
// first byte that is not part of the reference identifier set into head
// (k) and tail (t, including the separator byte itself). A leading dot is
// stripped first, matching the convention that ".foo.bar" and "foo.bar"
// are the same reference.
func NewRef(match string) (Keyword, bool) {
	match = strings.TrimSpace(match)
	match = strings.TrimPrefix(match, ".")

	if match == "" {
		return Keyword{}, false
	}

	idx := -1

	for i := 0; i < len(match); i++ {
		if !isIdentByte(match[i]) {
			idx = i

			break
		}
	}

	if idx < 0 {
		return Keyword{K: match, C: 1}, true
	}

	head := match[:idx]
	tail := match[idx:]

	if head == "" {
		return Keyword{}, false
	}

	kw := Keyword{K: head, C: 1}
	if tail != "" {
		kw.T = map[string]bool{tail: true}
	}

	return kw, true
}

// Counter is a set of Keyword values keyed by K, as accumulated over a
// single file or merged across many files during aggregation.
type Counter map[string]Keyword

// Add inserts kw into the counter, incrementing C and unioning T with any
// existing entry for the same K.
func (c Counter) Add(kw Keyword) {
	existing, ok := c[kw.K]
	if !ok {
		c[kw.K] = kw

		return
	}

	existing.C += kw.C

	if len(kw.T) > 0 {
		if existing.T == nil {
			existing.T = make(map[string]bool, len(kw.T))
		}

		for tail := range kw.T {
			existing.T[tail] = true
		}
	}

	c[kw.K] = existing
}

// Merge unions other into c, summing counts and unioning tail sets for
// every shared key. This is the operation aggregation uses to combine
// per-blob counters into a per-file, per-contributor or per-project total.
func (c Counter) Merge(other Counter) {
	for _, kw := range other {
		c.Add(kw)
	}
}

// Len reports how many distinct keywords the counter holds.
func (c Counter) Len() int {
	return len(c)
}

// Values returns the counter's entries as a slice, sorted by key for
// deterministic output.
func (c Counter) Values() []Keyword {
	out := make([]Keyword, 0, len(c))
	for _, kw := range c {
		out = append(out, kw)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].K < out[j].K })

	return out
}

// MarshalJSON renders the counter as a sorted array of Keyword values,
// matching the report format's set-of-KeywordCount field shape rather
// than exposing the map representation used internally for merging.
func (c Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Values())
}

// UnmarshalJSON rebuilds the counter from an array of Keyword values.
func (c *Counter) UnmarshalJSON(data []byte) error {
	var values []Keyword
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	out := make(Counter, len(values))
	for _, kw := range values {
		out.Add(kw)
	}

	*c = out

	return nil
}
