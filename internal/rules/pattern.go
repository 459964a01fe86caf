package rules

import (
	"fmt"
	"regexp"
)

// PatternSet is a named group of regular expressions compiled from a
// muncher's JSON definition. Each category (line comments, doc comments,
// refs, ...) compiles to its own PatternSet.
type PatternSet struct {
	Name     string
	Patterns []string
	compiled []*regexp.Regexp
}

// NewPatternSet compiles every pattern in patterns. If any single pattern
// fails to compile, the whole set is rejected: a muncher with one bad
// regex is entirely unusable rather than partially usable, matching the
// strict definition-loading behaviour the newer rule format uses.
func NewPatternSet(name string, patterns []string) (PatternSet, error) {
	ps := PatternSet{Name: name, Patterns: patterns}
	if len(patterns) == 0 {
		return ps, nil
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return PatternSet{}, fmt.Errorf("pattern set %s: compiling %q: %w", name, p, err)
		}

		compiled = append(compiled, re)
	}

	ps.compiled = compiled

	return ps, nil
}

// Match returns the first regexp in the set that matches line, and its
// full submatch slice, or ok=false if nothing in the set matches.
func (ps PatternSet) Match(line string) (re *regexp.Regexp, groups []string, ok bool) {
	for _, re := range ps.compiled {
		if m := re.FindStringSubmatch(line); m != nil {
			return re, m, true
		}
	}

	return nil, nil, false
}

// MatchAll returns the submatch groups for every pattern in the set that
// matches line, in pattern order. Unlike Match, this does not stop at the
// first hit: a line can satisfy several independent keyword/ref/package
// patterns in the same category.
func (ps PatternSet) MatchAll(line string) [][]string {
	var all [][]string

	for _, re := range ps.compiled {
		if m := re.FindStringSubmatch(line); m != nil {
			all = append(all, m)
		}
	}

	return all
}

// Empty reports whether the set has no patterns, meaning the muncher
// defines no rule for this category and lines never match it.
func (ps PatternSet) Empty() bool {
	return len(ps.compiled) == 0
}
