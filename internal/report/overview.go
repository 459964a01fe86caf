package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/stackmuncher/stm-app/internal/tech"
)

// TechOverview is a per-language abridgement of an aggregate Tech: lines of
// code, a library count, and the language's share of the project's total LOC.
type TechOverview struct {
	Language      string `json:"language"`
	LOC           int    `json:"loc"`
	Libs          int    `json:"libs"`
	LOCPercentage int    `json:"loc_percentage"`
}

// ProjectReportOverview summarizes a Report for display without loading the
// full tech and per-file tech lists.
type ProjectReportOverview struct {
	ProjectName string `json:"project_name"`

	DateInit string `json:"date_init,omitempty"`
	DateHead string `json:"date_head,omitempty"`

	ContributorFirstCommit string `json:"contributor_first_commit,omitempty"`
	ContributorLastCommit  string `json:"contributor_last_commit,omitempty"`

	LOC  int `json:"loc"`
	Libs int `json:"libs"`

	LOCProject  int `json:"loc_project"`
	LibsProject int `json:"libs_project"`

	People             int `json:"ppl"`
	CommitCount        int `json:"commit_count"`
	CommitCountProject int `json:"commit_count_project"`

	Tech []TechOverview `json:"tech"`
}

// BuildTechOverview reduces aggs (one or more aggregate Tech, possibly many
// munchers per language) into one TechOverview per language, summing LOC and
// libs across munchers that share a language, and computing each language's
// percentage of total LOC.
func BuildTechOverview(aggs []*tech.Tech) []TechOverview {
	byLang := make(map[string]*TechOverview)

	order := make([]string, 0)

	for _, t := range aggs {
		o, ok := byLang[t.Language]
		if !ok {
			o = &TechOverview{Language: t.Language}
			byLang[t.Language] = o
			order = append(order, t.Language)
		}

		o.LOC += t.CodeLines
		o.Libs += t.Refs.Len() + t.Packages.Len()
	}

	totalLOC := 0
	for _, o := range byLang {
		totalLOC += o.LOC
	}

	if totalLOC == 0 {
		totalLOC = 1
	}

	out := make([]TechOverview, 0, len(order))

	for _, lang := range order {
		o := byLang[lang]
		o.LOCPercentage = o.LOC * 100 / totalLOC
		out = append(out, *o)
	}

	return out
}

// BuildProjectOverview assembles a ProjectReportOverview from a report's
// aggregate tech, contributor count and commit metadata. dateInit/dateHead
// and the contributor commit dates are RFC 3339 timestamps; each is reset to
// midnight UTC in the result. An empty dateInit falls back to now when
// deriving the project name pseudonym.
func BuildProjectOverview(
	aggs []*tech.Tech, peopleCount, commitCountProject int,
	dateInit, dateHead, contributorFirstCommit, contributorLastCommit string,
	projectName string, loc, libs, commitCountContributor int,
) ProjectReportOverview {
	techOverview := BuildTechOverview(aggs)

	totalLOC, totalLibs := 0, 0
	for _, o := range techOverview {
		totalLOC += o.LOC
		totalLibs += o.Libs
	}

	if projectName == "" {
		projectName = ProjectNameFromDate(dateInit)
	}

	return ProjectReportOverview{
		ProjectName:            projectName,
		DateInit:               resetToMidnightUTC(dateInit),
		DateHead:               resetToMidnightUTC(dateHead),
		ContributorFirstCommit: resetToMidnightUTC(contributorFirstCommit),
		ContributorLastCommit:  resetToMidnightUTC(contributorLastCommit),
		LOC:                    loc,
		Libs:                   libs,
		LOCProject:             totalLOC,
		LibsProject:            totalLibs,
		People:                 peopleCount,
		CommitCount:            commitCountContributor,
		CommitCountProject:     commitCountProject,
		Tech:                   techOverview,
	}
}

// resetToMidnightUTC parses an RFC 3339 timestamp and returns it with the
// time component reset to 00:00:00 UTC. An empty or unparsable input returns
// "".
func resetToMidnightUTC(timestamp string) string {
	if timestamp == "" {
		return ""
	}

	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ""
	}

	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	return midnight.Format(time.RFC3339)
}

// daysAsLetters maps day-of-month (1-31) to a short letter code used in the
// generated project-name pseudonym, per ProjectNameFromDate.
var daysAsLetters = [31]string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t", "u", "v", "w",
	"x", "y", "z", "aa", "bb", "cc", "dd", "xx",
}

// ProjectNameFromDate derives a deterministic pseudonym from an RFC 3339
// date's ISO week, two-digit year and day-of-month letter code, e.g.
// "Private project #0821bb". An empty or unparsable date falls back to the
// current time.
func ProjectNameFromDate(date string) string {
	t := time.Now().UTC()

	if date != "" {
		if parsed, err := time.Parse(time.RFC3339, date); err == nil {
			t = parsed.UTC()
		}
	}

	_, week := t.ISOWeek()

	var weekStr string
	if week < 10 {
		weekStr = "0" + strconv.Itoa(week)
	} else {
		weekStr = strconv.Itoa(week)
	}

	yearStr := strconv.Itoa(t.Year())
	if len(yearStr) > 2 {
		yearStr = yearStr[len(yearStr)-2:]
	}

	dayLetter := daysAsLetters[t.Day()-1]

	var b strings.Builder

	b.WriteString("Private project #")
	b.WriteString(weekStr)
	b.WriteString(yearStr)
	b.WriteString(dayLetter)

	return b.String()
}
