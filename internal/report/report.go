package report

import (
	"time"

	"github.com/stackmuncher/stm-app/internal/kwc"
	"github.com/stackmuncher/stm-app/internal/tech"
)

// Report is the top-level record produced by one engine run: a project's
// aggregate and per-file tech, its contributors, and the commit-time and
// overview summaries derived from them. Fields that are empty collections or
// zero-value optional strings are omitted on serialization.
type Report struct {
	Tech        []*tech.Tech `json:"tech,omitempty"`
	PerFileTech []*tech.Tech `json:"per_file_tech,omitempty"`

	Timestamp string `json:"timestamp"`

	ReportCommitSha1 string `json:"report_commit_sha1,omitempty"`
	LogHash          string `json:"log_hash,omitempty"`

	DateInit string `json:"date_init,omitempty"`
	DateHead string `json:"date_head,omitempty"`

	Contributors []*Contributor `json:"contributors,omitempty"`

	TreeFiles            []string      `json:"tree_files,omitempty"`
	UnprocessedFileNames []string      `json:"unprocessed_file_names,omitempty"`
	UnknownFileTypes     []kwc.Keyword `json:"unknown_file_types,omitempty"`

	CommitTimeHistoRecent *Histogram `json:"commit_time_histo_recent,omitempty"`
	CommitTimeHistoAll    *Histogram `json:"commit_time_histo_all,omitempty"`

	IsSingleCommit bool `json:"is_single_commit,omitempty"`

	ContributorCount   int `json:"contributor_count,omitempty"`
	CommitCountProject int `json:"commit_count_project,omitempty"`

	Overview ProjectReportOverview `json:"overview"`
}

// New creates an empty Report stamped with the current time.
func New(now time.Time) *Report {
	return &Report{Timestamp: now.Format(time.RFC3339)}
}

// MergeAggregate folds t into the report's aggregate tech list, matching on
// (muncher_name, language), creating a new entry if none matches yet.
func (r *Report) MergeAggregate(t *tech.Tech) {
	agg := t.ToAggregate()
	key := agg.Key()

	for _, existing := range r.Tech {
		if existing.Key() == key {
			existing.Merge(agg)

			return
		}
	}

	r.Tech = append(r.Tech, agg)
}

// FinalizeOverview suppresses local-import references, derives every
// aggregate tech's refs_kw/pkgs_kw split, and assembles the report-level
// overview, people and commit counters.
func (r *Report) FinalizeOverview(projectName string) {
	for _, t := range r.Tech {
		t.RemoveLocalImports(r.TreeFiles)
	}

	for _, t := range r.Tech {
		t.Split()
	}

	loc, libs := 0, 0
	for _, t := range r.Tech {
		loc += t.CodeLines
		libs += t.Refs.Len() + t.Packages.Len()
	}

	r.ContributorCount = len(r.Contributors)

	commitCount := r.CommitCountProject
	if commitCount == 0 {
		for _, c := range r.Contributors {
			commitCount += c.CommitCount
		}

		r.CommitCountProject = commitCount
	}

	var (
		firstCommit, lastCommit string
		firstEpoch, lastEpoch   int64
		haveFirst, haveLast     bool
	)

	for _, c := range r.Contributors {
		if c.FirstCommitDateISO != "" && (!haveFirst || c.FirstCommitEpoch < firstEpoch) {
			firstCommit = c.FirstCommitDateISO
			firstEpoch = c.FirstCommitEpoch
			haveFirst = true
		}

		if c.LastCommitDateISO != "" && (!haveLast || c.LastCommitEpoch > lastEpoch) {
			lastCommit = c.LastCommitDateISO
			lastEpoch = c.LastCommitEpoch
			haveLast = true
		}
	}

	r.Overview = BuildProjectOverview(
		r.Tech, r.ContributorCount, r.CommitCountProject,
		r.DateInit, r.DateHead, firstCommit, lastCommit,
		projectName, loc, libs, r.CommitCountProject,
	)
}
