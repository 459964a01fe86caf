package report

import (
	"sort"

	"github.com/stackmuncher/stm-app/internal/gitcli"
	"github.com/stackmuncher/stm-app/internal/tech"
)

// IdentityPair is one observed (name, email) combination for a contributor.
type IdentityPair struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TouchedFile records the last commit, for one contributor, that changed a
// given file.
type TouchedFile struct {
	Path          string `json:"path"`
	CommitSha1    string `json:"commit_sha1"`
	CommitEpoch   int64  `json:"commit_epoch"`
	CommitDateISO string `json:"commit_date"`
}

// Contributor is one project contributor's identity, commit history summary
// and the files they last touched.
type Contributor struct {
	// Identity is the contributor's chosen key: email if non-empty, else
	// name. Commits are grouped by this value.
	Identity string `json:"identity"`

	NamesAndEmails []IdentityPair `json:"names_and_emails"`

	LastCommitSha1    string `json:"last_commit_sha1"`
	LastCommitEpoch   int64  `json:"last_commit_epoch"`
	LastCommitDateISO string `json:"last_commit_date"`

	FirstCommitEpoch   int64  `json:"first_commit_epoch"`
	FirstCommitDateISO string `json:"first_commit_date"`

	CommitCount int `json:"commit_count"`

	TouchedFiles []TouchedFile `json:"touched_files,omitempty"`

	Tech []*tech.Tech `json:"tech,omitempty"`

	Overview ProjectReportOverview `json:"overview"`
}

// identity returns a CommitEntry's contributor key: the email if non-empty,
// else the name.
func identity(c gitcli.CommitEntry) string {
	if c.AuthorEmail != "" {
		return c.AuthorEmail
	}

	return c.AuthorName
}

// GroupContributors groups commits (newest first, as returned by
// Repository.Log) by chosen identity and builds one Contributor per group,
// with NamesAndEmails as the set of distinct (name,email) pairs observed,
// LastCommit fields set to the max-epoch commit, FirstCommit fields to the
// min-epoch commit, and TouchedFiles holding, per path, the most recent
// commit (by epoch) that changed it for that contributor. The result is
// sorted by Identity for deterministic output.
func GroupContributors(commits []gitcli.CommitEntry) []*Contributor {
	byIdentity := make(map[string]*Contributor)
	order := make([]string, 0)

	touchedAt := make(map[string]map[string]int64)

	for _, c := range commits {
		id := identity(c)

		ctr, ok := byIdentity[id]
		if !ok {
			ctr = &Contributor{Identity: id}
			byIdentity[id] = ctr
			order = append(order, id)
			touchedAt[id] = make(map[string]int64)
		}

		ctr.CommitCount++
		addIdentityPair(ctr, c.AuthorName, c.AuthorEmail)

		if c.EpochSeconds > ctr.LastCommitEpoch || ctr.LastCommitSha1 == "" {
			ctr.LastCommitSha1 = c.Sha1.String()
			ctr.LastCommitEpoch = c.EpochSeconds
			ctr.LastCommitDateISO = c.DateISO
		}

		if ctr.FirstCommitDateISO == "" || c.EpochSeconds < ctr.FirstCommitEpoch {
			ctr.FirstCommitEpoch = c.EpochSeconds
			ctr.FirstCommitDateISO = c.DateISO
		}

		seen := touchedAt[id]

		for _, path := range c.FilePaths {
			if last, ok := seen[path]; !ok || c.EpochSeconds > last {
				seen[path] = c.EpochSeconds
				setTouchedFile(ctr, path, c.Sha1.String(), c.EpochSeconds, c.DateISO)
			}
		}
	}

	sort.Strings(order)

	out := make([]*Contributor, 0, len(order))
	for _, id := range order {
		ctr := byIdentity[id]

		sort.Slice(ctr.TouchedFiles, func(i, j int) bool {
			return ctr.TouchedFiles[i].Path < ctr.TouchedFiles[j].Path
		})

		out = append(out, ctr)
	}

	return out
}

func addIdentityPair(ctr *Contributor, name, email string) {
	for _, p := range ctr.NamesAndEmails {
		if p.Name == name && p.Email == email {
			return
		}
	}

	ctr.NamesAndEmails = append(ctr.NamesAndEmails, IdentityPair{Name: name, Email: email})
}

func setTouchedFile(ctr *Contributor, path, commitSha1 string, epoch int64, dateISO string) {
	for i := range ctr.TouchedFiles {
		if ctr.TouchedFiles[i].Path == path {
			ctr.TouchedFiles[i].CommitSha1 = commitSha1
			ctr.TouchedFiles[i].CommitEpoch = epoch
			ctr.TouchedFiles[i].CommitDateISO = dateISO

			return
		}
	}

	ctr.TouchedFiles = append(ctr.TouchedFiles, TouchedFile{
		Path:          path,
		CommitSha1:    commitSha1,
		CommitEpoch:   epoch,
		CommitDateISO: dateISO,
	})
}

// Finalize rolls per-file tech into ctr's aggregate Tech list, computes
// ctr.Overview from projectAggs (the full project's aggregate tech, for the
// *_project fields) and the project's people/commit counts, and clears
// per-file fields from the aggregate entries.
func (ctr *Contributor) Finalize(perFile []*tech.Tech, projectAggs []*tech.Tech, peopleCount, commitCountProject int, dateInit, dateHead, projectName string) {
	byKey := make(map[tech.AggregateKey]*tech.Tech)
	order := make([]tech.AggregateKey, 0)

	for _, t := range perFile {
		key := t.Key()

		agg, ok := byKey[key]
		if !ok {
			byKey[key] = t.ToAggregate()
			order = append(order, key)

			continue
		}

		agg.Merge(t.ToAggregate())
	}

	ctr.Tech = make([]*tech.Tech, 0, len(order))

	loc, libs := 0, 0

	for _, key := range order {
		t := byKey[key]
		t.Split()
		ctr.Tech = append(ctr.Tech, t)
		loc += t.CodeLines
		libs += t.Refs.Len() + t.Packages.Len()
	}

	ctr.Overview = BuildProjectOverview(
		projectAggs, peopleCount, commitCountProject,
		dateInit, dateHead, ctr.FirstCommitDateISO, ctr.LastCommitDateISO,
		projectName, loc, libs, ctr.CommitCount,
	)
}
