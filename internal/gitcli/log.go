package gitcli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
)

// gitLogDateLayout matches the date format produced by `git log --date=default`,
// e.g. "Mon Jan 2 15:04:05 2006 -0700".
const gitLogDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// CommitEntry is one non-merge commit parsed out of `git log --name-only`.
type CommitEntry struct {
	Sha1         Hash
	AuthorName   string
	AuthorEmail  string
	EpochSeconds int64
	DateISO      string
	Message      string
	FilePaths    []string
}

// LogOptions narrows the commits returned by Log.
type LogOptions struct {
	// Author restricts the log to commits by this identity, passed straight
	// to `git log --author=<id>`. Empty means no restriction.
	Author string
}

// Log runs `git log --no-decorate --name-only --encoding=utf-8 [--author=<id>]`
// and parses it into CommitEntry values, newest first. Merge commits (whose
// entry carries a "Merge:" header line) are discarded entirely, and any file
// path for which ignorePath returns true is dropped from FilePaths. headSha1
// is the sha1 of the very first "commit" line in the log, even if that
// commit turns out to be a merge and is therefore absent from entries.
func (r *Repository) Log(
	ctx context.Context, opts LogOptions, ignorePath func(string) bool,
) (entries []CommitEntry, headSha1 Hash, err error) {
	args := []string{"log", "--no-decorate", "--name-only", "--encoding=utf-8"}
	if opts.Author != "" {
		args = append(args, "--author="+opts.Author)
	}

	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, ZeroHash, err
	}

	return parseGitLog(out, ignorePath)
}

func parseGitLog(out []byte, ignorePath func(string) bool) (entries []CommitEntry, headSha1 Hash, err error) {
	if ignorePath == nil {
		ignorePath = func(string) bool { return false }
	}

	var (
		cur     *CommitEntry
		curSkip bool
		msgGap  bool
		seenAny bool
	)

	flush := func() {
		if cur != nil && !curSkip {
			cur.Message = strings.TrimRight(cur.Message, "\n")
			entries = append(entries, *cur)
		}

		cur = nil
		curSkip = false
		msgGap = false
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "commit "):
			flush()

			sha1, hashErr := NewHash(strings.TrimSpace(strings.TrimPrefix(line, "commit ")))
			if hashErr != nil {
				return nil, ZeroHash, fmt.Errorf("%w: commit header %q: %v", ErrUnexpectedOutput, line, hashErr)
			}

			if !seenAny {
				seenAny = true
				headSha1 = sha1
			}

			cur = &CommitEntry{Sha1: sha1}

		case strings.HasPrefix(line, "Merge:"):
			curSkip = true

		case cur == nil:
			// Stray content before the first commit header; ignore.
			continue

		case strings.HasPrefix(line, "Author: "):
			cur.AuthorName, cur.AuthorEmail = parseAuthorLine(strings.TrimPrefix(line, "Author: "))

		case strings.HasPrefix(line, "Date: "):
			epoch, iso, dateErr := parseDateLine(strings.TrimPrefix(line, "Date: "))
			if dateErr == nil {
				cur.EpochSeconds = epoch
				cur.DateISO = iso
			}

		case strings.HasPrefix(line, "    "):
			if msgGap {
				cur.Message += "\n"
			}

			cur.Message += strings.TrimPrefix(line, "    ")
			msgGap = true

		case line == "":
			if cur.Message != "" {
				msgGap = false
			}

			continue

		default:
			if !ignorePath(line) {
				cur.FilePaths = append(cur.FilePaths, line)
			}
		}
	}

	flush()

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, ZeroHash, fmt.Errorf("%w: reading log output: %v", ErrUnexpectedOutput, scanErr)
	}

	return entries, headSha1, nil
}

// parseAuthorLine splits "Name <email>" on the last " <" so names
// containing angle brackets or nested spaces still resolve correctly.
func parseAuthorLine(s string) (name, email string) {
	idx := strings.LastIndex(s, " <")
	if idx < 0 {
		return strings.TrimSpace(s), ""
	}

	name = strings.TrimSpace(s[:idx])
	email = strings.TrimSuffix(strings.TrimSpace(s[idx+1:]), ">")
	email = strings.TrimPrefix(email, "<")

	return name, email
}

// parseDateLine parses a git log date line into an epoch and RFC3339 string.
func parseDateLine(s string) (epoch int64, iso string, err error) {
	t, err := time.Parse(gitLogDateLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, "", fmt.Errorf("%w: date %q: %v", ErrUnexpectedOutput, s, err)
	}

	return t.Unix(), t.Format(time.RFC3339), nil
}
