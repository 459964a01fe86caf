package gitcli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
)

// TreeEntry is one blob listed by `git ls-tree -r --full-tree <rev>`.
type TreeEntry struct {
	Path string
	Hash Hash
}

// ListTreeBlobs runs `git ls-tree -r --full-tree <rev>` and returns every
// blob entry in the tree at rev. Tree and submodule (commit) entries are
// skipped; only blobs carry content an engine can classify.
func (r *Repository) ListTreeBlobs(ctx context.Context, rev string) ([]TreeEntry, error) {
	out, err := r.run(ctx, "ls-tree", "-r", "--full-tree", rev)
	if err != nil {
		return nil, err
	}

	var entries []TreeEntry

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		entry, ok, parseErr := parseLsTreeLine(line)
		if parseErr != nil {
			return nil, parseErr
		}

		if ok {
			entries = append(entries, entry)
		}
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("%w: reading ls-tree output: %v", ErrUnexpectedOutput, scanErr)
	}

	return entries, nil
}

// parseLsTreeLine parses one "<mode> <type> <sha1>\t<path>" line. It returns
// ok=false (not an error) for non-blob entries such as trees and submodules.
func parseLsTreeLine(line string) (entry TreeEntry, ok bool, err error) {
	meta, path, found := strings.Cut(line, "\t")
	if !found {
		return TreeEntry{}, false, fmt.Errorf("%w: ls-tree line missing tab: %q", ErrUnexpectedOutput, line)
	}

	fields := strings.Fields(meta)
	if len(fields) != 3 {
		return TreeEntry{}, false, fmt.Errorf("%w: ls-tree metadata %q", ErrUnexpectedOutput, meta)
	}

	objType, sha1 := fields[1], fields[2]
	if objType != "blob" {
		return TreeEntry{}, false, nil
	}

	hash, err := NewHash(sha1)
	if err != nil {
		return TreeEntry{}, false, fmt.Errorf("%w: ls-tree sha1 %q: %v", ErrUnexpectedOutput, sha1, err)
	}

	return TreeEntry{Path: path, Hash: hash}, true, nil
}
