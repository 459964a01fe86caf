package tech

import "strings"

// normalizeRef lowercases a reference key and turns "::"/":" separators
// into ".", matching the normalized form compared against tree paths.
func normalizeRef(ref string) string {
	ref = strings.ReplaceAll(ref, "::", ".")
	ref = strings.ReplaceAll(ref, ":", ".")

	return strings.ToLower(ref)
}

// normalizeTreePath turns a tree file path into the same normalized space
// as normalizeRef: separators become '.', the last extension is dropped,
// and the result is lowercased.
func normalizeTreePath(path string) string {
	path = strings.ReplaceAll(path, "\\", ".")
	path = strings.ReplaceAll(path, "/", ".")

	if idx := strings.LastIndex(path, "."); idx >= 0 {
		path = path[:idx]
	}

	return strings.ToLower(path)
}

// refMatchesPath reports whether normalized reference ref should be
// suppressed as a local import of normalized tree path path. A compound
// name (containing '.') may match anywhere in path with boundaries at '.'
// or the string edge; a simple name must match at the end of path with
// either an exact length match or a preceding '.'.
func refMatchesPath(ref, path string) bool {
	if ref == "" || path == "" {
		return false
	}

	if strings.Contains(ref, ".") {
		idx := strings.Index(path, ref)
		for idx >= 0 {
			end := idx + len(ref)

			startOK := idx == 0 || path[idx-1] == '.'
			endOK := end == len(path) || path[end] == '.'

			if startOK && endOK {
				return true
			}

			next := strings.Index(path[idx+1:], ref)
			if next < 0 {
				break
			}

			idx = idx + 1 + next
		}

		return false
	}

	if path == ref {
		return true
	}

	if strings.HasSuffix(path, "."+ref) {
		return true
	}

	return false
}

// RemoveLocalImports strips from t.Refs every reference whose normalized
// form matches one of treeFiles as a local sibling module rather than an
// external library, per the boundary-aligned substring rule above.
func (t *Tech) RemoveLocalImports(treeFiles []string) {
	if len(t.Refs) == 0 || len(treeFiles) == 0 {
		return
	}

	normPaths := make([]string, 0, len(treeFiles))
	for _, p := range treeFiles {
		normPaths = append(normPaths, normalizeTreePath(p))
	}

	for key, kw := range t.Refs {
		ref := normalizeRef(kw.K)

		for _, np := range normPaths {
			if refMatchesPath(ref, np) {
				delete(t.Refs, key)

				break
			}
		}
	}
}
