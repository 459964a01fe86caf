package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// FileTypeMatchDef is one entry in a file type's "matches" list as decoded
// from JSON, before its optional path regex is compiled.
type FileTypeMatchDef struct {
	Muncher     string `json:"muncher"`
	InPathRegex string `json:"in_path_regex,omitempty"`
}

// FileTypeDef is the JSON shape of a file type definition: the extension
// it applies to and an ordered list of candidate muncher matches.
type FileTypeDef struct {
	FileExt string             `json:"file_ext"`
	Matches []FileTypeMatchDef `json:"matches"`
}

// fileTypeMatch is a compiled FileTypeMatchDef.
type fileTypeMatch struct {
	muncherName string
	inPath      *regexp.Regexp
}

// FileType is a compiled FileTypeDef: the extension token it was loaded
// under plus every candidate match with its path regex compiled.
type FileType struct {
	FileExt string
	matches []fileTypeMatch
}

// CompileFileType compiles every match in def. As with munchers, a single
// bad path regex rejects the whole file type rather than just that match.
func CompileFileType(def FileTypeDef) (FileType, error) {
	ft := FileType{FileExt: def.FileExt}

	for _, m := range def.Matches {
		if strings.TrimSpace(m.Muncher) == "" {
			return FileType{}, fmt.Errorf("file type %s: match with empty muncher name", def.FileExt)
		}

		compiled := fileTypeMatch{muncherName: m.Muncher}

		if m.InPathRegex != "" {
			re, err := regexp.Compile(m.InPathRegex)
			if err != nil {
				return FileType{}, fmt.Errorf("file type %s: compiling in_path_regex %q: %w", def.FileExt, m.InPathRegex, err)
			}

			compiled.inPath = re
		}

		ft.matches = append(ft.matches, compiled)
	}

	return ft, nil
}

// MuncherName resolves which muncher applies to filePath under this file
// type. It walks every match in declared order and keeps overwriting the
// result with each match that applies, so the LAST applicable match wins:
// a match with no path regex always applies, one with a path regex applies
// only when it matches filePath. Returns ok=false if no match ever applied.
func (ft FileType) MuncherName(filePath string) (name string, ok bool) {
	for _, m := range ft.matches {
		if m.inPath == nil || m.inPath.MatchString(filePath) {
			name = m.muncherName
			ok = true
		}
	}

	return name, ok
}

// fileExtPattern extracts the extension token git's file paths are routed
// by: the run of [A-Za-z0-9_] characters trailing the final '.', '\' or
// '/' in the path, or the whole basename if it contains no separator.
var fileExtPattern = regexp.MustCompile(`[.\\/][A-Za-z0-9_]+$|^[A-Za-z0-9_]+$`)

// ExtensionToken returns the lowercased extension token for filePath, used
// as the lookup key into the file type registry. ok is false if the path
// has no token the pattern can extract (e.g. it ends in punctuation only).
func ExtensionToken(filePath string) (token string, ok bool) {
	m := fileExtPattern.FindString(filePath)
	if m == "" {
		return "", false
	}

	m = strings.TrimLeft(m, ".\\/")

	return strings.ToLower(m), true
}
