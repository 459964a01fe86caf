package rules

import "regexp"

// ignorePathPatterns lists path fragments, file names and extensions that
// are never handed to a muncher: generated artifacts, binary formats and
// anything else with no meaningful source content.
var ignorePathPatterns = []string{
	// known framework paths
	`(?i)node_modules[/\\]`,
	`(?i)angular[/\\]README\.md`,
	`(?i)package-lock\.json`,
	`(?i)/vendor/`,
	// images
	`(?i)\.ico$`,
	`(?i)\.png$`,
	`(?i)\.jpg$`,
	`(?i)\.jpeg$`,
	`(?i)\.gif$`,
	`(?i)\.svg$`,
	`(?i)\.bmp$`,
	`(?i)\.tif$`,
	`(?i)\.tiff$`,
	`(?i)\.eps$`,
	`(?i)\.webp$`,
	`(?i)\.psd$`,
	`(?i)\.webm$`,
	// audio / video
	`(?i)\.mp4$`,
	`(?i)\.mp3$`,
	`(?i)\.mpeg$`,
	// fonts
	`(?i)\.ttf$`,
	`(?i)\.otf$`,
	`(?i)\.eot$`,
	`(?i)\.woff$`,
	`(?i)\.woff2$`,
	// documents
	`(?i)\.pdf$`,
	`(?i)\.doc$`,
	`(?i)\.docx$`,
	`(?i)\.txt$`,
	// git files
	`(?i)\.gitignore$`,
	`(?i)\.gitattributes$`,
	`(?i)\.gitkeep$`,
	`(?i)\.keep$`,
	// binaries
	`(?i)\.exe$`,
	`(?i)\.dll$`,
	`(?i)\.so$`,
	`(?i)\.jar$`,
	`(?i)\.pdb$`,
	`(?i)\.gem$`,
	// archives
	`(?i)\.zip$`,
	`(?i)\.rar$`,
	`(?i)\.tar$`,
	`(?i)\.gz$`,
	// data files
	`(?i)\.csv$`,
	`(?i)\.tsv$`,
	`(?i)\.xls$`,
	`(?i)\.xlsx$`,
	// secrets
	`(?i)\.cer$`,
	`(?i)\.crt$`,
	`(?i)\.pfx$`,
	`(?i)\.pem$`,
	`(?i)\.p12$`,
	`(?i)\.key$`,
}

// IgnorePaths compiles the built-in ignore path list. It panics on a
// compile failure since the list above is a fixed constant, not user
// input: a failure here can only mean the constant itself is broken.
func IgnorePaths() []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(ignorePathPatterns))

	for _, p := range ignorePathPatterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}

	return compiled
}

// ShouldIgnore reports whether path matches any of the compiled ignore
// patterns.
func ShouldIgnore(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
