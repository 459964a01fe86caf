package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackmuncher/stm-app/internal/rules"
)

func TestExtensionToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path  string
		token string
		ok    bool
	}{
		{"main.go", "go", true},
		{"internal/rules/Registry.GO", "go", true},
		{"Makefile", "makefile", true},
		{"path/to/file.TAR.GZ", "gz", true},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := rules.ExtensionToken(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.token, token, tc.path)
	}
}

func TestFileType_MuncherName_LastApplicableMatchWins(t *testing.T) {
	t.Parallel()

	ft, err := rules.CompileFileType(rules.FileTypeDef{
		FileExt: "h",
		Matches: []rules.FileTypeMatchDef{
			{Muncher: "c"},
			{Muncher: "cpp", InPathRegex: `(?i)cpp|cc`},
		},
	})
	require.NoError(t, err)

	name, ok := ft.MuncherName("src/plain.h")
	require.True(t, ok)
	assert.Equal(t, "c", name)

	name, ok = ft.MuncherName("src/widget.cpp/widget.h")
	require.True(t, ok)
	assert.Equal(t, "cpp", name)
}

func TestCompileFileType_RejectsEmptyMuncherName(t *testing.T) {
	t.Parallel()

	_, err := rules.CompileFileType(rules.FileTypeDef{
		FileExt: "x",
		Matches: []rules.FileTypeMatchDef{{Muncher: "  "}},
	})
	require.Error(t, err)
}

func TestCompileFileType_RejectsBadPathRegex(t *testing.T) {
	t.Parallel()

	_, err := rules.CompileFileType(rules.FileTypeDef{
		FileExt: "x",
		Matches: []rules.FileTypeMatchDef{{Muncher: "x", InPathRegex: "(unclosed"}},
	})
	require.Error(t, err)
}
