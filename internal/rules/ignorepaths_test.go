package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackmuncher/stm-app/internal/rules"
)

func TestShouldIgnore(t *testing.T) {
	t.Parallel()

	patterns := rules.IgnorePaths()

	cases := []struct {
		path   string
		ignore bool
	}{
		{"node_modules/lodash/index.js", true},
		{"src/vendor/github.com/pkg/errors/errors.go", true},
		{"assets/logo.PNG", true},
		{"docs/manual.pdf", true},
		{".gitignore", true},
		{"src/main.go", false},
		{"README.md", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ignore, rules.ShouldIgnore(patterns, tc.path), tc.path)
	}
}
