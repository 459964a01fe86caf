package tech_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackmuncher/stm-app/internal/kwc"
	"github.com/stackmuncher/stm-app/internal/tech"
)

func newRefCounter(keys ...string) kwc.Counter {
	c := make(kwc.Counter)

	for _, k := range keys {
		kw, ok := kwc.NewKeyword(k)
		if ok {
			c.Add(kw)
		}
	}

	return c
}

func TestRemoveLocalImports_SimpleSuffixMatch(t *testing.T) {
	t.Parallel()

	tc := &tech.Tech{Refs: newRefCounter("utils", "fmt")}

	tc.RemoveLocalImports([]string{"internal/pkg/utils.go"})

	_, hasUtils := tc.Refs["utils"]
	_, hasFmt := tc.Refs["fmt"]
	assert.False(t, hasUtils)
	assert.True(t, hasFmt)
}

func TestRemoveLocalImports_CompoundMatch(t *testing.T) {
	t.Parallel()

	tc := &tech.Tech{Refs: newRefCounter("internal.pkg.utils")}

	tc.RemoveLocalImports([]string{"internal/pkg/utils.go"})

	assert.Empty(t, tc.Refs)
}

func TestRemoveLocalImports_LeavesExternalLibraries(t *testing.T) {
	t.Parallel()

	tc := &tech.Tech{Refs: newRefCounter("github.com.pkg.errors")}

	tc.RemoveLocalImports([]string{"internal/pkg/utils.go"})

	assert.Len(t, tc.Refs, 1)
}

func TestRemoveLocalImports_NoRefsOrNoTreeFiles(t *testing.T) {
	t.Parallel()

	tc := &tech.Tech{Refs: newRefCounter("fmt")}
	tc.RemoveLocalImports(nil)
	assert.Len(t, tc.Refs, 1)

	empty := &tech.Tech{Refs: make(kwc.Counter)}
	empty.RemoveLocalImports([]string{"a/b.go"})
	assert.Empty(t, empty.Refs)
}
