package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackmuncher/stm-app/internal/cache"
)

func TestHashLogSha1s_DeterministicAndOrderSensitive(t *testing.T) {
	t.Parallel()

	a := cache.HashLogSha1s([]string{"aaa", "bbb", "ccc"})
	b := cache.HashLogSha1s([]string{"aaa", "bbb", "ccc"})
	c := cache.HashLogSha1s([]string{"ccc", "bbb", "aaa"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestAggregateReusable(t *testing.T) {
	t.Parallel()

	changed := map[uint64]bool{42: true}

	assert.False(t, cache.AggregateReusable(42, changed))
	assert.True(t, cache.AggregateReusable(7, changed))
}

func TestIsSingleCommit_EmptyTail(t *testing.T) {
	t.Parallel()

	assert.False(t, cache.IsSingleCommit("sha", "loghash", nil))
}

func TestIsSingleCommit_MissingPriorState(t *testing.T) {
	t.Parallel()

	assert.False(t, cache.IsSingleCommit("", "loghash", []string{"sha"}))
	assert.False(t, cache.IsSingleCommit("sha", "", []string{"sha"}))
}

func TestIsSingleCommit_HeadMismatch(t *testing.T) {
	t.Parallel()

	assert.False(t, cache.IsSingleCommit("old-sha", "loghash", []string{"different-sha"}))
}

func TestIsSingleCommit_MatchesWhenLogHashAgrees(t *testing.T) {
	t.Parallel()

	tail := []string{"head-sha", "parent-sha"}
	logHash := cache.HashLogSha1s(tail)

	assert.True(t, cache.IsSingleCommit("head-sha", logHash, tail))
}

func TestIsSingleCommit_RejectsStaleLogHash(t *testing.T) {
	t.Parallel()

	tail := []string{"head-sha", "parent-sha"}

	assert.False(t, cache.IsSingleCommit("head-sha", "stale-hash", tail))
}
