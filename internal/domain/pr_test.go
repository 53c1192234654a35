package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollupThreads(t *testing.T) {
	threads := []ReviewThread{
		{IsResolved: true},
		{IsResolved: false},
		{IsResolved: false, IsOutdated: true},
	}

	summary := RollupThreads(threads)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 2, summary.Unresolved)
	assert.Equal(t, 1, summary.Outdated)
	assert.Equal(t, summary.Total, summary.Resolved+summary.Unresolved)
}

func TestRollupThreads_Empty(t *testing.T) {
	summary := RollupThreads(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Resolved+summary.Unresolved)
}
