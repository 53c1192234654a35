package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewThread_CascadesTo(t *testing.T) {
	assert.True(t, ReviewThread{IsResolved: true}.CascadesTo())
	assert.True(t, ReviewThread{IsOutdated: true}.CascadesTo())
	assert.False(t, ReviewThread{}.CascadesTo())
}

func TestReviewThread_Contains(t *testing.T) {
	thread := ReviewThread{CommentIDs: []string{"a", "b", "c"}}

	assert.True(t, thread.Contains("b"))
	assert.False(t, thread.Contains("z"))
}
