package analyzer_test

import (
	"context"
	"testing"
	"time"

	ghport "github.com/bkyoung/goodtogo/internal/adapter/github"
	"github.com/bkyoung/goodtogo/internal/cache"
	"github.com/bkyoung/goodtogo/internal/domain"
	"github.com/bkyoung/goodtogo/internal/redaction"
	"github.com/bkyoung/goodtogo/internal/usecase/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer(port ghport.Port) (*analyzer.Analyzer, *memCache, *memState) {
	c := newMemCache()
	s := newMemState()
	a := analyzer.New(port, c, s, redaction.NewEngine())
	a.Now = func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }
	return a, c, s
}

func TestAnalyze_RejectsInvalidCoordinate(t *testing.T) {
	a, _, _ := newAnalyzer(&fakePort{})
	result, err := a.Analyze(context.Background(), "bad owner", "repo", 1, analyzer.Options{})
	require.Error(t, err)
	assert.Equal(t, domain.StatusError, result.Status)
}

func TestAnalyze_RejectsNegativeDeadline(t *testing.T) {
	a, _, _ := newAnalyzer(&fakePort{})
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{Deadline: -time.Second})
	require.Error(t, err)
	assert.Equal(t, domain.StatusError, result.Status)
}

func TestAnalyze_ReadyWhenNothingOutstanding(t *testing.T) {
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		checks: []ghport.RawCheck{
			{Name: "build", Status: "completed", Conclusion: "success"},
		},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, result.Status)
	assert.Equal(t, domain.CheckSuccess, result.CI.State)
	assert.Empty(t, result.ActionItems)
}

func TestAnalyze_ActionRequiredOnActionableComment(t *testing.T) {
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		comments: []ghport.RawComment{
			{
				ID:        "rc-1",
				Author:    "coderabbitai[bot]",
				Body:      "_⚠️ Potential issue_ | Critical\n\nThis will panic on nil input.",
				CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
				FilePath:  "main.go",
			},
		},
		checks: []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}},
	}
	a, _, state := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActionRequired, result.Status)
	require.Len(t, result.ActionableComments, 1)
	assert.Equal(t, domain.PriorityCritical, result.ActionableComments[0].Priority)
	assert.Contains(t, result.ActionItems[0], "Fix CRITICAL comment from coderabbit in main.go")

	// The classification must be persisted for reuse at this head SHA.
	rec, ok, err := state.Get(context.Background(), result.Coordinate, "rc-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.ClassificationActionable, rec.Classification)
}

func TestAnalyze_UnresolvedThreadForcesUnresolvedStatus(t *testing.T) {
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		comments: []ghport.RawComment{
			{ID: "rc-1", Author: "reviewer", Body: "please fix this", CreatedAt: time.Now(), FilePath: "a.go"},
		},
		threads: []ghport.RawThread{
			{ID: "t-1", IsResolved: false, CommentIDs: []string{"rc-1"}},
		},
		checks: []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnresolved, result.Status)
	assert.Equal(t, 1, result.Threads.Unresolved)
}

func TestAnalyze_ResolvedThreadCascadesToNonActionable(t *testing.T) {
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		comments: []ghport.RawComment{
			{
				ID: "rc-1", Author: "coderabbitai[bot]",
				Body:      "_⚠️ Potential issue_ | Critical\n\nThis will panic.",
				CreatedAt: time.Now(), FilePath: "a.go",
			},
		},
		threads: []ghport.RawThread{
			{ID: "t-1", IsResolved: true, CommentIDs: []string{"rc-1"}},
		},
		checks: []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, result.Status)
	require.Len(t, result.Comments, 1)
	assert.Equal(t, domain.ClassificationNonActionable, result.Comments[0].Classification)
}

func TestAnalyze_CIFailureTakesPrecedenceOverActionRequired(t *testing.T) {
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		comments: []ghport.RawComment{
			{
				ID: "rc-1", Author: "coderabbitai[bot]",
				Body:      "_⚠️ Potential issue_ | Critical\n\nThis will panic.",
				CreatedAt: time.Now(), FilePath: "a.go",
			},
		},
		checks: []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "failure"}},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCIFailing, result.Status)
}

func TestAnalyze_PendingCIRollsUpAsCIFailingStatusWithDedicatedActionItem(t *testing.T) {
	port := &fakePort{
		meta:   ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		checks: []ghport.RawCheck{{Name: "build", Status: "in_progress"}},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCIFailing, result.Status)
	assert.Contains(t, result.ActionItems, "CI checks are still running - wait for completion")
}

func TestAnalyze_ExcludedCheckIsIgnored(t *testing.T) {
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		checks: []ghport.RawCheck{
			{Name: "flaky-e2e", Status: "completed", Conclusion: "failure"},
			{Name: "build", Status: "completed", Conclusion: "success"},
		},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{
		ExcludeCheckNames: []string{"flaky-e2e"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, result.Status)
	assert.Equal(t, 1, result.CI.Total)
}

func TestAnalyze_FatalCommentsFetchErrorYieldsErrorStatus(t *testing.T) {
	port := &fakePort{
		meta:        ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		commentsErr: assertErr("rate limited"),
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, result.Status)
}

func TestAnalyze_NonFatalReviewsFetchErrorDegradesGracefully(t *testing.T) {
	port := &fakePort{
		meta:       ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		reviewsErr: assertErr("reviews unavailable"),
		checks:     []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, result.Status)
}

func TestAnalyze_ClassificationReusedUntilHeadMoves(t *testing.T) {
	comment := ghport.RawComment{
		ID: "rc-1", Author: "coderabbitai[bot]",
		Body:      "_⚠️ Potential issue_ | Critical\n\nThis will panic.",
		CreatedAt: time.Now(), FilePath: "a.go",
	}
	port := &fakePort{
		meta:     ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		comments: []ghport.RawComment{comment},
		checks:   []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}},
	}
	a, c, state := newAnalyzer(port)

	first, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActionRequired, first.Status)

	// A second run at the same head should reuse the persisted record
	// rather than re-running the parser chain.
	second, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationActionable, second.Comments[0].Classification)

	// Moving the head must invalidate both cache and state for this PR.
	port.meta.HeadSHA = "sha2"
	port.checks = []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}}
	third, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, "sha2", third.LatestCommitSHA)

	_, stillCached, err := c.Get(context.Background(), mustHeadKey(t, first.Coordinate))
	require.NoError(t, err)
	assert.True(t, stillCached) // repopulated for the new head, not simply gone

	_, ok, err := state.Get(context.Background(), first.Coordinate, "rc-1")
	require.NoError(t, err)
	assert.True(t, ok) // reclassified and persisted again under the new sha
}

func TestAnalyze_AmbiguousTopLevelClearedByAuthorReply(t *testing.T) {
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		comments: []ghport.RawComment{
			{ID: "rc-1", Author: "somehuman", Body: "what about this edge case?", CreatedAt: time.Now(), FilePath: "a.go"},
			{ID: "rc-2", Author: "octocat", Body: "handled in the next commit", CreatedAt: time.Now(), FilePath: "a.go", InReplyToID: "rc-1"},
		},
		checks: []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}},
	}
	a, _, _ := newAnalyzer(port)
	result, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, result.Status)
}

type testError string

func (e testError) Error() string { return string(e) }

func assertErr(msg string) error { return testError(msg) }

func mustHeadKey(t *testing.T, coord domain.PRCoordinate) string {
	t.Helper()
	key, err := cache.HeadKey(coord)
	require.NoError(t, err)
	return key
}
