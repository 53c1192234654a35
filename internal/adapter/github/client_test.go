package github_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ghport "github.com/bkyoung/goodtogo/internal/adapter/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseURL string) *ghport.Client {
	t.Helper()
	c := ghport.NewClient("test-token")
	require.NoError(t, c.SetBaseURL(baseURL+"/"))
	return c
}

func TestGetPullRequest_ResolvesHeadMetadata(t *testing.T) {
	server := testServer(t, map[string]string{
		"/repos/octocat/hello-world/pulls/42": `{
			"head": {"sha": "abc123", "ref": "feature"},
			"base": {"ref": "main"},
			"user": {"login": "octocat"}
		}`,
		"/repos/octocat/hello-world/commits/abc123": `{
			"sha": "abc123",
			"commit": {"committer": {"date": "2026-01-15T10:00:00Z"}}
		}`,
	})
	c := newTestClient(t, server.URL)

	meta, err := c.GetPullRequest(t.Context(), "octocat", "hello-world", 42)
	require.NoError(t, err)
	assert.Equal(t, "abc123", meta.HeadSHA)
	assert.Equal(t, "octocat", meta.Author)
	assert.Equal(t, "main", meta.BaseRef)
	assert.Equal(t, "feature", meta.HeadRef)
	assert.Equal(t, 2026, meta.HeadCommitTime.Year())
}

func TestGetComments_MergesAndDedupesInlineAndIssueComments(t *testing.T) {
	server := testServer(t, map[string]string{
		"/repos/octocat/hello-world/pulls/42/comments": `[
			{"id": 1, "user": {"login": "reviewer"}, "body": "fix this", "path": "main.go", "line": 10, "created_at": "2026-01-01T00:00:00Z"},
			{"id": 2, "user": {"login": "reviewer"}, "body": "reply", "path": "main.go", "line": 10, "in_reply_to_id": 1, "created_at": "2026-01-01T01:00:00Z"}
		]`,
		"/repos/octocat/hello-world/issues/42/comments": `[
			{"id": 3, "user": {"login": "octocat"}, "body": "thanks", "created_at": "2026-01-01T02:00:00Z"}
		]`,
		"/repos/octocat/hello-world/pulls/42/reviews": `[]`,
	})
	c := newTestClient(t, server.URL)

	comments, err := c.GetComments(t.Context(), "octocat", "hello-world", 42)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	byID := make(map[string]ghport.RawComment, len(comments))
	for _, rc := range comments {
		byID[rc.ID] = rc
	}
	require.Contains(t, byID, "rc-1")
	require.Contains(t, byID, "rc-2")
	require.Contains(t, byID, "ic-3")
	assert.Equal(t, "rc-1", byID["rc-2"].InReplyToID)
	assert.Equal(t, 10, byID["rc-1"].LineNumber)
}

func TestGetComments_IncludesNonEmptyReviewBodiesAsVirtualComments(t *testing.T) {
	server := testServer(t, map[string]string{
		"/repos/octocat/hello-world/pulls/42/comments": `[]`,
		"/repos/octocat/hello-world/issues/42/comments": `[]`,
		"/repos/octocat/hello-world/pulls/42/reviews": `[
			{"id": 7, "user": {"login": "coderabbitai[bot]"}, "body": "Actionable comments posted: 3", "submitted_at": "2026-01-02T00:00:00Z"},
			{"id": 8, "user": {"login": "octocat"}, "body": "", "submitted_at": "2026-01-02T01:00:00Z"}
		]`,
	})
	c := newTestClient(t, server.URL)

	comments, err := c.GetComments(t.Context(), "octocat", "hello-world", 42)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "rev-7", comments[0].ID)
	assert.Equal(t, "coderabbitai[bot]", comments[0].Author)
	assert.Equal(t, "Actionable comments posted: 3", comments[0].Body)
}

func TestGetCIStatus_MergesCheckRunsAndLegacyStatuses(t *testing.T) {
	server := testServer(t, map[string]string{
		"/repos/octocat/hello-world/commits/abc123/check-runs": `{
			"total_count": 1,
			"check_runs": [{"name": "build", "status": "completed", "conclusion": "success"}]
		}`,
		"/repos/octocat/hello-world/commits/abc123/statuses": `[
			{"context": "ci/legacy", "state": "failure", "target_url": "https://example.com"}
		]`,
	})
	c := newTestClient(t, server.URL)

	checks, err := c.GetCIStatus(t.Context(), "octocat", "hello-world", "abc123")
	require.NoError(t, err)
	require.Len(t, checks, 2)

	byName := make(map[string]ghport.RawCheck, len(checks))
	for _, check := range checks {
		byName[check.Name] = check
	}
	assert.Equal(t, "success", byName["build"].Conclusion)
	assert.Equal(t, "failure", byName["ci/legacy"].Conclusion)
}

func TestGetReviews_ReturnsSubmittedReviews(t *testing.T) {
	server := testServer(t, map[string]string{
		"/repos/octocat/hello-world/pulls/42/reviews": `[
			{"id": 7, "user": {"login": "coderabbitai[bot]"}, "body": "LGTM overall", "submitted_at": "2026-01-02T00:00:00Z"}
		]`,
	})
	c := newTestClient(t, server.URL)

	reviews, err := c.GetReviews(t.Context(), "octocat", "hello-world", 42)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "rev-7", reviews[0].ID)
	assert.Equal(t, "coderabbitai[bot]", reviews[0].Author)
}
