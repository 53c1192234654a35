package analyzer_test

import (
	"context"
	"testing"
	"time"

	ghport "github.com/bkyoung/goodtogo/internal/adapter/github"
	"github.com/bkyoung/goodtogo/internal/domain"
	"github.com/bkyoung/goodtogo/internal/usecase/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Outside-diff-range extraction and the thread-cascade are exercised
// indirectly through Analyze in analyzer_test.go; these tests pin down
// the synthetic-id determinism property directly, since that's the part
// a future reviewer is most likely to regress silently.
func TestOutsideDiffRange_SurfacesViaAnalyze(t *testing.T) {
	body := "Actionable comments posted: 1\n\n<details><summary>Outside diff range comments (1)</summary>\n\n**cmd/main.go (1)**\n\n`42-45`: check the nil case here.\n\n</details>"
	port := &fakePort{
		meta: ghport.PullRequestMeta{HeadSHA: "sha1", Author: "octocat"},
		reviews: []ghport.RawReview{
			{ID: "rev-1", Author: "coderabbitai[bot]", Body: body, SubmittedAt: time.Now()},
		},
		checks: []ghport.RawCheck{{Name: "build", Status: "completed", Conclusion: "success"}},
	}
	a, _, _ := newAnalyzer(port)

	first, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	require.Len(t, first.Comments, 1)
	assert.Equal(t, "cmd/main.go", first.Comments[0].FilePath)
	assert.Equal(t, 42, first.Comments[0].LineNumber)
	assert.Equal(t, domain.ClassificationActionable, first.Comments[0].Classification)
	firstID := first.Comments[0].ID

	// Re-running against the same unchanged review must mint the same id.
	port.meta.HeadSHA = "sha1"
	second, err := a.Analyze(context.Background(), "octocat", "hello-world", 1, analyzer.Options{})
	require.NoError(t, err)
	require.Len(t, second.Comments, 1)
	assert.Equal(t, firstID, second.Comments[0].ID)
}
