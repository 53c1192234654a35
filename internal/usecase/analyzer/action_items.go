package analyzer

import (
	"fmt"

	"github.com/bkyoung/goodtogo/internal/domain"
)

// buildActionItems renders one human-readable line per actionable
// comment, plus a trailing summary line when ambiguous comments remain
// (spec.md §4.2.1 step 12), and, for the CI_FAILING/PENDING path, the
// fixed line S5 requires.
func buildActionItems(actionable, ambiguous []domain.Comment, ci domain.CIStatus) []string {
	var items []string

	for _, c := range actionable {
		items = append(items, fmt.Sprintf("Fix %s comment from %s in %s",
			c.Priority, reviewerLabel(c), location(c)))
	}

	if ci.State == domain.CheckPending {
		items = append(items, "CI checks are still running - wait for completion")
	}

	if len(ambiguous) > 0 {
		items = append(items, fmt.Sprintf("%d ambiguous comment(s) need human triage", len(ambiguous)))
	}

	return items
}

func reviewerLabel(c domain.Comment) string {
	switch c.ReviewerType {
	case domain.ReviewerCodeRabbit:
		return "coderabbit"
	case domain.ReviewerGreptile:
		return "greptile"
	case domain.ReviewerClaude:
		return "claude"
	case domain.ReviewerCursor:
		return "cursor"
	case domain.ReviewerVercel:
		return "vercel"
	case domain.ReviewerHuman:
		return c.Author
	default:
		return "unknown"
	}
}

func location(c domain.Comment) string {
	if c.FilePath == "" {
		return "unknown location"
	}
	if c.LineNumber == 0 {
		return c.FilePath
	}
	return fmt.Sprintf("%s:%d", c.FilePath, c.LineNumber)
}
