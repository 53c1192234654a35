package parser

import (
	"regexp"

	"github.com/bkyoung/goodtogo/internal/domain"
)

var vercelAppURLPattern = regexp.MustCompile(`(?i)https?://[a-z0-9-]+\.vercel\.app`)

// Vercel classifies comments from the Vercel deployment bot. Every
// deployment-status comment is NON_ACTIONABLE: it reports build/preview
// status, never a code finding.
type Vercel struct{}

// NewVercel returns a Vercel parser.
func NewVercel() Vercel { return Vercel{} }

// ReviewerType identifies this parser's reviewer.
func (Vercel) ReviewerType() domain.ReviewerType { return domain.ReviewerVercel }

// CanParse matches the Vercel bot account or a deployment-comment signature.
func (Vercel) CanParse(author, body string) bool {
	if author == "vercel[bot]" {
		return true
	}
	return domain.ContainsPhrase(body, "[vc]:") ||
		domain.ContainsPhrase(body, "vercel.com") ||
		vercelAppURLPattern.MatchString(body)
}

// isSummarySignature is irrelevant here: every Vercel comment is treated
// as non-actionable by classifyCore, so no separate summary carve-out is
// needed.
func (Vercel) isSummarySignature(string) bool { return false }

func (Vercel) classifyCore(domain.Comment) (domain.CommentClassification, domain.Priority, bool) {
	return domain.ClassificationNonActionable, domain.PriorityUnknown, false
}
