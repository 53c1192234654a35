package parser

import "github.com/bkyoung/goodtogo/internal/domain"

// Cursor classifies comments from Cursor/Bugbot's automated review bot.
type Cursor struct{}

// NewCursor returns a Cursor parser.
func NewCursor() Cursor { return Cursor{} }

// ReviewerType identifies this parser's reviewer.
func (Cursor) ReviewerType() domain.ReviewerType { return domain.ReviewerCursor }

// CanParse matches Cursor's bot accounts or its in-body signature.
func (Cursor) CanParse(author, body string) bool {
	switch author {
	case "cursor[bot]", "cursor-bot":
		return true
	}
	return domain.ContainsPhrase(body, "cursor.com")
}

// isSummarySignature matches Cursor's PR-level rollup comment.
func (Cursor) isSummarySignature(body string) bool {
	return domain.ContainsPhrase(body, "Bugbot reviewed") || domain.ContainsPhrase(body, "Bugbot Summary")
}

func (Cursor) classifyCore(comment domain.Comment) (domain.CommentClassification, domain.Priority, bool) {
	body := comment.Body

	switch {
	case domain.ContainsPhrase(body, "Critical Severity"):
		return domain.ClassificationActionable, domain.PriorityCritical, false
	case domain.ContainsPhrase(body, "High Severity"):
		return domain.ClassificationActionable, domain.PriorityMajor, false
	case domain.ContainsPhrase(body, "Medium Severity"):
		return domain.ClassificationActionable, domain.PriorityMinor, false
	case domain.ContainsPhrase(body, "Low Severity"):
		return domain.ClassificationNonActionable, domain.PriorityTrivial, false
	}

	return domain.ClassificationAmbiguous, domain.PriorityUnknown, true
}
