package parser

import "github.com/bkyoung/goodtogo/internal/domain"

var claudeBlockingPhrases = []string{
	"Blocking",
	"Critical",
	"must fix before merge",
	"request changes",
}

var claudeApprovalPhrases = []string{
	"LGTM",
	"looks good",
	"ready to merge",
	"APPROVE",
	"Overall",
}

var claudeSuggestionPhrases = []string{
	"consider",
	"suggestion",
	"might",
}

// Claude classifies comments from Anthropic's Claude Code review bot.
type Claude struct{}

// NewClaude returns a Claude parser.
func NewClaude() Claude { return Claude{} }

// ReviewerType identifies this parser's reviewer.
func (Claude) ReviewerType() domain.ReviewerType { return domain.ReviewerClaude }

// CanParse matches Claude's bot accounts or its in-body signature.
func (Claude) CanParse(author, body string) bool {
	switch author {
	case "claude[bot]", "claude-code[bot]", "anthropic-claude[bot]":
		return true
	}
	return domain.ContainsPhrase(body, "Claude Code")
}

// isSummarySignature matches a PR-level task-completion summary rather
// than a per-finding review comment.
func (Claude) isSummarySignature(body string) bool {
	return domain.ContainsPhrase(body, "Summary") && domain.ContainsPhrase(body, "Claude Code")
}

func (Claude) classifyCore(comment domain.Comment) (domain.CommentClassification, domain.Priority, bool) {
	body := comment.Body

	if domain.ContainsAnyPhrase(body, claudeBlockingPhrases) {
		return domain.ClassificationActionable, domain.PriorityCritical, false
	}

	if domain.ContainsAnyPhrase(body, claudeApprovalPhrases) {
		return domain.ClassificationNonActionable, domain.PriorityUnknown, false
	}

	if domain.ContainsAnyPhrase(body, claudeSuggestionPhrases) {
		return domain.ClassificationAmbiguous, domain.PriorityUnknown, true
	}

	return domain.ClassificationAmbiguous, domain.PriorityUnknown, true
}
