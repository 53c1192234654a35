package parser

import (
	"regexp"

	"github.com/bkyoung/goodtogo/internal/domain"
)

var greptileCountPattern = regexp.MustCompile(`(?i)Actionable comments posted:\s*(\d+)`)

// Greptile classifies comments from Greptile's automated review bot.
type Greptile struct{}

// NewGreptile returns a Greptile parser.
func NewGreptile() Greptile { return Greptile{} }

// ReviewerType identifies this parser's reviewer.
func (Greptile) ReviewerType() domain.ReviewerType { return domain.ReviewerGreptile }

// CanParse matches Greptile's bot accounts or its in-body signature.
func (Greptile) CanParse(author, body string) bool {
	switch author {
	case "greptile[bot]", "greptile-apps[bot]":
		return true
	}
	return domain.ContainsPhrase(body, "greptile.com") || domain.ContainsPhrase(body, "Greptile Summary")
}

// isSummarySignature is always false: spec.md §4.1.4 defines no PR-level
// summary signature for Greptile (unlike CodeRabbit's §4.1.3 rollup). An
// "Actionable comments posted: N" count is itself the classification
// signal — N == 0 is NON_ACTIONABLE and N > 0 is ACTIONABLE — handled
// entirely by classifyCore below, not short-circuited by the prelude.
func (Greptile) isSummarySignature(string) bool { return false }

func (Greptile) classifyCore(comment domain.Comment) (domain.CommentClassification, domain.Priority, bool) {
	body := comment.Body

	if m := greptileCountPattern.FindStringSubmatch(body); m != nil {
		if m[1] == "0" {
			return domain.ClassificationNonActionable, domain.PriorityUnknown, false
		}
		return domain.ClassificationActionable, domain.PriorityMinor, false
	}

	if domain.ContainsPhrase(body, "severity") {
		return domain.ClassificationActionable, domain.PriorityMinor, false
	}

	return domain.ClassificationAmbiguous, domain.PriorityUnknown, true
}
