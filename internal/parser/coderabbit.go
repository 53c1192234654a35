package parser

import "github.com/bkyoung/goodtogo/internal/domain"

const coderabbitAuthor = "coderabbitai[bot]"

// CodeRabbit classifies comments from CodeRabbit's automated review bot.
type CodeRabbit struct{}

// NewCodeRabbit returns a CodeRabbit parser.
func NewCodeRabbit() CodeRabbit { return CodeRabbit{} }

// ReviewerType identifies this parser's reviewer.
func (CodeRabbit) ReviewerType() domain.ReviewerType { return domain.ReviewerCodeRabbit }

// CanParse matches the CodeRabbit bot account or its HTML watermark.
func (CodeRabbit) CanParse(author, body string) bool {
	if author == coderabbitAuthor {
		return true
	}
	return domain.ContainsPhrase(body, "fingerprinting:") || domain.ContainsPhrase(body, "coderabbit.ai")
}

// isSummarySignature matches the PR-level "Actionable comments posted"
// rollup, which carries no per-file finding of its own.
func (CodeRabbit) isSummarySignature(body string) bool {
	return domain.ContainsPhrase(body, "Actionable comments posted") &&
		!domain.ContainsPhrase(body, "Potential issue")
}

func (CodeRabbit) classifyCore(comment domain.Comment) (domain.CommentClassification, domain.Priority, bool) {
	body := comment.Body

	if domain.ContainsPhrase(body, "Outside diff range") {
		return domain.ClassificationActionable, domain.PriorityMinor, false
	}

	if domain.ContainsPhrase(body, "Potential issue") {
		switch {
		case domain.ContainsPhrase(body, "Critical"):
			return domain.ClassificationActionable, domain.PriorityCritical, false
		case domain.ContainsPhrase(body, "Major"):
			return domain.ClassificationActionable, domain.PriorityMajor, false
		case domain.ContainsPhrase(body, "Minor"):
			return domain.ClassificationActionable, domain.PriorityMinor, false
		}
	}

	if domain.ContainsPhrase(body, "Trivial") || domain.ContainsPhrase(body, "Nitpick") {
		return domain.ClassificationNonActionable, domain.PriorityTrivial, false
	}

	if domain.ContainsPhrase(body, "fingerprinting:") || domain.ContainsPhrase(body, "Addressed in commits") {
		return domain.ClassificationNonActionable, domain.PriorityUnknown, false
	}

	return domain.ClassificationAmbiguous, domain.PriorityUnknown, true
}
