// Package parser classifies reviewer comments into actionable,
// non-actionable, or ambiguous verdicts. Each reviewer (CodeRabbit,
// Greptile, Claude, Cursor, Vercel) gets its own Parser; a Generic parser
// terminates the chain so no comment goes unclassified.
package parser

import "github.com/bkyoung/goodtogo/internal/domain"

// Parser classifies comments from a single reviewer identity.
type Parser interface {
	// ReviewerType identifies which reviewer this parser represents.
	ReviewerType() domain.ReviewerType

	// CanParse is a fast discriminator over the comment author and/or
	// in-body signature. The chain consults parsers in a fixed order and
	// stops at the first CanParse that returns true.
	CanParse(author, body string) bool

	// classifyCore is the parser-specific decision, invoked only after
	// the shared prelude (resolved/outdated thread, PR-level summary)
	// has been ruled out. Unexported: callers must go through Classify so
	// the prelude and the ambiguity invariant can never be bypassed.
	classifyCore(comment domain.Comment) (domain.CommentClassification, domain.Priority, bool)

	// isSummarySignature reports whether body is this reviewer's PR-level
	// rollup comment rather than a per-finding comment.
	isSummarySignature(body string) bool
}

// Classify runs the shared prelude — resolved/outdated threads and
// PR-level summaries always resolve to NON_ACTIONABLE — then delegates to
// the parser's own classifyCore. It is the only entry point a caller
// should use; it also enforces that any AMBIGUOUS verdict carries
// requiresInvestigation = true, regardless of what classifyCore returned.
func Classify(p Parser, comment domain.Comment, threadResolved, threadOutdated bool) (domain.CommentClassification, domain.Priority, bool) {
	if threadResolved || threadOutdated {
		return domain.ClassificationNonActionable, domain.PriorityUnknown, false
	}

	if p.isSummarySignature(comment.Body) {
		return domain.ClassificationNonActionable, domain.PriorityUnknown, false
	}

	classification, priority, requiresInvestigation := p.classifyCore(comment)
	if classification == domain.ClassificationAmbiguous {
		requiresInvestigation = true
	}
	return classification, priority, requiresInvestigation
}
