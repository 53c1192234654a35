package parser

import "github.com/bkyoung/goodtogo/internal/domain"

// Generic is the terminal fallback parser: it claims any comment no
// specialized parser recognized. Its purpose is to guarantee that no
// comment is ever silently dropped — an unrecognized reviewer's comment
// surfaces as AMBIGUOUS for human triage rather than disappearing.
type Generic struct{}

// NewGeneric returns the Generic parser.
func NewGeneric() Generic { return Generic{} }

// ReviewerType reports UNKNOWN: Generic never claims a specific identity.
func (Generic) ReviewerType() domain.ReviewerType { return domain.ReviewerUnknown }

// CanParse always returns true; Generic is the guaranteed chain terminator.
func (Generic) CanParse(_, _ string) bool { return true }

// isSummarySignature is always false: with no known reviewer identity,
// Generic has no PR-level summary format to recognize.
func (Generic) isSummarySignature(string) bool { return false }

func (Generic) classifyCore(domain.Comment) (domain.CommentClassification, domain.Priority, bool) {
	return domain.ClassificationAmbiguous, domain.PriorityUnknown, true
}
