// Package domain holds the typed entities and enumerations that make up
// a single pull-request analysis: comments, review threads, CI checks,
// and the final analysis result. Types here are constructed once per
// analysis pass and are read-only thereafter.
package domain

// PRStatus is the final, machine-readable verdict for a pull request.
type PRStatus string

const (
	StatusReady          PRStatus = "READY"
	StatusActionRequired PRStatus = "ACTION_REQUIRED"
	StatusUnresolved     PRStatus = "UNRESOLVED"
	StatusCIFailing      PRStatus = "CI_FAILING"
	StatusError          PRStatus = "ERROR"
)

// IsValid returns true if the status is a recognized value.
func (s PRStatus) IsValid() bool {
	switch s {
	case StatusReady, StatusActionRequired, StatusUnresolved, StatusCIFailing, StatusError:
		return true
	default:
		return false
	}
}

// CommentClassification is the three-way verdict a parser assigns to a comment.
type CommentClassification string

const (
	ClassificationActionable    CommentClassification = "ACTIONABLE"
	ClassificationNonActionable CommentClassification = "NON_ACTIONABLE"
	ClassificationAmbiguous     CommentClassification = "AMBIGUOUS"
)

// IsValid returns true if the classification is a recognized value.
func (c CommentClassification) IsValid() bool {
	switch c {
	case ClassificationActionable, ClassificationNonActionable, ClassificationAmbiguous:
		return true
	default:
		return false
	}
}

// Priority ranks a comment's urgency, highest first: CRITICAL > MAJOR > MINOR > TRIVIAL > UNKNOWN.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityMajor    Priority = "MAJOR"
	PriorityMinor    Priority = "MINOR"
	PriorityTrivial  Priority = "TRIVIAL"
	PriorityUnknown  Priority = "UNKNOWN"
)

// priorityRank gives each Priority a sort weight; lower is more urgent.
var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityMajor:    1,
	PriorityMinor:    2,
	PriorityTrivial:  3,
	PriorityUnknown:  4,
}

// IsValid returns true if the priority is a recognized value.
func (p Priority) IsValid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Less reports whether p is strictly more urgent than other.
func (p Priority) Less(other Priority) bool {
	return priorityRank[p] < priorityRank[other]
}

// ReviewerType identifies which reviewer (bot or human) authored a comment.
type ReviewerType string

const (
	ReviewerCodeRabbit ReviewerType = "CODERABBIT"
	ReviewerGreptile   ReviewerType = "GREPTILE"
	ReviewerClaude     ReviewerType = "CLAUDE"
	ReviewerCursor     ReviewerType = "CURSOR"
	ReviewerVercel     ReviewerType = "VERCEL"
	ReviewerHuman      ReviewerType = "HUMAN"
	ReviewerUnknown    ReviewerType = "UNKNOWN"
)

// IsValid returns true if the reviewer type is a recognized value.
func (r ReviewerType) IsValid() bool {
	switch r {
	case ReviewerCodeRabbit, ReviewerGreptile, ReviewerClaude, ReviewerCursor, ReviewerVercel, ReviewerHuman, ReviewerUnknown:
		return true
	default:
		return false
	}
}

// CheckState is the normalized state of a single CI check or its roll-up.
type CheckState string

const (
	CheckSuccess CheckState = "SUCCESS"
	CheckFailure CheckState = "FAILURE"
	CheckPending CheckState = "PENDING"
	CheckNeutral CheckState = "NEUTRAL"
	CheckSkipped CheckState = "SKIPPED"
)

// IsValid returns true if the check state is a recognized value.
func (c CheckState) IsValid() bool {
	switch c {
	case CheckSuccess, CheckFailure, CheckPending, CheckNeutral, CheckSkipped:
		return true
	default:
		return false
	}
}
