package domain

import (
	"fmt"
	"time"
)

// ClassificationRecord is the persisted classification of one comment at
// the commit SHA it was classified under. Its purpose: once a reviewer
// edits a comment body or adds "addressed in commit X" markers, the
// recorded classification survives until a *new* PR commit lands —
// transient reviewer edits between runs cannot silently flip the verdict.
type ClassificationRecord struct {
	Coordinate     PRCoordinate
	CommentID      string
	CommitSHA      string
	Classification CommentClassification
	Priority       Priority
	FirstSeenAt    time.Time
}

// ClassificationRecordInput captures the fields needed to create a ClassificationRecord.
type ClassificationRecordInput struct {
	Coordinate     PRCoordinate
	CommentID      string
	CommitSHA      string
	Classification CommentClassification
	Priority       Priority
	FirstSeenAt    time.Time
}

// NewClassificationRecord constructs a ClassificationRecord, validating
// that every field required to key and interpret the record is present.
func NewClassificationRecord(input ClassificationRecordInput) (ClassificationRecord, error) {
	if input.CommentID == "" {
		return ClassificationRecord{}, fmt.Errorf("comment id is required")
	}
	if input.CommitSHA == "" {
		return ClassificationRecord{}, fmt.Errorf("commit sha is required")
	}
	if !input.Classification.IsValid() {
		return ClassificationRecord{}, fmt.Errorf("invalid classification: %s", input.Classification)
	}
	if !input.Priority.IsValid() {
		return ClassificationRecord{}, fmt.Errorf("invalid priority: %s", input.Priority)
	}
	if input.FirstSeenAt.IsZero() {
		return ClassificationRecord{}, fmt.Errorf("first seen timestamp is required")
	}

	return ClassificationRecord{
		Coordinate:     input.Coordinate,
		CommentID:      input.CommentID,
		CommitSHA:      input.CommitSHA,
		Classification: input.Classification,
		Priority:       input.Priority,
		FirstSeenAt:    input.FirstSeenAt,
	}, nil
}

// StaleAt reports whether this record was classified under a commit SHA
// that is no longer the PR's head — i.e. it should be invalidated rather
// than reused.
func (r ClassificationRecord) StaleAt(currentHeadSHA string) bool {
	return r.CommitSHA != currentHeadSHA
}
