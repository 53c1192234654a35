// Package state defines the classification state store port: a small
// persistent record of the classification assigned to each reviewer comment
// at a given commit SHA, so a comment an agent has already addressed stays
// NON_ACTIONABLE across re-runs until a new head commit arrives.
package state

import (
	"context"

	"github.com/bkyoung/goodtogo/internal/domain"
)

// Store persists and retrieves ClassificationRecords keyed by
// (pr_coordinate, comment_id). Implementations must treat a record whose
// CommitSHA no longer matches the PR's current head as stale; callers
// decide whether to discard or ignore stale records via
// ClassificationRecord.StaleAt.
type Store interface {
	// Get returns the stored record for (coord, commentID), or ok=false if
	// none exists.
	Get(ctx context.Context, coord domain.PRCoordinate, commentID string) (rec domain.ClassificationRecord, ok bool, err error)

	// Put inserts or overwrites the record for (coord, commentID).
	Put(ctx context.Context, rec domain.ClassificationRecord) error

	// InvalidatePR deletes every record for coord. Called when the PR's
	// head SHA changes, in lockstep with the cache's pattern invalidation.
	InvalidatePR(ctx context.Context, coord domain.PRCoordinate) error

	// Close releases any underlying resources (file handles, connections).
	Close() error
}
