// Package github implements the GitHub transport the analyzer consumes:
// a read-only Port over pull request metadata, comments, review threads,
// CI status, and reviews, backed by go-github's REST client for
// everything except review-thread resolution state, which only the
// GraphQL API exposes.
package github

import (
	"context"
	"time"
)

// PullRequestMeta is the subset of PR metadata the analyzer needs to
// detect a moved head and to timestamp the result.
type PullRequestMeta struct {
	HeadSHA         string
	HeadCommitTime  time.Time
	Author          string
	BaseRef         string
	HeadRef         string
}

// RawComment is the wire-level shape of a comment before thread
// correlation: an inline review comment, a synthesized review-body
// comment, or an issue comment, already deduplicated by ID.
type RawComment struct {
	ID          string
	Author      string
	Body        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FilePath    string
	LineNumber  int
	InReplyToID string
	URL         string
}

// RawThread is a GraphQL review-thread node: resolution state plus the
// comment ids it owns.
type RawThread struct {
	ID         string
	IsResolved bool
	IsOutdated bool
	CommentIDs []string
}

// RawCheck is one CI check-run or legacy commit status, not yet
// normalized to a domain.CheckState.
type RawCheck struct {
	Name       string
	Status     string
	Conclusion string
	URL        string
}

// RawReview is a submitted PR review, fetched so its body can be scanned
// for a reviewer's "Outside diff range" appendix.
type RawReview struct {
	ID          string
	Author      string
	Body        string
	SubmittedAt time.Time
}

// Port is the GitHub transport surface the analyzer depends on. It
// never mutates state on GitHub: every method is a read.
type Port interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequestMeta, error)
	GetComments(ctx context.Context, owner, repo string, number int) ([]RawComment, error)
	GetReviewThreads(ctx context.Context, owner, repo string, number int) ([]RawThread, error)
	GetCIStatus(ctx context.Context, owner, repo, ref string) ([]RawCheck, error)
	GetReviews(ctx context.Context, owner, repo string, number int) ([]RawReview, error)
}
