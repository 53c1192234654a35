package analyzer_test

import (
	"context"
	"strings"
	"sync"
	"time"

	ghport "github.com/bkyoung/goodtogo/internal/adapter/github"
	"github.com/bkyoung/goodtogo/internal/cache"
	"github.com/bkyoung/goodtogo/internal/domain"
)

// memCache is a minimal in-process cache.Cache for exercising the
// analyzer without a real backend.
type memCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]memEntry)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *memCache) InvalidatePattern(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *memCache) CleanupExpired(_ context.Context) error { return nil }

func (c *memCache) Stats(_ context.Context) (cache.Stats, error) { return cache.Stats{}, nil }

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

// memState is a minimal in-process state.Store.
type memState struct {
	mu      sync.Mutex
	records map[string]domain.ClassificationRecord
}

func newMemState() *memState {
	return &memState{records: make(map[string]domain.ClassificationRecord)}
}

func stateKey(coord domain.PRCoordinate, commentID string) string {
	return coord.String() + "|" + commentID
}

func (s *memState) Get(_ context.Context, coord domain.PRCoordinate, commentID string) (domain.ClassificationRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[stateKey(coord, commentID)]
	return rec, ok, nil
}

func (s *memState) Put(_ context.Context, rec domain.ClassificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[stateKey(rec.Coordinate, rec.CommentID)] = rec
	return nil
}

func (s *memState) InvalidatePR(_ context.Context, coord domain.PRCoordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := coord.String() + "|"
	for k := range s.records {
		if strings.HasPrefix(k, prefix) {
			delete(s.records, k)
		}
	}
	return nil
}

func (s *memState) Close() error { return nil }

// fakePort is a scriptable ghport.Port double: every field is returned
// verbatim, so a test sets up exactly the GitHub state it wants to
// exercise.
type fakePort struct {
	meta    ghport.PullRequestMeta
	metaErr error

	comments    []ghport.RawComment
	commentsErr error

	threads    []ghport.RawThread
	threadsErr error

	checks    []ghport.RawCheck
	checksErr error

	reviews    []ghport.RawReview
	reviewsErr error
}

func (f *fakePort) GetPullRequest(context.Context, string, string, int) (ghport.PullRequestMeta, error) {
	return f.meta, f.metaErr
}

func (f *fakePort) GetComments(context.Context, string, string, int) ([]ghport.RawComment, error) {
	return f.comments, f.commentsErr
}

func (f *fakePort) GetReviewThreads(context.Context, string, string, int) ([]ghport.RawThread, error) {
	return f.threads, f.threadsErr
}

func (f *fakePort) GetCIStatus(context.Context, string, string, string) ([]ghport.RawCheck, error) {
	return f.checks, f.checksErr
}

func (f *fakePort) GetReviews(context.Context, string, string, int) ([]ghport.RawReview, error) {
	return f.reviews, f.reviewsErr
}

var _ ghport.Port = (*fakePort)(nil)
