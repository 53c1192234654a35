package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	ghport "github.com/bkyoung/goodtogo/internal/adapter/github"
	"github.com/bkyoung/goodtogo/internal/cache"
	"github.com/bkyoung/goodtogo/internal/domain"
	"github.com/bkyoung/goodtogo/internal/errs"
	"github.com/bkyoung/goodtogo/internal/parser"
	"github.com/bkyoung/goodtogo/internal/redaction"
	"github.com/bkyoung/goodtogo/internal/state"
)

// Analyzer wires the GitHub port, cache, and classification store behind
// the single public Analyze operation. Parsers are stateless, so one
// Analyzer is safe to reuse across calls.
type Analyzer struct {
	Port     ghport.Port
	Cache    cache.Cache
	State    state.Store
	Chain    parser.Chain
	Redactor *redaction.Engine

	// Now is the clock Analyze uses for timestamps it originates
	// (classification FirstSeenAt). Overridable in tests.
	Now func() time.Time
}

// New builds an Analyzer with the standard parser chain and system clock.
func New(port ghport.Port, c cache.Cache, s state.Store, redactor *redaction.Engine) *Analyzer {
	return &Analyzer{
		Port:     port,
		Cache:    c,
		State:    s,
		Chain:    parser.NewChain(),
		Redactor: redactor,
		Now:      time.Now,
	}
}

// Analyze is the analyzer's single public operation (spec.md §4.2). It
// returns a PRAnalysisResult whose Status is ERROR on every failure mode
// except preconditions — invalid identifiers or a malformed deadline —
// which additionally surface as a returned error, per §4.2's "failure is
// reported as data... except for preconditions".
func (a *Analyzer) Analyze(ctx context.Context, owner, repo string, prNumber int, opts Options) (domain.PRAnalysisResult, error) {
	if opts.Deadline < 0 {
		err := errs.Precondition("deadline must not be negative", nil)
		return a.errorResult(domain.PRCoordinate{Owner: owner, Repo: repo, PR: prNumber}, err), err
	}

	coord, err := domain.NewPRCoordinate(owner, repo, prNumber)
	if err != nil {
		wrapped := errs.Precondition("invalid pr coordinate", err)
		return a.errorResult(coord, wrapped), wrapped
	}

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	head, err := a.Port.GetPullRequest(ctx, coord.Owner, coord.Repo, coord.PR)
	if err != nil {
		return a.errorResult(coord, err), nil
	}

	if err := a.handleHeadTransition(ctx, coord, head.HeadSHA); err != nil {
		return a.errorResult(coord, err), nil
	}
	a.cacheMeta(ctx, coord, head)

	fetch, err := a.fetchAll(ctx, coord, head.HeadSHA, opts.ForceRefresh)
	if err != nil {
		return a.errorResult(coord, err), nil
	}

	idx := buildThreadIndex(fetch.threads)
	comments := correlate(fetch.comments, idx)

	// fetch.comments already includes a virtual comment per review body
	// (GetComments synthesizes one, spec.md §6.2), so the review-level
	// verdict itself reaches the parser chain. fetch.reviews is consulted
	// separately only to mine each body for a CodeRabbit "Outside diff
	// range" appendix, which needs per-entry synthetic comments the
	// virtual review-body comment doesn't carry.
	for _, review := range fetch.reviews {
		comments = append(comments, extractOutsideDiffComments(review)...)
	}

	if err := a.classifyAll(ctx, coord, head.HeadSHA, comments, head.Author); err != nil {
		return a.errorResult(coord, err), nil
	}

	sortComments(comments)

	var actionable, ambiguous []domain.Comment
	for _, c := range comments {
		switch c.Classification {
		case domain.ClassificationActionable:
			actionable = append(actionable, c)
		case domain.ClassificationAmbiguous:
			ambiguous = append(ambiguous, c)
		}
	}

	checks := make([]domain.CICheck, 0, len(fetch.checks))
	for _, rc := range fetch.checks {
		checks = append(checks, domain.CICheck{
			Name:       rc.Name,
			Status:     rc.Status,
			Conclusion: rc.Conclusion,
			URL:        rc.URL,
			State:      domain.NormalizeCheckState(rc.Status, rc.Conclusion),
		})
	}
	checks = filterExcludedChecks(checks, opts.excludeSet())
	ci := domain.RollupCI(checks)
	if fetch.ciFetchFailed {
		ci.State = domain.CheckPending
	}

	domainThreads := make([]domain.ReviewThread, 0, len(fetch.threads))
	for _, t := range fetch.threads {
		domainThreads = append(domainThreads, domain.ReviewThread{
			ID:         t.ID,
			CommentIDs: t.CommentIDs,
			IsResolved: t.IsResolved,
			IsOutdated: t.IsOutdated,
		})
	}
	threadSummary := domain.RollupThreads(domainThreads)

	status := deriveStatus(false, ci, threadSummary, comments, head.Author)
	items := buildActionItems(actionable, ambiguous, ci)
	if fetch.ciFetchFailed {
		items = append([]string{"CI status could not be determined - treating as pending"}, items...)
	}
	items = a.redactAll(items)

	return domain.PRAnalysisResult{
		Coordinate:         coord,
		LatestCommitSHA:    head.HeadSHA,
		CommitTimestamp:    head.HeadCommitTime,
		CI:                 ci,
		Threads:            threadSummary,
		Comments:           comments,
		ActionableComments: actionable,
		AmbiguousComments:  ambiguous,
		ActionItems:        items,
		Status:             status,
		StaleFields:        fetch.staleFields,
	}, nil
}

// handleHeadTransition compares newSHA against the cached head for coord
// and, on a change (or first observation), invalidates every cache entry
// and classification record for this PR (spec.md §4.2.1 step 3).
func (a *Analyzer) handleHeadTransition(ctx context.Context, coord domain.PRCoordinate, newSHA string) error {
	headKey, err := cache.HeadKey(coord)
	if err != nil {
		return errs.Precondition("build head cache key", err)
	}

	cached, ok, err := a.Cache.Get(ctx, headKey)
	if err != nil {
		return errs.Remote("read cached head", true, err)
	}

	if !ok || string(cached) != newSHA {
		prefix, err := cache.PRPrefix(coord)
		if err != nil {
			return errs.Precondition("build pr prefix", err)
		}
		if err := a.Cache.InvalidatePattern(ctx, prefix); err != nil {
			return errs.Remote("invalidate cache on head change", true, err)
		}
		if a.State != nil {
			if err := a.State.InvalidatePR(ctx, coord); err != nil {
				return errs.Remote("invalidate state on head change", true, err)
			}
		}
	}

	return a.Cache.Set(ctx, headKey, []byte(newSHA), cache.TTLHead)
}

// cacheMeta persists the freshly fetched PR metadata under its cache key.
// Failure to cache is not decision-relevant, so it's swallowed rather
// than surfaced: the analyzer's correctness never depends on this write
// succeeding, only on the live fetch that already happened.
func (a *Analyzer) cacheMeta(ctx context.Context, coord domain.PRCoordinate, head ghport.PullRequestMeta) {
	key, err := cache.MetaKey(coord)
	if err != nil {
		return
	}
	if blob, err := json.Marshal(head); err == nil {
		_ = a.Cache.Set(ctx, key, blob, cache.TTLMeta)
	}
}

// fetchResult collects the outputs of the four §4.2.1-step-4 fetches.
type fetchResult struct {
	comments      []ghport.RawComment
	threads       []ghport.RawThread
	reviews       []ghport.RawReview
	checks        []ghport.RawCheck
	ciFetchFailed bool
	staleFields   []string
}

// fetchAll runs the four GitHub fetches concurrently. Comments and
// threads are decision-relevant: either failing aborts the call with
// ERROR. Reviews and CI status are not: a reviews failure only costs the
// "Outside diff range" synthetic comments, and a CI failure degrades the
// roll-up to PENDING per §4.2.2, both recorded in staleFields.
func (a *Analyzer) fetchAll(ctx context.Context, coord domain.PRCoordinate, sha string, forceRefresh bool) (fetchResult, error) {
	var (
		wg                                  sync.WaitGroup
		comments                            []ghport.RawComment
		threads                             []ghport.RawThread
		reviews                             []ghport.RawReview
		checks                              []ghport.RawCheck
		commentsErr, threadsErr, reviewsErr error
		ciFailed                            bool
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		comments, commentsErr = a.Port.GetComments(ctx, coord.Owner, coord.Repo, coord.PR)
	}()
	go func() {
		defer wg.Done()
		threads, threadsErr = a.Port.GetReviewThreads(ctx, coord.Owner, coord.Repo, coord.PR)
	}()
	go func() {
		defer wg.Done()
		reviews, reviewsErr = a.Port.GetReviews(ctx, coord.Owner, coord.Repo, coord.PR)
	}()
	go func() {
		defer wg.Done()
		var err error
		checks, err = a.fetchCIThroughCache(ctx, coord, sha, forceRefresh)
		if err != nil {
			ciFailed = true
		}
	}()
	wg.Wait()

	if commentsErr != nil {
		return fetchResult{}, fmt.Errorf("fetch comments: %w", commentsErr)
	}
	if threadsErr != nil {
		return fetchResult{}, fmt.Errorf("fetch review threads: %w", threadsErr)
	}

	var stale []string
	if reviewsErr != nil {
		stale = append(stale, "reviews")
		reviews = nil
	}
	for _, c := range comments {
		key, err := cache.CommentKey(coord, c.ID)
		if err == nil {
			if blob, err := json.Marshal(c); err == nil {
				_ = a.Cache.Set(ctx, key, blob, cache.TTLComment)
			}
		}
	}
	for _, t := range threads {
		if !t.IsResolved {
			continue
		}
		key, err := cache.ThreadResolvedKey(coord, t.ID)
		if err == nil {
			_ = a.Cache.Set(ctx, key, []byte("resolved"), cache.TTLThread)
		}
	}
	if ciFailed {
		stale = append(stale, "ci_status")
	}

	return fetchResult{
		comments:      comments,
		threads:       threads,
		reviews:       reviews,
		checks:        checks,
		ciFetchFailed: ciFailed,
		staleFields:   stale,
	}, nil
}

// fetchCIThroughCache reads the CI roll-up for sha from the cache;
// otherwise fetches it live and writes it back with a TTL that reflects
// whether any check is still pending, per the cache key space in §4.3.
// forceRefresh (Options.ForceRefresh, spec.md §6.1) skips the read but
// still writes the freshly fetched value back, per §4.3.2's "writes still
// occur" semantics for a forced-refresh call.
func (a *Analyzer) fetchCIThroughCache(ctx context.Context, coord domain.PRCoordinate, sha string, forceRefresh bool) ([]ghport.RawCheck, error) {
	key, err := cache.CIKey(coord, sha)
	if err != nil {
		return nil, err
	}

	if !forceRefresh {
		if blob, ok, err := a.Cache.Get(ctx, key); err == nil && ok {
			var checks []ghport.RawCheck
			if err := json.Unmarshal(blob, &checks); err == nil {
				return checks, nil
			}
		}
	}

	checks, err := a.Port.GetCIStatus(ctx, coord.Owner, coord.Repo, sha)
	if err != nil {
		return nil, err
	}

	anyPending := false
	for _, c := range checks {
		if domain.NormalizeCheckState(c.Status, c.Conclusion) == domain.CheckPending {
			anyPending = true
			break
		}
	}
	ttl := cache.TTLCIFinal
	if anyPending {
		ttl = cache.TTLCIPending
	}
	if blob, err := json.Marshal(checks); err == nil {
		_ = a.Cache.Set(ctx, key, blob, ttl)
	}

	return checks, nil
}

// classifyAll resolves each comment's classification, reusing a
// commit-SHA-scoped state-store record when one exists and persisting a
// freshly computed one otherwise (spec.md §4.2.1 step 7).
func (a *Analyzer) classifyAll(ctx context.Context, coord domain.PRCoordinate, headSHA string, comments []domain.Comment, prAuthor string) error {
	for i := range comments {
		c := &comments[i]

		if a.State != nil {
			rec, ok, err := a.State.Get(ctx, coord, c.ID)
			if err != nil {
				return errs.Remote("read classification state", true, err)
			}
			if ok && !rec.StaleAt(headSHA) {
				c.ApplyClassification(rec.Classification, rec.Priority, false)
				c.ReviewerType = a.Chain.Resolve(c.Author, c.Body).ReviewerType()
				if c.Author == prAuthor {
					c.ReviewerType = domain.ReviewerHuman
				}
				continue
			}
		}

		reviewer, classification, priority, requiresInvestigation := parser.ClassifyComment(a.Chain, *c, c.IsResolved, c.IsOutdated)
		c.ReviewerType = reviewer
		c.ApplyClassification(classification, priority, requiresInvestigation)

		if a.State != nil {
			rec, err := domain.NewClassificationRecord(domain.ClassificationRecordInput{
				Coordinate:     coord,
				CommentID:      c.ID,
				CommitSHA:      headSHA,
				Classification: classification,
				Priority:       priority,
				FirstSeenAt:    a.Now(),
			})
			if err != nil {
				return errs.Internal("build classification record", err)
			}
			if err := a.State.Put(ctx, rec); err != nil {
				return errs.Remote("persist classification", true, err)
			}
		}
	}
	return nil
}

// sortComments orders comments by CreatedAt, stable on id for ties, per
// spec.md §5's ordering guarantee.
func sortComments(comments []domain.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
}

// errorResult builds the ERROR-status result every terminal failure path
// returns, with a redacted one-line description per §7's propagation
// policy.
func (a *Analyzer) errorResult(coord domain.PRCoordinate, err error) domain.PRAnalysisResult {
	msg := err.Error()
	if a.Redactor != nil {
		if redacted, rerr := a.Redactor.Redact(msg); rerr == nil {
			msg = redacted
		}
	}
	return domain.PRAnalysisResult{
		Coordinate:  coord,
		Status:      domain.StatusError,
		ActionItems: []string{msg},
	}
}

func (a *Analyzer) redactAll(items []string) []string {
	if a.Redactor == nil {
		return items
	}
	out := make([]string, len(items))
	for i, item := range items {
		if redacted, err := a.Redactor.Redact(item); err == nil {
			out[i] = redacted
		} else {
			out[i] = item
		}
	}
	return out
}
