package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bkyoung/goodtogo/internal/errs"
	"github.com/google/go-github/v68/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL        = "https://api.github.com"
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = 2 * time.Second
	perPage               = 100
)

// Client implements Port against the real GitHub API: REST via go-github
// for everything except review-thread resolution state, which only the
// GraphQL API exposes, via githubv4.
type Client struct {
	rest      *github.Client
	gql       *githubv4.Client
	retryConf retryConfig
}

// NewClient builds a Client authenticated with token. token must be
// non-empty; the analyzer's precondition layer is responsible for
// rejecting a missing credential before this constructor is reached.
func NewClient(token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = defaultTimeout

	return &Client{
		rest:      github.NewClient(httpClient),
		gql:       githubv4.NewClient(httpClient),
		retryConf: defaultRetryConfig(),
	}
}

// SetBaseURL points the REST client at an enterprise instance (for tests
// and GitHub Enterprise Server deployments).
func (c *Client) SetBaseURL(baseURL string) error {
	u, err := c.rest.BaseURL.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	c.rest.BaseURL = u
	return nil
}

var _ Port = (*Client)(nil)

// GetPullRequest resolves the PR's head SHA, its commit timestamp, and
// author/ref metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequestMeta, error) {
	var pr *github.PullRequest
	err := withRetry(ctx, c.retryConf, retryableREST, func(ctx context.Context) error {
		p, resp, err := c.rest.PullRequests.Get(ctx, owner, repo, number)
		if err != nil {
			return mapRESTError("get pull request", wrapResp(err, resp))
		}
		pr = p
		return nil
	})
	if err != nil {
		return PullRequestMeta{}, err
	}

	meta := PullRequestMeta{
		HeadSHA: pr.GetHead().GetSHA(),
		Author:  pr.GetUser().GetLogin(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
	}

	var commit *github.RepositoryCommit
	err = withRetry(ctx, c.retryConf, retryableREST, func(ctx context.Context) error {
		rc, resp, err := c.rest.Repositories.GetCommit(ctx, owner, repo, meta.HeadSHA, nil)
		if err != nil {
			return mapRESTError("get head commit", wrapResp(err, resp))
		}
		commit = rc
		return nil
	})
	if err != nil {
		return PullRequestMeta{}, err
	}
	if committer := commit.GetCommit().GetCommitter(); committer != nil {
		meta.HeadCommitTime = committer.GetDate().Time
	}

	return meta, nil
}

// GetComments fetches inline review comments, issue-level comments, and
// a synthesized virtual comment per submitted review body, deduplicated
// by id (spec.md §4.2.1 step 4, §6.2's "union of inline review comments,
// review bodies..., and issue comments"). Without the review-body entry,
// a reviewer's verdict carried only in the top-level review body (a
// Claude "Request changes" review, a Cursor "Critical Severity" summary,
// a bare CodeRabbit "Potential issue" review, a Greptile rollup) would
// never reach the parser chain.
func (c *Client) GetComments(ctx context.Context, owner, repo string, number int) ([]RawComment, error) {
	var out []RawComment
	seen := make(map[string]bool)

	add := func(comments []RawComment) {
		for _, rc := range comments {
			if seen[rc.ID] {
				continue
			}
			seen[rc.ID] = true
			out = append(out, rc)
		}
	}

	inline, err := c.listReviewComments(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	add(inline)

	issueComments, err := c.listIssueComments(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	add(issueComments)

	reviews, err := c.listReviews(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	add(reviewBodyComments(reviews))

	return out, nil
}

// reviewBodyComments synthesizes one virtual RawComment per review whose
// body is non-empty, carrying the review's own stable id ("rev-<n>", the
// same id GetReviews reports) so it dedupes naturally against any other
// source that ever surfaces the same review. A review with an empty body
// (an approval with no comment) has nothing for the parser chain to
// classify and is skipped.
func reviewBodyComments(reviews []RawReview) []RawComment {
	var out []RawComment
	for _, r := range reviews {
		if r.Body == "" {
			continue
		}
		out = append(out, RawComment{
			ID:        r.ID,
			Author:    r.Author,
			Body:      r.Body,
			CreatedAt: r.SubmittedAt,
			UpdatedAt: r.SubmittedAt,
		})
	}
	return out
}

func (c *Client) listReviewComments(ctx context.Context, owner, repo string, number int) ([]RawComment, error) {
	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []RawComment
	for {
		var page []*github.PullRequestComment
		var resp *github.Response
		err := withRetry(ctx, c.retryConf, retryableREST, func(ctx context.Context) error {
			p, r, err := c.rest.PullRequests.ListComments(ctx, owner, repo, number, opts)
			if err != nil {
				return mapRESTError("list review comments", wrapResp(err, r))
			}
			page, resp = p, r
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, pc := range page {
			id := fmt.Sprintf("rc-%d", pc.GetID())
			rc := RawComment{
				ID:        id,
				Author:    pc.GetUser().GetLogin(),
				Body:      pc.GetBody(),
				CreatedAt: pc.GetCreatedAt().Time,
				UpdatedAt: pc.GetUpdatedAt().Time,
				FilePath:  pc.GetPath(),
				URL:       pc.GetHTMLURL(),
			}
			if pc.Line != nil {
				rc.LineNumber = pc.GetLine()
			} else {
				rc.LineNumber = pc.GetOriginalLine()
			}
			if pc.InReplyTo != nil {
				rc.InReplyToID = fmt.Sprintf("rc-%d", pc.GetInReplyTo())
			}
			out = append(out, rc)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) listIssueComments(ctx context.Context, owner, repo string, number int) ([]RawComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []RawComment
	for {
		var page []*github.IssueComment
		var resp *github.Response
		err := withRetry(ctx, c.retryConf, retryableREST, func(ctx context.Context) error {
			p, r, err := c.rest.Issues.ListComments(ctx, owner, repo, number, opts)
			if err != nil {
				return mapRESTError("list issue comments", wrapResp(err, r))
			}
			page, resp = p, r
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, ic := range page {
			out = append(out, RawComment{
				ID:        fmt.Sprintf("ic-%d", ic.GetID()),
				Author:    ic.GetUser().GetLogin(),
				Body:      ic.GetBody(),
				CreatedAt: ic.GetCreatedAt().Time,
				UpdatedAt: ic.GetUpdatedAt().Time,
				URL:       ic.GetHTMLURL(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// GetReviews fetches every submitted review: bodies are scanned by the
// analyzer for a CodeRabbit-style "Outside diff range" appendix, and by
// GetComments, which synthesizes a virtual comment from each one.
func (c *Client) GetReviews(ctx context.Context, owner, repo string, number int) ([]RawReview, error) {
	return c.listReviews(ctx, owner, repo, number)
}

func (c *Client) listReviews(ctx context.Context, owner, repo string, number int) ([]RawReview, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var out []RawReview
	for {
		var page []*github.PullRequestReview
		var resp *github.Response
		err := withRetry(ctx, c.retryConf, retryableREST, func(ctx context.Context) error {
			p, r, err := c.rest.PullRequests.ListReviews(ctx, owner, repo, number, opts)
			if err != nil {
				return mapRESTError("list reviews", wrapResp(err, r))
			}
			page, resp = p, r
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, r := range page {
			out = append(out, RawReview{
				ID:          fmt.Sprintf("rev-%d", r.GetID()),
				Author:      r.GetUser().GetLogin(),
				Body:        r.GetBody(),
				SubmittedAt: r.GetSubmittedAt().Time,
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// GetCIStatus merges check-runs (the Checks API) with legacy commit
// statuses (the Statuses API) for ref, by name/context.
func (c *Client) GetCIStatus(ctx context.Context, owner, repo, ref string) ([]RawCheck, error) {
	var out []RawCheck

	checkOpts := &github.ListCheckRunsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	for {
		var result *github.ListCheckRunsResults
		var resp *github.Response
		err := withRetry(ctx, c.retryConf, retryableREST, func(ctx context.Context) error {
			res, r, err := c.rest.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, checkOpts)
			if err != nil {
				return mapRESTError("list check runs", wrapResp(err, r))
			}
			result, resp = res, r
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, cr := range result.CheckRuns {
			out = append(out, RawCheck{
				Name:       cr.GetName(),
				Status:     cr.GetStatus(),
				Conclusion: cr.GetConclusion(),
				URL:        cr.GetHTMLURL(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		checkOpts.Page = resp.NextPage
	}

	statusOpts := &github.ListOptions{PerPage: perPage}
	for {
		var page []*github.RepoStatus
		var resp *github.Response
		err := withRetry(ctx, c.retryConf, retryableREST, func(ctx context.Context) error {
			p, r, err := c.rest.Repositories.ListStatuses(ctx, owner, repo, ref, statusOpts)
			if err != nil {
				return mapRESTError("list commit statuses", wrapResp(err, r))
			}
			page, resp = p, r
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, st := range page {
			out = append(out, RawCheck{
				Name:       st.GetContext(),
				Status:     "completed",
				Conclusion: legacyStateToConclusion(st.GetState()),
				URL:        st.GetTargetURL(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		statusOpts.Page = resp.NextPage
	}

	return out, nil
}

// legacyStateToConclusion maps the Statuses API's "state" vocabulary
// (success/failure/error/pending) onto the Checks API's "conclusion"
// vocabulary so both feed the same normalizer.
func legacyStateToConclusion(state string) string {
	switch state {
	case "success", "failure", "error":
		return state
	case "pending":
		return ""
	default:
		return ""
	}
}

// reviewThreadsQuery mirrors the GraphQL shape of a PR's review threads:
// resolution/outdated flags plus the comment ids each thread owns.
type reviewThreadsQuery struct {
	Repository struct {
		PullRequest struct {
			ReviewThreads struct {
				PageInfo struct {
					EndCursor   githubv4.String
					HasNextPage bool
				}
				Nodes []struct {
					ID         githubv4.String
					IsResolved bool
					IsOutdated bool
					Comments   struct {
						Nodes []struct {
							DatabaseID githubv4.Int `graphql:"databaseId"`
						}
					} `graphql:"comments(first: 100)"`
				}
			} `graphql:"reviewThreads(first: 100, after: $cursor)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// GetReviewThreads fetches every review thread's resolution state via
// GraphQL, the only GitHub API surface that exposes it.
func (c *Client) GetReviewThreads(ctx context.Context, owner, repo string, number int) ([]RawThread, error) {
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
		"cursor": (*githubv4.String)(nil),
	}

	var out []RawThread
	for {
		var q reviewThreadsQuery
		err := withRetry(ctx, c.retryConf, retryableGraphQL, func(ctx context.Context) error {
			if err := c.gql.Query(ctx, &q, vars); err != nil {
				return mapGraphQLError("list review threads", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, node := range q.Repository.PullRequest.ReviewThreads.Nodes {
			thread := RawThread{
				ID:         string(node.ID),
				IsResolved: node.IsResolved,
				IsOutdated: node.IsOutdated,
			}
			for _, cn := range node.Comments.Nodes {
				thread.CommentIDs = append(thread.CommentIDs, fmt.Sprintf("rc-%d", int(cn.DatabaseID)))
			}
			out = append(out, thread)
		}

		if !q.Repository.PullRequest.ReviewThreads.PageInfo.HasNextPage {
			break
		}
		vars["cursor"] = githubv4.NewString(q.Repository.PullRequest.ReviewThreads.PageInfo.EndCursor)
	}

	return out, nil
}

func retryableREST(err error) bool  { return errs.IsRetryable(err) }
func retryableGraphQL(err error) bool { return errs.IsRetryable(err) }

// wrapResp attaches the HTTP status code go-github already parsed so
// mapRESTError doesn't need to re-derive it from err's dynamic type in
// the common case.
func wrapResp(err error, resp *github.Response) error {
	if resp != nil && resp.Response != nil && resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w (status %d)", err, resp.StatusCode)
	}
	return err
}
