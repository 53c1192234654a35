// Package github implements the GitHubPort (§6.2) the analyzer consumes:
// a read-only surface over pull request metadata, comments, review
// threads, CI status, and reviews. REST calls (PR metadata, comments, CI
// checks/statuses, reviews) go through go-github; review-thread
// resolution state is GraphQL-only on GitHub's API, so that one call goes
// through githubv4. The client never mutates GitHub state.
package github
