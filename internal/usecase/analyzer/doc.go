// Package analyzer implements the PR analyzer use case: given a PR
// coordinate, it fetches the current state from GitHub through the cache
// and classification store, classifies every comment via the parser
// chain, and derives one PRAnalysisResult with a fixed-precedence status.
package analyzer
