package parser

import (
	"strings"

	"github.com/bkyoung/goodtogo/internal/domain"
)

// Chain holds parsers in the fixed consultation order the analyzer
// requires: specialized reviewers first, Generic last as the guaranteed
// terminator.
type Chain struct {
	parsers []Parser
}

// NewChain builds the standard chain: CodeRabbit, Greptile, Claude,
// Cursor, Vercel, then Generic.
func NewChain() Chain {
	return Chain{parsers: []Parser{
		NewCodeRabbit(),
		NewGreptile(),
		NewClaude(),
		NewCursor(),
		NewVercel(),
		NewGeneric(),
	}}
}

// Resolve returns the first parser in the chain whose CanParse matches
// author and body. Generic always matches, so Resolve never returns nil.
func (c Chain) Resolve(author, body string) Parser {
	for _, p := range c.parsers {
		if p.CanParse(author, body) {
			return p
		}
	}
	// Unreachable: Generic.CanParse always returns true.
	return nil
}

// ClassifyComment resolves the owning parser for comment.Author and
// comment.Body, then classifies it through the shared prelude. When no
// specialized parser claims the comment and the author doesn't look like
// a bot account, the reviewer identity is reported as HUMAN rather than
// UNKNOWN.
func ClassifyComment(c Chain, comment domain.Comment, threadResolved, threadOutdated bool) (domain.ReviewerType, domain.CommentClassification, domain.Priority, bool) {
	p := c.Resolve(comment.Author, comment.Body)
	classification, priority, requiresInvestigation := Classify(p, comment, threadResolved, threadOutdated)

	reviewer := p.ReviewerType()
	if _, isGeneric := p.(Generic); isGeneric && !looksLikeBot(comment.Author) {
		reviewer = domain.ReviewerHuman
	}
	return reviewer, classification, priority, requiresInvestigation
}

func looksLikeBot(author string) bool {
	return strings.HasSuffix(author, "[bot]") || strings.HasSuffix(author, "-bot")
}
