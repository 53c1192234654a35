package analyzer

import "github.com/bkyoung/goodtogo/internal/domain"

// deriveStatus applies the fixed precedence of spec.md §4.2.1 step 11:
// ERROR > CI_FAILING > UNRESOLVED > ACTION_REQUIRED > READY. hadFatalError
// signals a precondition/authentication/integrity/permission failure, or
// a decision-relevant fetch that could not be recovered; ciFailing covers
// both a genuine CI failure and the "can't tell yet" PENDING case (a
// non-fatal fetch miss on the CI endpoint rolls up to PENDING, not ERROR,
// per §4.2.2).
func deriveStatus(hadFatalError bool, ci domain.CIStatus, threads domain.ThreadSummary, comments []domain.Comment, prAuthor string) domain.PRStatus {
	if hadFatalError {
		return domain.StatusError
	}
	if ci.State == domain.CheckFailure || ci.State == domain.CheckPending {
		return domain.StatusCIFailing
	}
	if threads.Unresolved > 0 {
		return domain.StatusUnresolved
	}
	if actionRequired(comments, prAuthor) {
		return domain.StatusActionRequired
	}
	return domain.StatusReady
}

// actionRequired reports whether any comment forces ACTION_REQUIRED: an
// outright ACTIONABLE comment, or a top-level AMBIGUOUS comment that the
// PR author has not yet replied to within its thread.
func actionRequired(comments []domain.Comment, prAuthor string) bool {
	// Comments outside a review thread (plain PR-conversation comments)
	// have no ThreadID; they still share one flat timeline, so they're
	// grouped under the empty key rather than excluded from grouping.
	byThread := make(map[string][]domain.Comment)
	for _, c := range comments {
		byThread[c.ThreadID] = append(byThread[c.ThreadID], c)
	}

	for _, c := range comments {
		switch c.Classification {
		case domain.ClassificationActionable:
			return true
		case domain.ClassificationAmbiguous:
			if c.IsTopLevel() && !authorReplied(c, byThread[c.ThreadID], prAuthor) {
				return true
			}
		}
	}
	return false
}

// authorReplied reports whether any comment sharing c's thread was
// authored by the PR author. Per the Open Question decision recorded in
// SPEC_FULL.md §3: any thread-member reply from the PR author clears an
// otherwise-ambiguous comment, regardless of explicit in-reply-to
// threading depth.
func authorReplied(c domain.Comment, threadMates []domain.Comment, prAuthor string) bool {
	if prAuthor == "" {
		return false
	}
	for _, mate := range threadMates {
		if mate.ID == c.ID {
			continue
		}
		if mate.Author == prAuthor {
			return true
		}
	}
	return false
}
