package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"

	"github.com/bkyoung/goodtogo/internal/adapter/github"
	"github.com/bkyoung/goodtogo/internal/domain"
)

// threadIndex maps a comment id to the thread that owns it, built once
// per analysis pass from the fetched RawThreads.
type threadIndex map[string]github.RawThread

func buildThreadIndex(threads []github.RawThread) threadIndex {
	idx := make(threadIndex)
	for _, t := range threads {
		for _, id := range t.CommentIDs {
			idx[id] = t
		}
	}
	return idx
}

// correlate converts raw comments into domain.Comment, cascading each
// owning thread's resolution/outdated flags (spec.md §4.2.1 step 5).
func correlate(raw []github.RawComment, idx threadIndex) []domain.Comment {
	out := make([]domain.Comment, 0, len(raw))
	for _, rc := range raw {
		c := domain.Comment{
			ID:          rc.ID,
			Author:      rc.Author,
			Body:        rc.Body,
			CreatedAt:   rc.CreatedAt,
			FilePath:    rc.FilePath,
			LineNumber:  rc.LineNumber,
			URL:         rc.URL,
			InReplyToID: rc.InReplyToID,
		}
		if t, ok := idx[rc.ID]; ok {
			c.ThreadID = t.ID
			c.ApplyThreadFlags(t.IsResolved, t.IsOutdated)
		}
		out = append(out, c)
	}
	return out
}

// outsideDiffHeader marks the start of CodeRabbit's "Outside diff range"
// appendix within a review body; outsideDiffEntry matches each bulleted
// "**path (N)**" file heading inside it, with the first backtick-quoted
// line or line range that follows feeding LineNumber.
var (
	outsideDiffHeader = regexp.MustCompile(`(?i)outside diff range`)
	outsideDiffEntry  = regexp.MustCompile(`\*\*([^*]+?)\s*\(\d+\)\*\*`)
	lineRangePattern  = regexp.MustCompile("`(\\d+)(?:-\\d+)?`")
)

// extractOutsideDiffComments scans a CodeRabbit review body for the
// "Outside diff range" appendix and synthesizes one ACTIONABLE comment
// per bulleted file entry (spec.md §4.2.1 step 6, §9 resolved question).
// The synthetic id is deterministic across runs: sha256(review_id|file|
// line), hex-encoded, so re-running an unchanged review never mints a
// new id for the same finding.
func extractOutsideDiffComments(review github.RawReview) []domain.Comment {
	headerIdx := outsideDiffHeader.FindStringIndex(review.Body)
	if headerIdx == nil {
		return nil
	}
	section := review.Body[headerIdx[1]:]

	entries := outsideDiffEntry.FindAllStringSubmatchIndex(section, -1)
	if len(entries) == 0 {
		return nil
	}

	var out []domain.Comment
	for i, m := range entries {
		file := section[m[2]:m[3]]

		end := len(section)
		if i+1 < len(entries) {
			end = entries[i+1][0]
		}
		chunk := section[m[1]:end]

		line := 0
		if lm := lineRangePattern.FindStringSubmatch(chunk); lm != nil {
			line, _ = strconv.Atoi(lm[1])
		}

		out = append(out, domain.Comment{
			ID:         syntheticOutsideDiffID(review.ID, file, line),
			Author:     "coderabbitai[bot]",
			Body:       "_⚠️ Potential issue_ | Outside diff range\n\n" + chunk,
			CreatedAt:  review.SubmittedAt,
			FilePath:   file,
			LineNumber: line,
			URL:        "",
		})
	}
	return out
}

func syntheticOutsideDiffID(reviewID, file string, line int) string {
	sum := sha256.Sum256([]byte(reviewID + "|" + file + "|" + strconv.Itoa(line)))
	return "odr-" + hex.EncodeToString(sum[:16])
}
