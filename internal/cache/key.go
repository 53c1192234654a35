package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bkyoung/goodtogo/internal/domain"
)

// BuildKey joins parts into a colon-delimited cache key, rejecting any
// part that is empty, contains ':', '*', or '?', or fails the identifier
// regex shared with PRCoordinate validation. This is the cache's key
// safety boundary: a malformed part can neither collide with another
// key's namespace nor inject a wildcard into a pattern-based backend.
func BuildKey(parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("cache key requires at least one part")
	}
	for _, p := range parts {
		if err := validateKeyPart(p); err != nil {
			return "", fmt.Errorf("invalid cache key part %q: %w", p, err)
		}
	}
	return strings.Join(parts, ":"), nil
}

func validateKeyPart(part string) error {
	if part == "" {
		return fmt.Errorf("part must not be empty")
	}
	if strings.ContainsAny(part, ":*?") {
		return fmt.Errorf("part must not contain ':', '*', or '?'")
	}
	return domain.ValidateIdentifier(part)
}

// HeadKey builds the key for a PR's cached head SHA.
func HeadKey(coord domain.PRCoordinate) (string, error) {
	return BuildKey("pr", coord.Owner, coord.Repo, strconv.Itoa(coord.PR), "head")
}

// MetaKey builds the key for a PR's cached metadata.
func MetaKey(coord domain.PRCoordinate) (string, error) {
	return BuildKey("pr", coord.Owner, coord.Repo, strconv.Itoa(coord.PR), "meta")
}

// CommentKey builds the key for a single cached comment.
func CommentKey(coord domain.PRCoordinate, commentID string) (string, error) {
	return BuildKey("pr", coord.Owner, coord.Repo, strconv.Itoa(coord.PR), "comment", commentID)
}

// ThreadResolvedKey builds the key for a thread's cached resolved state.
// Callers must only cache under this key once the thread is resolved.
func ThreadResolvedKey(coord domain.PRCoordinate, threadID string) (string, error) {
	return BuildKey("pr", coord.Owner, coord.Repo, strconv.Itoa(coord.PR), "thread", threadID, "resolved")
}

// CIKey builds the key for a PR's cached CI status at a given commit SHA.
func CIKey(coord domain.PRCoordinate, sha string) (string, error) {
	return BuildKey("pr", coord.Owner, coord.Repo, strconv.Itoa(coord.PR), "ci", sha)
}

// PRPrefix builds the shared prefix for every key belonging to a PR, used
// with InvalidatePattern when the head SHA changes.
func PRPrefix(coord domain.PRCoordinate) (string, error) {
	return BuildKey("pr", coord.Owner, coord.Repo, strconv.Itoa(coord.PR))
}
