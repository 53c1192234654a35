package domain

import (
	"fmt"
	"regexp"
)

// identifierPattern matches a valid GitHub owner or repository name segment.
// GitHub allows alphanumerics, hyphens, underscores, and dots.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// MaxPRNumber is the largest PR number accepted, per spec: 2^31 - 1.
const MaxPRNumber = 1<<31 - 1

// PRCoordinate identifies a single pull request on GitHub.
type PRCoordinate struct {
	Owner string
	Repo  string
	PR    int
}

// String renders the coordinate as "owner/repo#pr".
func (c PRCoordinate) String() string {
	return fmt.Sprintf("%s/%s#%d", c.Owner, c.Repo, c.PR)
}

// ValidateIdentifier reports whether a single owner/repo segment is well-formed.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier must not be empty")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("identifier %q contains invalid characters", name)
	}
	return nil
}

// NewPRCoordinate validates owner, repo, and pr and returns a PRCoordinate.
// This is a precondition check: it fails synchronously rather than
// producing an ERROR-valued result, per spec.md §4.2.1 step 1.
func NewPRCoordinate(owner, repo string, pr int) (PRCoordinate, error) {
	if err := ValidateIdentifier(owner); err != nil {
		return PRCoordinate{}, fmt.Errorf("invalid owner: %w", err)
	}
	if err := ValidateIdentifier(repo); err != nil {
		return PRCoordinate{}, fmt.Errorf("invalid repo: %w", err)
	}
	if pr <= 0 {
		return PRCoordinate{}, fmt.Errorf("pr number must be positive, got %d", pr)
	}
	if pr > MaxPRNumber {
		return PRCoordinate{}, fmt.Errorf("pr number %d exceeds maximum of %d", pr, MaxPRNumber)
	}
	return PRCoordinate{Owner: owner, Repo: repo, PR: pr}, nil
}
