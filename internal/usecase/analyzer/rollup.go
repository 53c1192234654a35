package analyzer

import "github.com/bkyoung/goodtogo/internal/domain"

// filterExcludedChecks drops any check whose name is in excluded before
// CIStatus is computed (spec.md §4.2.1 step 8, applied ahead of step 9's
// roll-up).
func filterExcludedChecks(checks []domain.CICheck, excluded map[string]bool) []domain.CICheck {
	if len(excluded) == 0 {
		return checks
	}
	out := make([]domain.CICheck, 0, len(checks))
	for _, c := range checks {
		if excluded[c.Name] {
			continue
		}
		out = append(out, c)
	}
	return out
}
