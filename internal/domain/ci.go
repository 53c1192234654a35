package domain

// CICheck is a single CI check-run or legacy commit status, normalized
// to one CheckState from its raw GitHub status/conclusion pair.
type CICheck struct {
	Name       string
	Status     string // raw GitHub status
	Conclusion string // raw GitHub conclusion
	URL        string // optional
	State      CheckState
}

// NormalizeCheckState maps a GitHub check-run's raw status/conclusion (or
// a legacy commit status's raw state) to one CheckState.
func NormalizeCheckState(status, conclusion string) CheckState {
	switch conclusion {
	case "success":
		return CheckSuccess
	case "failure", "timed_out", "cancelled", "action_required", "error":
		return CheckFailure
	case "neutral":
		return CheckNeutral
	case "skipped":
		return CheckSkipped
	}

	switch status {
	case "completed":
		// conclusion was empty/unrecognized but the run finished: treat as neutral
		// rather than silently dropping it from the roll-up.
		return CheckNeutral
	case "success":
		return CheckSuccess
	case "failure", "error":
		return CheckFailure
	case "pending", "queued", "in_progress", "requested", "waiting":
		return CheckPending
	default:
		return CheckPending
	}
}

// CIStatus is the roll-up of every CI check for one commit SHA.
type CIStatus struct {
	Total   int
	Passed  int
	Failed  int
	Pending int
	State   CheckState
	Checks  []CICheck
}

// RollupCI aggregates individual checks into a CIStatus. The aggregate
// state is FAILURE if any check failed, else PENDING if any check is
// pending, else SUCCESS.
func RollupCI(checks []CICheck) CIStatus {
	status := CIStatus{Checks: checks, Total: len(checks)}

	anyFailed := false
	anyPending := false

	for _, check := range checks {
		switch check.State {
		case CheckSuccess:
			status.Passed++
		case CheckFailure:
			status.Failed++
			anyFailed = true
		case CheckPending:
			anyPending = true
		}
	}

	switch {
	case anyFailed:
		status.State = CheckFailure
	case anyPending:
		status.State = CheckPending
	default:
		status.State = CheckSuccess
	}

	// Pending count reflects checks that are neither passed nor failed
	// (pending, neutral, or skipped), matching Total == Passed + Failed + Pending only
	// when every check is accounted for by one of the three buckets.
	status.Pending = status.Total - status.Passed - status.Failed

	return status
}
