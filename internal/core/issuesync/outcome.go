package issuesync

// Success records one issue that was processed.
type Success struct {
	IssueNumber int
	GoalID      string
	Action      Action
}

// Failure records one issue that could not be processed.
type Failure struct {
	IssueNumber int
	Err         error
}

// Outcome is the complete result of a sync run. Every input issue appears
// exactly once, either as a success or as a failure.
type Outcome struct {
	Successes []Success
	Failures  []Failure
}

// Count returns the number of successes with the given action.
func (o Outcome) Count(a Action) int {
	n := 0
	for _, s := range o.Successes {
		if s.Action == a {
			n++
		}
	}
	return n
}

// Fold applies fn to each issue in order and collects every result.
// A failing issue never stops the remaining ones.
func Fold(issues []Issue, fn func(Issue) (Success, error)) Outcome {
	var out Outcome
	for _, issue := range issues {
		s, err := fn(issue)
		if err != nil {
			out.Failures = append(out.Failures, Failure{IssueNumber: issue.Number, Err: err})
			continue
		}
		s.IssueNumber = issue.Number
		out.Successes = append(out.Successes, s)
	}
	return out
}
