// Package validation runs the goal business rules and reports findings.
// This is part of the Functional Core - no I/O, only pure functions.
package validation

import (
	"github.com/example/devagent/internal/core/goal"
)

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule names, in reporting order.
const (
	RuleUniqueTitle             = "unique-title"
	RuleTitleFormat             = "title-format"
	RuleStatusTransition        = "status-transition"
	RuleBranchConsistency       = "branch-consistency"
	RuleInProgressLimit         = "in-progress-limit"
	RuleExternalIssueUniqueness = "external-issue-uniqueness"
	RuleDescriptionQuality      = "description-quality"
)

// DefaultInProgressLimit is the number of other in-progress goals that
// triggers the in-progress-limit warning.
const DefaultInProgressLimit = 3

// Result is the outcome of a single rule.
type Result struct {
	Rule       string
	Valid      bool
	Severity   Severity
	Message    string
	Suggestion string
}

// Candidate is the goal being validated. Previous is the stored version of
// the goal; nil means the goal is being created.
type Candidate struct {
	Goal     goal.Goal
	Previous *goal.Goal
}

// IsCreate reports whether the candidate is a new goal.
func (c Candidate) IsCreate() bool {
	return c.Previous == nil
}

// Context carries everything the rules read. All values are pre-fetched.
type Context struct {
	AllGoals         []goal.Goal
	CurrentBranch    string
	WorkingTreeClean *bool
	InProgressLimit  int // Zero means DefaultInProgressLimit
}

// Report is the ordered list of rule results for one candidate.
type Report struct {
	GoalID  string
	Results []Result
}

// Valid reports whether no result has error severity.
func (r Report) Valid() bool {
	return len(r.Errors()) == 0
}

// Errors returns the failing error-severity results.
func (r Report) Errors() []Result {
	return r.filter(SeverityError)
}

// Warnings returns the failing warning-severity results.
func (r Report) Warnings() []Result {
	return r.filter(SeverityWarning)
}

func (r Report) filter(sev Severity) []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Valid && res.Severity == sev {
			out = append(out, res)
		}
	}
	return out
}

type rule func(Candidate, Context) Result

var rules = []rule{
	checkUniqueTitle,
	checkTitleFormat,
	checkStatusTransition,
	checkBranchConsistency,
	checkInProgressLimit,
	checkExternalIssueUniqueness,
	checkDescriptionQuality,
}

// Validate runs every rule against the candidate and returns one result
// per rule. It never mutates its inputs.
func Validate(c Candidate, ctx Context) Report {
	report := Report{GoalID: c.Goal.ID, Results: make([]Result, 0, len(rules))}
	for _, r := range rules {
		report.Results = append(report.Results, r(c, ctx))
	}
	return report
}
