package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/devagent/internal/core/goal"
)

const (
	titleMinLength       = 3
	titleMaxLength       = 100
	descriptionMinLength = 10
)

var actionVerbs = []string{"add", "implement", "create", "fix", "update", "remove", "refactor", "optimize"}

var acceptanceMarkers = []string{
	"acceptance criteria",
	"acceptance:",
	"done when",
	"definition of done",
	"- [ ]",
	"- [x]",
	"given ",
	"should ",
	"must ",
}

func pass(rule, msg string) Result {
	return Result{Rule: rule, Valid: true, Severity: SeverityInfo, Message: msg}
}

func fail(rule string, sev Severity, msg, suggestion string) Result {
	return Result{Rule: rule, Valid: false, Severity: sev, Message: msg, Suggestion: suggestion}
}

// others yields every goal in the context except the candidate itself.
func others(c Candidate, ctx Context) []goal.Goal {
	out := make([]goal.Goal, 0, len(ctx.AllGoals))
	for _, g := range ctx.AllGoals {
		if g.ID == c.Goal.ID {
			continue
		}
		out = append(out, g)
	}
	return out
}

func checkUniqueTitle(c Candidate, ctx Context) Result {
	key := goal.NormalizeTitle(c.Goal.Title)
	for _, g := range others(c, ctx) {
		if goal.NormalizeTitle(g.Title) == key {
			return fail(RuleUniqueTitle, SeverityError,
				fmt.Sprintf("duplicate title: goal %s already has title %q", g.ID, g.Title),
				"choose a distinct title")
		}
	}
	return pass(RuleUniqueTitle, "title is unique")
}

func checkTitleFormat(c Candidate, _ Context) Result {
	title := strings.TrimSpace(c.Goal.Title)
	n := utf8.RuneCountInString(title)
	if n < titleMinLength || n > titleMaxLength {
		return fail(RuleTitleFormat, SeverityError,
			fmt.Sprintf("title must be %d-%d characters (got %d)", titleMinLength, titleMaxLength, n),
			"")
	}

	first, _ := utf8.DecodeRuneInString(title)
	if !unicode.IsUpper(first) {
		return fail(RuleTitleFormat, SeverityWarning,
			"title should start with a capital letter",
			"capitalize the first word")
	}

	firstWord := strings.ToLower(strings.Fields(title)[0])
	firstWord = strings.TrimFunc(firstWord, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, verb := range actionVerbs {
		if firstWord == verb {
			return pass(RuleTitleFormat, "title is well formed")
		}
	}
	return fail(RuleTitleFormat, SeverityWarning,
		"title does not start with an action verb",
		"start with one of: "+strings.Join(actionVerbs, ", "))
}

func checkStatusTransition(c Candidate, _ Context) Result {
	if c.IsCreate() {
		if c.Goal.Status != goal.InitialStatus() {
			return fail(RuleStatusTransition, SeverityError,
				fmt.Sprintf("new goals must start as %s (got %s)", goal.InitialStatus(), c.Goal.Status),
				"")
		}
		return pass(RuleStatusTransition, "new goal starts as todo")
	}

	from, to := c.Previous.Status, c.Goal.Status
	if !goal.CanTransition(from, to) {
		return fail(RuleStatusTransition, SeverityError,
			fmt.Sprintf("invalid status transition %s -> %s", from, to),
			fmt.Sprintf("allowed from %s: %s", from, joinStatuses(goal.NextStatuses(from))))
	}
	return pass(RuleStatusTransition, "status transition is allowed")
}

func joinStatuses(ss []goal.Status) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func checkBranchConsistency(c Candidate, _ Context) Result {
	g := c.Goal
	switch {
	case g.HasBranch() && g.Status != goal.StatusInProgress:
		return fail(RuleBranchConsistency, SeverityError,
			fmt.Sprintf("goal has branch %q but status is %s", g.BranchName, g.Status),
			"only in_progress goals carry a branch")
	case g.Status == goal.StatusInProgress && !g.HasBranch():
		return fail(RuleBranchConsistency, SeverityWarning,
			"goal is in_progress but has no branch",
			"stop and restart the goal to create its branch")
	}
	return pass(RuleBranchConsistency, "branch matches status")
}

func checkInProgressLimit(c Candidate, ctx Context) Result {
	limit := ctx.InProgressLimit
	if limit <= 0 {
		limit = DefaultInProgressLimit
	}

	if c.Goal.Status != goal.StatusInProgress {
		return pass(RuleInProgressLimit, "goal is not in progress")
	}

	active := 0
	for _, g := range others(c, ctx) {
		if g.Status == goal.StatusInProgress {
			active++
		}
	}
	if active >= limit {
		return fail(RuleInProgressLimit, SeverityWarning,
			fmt.Sprintf("%d other goals are already in progress (limit %d)", active, limit),
			"finish or stop another goal first")
	}
	return pass(RuleInProgressLimit, fmt.Sprintf("%d other goals in progress", active))
}

func checkExternalIssueUniqueness(c Candidate, ctx Context) Result {
	if !c.Goal.IsLinked() {
		return pass(RuleExternalIssueUniqueness, "no external issue linked")
	}
	for _, g := range others(c, ctx) {
		if g.ExternalIssueID == c.Goal.ExternalIssueID {
			return fail(RuleExternalIssueUniqueness, SeverityError,
				fmt.Sprintf("issue #%d is already linked to goal %s", c.Goal.ExternalIssueID, g.ID),
				"")
		}
	}
	return pass(RuleExternalIssueUniqueness, "external issue is unique")
}

func checkDescriptionQuality(c Candidate, _ Context) Result {
	desc := strings.TrimSpace(c.Goal.Description)
	if utf8.RuneCountInString(desc) < descriptionMinLength {
		return fail(RuleDescriptionQuality, SeverityWarning,
			"description is missing or too short",
			fmt.Sprintf("describe the goal in at least %d characters", descriptionMinLength))
	}

	lower := strings.ToLower(desc)
	for _, marker := range acceptanceMarkers {
		if strings.Contains(lower, marker) {
			return pass(RuleDescriptionQuality, "description includes acceptance criteria")
		}
	}
	return fail(RuleDescriptionQuality, SeverityInfo,
		"description has no acceptance criteria",
		"add an \"Acceptance criteria\" section or a checklist")
}
