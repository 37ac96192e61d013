// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "time"

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindPrecondition ErrorKind = "precondition"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindValidation   ErrorKind = "validation"
	KindExternal     ErrorKind = "external"
	KindContract     ErrorKind = "contract"
)

// CommandResult is returned by every service operation. Failures are
// reported here and never as a Go error.
type CommandResult struct {
	Success bool
	Message string
	Error   string
	Kind    ErrorKind
	Data    ResultData
}

// Ok builds a successful result.
func Ok(message string, data ResultData) CommandResult {
	return CommandResult{Success: true, Message: message, Data: data}
}

// Fail builds a failed result.
func Fail(kind ErrorKind, message string, err error) CommandResult {
	r := CommandResult{Success: false, Message: message, Kind: kind}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// WithData attaches data to a result, e.g. a validation report on failure.
func (r CommandResult) WithData(data ResultData) CommandResult {
	r.Data = data
	return r
}

// ResultData is the closed set of operation payloads.
type ResultData interface {
	resultData()
}

// Goal represents a goal at the port boundary.
type Goal struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	BranchName      string     `json:"branch_name,omitempty"`
	ExternalIssueID int        `json:"external_issue_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Finding is one validation result at the port boundary.
type Finding struct {
	Rule       string `json:"rule"`
	Valid      bool   `json:"valid"`
	Severity   string `json:"severity"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// StatusCounts holds per-status totals over every stored goal.
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Archived   int `json:"archived"`
}

// Total returns the number of goals across all statuses.
func (c StatusCounts) Total() int {
	return c.Todo + c.InProgress + c.Done + c.Archived
}

// GoalData is returned by operations that act on a single goal.
type GoalData struct {
	Goal     *Goal     `json:"goal"`
	Warnings []Finding `json:"warnings,omitempty"`
	// SyncWarning is set when automatic tracker sync failed after a
	// successful lifecycle change.
	SyncWarning string `json:"sync_warning,omitempty"`
}

// CreateGoalData is returned by Create.
type CreateGoalData struct {
	GoalID   string    `json:"goal_id"`
	Goal     *Goal     `json:"goal"`
	Warnings []Finding `json:"warnings,omitempty"`
}

// DeleteGoalData is returned by Delete.
type DeleteGoalData struct {
	GoalID string `json:"goal_id"`
}

// ListGoalsData is returned by List.
type ListGoalsData struct {
	Goals  []*Goal      `json:"goals"`
	Counts StatusCounts `json:"counts"`
}

// ValidationReport is the validation outcome for one goal.
type ValidationReport struct {
	GoalID   string    `json:"goal_id"`
	Valid    bool      `json:"valid"`
	Findings []Finding `json:"findings"`
}

// ValidationData is returned by Validate and by rejected create/update calls.
type ValidationData struct {
	Reports []ValidationReport `json:"reports"`
}

// CurrentGoalData is returned by Current.
type CurrentGoalData struct {
	Branch       string   `json:"branch"`
	Goal         *Goal    `json:"goal,omitempty"`
	Ahead        int      `json:"ahead"`
	Behind       int      `json:"behind"`
	ChangedFiles []string `json:"changed_files,omitempty"`
}

// GoalEvent is one audit entry.
type GoalEvent struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Field     string    `json:"field,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryData is returned by History.
type HistoryData struct {
	GoalID string       `json:"goal_id"`
	Events []*GoalEvent `json:"events"`
}

// PushData is returned by Push.
type PushData struct {
	GoalID string `json:"goal_id"`
	Branch string `json:"branch"`
	Remote string `json:"remote"`
}

// SyncError records one issue that failed to sync.
type SyncError struct {
	IssueNumber int    `json:"issue_number"`
	Message     string `json:"message"`
}

// SyncFromTrackerData is returned by SyncFromIssueTracker.
type SyncFromTrackerData struct {
	CreatedCount   int         `json:"created_count"`
	UpdatedCount   int         `json:"updated_count"`
	UnchangedCount int         `json:"unchanged_count"`
	Errors         []SyncError `json:"errors"`
}

// SyncToTrackerData is returned by SyncGoalToIssueTracker.
type SyncToTrackerData struct {
	GoalID      string `json:"goal_id"`
	IssueNumber int    `json:"issue_number,omitempty"`
	Milestone   string `json:"milestone,omitempty"`
	State       string `json:"state,omitempty"`
	Skipped     bool   `json:"skipped"`
}

// ConfigEntry is one configuration value at the port boundary.
type ConfigEntry struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	IsDefault   bool   `json:"is_default"`
	Description string `json:"description,omitempty"`
}

// ConfigData is returned by Get, Set and Unset.
type ConfigData struct {
	Entry ConfigEntry `json:"entry"`
}

// ConfigListData is returned by List.
type ConfigListData struct {
	Entries []ConfigEntry `json:"entries"`
}

func (GoalData) resultData()            {}
func (CreateGoalData) resultData()      {}
func (DeleteGoalData) resultData()      {}
func (ListGoalsData) resultData()       {}
func (ValidationData) resultData()      {}
func (CurrentGoalData) resultData()     {}
func (HistoryData) resultData()         {}
func (PushData) resultData()            {}
func (SyncFromTrackerData) resultData() {}
func (SyncToTrackerData) resultData()   {}
func (ConfigData) resultData()          {}
func (ConfigListData) resultData()      {}
