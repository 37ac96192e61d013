// Package goal contains the pure business logic for goal lifecycle operations.
// This is part of the Functional Core - no I/O, only pure functions.
package goal

import (
	"strings"
	"time"
)

// Goal is the core view of a tracked unit of development work.
type Goal struct {
	ID              string
	Title           string
	Description     string
	Status          Status
	BranchName      string // Empty means no branch
	ExternalIssueID int    // 0 means not linked
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

// HasBranch reports whether the goal carries a branch name.
func (g Goal) HasBranch() bool {
	return g.BranchName != ""
}

// IsLinked reports whether the goal references an external issue.
func (g Goal) IsLinked() bool {
	return g.ExternalIssueID > 0
}

// NormalizeTitle returns the comparison key used for title uniqueness.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
