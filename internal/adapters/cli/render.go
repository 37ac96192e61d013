// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/example/devagent/internal/ports/primary"
)

func okMark() string   { return color.GreenString("✓") }
func failMark() string { return color.RedString("✗") }
func warnMark() string { return color.YellowString("!") }
func infoMark() string { return color.CyanString("i") }

// ResultError reports a failed CommandResult to the command layer.
type ResultError struct {
	Result primary.CommandResult
}

func (e *ResultError) Error() string {
	if e.Result.Error == "" {
		return e.Result.Message
	}
	return fmt.Sprintf("%s: %s", e.Result.Message, e.Result.Error)
}

// printer renders command results as text or JSON.
type printer struct {
	out  io.Writer
	json bool
}

type jsonResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Error   string             `json:"error,omitempty"`
	Kind    primary.ErrorKind  `json:"kind,omitempty"`
	Data    primary.ResultData `json:"data,omitempty"`
}

// emit writes r and returns a ResultError when it failed. text renders the
// payload of a successful result in text mode.
func (p printer) emit(r primary.CommandResult, text func()) error {
	if p.json {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonResult{r.Success, r.Message, r.Error, r.Kind, r.Data}); err != nil {
			return err
		}
	} else if r.Success {
		fmt.Fprintf(p.out, "%s %s\n", okMark(), r.Message)
		if text != nil {
			text()
		}
	} else if data, ok := r.Data.(primary.ValidationData); ok {
		p.validation(data)
	}

	if !r.Success {
		return &ResultError{Result: r}
	}
	return nil
}

func (p printer) findings(findings []primary.Finding) {
	for _, f := range findings {
		if f.Valid {
			continue
		}
		mark := warnMark()
		switch f.Severity {
		case "error":
			mark = failMark()
		case "info":
			mark = infoMark()
		}
		fmt.Fprintf(p.out, "  %s %s: %s\n", mark, f.Rule, f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(p.out, "      %s\n", f.Suggestion)
		}
	}
}

func (p printer) validation(data primary.ValidationData) {
	for _, r := range data.Reports {
		mark := okMark()
		if !r.Valid {
			mark = failMark()
		}
		fmt.Fprintf(p.out, "%s %s\n", mark, r.GoalID)
		p.findings(r.Findings)
	}
}

func (p printer) goal(g *primary.Goal) {
	if g == nil {
		return
	}
	fmt.Fprintf(p.out, "\nGoal:    %s\n", g.ID)
	fmt.Fprintf(p.out, "Title:   %s\n", g.Title)
	fmt.Fprintf(p.out, "Status:  %s\n", g.Status)
	if g.BranchName != "" {
		fmt.Fprintf(p.out, "Branch:  %s\n", g.BranchName)
	}
	if g.ExternalIssueID != 0 {
		fmt.Fprintf(p.out, "Issue:   #%d\n", g.ExternalIssueID)
	}
	if g.Description != "" {
		fmt.Fprintf(p.out, "Description: %s\n", g.Description)
	}
	fmt.Fprintf(p.out, "Created: %s\n", formatTime(g.CreatedAt))
	fmt.Fprintf(p.out, "Updated: %s\n", formatTime(g.UpdatedAt))
	if g.CompletedAt != nil {
		fmt.Fprintf(p.out, "Completed: %s\n", formatTime(*g.CompletedAt))
	}
	fmt.Fprintln(p.out)
}

func (p printer) table() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.SetStyle(table.StyleLight)
	return tw
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
