// Package github implements the issue-tracker port on the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	coregoal "github.com/example/devagent/internal/core/goal"
	"github.com/example/devagent/internal/ports/secondary"
)

const perPage = 100

// Config holds GitHub connection settings.
type Config struct {
	Owner   string
	Repo    string
	Token   string
	BaseURL string // GitHub Enterprise API URL; empty for github.com
	Retry   RetryConfig
}

// Tracker implements secondary.IssueTracker for one GitHub repository.
type Tracker struct {
	client *github.Client
	owner  string
	repo   string
	retry  RetryConfig
	log    *zap.Logger
}

// New creates a Tracker authenticated with a static token.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Tracker, error) {
	if cfg.Owner == "" || cfg.Repo == "" || cfg.Token == "" {
		return nil, secondary.ErrTrackerNotConfigured
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if cfg.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url %q: %w", cfg.BaseURL, err)
		}
	}

	return NewWithClient(client, cfg.Owner, cfg.Repo, cfg.Retry, log), nil
}

// NewWithClient creates a Tracker around an existing client.
func NewWithClient(client *github.Client, owner, repo string, retryCfg RetryConfig, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		client: client,
		owner:  owner,
		repo:   repo,
		retry:  retryCfg,
		log:    log.Named("github"),
	}
}

// SetBaseURL points the client at another API root. Used by tests.
func (t *Tracker) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	t.client.BaseURL = u
	return nil
}

// FetchOpenTodoIssues returns open issues in an open milestone titled
// "Todo" (case-insensitive). Pull requests are excluded.
func (t *Tracker) FetchOpenTodoIssues(ctx context.Context) ([]*secondary.Issue, error) {
	milestones, err := t.FetchMilestones(ctx, "open")
	if err != nil {
		return nil, err
	}

	var issues []*secondary.Issue
	for _, m := range milestones {
		if !coregoal.IsTodoMilestone(m.Title) {
			continue
		}
		found, err := t.listMilestoneIssues(ctx, m.Number)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}

	t.log.Debug("fetched todo issues", zap.Int("count", len(issues)))
	return issues, nil
}

func (t *Tracker) listMilestoneIssues(ctx context.Context, milestone int) ([]*secondary.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		Milestone:   strconv.Itoa(milestone),
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []*secondary.Issue
	for {
		var page []*github.Issue
		resp, err := retry(ctx, t.retry, t.log, func() (*github.Response, error) {
			var (
				r   *github.Response
				err error
			)
			page, r, err = t.client.Issues.ListByRepo(ctx, t.owner, t.repo, opts)
			return r, err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for milestone %d: %w", milestone, err)
		}

		for _, is := range page {
			if is.IsPullRequest() || is.GetState() != "open" {
				continue
			}
			if is.Milestone == nil || is.Milestone.GetState() != "open" || !coregoal.IsTodoMilestone(is.Milestone.GetTitle()) {
				continue
			}
			out = append(out, toIssue(is))
		}

		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// FetchMilestones returns milestones in the given state (open, closed, all).
func (t *Tracker) FetchMilestones(ctx context.Context, state string) ([]*secondary.Milestone, error) {
	if state == "" {
		state = "open"
	}
	opts := &github.MilestoneListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []*secondary.Milestone
	for {
		var page []*github.Milestone
		resp, err := retry(ctx, t.retry, t.log, func() (*github.Response, error) {
			var (
				r   *github.Response
				err error
			)
			page, r, err = t.client.Issues.ListMilestones(ctx, t.owner, t.repo, opts)
			return r, err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list milestones: %w", err)
		}

		for _, m := range page {
			out = append(out, &secondary.Milestone{
				Number: m.GetNumber(),
				Title:  m.GetTitle(),
				State:  m.GetState(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// UpdateIssueMilestone assigns the milestone with the given title. Open
// milestones win over closed ones with the same title.
func (t *Tracker) UpdateIssueMilestone(ctx context.Context, issueNumber int, milestoneTitle string) error {
	milestones, err := t.FetchMilestones(ctx, "all")
	if err != nil {
		return err
	}

	var match *secondary.Milestone
	for _, m := range milestones {
		if !strings.EqualFold(strings.TrimSpace(m.Title), milestoneTitle) {
			continue
		}
		if match == nil || (match.State != "open" && m.State == "open") {
			match = m
		}
	}
	if match == nil {
		return fmt.Errorf("%q: %w", milestoneTitle, secondary.ErrMilestoneNotFound)
	}

	_, err = retry(ctx, t.retry, t.log, func() (*github.Response, error) {
		_, r, err := t.client.Issues.Edit(ctx, t.owner, t.repo, issueNumber, &github.IssueRequest{
			Milestone: github.Int(match.Number),
		})
		return r, err
	})
	if err != nil {
		return fmt.Errorf("failed to set milestone on issue #%d: %w", issueNumber, err)
	}
	return nil
}

// UpdateIssueState opens or closes an issue.
func (t *Tracker) UpdateIssueState(ctx context.Context, issueNumber int, state string) error {
	if state != string(coregoal.IssueOpen) && state != string(coregoal.IssueClosed) {
		return fmt.Errorf("invalid issue state %q (expected open or closed)", state)
	}

	_, err := retry(ctx, t.retry, t.log, func() (*github.Response, error) {
		_, r, err := t.client.Issues.Edit(ctx, t.owner, t.repo, issueNumber, &github.IssueRequest{
			State: github.String(state),
		})
		return r, err
	})
	if err != nil {
		return fmt.Errorf("failed to set state on issue #%d: %w", issueNumber, err)
	}
	return nil
}

func toIssue(is *github.Issue) *secondary.Issue {
	out := &secondary.Issue{
		Number:    is.GetNumber(),
		Title:     is.GetTitle(),
		Body:      is.GetBody(),
		State:     is.GetState(),
		CreatedAt: is.GetCreatedAt().Time,
		UpdatedAt: is.GetUpdatedAt().Time,
	}
	if is.Milestone != nil {
		out.Milestone = &secondary.Milestone{
			Number: is.Milestone.GetNumber(),
			Title:  is.Milestone.GetTitle(),
			State:  is.Milestone.GetState(),
		}
	}
	for _, l := range is.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	if is.Assignee != nil {
		out.Assignee = is.Assignee.GetLogin()
	}
	return out
}

var _ secondary.IssueTracker = (*Tracker)(nil)
