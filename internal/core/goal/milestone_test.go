package goal

import "testing"

func TestMilestoneForStatus(t *testing.T) {
	tests := []struct {
		status    Status
		milestone string
		state     IssueState
	}{
		{StatusTodo, "Todo", IssueOpen},
		{StatusInProgress, "In Progress", IssueOpen},
		{StatusDone, "Done", IssueClosed},
		{StatusArchived, "Done", IssueClosed},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := MilestoneForStatus(tt.status); got != tt.milestone {
				t.Errorf("MilestoneForStatus(%s) = %q, want %q", tt.status, got, tt.milestone)
			}
			if got := IssueStateForStatus(tt.status); got != tt.state {
				t.Errorf("IssueStateForStatus(%s) = %q, want %q", tt.status, got, tt.state)
			}
		})
	}
}

func TestIsTodoMilestone(t *testing.T) {
	for _, title := range []string{"Todo", "todo", " TODO "} {
		if !IsTodoMilestone(title) {
			t.Errorf("IsTodoMilestone(%q) = false, want true", title)
		}
	}
	if IsTodoMilestone("Todo later") {
		t.Error("IsTodoMilestone(\"Todo later\") = true, want false")
	}
}
