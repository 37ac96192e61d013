package goal

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"todo", StatusTodo, false},
		{"in_progress", StatusInProgress, false},
		{"done", StatusDone, false},
		{"archived", StatusArchived, false},
		{" done ", StatusDone, false},
		{"", "", true},
		{"Todo", "", true},
		{"complete", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusTodo:       {StatusInProgress: true, StatusArchived: true},
		StatusInProgress: {StatusDone: true, StatusTodo: true, StatusArchived: true},
		StatusDone:       {StatusArchived: true, StatusTodo: true},
		StatusArchived:   {StatusTodo: true},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := from == to || allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestNextStatuses_ReturnsCopy(t *testing.T) {
	next := NextStatuses(StatusTodo)
	next[0] = StatusDone

	if CanTransition(StatusTodo, StatusDone) {
		t.Error("mutating NextStatuses result changed the transition table")
	}
}
