package domain

import "testing"

func TestWorkItemStatusTerminality(t *testing.T) {
	tests := []struct {
		status   WorkItemStatus
		success  bool
		failure  bool
		terminal bool
	}{
		{WorkItemStatusPending, false, false, false},
		{WorkItemStatusInProgress, false, false, false},
		{WorkItemStatusSuccess, true, false, true},
		{WorkItemStatusFailed, false, true, true},
		{WorkItemStatusError, false, true, true},
		{WorkItemStatus("cancelled"), false, false, false},
		{WorkItemStatus(""), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsSuccess(); got != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.success)
			}
			if got := tt.status.IsFailure(); got != tt.failure {
				t.Errorf("IsFailure() = %v, want %v", got, tt.failure)
			}
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestNewSubmission(t *testing.T) {
	params := map[string]string{"Width": "45"}
	sub := NewSubmission("wi-1", "nick.Act+prod", "sample.ts", params)

	if sub.ID.String() == "" {
		t.Error("Submission ID should not be empty")
	}
	if sub.Status != WorkItemStatusPending {
		t.Errorf("Expected pending status, got %s", sub.Status)
	}

	// The snapshot must be detached from the caller's map.
	params["Width"] = "99"
	if sub.Parameters["Width"] != "45" {
		t.Errorf("Expected parameter snapshot to be copied, got %v", sub.Parameters)
	}
}

func TestSubmissionMarkStatus(t *testing.T) {
	sub := NewSubmission("wi-1", "nick.Act+prod", "", nil)
	before := sub.UpdatedAt

	sub.MarkStatus(WorkItemStatusSuccess)

	if sub.Status != WorkItemStatusSuccess {
		t.Errorf("Expected success status, got %s", sub.Status)
	}
	if sub.UpdatedAt.Before(before) {
		t.Error("UpdatedAt should move forward")
	}
}
