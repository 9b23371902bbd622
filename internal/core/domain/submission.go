package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a locally recorded work-item submission. Submissions are
// persisted to SQLite so past runs can be inspected after the process exits.
type Submission struct {
	ID         uuid.UUID         `json:"id"`
	WorkItemID string            `json:"work_item_id"`
	ActivityID string            `json:"activity_id"`
	ScriptFile string            `json:"script_file,omitempty"`
	Parameters map[string]string `json:"parameters"`
	Status     WorkItemStatus    `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewSubmission records a freshly created work item in the pending state.
func NewSubmission(workItemID, activityID, scriptFile string, parameters map[string]string) *Submission {
	now := time.Now()
	params := make(map[string]string, len(parameters))
	for k, v := range parameters {
		params[k] = v
	}
	return &Submission{
		ID:         uuid.Must(uuid.NewV7()),
		WorkItemID: workItemID,
		ActivityID: activityID,
		ScriptFile: scriptFile,
		Parameters: params,
		Status:     WorkItemStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MarkStatus records the status observed for the work item.
func (s *Submission) MarkStatus(status WorkItemStatus) {
	s.Status = status
	s.UpdatedAt = time.Now()
}
