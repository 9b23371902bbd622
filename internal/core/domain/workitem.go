package domain

import "encoding/json"

// WorkItemStatus is the status label reported by the Design Automation
// work-item endpoint.
type WorkItemStatus string

const (
	WorkItemStatusPending    WorkItemStatus = "pending"
	WorkItemStatusInProgress WorkItemStatus = "inprogress"
	WorkItemStatusSuccess    WorkItemStatus = "success"
	WorkItemStatusFailed     WorkItemStatus = "failed"
	WorkItemStatusError      WorkItemStatus = "error"
)

// IsSuccess reports whether the status is the terminal success state.
func (s WorkItemStatus) IsSuccess() bool {
	return s == WorkItemStatusSuccess
}

// IsFailure reports whether the status is one of the terminal failure
// states. Unknown labels are not failures; the poller keeps waiting on them.
func (s WorkItemStatus) IsFailure() bool {
	return s == WorkItemStatusFailed || s == WorkItemStatusError
}

// IsTerminal reports whether polling should stop on this status.
func (s WorkItemStatus) IsTerminal() bool {
	return s.IsSuccess() || s.IsFailure()
}

// WorkItem is a single remote execution request tracked via the status
// endpoint. Raw carries the full response body of the last status query for
// diagnostics on failure.
type WorkItem struct {
	ID     string          `json:"id"`
	Status WorkItemStatus  `json:"status"`
	Raw    json.RawMessage `json:"-"`
}

// WorkItemRequest is the payload posted to the work-item creation endpoint.
// TaskParameters carries the parameter document serialized to a JSON string,
// as the activity declares it as a plain string argument.
type WorkItemRequest struct {
	ActivityID string            `json:"activityId"`
	Arguments  WorkItemArguments `json:"arguments"`
}

// WorkItemArguments are the activity arguments of a work item.
type WorkItemArguments struct {
	PersonalAccessToken string `json:"PersonalAccessToken"`
	TaskParameters      string `json:"TaskParameters"`
}
