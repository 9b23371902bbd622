package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// SubmitOptions describe one work-item submission.
type SubmitOptions struct {
	// ActivityID is the fully qualified activity to instantiate,
	// e.g. "nickname.Activity+my_current_version".
	ActivityID string

	// PersonalAccessToken is passed through to the remote script as an
	// opaque activity argument.
	PersonalAccessToken string

	// DocumentPath locates the parameter document to embed.
	DocumentPath string

	// ScriptFile names the downstream script variant, recorded with the
	// submission for later inspection.
	ScriptFile string
}

// Submitter builds work-item requests from a parameter document and posts
// them to the remote service. Every submission is recorded in the local
// history when a repository is available.
type Submitter struct {
	api     ports.WorkItemAPI
	store   *ParamStore
	history ports.SubmissionRepository
	logger  ports.Logger
}

// NewSubmitter creates a work-item submitter. history may be nil, in which
// case submissions are not recorded locally.
func NewSubmitter(api ports.WorkItemAPI, store *ParamStore, history ports.SubmissionRepository, logger ports.Logger) *Submitter {
	if logger == nil {
		logger = &NopLogger{}
	}
	return &Submitter{
		api:     api,
		store:   store,
		history: history,
		logger:  logger,
	}
}

// Submit reads the parameter document, embeds it as a JSON string in the
// work-item arguments, posts the request, and returns the recorded
// submission. There is no retry: creation failures surface immediately.
func (s *Submitter) Submit(ctx context.Context, opts SubmitOptions) (*domain.Submission, error) {
	doc, err := s.store.Load(opts.DocumentPath)
	if err != nil {
		return nil, err
	}

	taskParams, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize parameter document: %w", err)
	}

	req := &domain.WorkItemRequest{
		ActivityID: opts.ActivityID,
		Arguments: domain.WorkItemArguments{
			PersonalAccessToken: opts.PersonalAccessToken,
			TaskParameters:      string(taskParams),
		},
	}

	workItemID, err := s.api.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("work item created", "work_item_id", workItemID, "activity_id", opts.ActivityID)

	sub := domain.NewSubmission(workItemID, opts.ActivityID, opts.ScriptFile, doc.Parameters)
	if s.history != nil {
		if err := s.history.Create(ctx, sub); err != nil {
			// History is best-effort bookkeeping; the work item is
			// already running remotely.
			s.logger.Warn("failed to record submission", "error", err)
		}
	}
	return sub, nil
}

// RecordStatus updates the locally recorded submission after a status was
// observed for its work item.
func (s *Submitter) RecordStatus(ctx context.Context, sub *domain.Submission, status domain.WorkItemStatus) {
	if s.history == nil || sub == nil {
		return
	}
	sub.MarkStatus(status)
	if err := s.history.Update(ctx, sub); err != nil {
		s.logger.Warn("failed to update submission status", "error", err)
	}
}
