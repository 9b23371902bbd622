package ports

import (
	"context"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/google/uuid"
)

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	ActivityID string
	Status     domain.WorkItemStatus
	Limit      int
}

// SubmissionRepository persists locally recorded work-item submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	GetByWorkItemID(ctx context.Context, workItemID string) (*domain.Submission, error)
	Update(ctx context.Context, sub *domain.Submission) error
	List(ctx context.Context, filter SubmissionFilter) ([]*domain.Submission, error)
}
