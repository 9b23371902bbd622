package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

func newTestRepository(t *testing.T) *SubmissionRepository {
	t.Helper()

	db, err := New(DefaultConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewSubmissionRepository(db)
}

func TestSubmissionRepository_CreateAndGetByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sub := domain.NewSubmission("wi-123", "nick.UpdateParams+prod", "MyScript",
		map[string]string{"Width": "45", "Height": "12.5"})

	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.ID != sub.ID {
		t.Errorf("expected id %s, got %s", sub.ID, got.ID)
	}
	if got.WorkItemID != "wi-123" {
		t.Errorf("expected work item id 'wi-123', got '%s'", got.WorkItemID)
	}
	if got.ActivityID != "nick.UpdateParams+prod" {
		t.Errorf("unexpected activity id '%s'", got.ActivityID)
	}
	if got.ScriptFile != "MyScript" {
		t.Errorf("unexpected script file '%s'", got.ScriptFile)
	}
	if got.Status != domain.WorkItemStatusPending {
		t.Errorf("expected pending status, got '%s'", got.Status)
	}
	if got.Parameters["Width"] != "45" || got.Parameters["Height"] != "12.5" {
		t.Errorf("unexpected parameters %v", got.Parameters)
	}
	if got.CreatedAt.UnixMilli() != sub.CreatedAt.UnixMilli() {
		t.Errorf("expected created at %v, got %v", sub.CreatedAt, got.CreatedAt)
	}
}

func TestSubmissionRepository_GetByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), uuid.Must(uuid.NewV7()))
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestSubmissionRepository_GetByWorkItemIDReturnsNewest(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	older := domain.NewSubmission("wi-dup", "nick.A+prod", "", nil)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := domain.NewSubmission("wi-dup", "nick.B+prod", "", nil)

	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByWorkItemID(ctx, "wi-dup")
	if err != nil {
		t.Fatalf("GetByWorkItemID failed: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("expected the newest submission, got %s", got.ID)
	}
}

func TestSubmissionRepository_Update(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sub := domain.NewSubmission("wi-upd", "nick.UpdateParams+prod", "", map[string]string{"Width": "45"})
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	sub.MarkStatus(domain.WorkItemStatusSuccess)
	if err := repo.Update(ctx, sub); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.WorkItemStatusSuccess {
		t.Errorf("expected success status, got '%s'", got.Status)
	}
}

func TestSubmissionRepository_UpdateNotFound(t *testing.T) {
	repo := newTestRepository(t)

	sub := domain.NewSubmission("wi-ghost", "nick.A+prod", "", nil)
	err := repo.Update(context.Background(), sub)
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestSubmissionRepository_List(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := domain.NewSubmission("wi-1", "nick.A+prod", "", nil)
	first.CreatedAt = time.Now().Add(-2 * time.Hour)
	second := domain.NewSubmission("wi-2", "nick.B+prod", "", nil)
	second.CreatedAt = time.Now().Add(-time.Hour)
	second.Status = domain.WorkItemStatusSuccess
	third := domain.NewSubmission("wi-3", "nick.A+prod", "", nil)

	for _, sub := range []*domain.Submission{first, second, third} {
		if err := repo.Create(ctx, sub); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := repo.List(ctx, ports.SubmissionFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(all))
	}
	if all[0].WorkItemID != "wi-3" || all[2].WorkItemID != "wi-1" {
		t.Errorf("expected newest-first ordering, got %s, %s, %s",
			all[0].WorkItemID, all[1].WorkItemID, all[2].WorkItemID)
	}

	byActivity, err := repo.List(ctx, ports.SubmissionFilter{ActivityID: "nick.A+prod"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byActivity) != 2 {
		t.Errorf("expected 2 submissions for nick.A+prod, got %d", len(byActivity))
	}

	byStatus, err := repo.List(ctx, ports.SubmissionFilter{Status: domain.WorkItemStatusSuccess})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].WorkItemID != "wi-2" {
		t.Errorf("unexpected status filter result %v", byStatus)
	}

	limited, err := repo.List(ctx, ports.SubmissionFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 1 || limited[0].WorkItemID != "wi-3" {
		t.Errorf("unexpected limited result %v", limited)
	}
}
