package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// ErrWorkItemFailed is returned when a work item reaches a terminal failure
// state. The returned work item carries the full diagnostic payload.
var ErrWorkItemFailed = errors.New("work item finished in a failure state")

// ErrPollExhausted is returned when a bounded policy runs out of attempts
// before the work item reaches a terminal state.
var ErrPollExhausted = errors.New("work item did not reach a terminal state")

// PollPolicy controls the status polling loop. The zero MaxAttempts means
// poll forever, which matches how the toolkit is normally driven: a human
// watches the run and interrupts it if needed.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultPollPolicy polls every three seconds with no attempt bound.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{Interval: 3 * time.Second}
}

// Poller drives a work item to a terminal status by repeatedly querying the
// status endpoint.
//
// Transient errors (transport failures, malformed responses) are logged and
// treated as "could not check status": the loop keeps going. Only a
// terminal remote status or cancellation of the context ends the wait.
type Poller struct {
	api    ports.WorkItemAPI
	logger ports.Logger
	policy PollPolicy

	// sleep is replaceable in tests so polls don't take wall-clock time.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a status poller with the given policy.
func NewPoller(api ports.WorkItemAPI, logger ports.Logger, policy PollPolicy) *Poller {
	if logger == nil {
		logger = &NopLogger{}
	}
	if policy.Interval <= 0 {
		policy.Interval = DefaultPollPolicy().Interval
	}
	return &Poller{
		api:    api,
		logger: logger,
		policy: policy,
		sleep:  sleepContext,
	}
}

// Wait polls the work item until it reaches a terminal status. On success
// the final work item is returned. On a terminal failure the work item is
// returned together with ErrWorkItemFailed so callers can surface the
// diagnostic payload.
func (p *Poller) Wait(ctx context.Context, workItemID string) (*domain.WorkItem, error) {
	log := p.logger.With("work_item_id", workItemID)
	log.Info("polling work item")

	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempts++
		item, err := p.api.Status(ctx, workItemID)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			log.Warn("failed to check work item status", "error", err)
		default:
			log.Info("work item status", "status", item.Status)
			if item.Status.IsSuccess() {
				return item, nil
			}
			if item.Status.IsFailure() {
				return item, fmt.Errorf("%w: status %s", ErrWorkItemFailed, item.Status)
			}
		}

		if p.policy.MaxAttempts > 0 && attempts >= p.policy.MaxAttempts {
			return nil, fmt.Errorf("%w after %d attempts", ErrPollExhausted, attempts)
		}

		if err := p.sleep(ctx, p.policy.Interval); err != nil {
			return nil, err
		}
	}
}

// sleepContext pauses for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
