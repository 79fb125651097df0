package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twelled/spv-lifecycle/internal/activity"
	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/logger"
	"github.com/twelled/spv-lifecycle/internal/store"
)

// Engine performs role-gated status transitions on SPVs. Every committed
// transition is followed by an activity log entry; the entry is best-effort
// once the status write has landed.
type Engine struct {
	store    store.Store
	activity *activity.Service
}

// New creates a workflow engine
func New(s store.Store, a *activity.Service) *Engine {
	return &Engine{store: s, activity: a}
}

// Result describes a committed transition
type Result struct {
	Previous domain.Status
	New      domain.Status
}

// Transition moves an SPV to a new lifecycle status. Only admins may
// transition; any valid status may follow any other, including re-applying
// the current one. The status write and the log append are two operations:
// a failed write leaves the SPV untouched and appends nothing, while a
// failed append after a committed write leaves the transition standing with
// a warning about the audit gap.
func (e *Engine) Transition(ctx context.Context, spvID uuid.UUID, next domain.Status, actor domain.Principal) (*Result, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, next)
	}

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may change spv status", domain.ErrForbidden)
	}

	previous, err := e.store.UpdateSPVStatus(ctx, spvID, next)
	if err != nil {
		if err == domain.ErrSPVNotFound {
			return nil, err
		}
		return nil, domain.NewPersistenceError("status update", err)
	}

	_, err = e.activity.Record(ctx, activity.Entry{
		SPVID:          spvID,
		Actor:          actor,
		Action:         activity.StatusChangedAction(next),
		PreviousStatus: previous,
		NewStatus:      next,
	})
	if err != nil {
		// The status write is already committed; the log is missing one entry
		logger.WarnCtx(ctx, "status transition committed without an activity entry",
			zap.String("spv_id", spvID.String()),
			zap.String("previous_status", previous.String()),
			zap.String("new_status", next.String()),
			zap.Error(err),
		)
	}

	return &Result{Previous: previous, New: next}, nil
}
