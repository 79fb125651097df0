package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/store"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// systemEmail is recorded in entry meta when no acting email is known
const systemEmail = "System"

// Entry is one event to append to an SPV's activity log
type Entry struct {
	SPVID uuid.UUID
	// Actor is the acting principal; the zero value attributes the entry to
	// the system
	Actor          domain.Principal
	Action         string
	PreviousStatus domain.Status
	NewStatus      domain.Status
}

// Service appends to and reads the append-only activity log
type Service struct {
	store store.Store
}

// New creates an activity service backed by the given store
func New(s store.Store) *Service {
	return &Service{store: s}
}

// StatusChangedAction formats the action label for a status transition
func StatusChangedAction(next domain.Status) string {
	return fmt.Sprintf("Status changed to %s", next)
}

// Record appends one entry. Existing entries are never modified or deleted.
func (s *Service) Record(ctx context.Context, e Entry) (*schema.ActivityLog, error) {
	userID := e.Actor.ID
	if userID == "" {
		userID = domain.SystemUserID
	}

	meta, err := entryMeta(e.Actor.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activity meta: %w", err)
	}

	entry, err := s.store.AppendActivity(ctx, store.AppendActivityInput{
		SPVID:          e.SPVID,
		UserID:         userID,
		Action:         e.Action,
		PreviousStatus: e.PreviousStatus,
		NewStatus:      e.NewStatus,
		Meta:           meta,
	})
	if err != nil {
		return nil, domain.NewPersistenceError("activity append", err)
	}

	return entry, nil
}

// ListForSPV returns the log newest-first. An SPV whose log is empty (created
// before logging existed, or whose creation entry was lost to a partial write)
// is backfilled with a single creation entry first, so every reader sees at
// least one entry.
func (s *Service) ListForSPV(ctx context.Context, spv *schema.SPV) ([]schema.ActivityLog, error) {
	if err := s.ensureSeeded(ctx, spv); err != nil {
		return nil, err
	}

	entries, err := s.store.ListActivityForSPV(ctx, spv.ID)
	if err != nil {
		return nil, domain.NewPersistenceError("activity list", err)
	}

	return entries, nil
}

// Count returns the number of entries recorded for an SPV
func (s *Service) Count(ctx context.Context, spvID uuid.UUID) (int64, error) {
	count, err := s.store.CountActivityForSPV(ctx, spvID)
	if err != nil {
		return 0, domain.NewPersistenceError("activity count", err)
	}
	return count, nil
}

// ensureSeeded appends a creation entry when the log holds none. The check
// and the append are not atomic; a concurrent reader may seed a second
// creation entry, which the append-only log tolerates.
func (s *Service) ensureSeeded(ctx context.Context, spv *schema.SPV) error {
	count, err := s.store.CountActivityForSPV(ctx, spv.ID)
	if err != nil {
		return domain.NewPersistenceError("activity count", err)
	}
	if count > 0 {
		return nil
	}

	// The synthesized creation entry always records draft, regardless of
	// where the SPV has moved since: it stands in for the entry the original
	// creation would have written.
	_, err = s.Record(ctx, Entry{
		SPVID:          spv.ID,
		Action:         schema.ActionSPVCreated,
		PreviousStatus: domain.StatusDraft,
		NewStatus:      domain.StatusDraft,
	})
	return err
}

// entryMeta encodes the acting user's email into the jsonb meta column,
// falling back to the system label when none is known
func entryMeta(email string) (datatypes.JSON, error) {
	if email == "" {
		email = systemEmail
	}

	raw, err := json.Marshal(map[string]string{"user_email": email})
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}
