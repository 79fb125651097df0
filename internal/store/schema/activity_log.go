package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/twelled/spv-lifecycle/internal/domain"
)

// Well-known activity action labels. Admin status changes use a free-form
// "Status changed to <status>" label instead.
const (
	ActionSPVCreated    = "SPV Created"
	ActionSPVSubmitted  = "SPV Submitted"
	ActionSPVDraftSaved = "SPV Draft Saved"
)

// ActivityLog represents the spv_activity_log table - the append-only audit
// trail of lifecycle events. Entries are never mutated or deleted.
type ActivityLog struct {
	// ID is a ULID; its lexicographic order matches insertion order, which
	// breaks created_at ties in listings
	ID string `gorm:"column:id;primaryKey;type:text"`
	// SPVID references the SPV this event belongs to
	SPVID uuid.UUID `gorm:"column:spv_id;not null;type:uuid;index:idx_activity_spv_created,priority:1"`
	// UserID is the acting user, or domain.SystemUserID for synthesized entries
	UserID string `gorm:"column:user_id;not null;type:text"`
	// Action is the human-readable action label
	Action string `gorm:"column:action;not null;type:text"`
	// PreviousStatus is the status read immediately before the write
	PreviousStatus domain.Status `gorm:"column:previous_status;type:text"`
	// NewStatus is the status value just written
	NewStatus domain.Status `gorm:"column:new_status;not null;type:text"`
	// CreatedAt is when the event was recorded
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime;type:timestamptz;index:idx_activity_spv_created,priority:2,sort:desc"`
	// Meta carries additional context about the event as JSON
	Meta datatypes.JSON `gorm:"column:meta;type:jsonb"`
}

// TableName specifies the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "spv_activity_log"
}
