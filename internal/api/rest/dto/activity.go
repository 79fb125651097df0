package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// ActivityEntry is one audit log entry on the wire
type ActivityEntry struct {
	ID             string    `json:"id"`
	SPVID          uuid.UUID `json:"spv_id"`
	UserID         string    `json:"user_id"`
	UserEmail      string    `json:"user_email"`
	Action         string    `json:"action"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ActivityFromSchema converts log entries for the wire, lifting the acting
// user's email out of the meta blob with a "System" fallback
func ActivityFromSchema(entries []schema.ActivityLog) []ActivityEntry {
	out := make([]ActivityEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityEntry{
			ID:             e.ID,
			SPVID:          e.SPVID,
			UserID:         e.UserID,
			UserEmail:      emailFromMeta(e.Meta),
			Action:         e.Action,
			PreviousStatus: e.PreviousStatus.String(),
			NewStatus:      e.NewStatus.String(),
			CreatedAt:      e.CreatedAt,
		})
	}
	return out
}

func emailFromMeta(meta []byte) string {
	var m struct {
		UserEmail string `json:"user_email"`
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &m); err == nil && m.UserEmail != "" {
			return m.UserEmail
		}
	}
	return "System"
}
