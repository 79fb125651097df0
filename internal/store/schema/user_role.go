package schema

import (
	"time"

	"github.com/twelled/spv-lifecycle/internal/domain"
)

// UserRole represents the user_roles table - role assignments consumed by the
// access guard when it resolves a principal.
type UserRole struct {
	// UserID is the identity provider's user identifier
	UserID string `gorm:"column:user_id;primaryKey;type:text"`
	// Role is the assigned role
	Role domain.Role `gorm:"column:role;not null;type:text"`
	// CreatedAt is when the assignment was made
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the UserRole model
func (UserRole) TableName() string {
	return "user_roles"
}
