package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/twelled/spv-lifecycle/internal/domain"
)

// SPV represents the spv_basic_info table - the root aggregate record for a
// special purpose vehicle. Dependent sections reference it by SPV identifier
// and never own it.
type SPV struct {
	// ID is the opaque unique SPV identifier
	ID uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	// SPVName is the display name shown in listings
	SPVName string `gorm:"column:spv_name;not null;type:text"`
	// CompanyName is the company or fund the vehicle invests into
	CompanyName string `gorm:"column:company_name;type:text"`
	// Description is free-text describing the deal
	Description string `gorm:"column:description;type:text"`
	// Country is the country of incorporation (ISO code as entered)
	Country string `gorm:"column:country;type:text"`
	// IncorporationType is the legal form (LLC, C-Corp, ...)
	IncorporationType string `gorm:"column:incorporation_type;type:text"`
	// Status is the lifecycle status; mutated only by the workflow engine
	// and the wizard's submit/draft paths
	Status domain.Status `gorm:"column:status;not null;type:text;default:draft;index"`
	// IsComplete is true only when every required field across all sections
	// was populated at the last submit
	IsComplete bool `gorm:"column:is_complete;not null;default:false"`
	// CreatedAt is when the record was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime;index"`
	// UpdatedAt is when the record was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`

	// Associations
	Terms       *Terms        `gorm:"foreignKey:SPVID;constraint:OnDelete:CASCADE"`
	DealMemo    *DealMemo     `gorm:"foreignKey:SPVID;constraint:OnDelete:CASCADE"`
	Carry       *Carry        `gorm:"foreignKey:SPVID;constraint:OnDelete:CASCADE"`
	Signature   *Signature    `gorm:"foreignKey:SPVID;constraint:OnDelete:CASCADE"`
	ActivityLog []ActivityLog `gorm:"foreignKey:SPVID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the SPV model
func (SPV) TableName() string {
	return "spv_basic_info"
}
