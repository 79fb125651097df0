package schema

import (
	"time"

	"github.com/google/uuid"
)

// Signature represents the spv_signatures table - the e-sign record,
// one-to-one with an SPV. A non-empty signature is required before an SPV can
// leave draft.
type Signature struct {
	// SPVID references the owning SPV
	SPVID uuid.UUID `gorm:"column:spv_id;primaryKey;type:uuid"`
	// SignatureData is the signature image payload (data URL)
	SignatureData string `gorm:"column:signature_data;type:text"`
	// SignedBy is the identity of the signer
	SignedBy string `gorm:"column:signed_by;type:text"`
	// SignedAt is when the signature was captured
	SignedAt time.Time `gorm:"column:signed_at;type:timestamptz"`
	// CreatedAt is when the record was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is when the record was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the Signature model
func (Signature) TableName() string {
	return "spv_signatures"
}
