package schema

import (
	"time"

	"github.com/google/uuid"
)

// CarryRecipient identifies who receives the carried interest
type CarryRecipient string

const (
	CarryRecipientCarry        CarryRecipient = "Carry"
	CarryRecipientRecipient    CarryRecipient = "Carry Recipient"
	CarryRecipientGPCommitment CarryRecipient = "GP Commitment"
	CarryRecipientDealPartners CarryRecipient = "Deal Partners"
)

// Carry represents the spv_carry table - the carry and GP commitment section,
// one-to-one with an SPV.
type Carry struct {
	// SPVID references the owning SPV
	SPVID uuid.UUID `gorm:"column:spv_id;primaryKey;type:uuid"`
	// CarryAmount is the carry percentage or amount as entered
	CarryAmount string `gorm:"column:carry_amount;type:text"`
	// CarryRecipient is the recipient category
	CarryRecipient CarryRecipient `gorm:"column:carry_recipient;type:text"`
	// DealPartners is the deal partners note
	DealPartners string `gorm:"column:deal_partners;type:text"`
	// CreatedAt is when the section was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is when the section was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the Carry model
func (Carry) TableName() string {
	return "spv_carry"
}
