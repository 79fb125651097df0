package schema

import (
	"time"

	"github.com/google/uuid"
)

// DealMemo represents the spv_deal_memo table - the narrative memo section,
// one-to-one with an SPV.
type DealMemo struct {
	// SPVID references the owning SPV
	SPVID uuid.UUID `gorm:"column:spv_id;primaryKey;type:uuid"`
	// Memo is the narrative deal memo
	Memo string `gorm:"column:memo;type:text"`
	// PitchDeckRef is the blob store reference of the uploaded pitch deck
	PitchDeckRef string `gorm:"column:pitch_deck_ref;type:text"`
	// OtherInvestors lists co-investors in the round (optional)
	OtherInvestors string `gorm:"column:other_investors;type:text"`
	// PastFinancing indicates whether the company raised before
	PastFinancing bool `gorm:"column:past_financing;not null;default:false"`
	// Risks is the risk disclosure text
	Risks string `gorm:"column:risks;type:text"`
	// Disclosures is the conflicts/disclosures text
	Disclosures string `gorm:"column:disclosures;type:text"`
	// CreatedAt is when the section was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is when the section was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the DealMemo model
func (DealMemo) TableName() string {
	return "spv_deal_memo"
}
