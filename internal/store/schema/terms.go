package schema

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType identifies whether the deal is a primary or secondary purchase
type TransactionType string

const (
	TransactionTypePrimary   TransactionType = "Primary"
	TransactionTypeSecondary TransactionType = "Secondary"
)

// InstrumentType identifies the investment instrument
type InstrumentType string

const (
	InstrumentTypeEquity          InstrumentType = "Equity"
	InstrumentTypeSAFE            InstrumentType = "SAFE"
	InstrumentTypeConvertibleNote InstrumentType = "Convertible Note"
)

// ValuationType identifies how the round is valued
type ValuationType string

const (
	ValuationTypePreMoney  ValuationType = "Pre-Money"
	ValuationTypePostMoney ValuationType = "Post-Money"
)

// Terms represents the spv_terms table - the deal terms section, one-to-one
// with an SPV.
type Terms struct {
	// SPVID references the owning SPV
	SPVID uuid.UUID `gorm:"column:spv_id;primaryKey;type:uuid"`
	// TransactionType is Primary or Secondary
	TransactionType TransactionType `gorm:"column:transaction_type;type:text"`
	// InstrumentType is the investment instrument (Equity, SAFE, ...)
	InstrumentType InstrumentType `gorm:"column:instrument_type;type:text"`
	// ValuationType is Pre-Money or Post-Money
	ValuationType ValuationType `gorm:"column:valuation_type;type:text"`
	// ShareClass is the share class purchased (Common, Preferred, Series A, ...)
	ShareClass string `gorm:"column:share_class;type:text"`
	// RoundType is the financing round (Seed, Series A, ...)
	RoundType string `gorm:"column:round_type;type:text"`
	// RoundSize is the total round size (string to avoid float rounding)
	RoundSize string `gorm:"column:round_size;type:numeric"`
	// Allocation is the SPV's allocation amount in the round
	Allocation string `gorm:"column:allocation;type:numeric"`
	// DocumentRef is the blob store reference of the uploaded term document
	DocumentRef string `gorm:"column:document_ref;type:text"`
	// CreatedAt is when the section was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is when the section was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the Terms model
func (Terms) TableName() string {
	return "spv_terms"
}
