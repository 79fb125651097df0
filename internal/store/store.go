package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// Store defines the interface for database operations
type Store interface {
	// UpsertSPV writes the root record and every provided section keyed by the
	// SPV identifier, allocating a new identifier when input.ID is nil. The
	// writes are issued as a short sequence of independent upserts, not one
	// transaction; a failure part-way leaves a partially written aggregate that
	// is recovered by re-submitting, since every write is idempotent by key.
	UpsertSPV(ctx context.Context, input UpsertSPVInput) (uuid.UUID, error)
	// GetSPV retrieves the joined aggregate (root plus four sections).
	// Returns domain.ErrSPVNotFound for an unknown identifier.
	GetSPV(ctx context.Context, id uuid.UUID) (*SPVAggregate, error)
	// GetSPVRoot retrieves only the root record
	GetSPVRoot(ctx context.Context, id uuid.UUID) (*schema.SPV, error)
	// ListSPVs returns SPVs matching the filter, newest-created first
	ListSPVs(ctx context.Context, filter SPVFilter) ([]schema.SPV, error)
	// UpdateSPVStatus writes the status on the root record and returns the
	// status read immediately before the write
	UpdateSPVStatus(ctx context.Context, id uuid.UUID, newStatus domain.Status) (domain.Status, error)

	// AppendActivity inserts one activity log entry; prior entries are never touched
	AppendActivity(ctx context.Context, input AppendActivityInput) (*schema.ActivityLog, error)
	// ListActivityForSPV returns entries ordered created_at descending,
	// ties broken by insertion order
	ListActivityForSPV(ctx context.Context, spvID uuid.UUID) ([]schema.ActivityLog, error)
	// CountActivityForSPV returns the number of entries for an SPV
	CountActivityForSPV(ctx context.Context, spvID uuid.UUID) (int64, error)

	// GetUserRole returns the assigned role for a user, or "" when none exists
	GetUserRole(ctx context.Context, userID string) (domain.Role, error)
}

// UpsertSPVInput carries the root fields and the sections to write.
// Nil sections are skipped, which lets a draft save persist only what is
// currently filled.
type UpsertSPVInput struct {
	// ID is the existing SPV identifier, or nil to create a new record
	ID *uuid.UUID

	SPVName           string
	CompanyName       string
	Description       string
	Country           string
	IncorporationType string
	Status            domain.Status
	IsComplete        bool

	Terms     *TermsInput
	DealMemo  *DealMemoInput
	Carry     *CarryInput
	Signature *SignatureInput
}

// TermsInput carries the deal terms section fields
type TermsInput struct {
	TransactionType schema.TransactionType
	InstrumentType  schema.InstrumentType
	ValuationType   schema.ValuationType
	ShareClass      string
	RoundType       string
	RoundSize       string
	Allocation      string
	DocumentRef     string
}

// DealMemoInput carries the deal memo section fields
type DealMemoInput struct {
	Memo           string
	PitchDeckRef   string
	OtherInvestors string
	PastFinancing  bool
	Risks          string
	Disclosures    string
}

// CarryInput carries the carry and GP commitment section fields
type CarryInput struct {
	CarryAmount    string
	CarryRecipient schema.CarryRecipient
	DealPartners   string
}

// SignatureInput carries the e-sign section fields
type SignatureInput struct {
	SignatureData string
	SignedBy      string
	SignedAt      time.Time
}

// AppendActivityInput carries one activity log entry to append
type AppendActivityInput struct {
	SPVID          uuid.UUID
	UserID         string
	Action         string
	PreviousStatus domain.Status
	NewStatus      domain.Status
	Meta           datatypes.JSON
}

// SPVFilter selects SPVs for listing views
type SPVFilter struct {
	// Statuses restricts to these statuses when non-empty
	Statuses []domain.Status
	// ExcludeDrafts drops draft SPVs (e.g. "status != draft" index views)
	ExcludeDrafts bool
	// Query matches spv_name or company_name case-insensitively when non-empty
	Query string
	// Limit caps the number of rows returned; 0 means no cap
	Limit int
}

// SPVAggregate is the joined read model of one SPV and its sections.
// Section pointers are nil when the section has never been written.
type SPVAggregate struct {
	SPV       schema.SPV
	Terms     *schema.Terms
	DealMemo  *schema.DealMemo
	Carry     *schema.Carry
	Signature *schema.Signature
}

// HasSignature reports whether a non-empty signature has been recorded
func (a *SPVAggregate) HasSignature() bool {
	return a.Signature != nil && a.Signature.SignatureData != ""
}
