package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the SPV lifecycle tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.SPV{},
		&schema.Terms{},
		&schema.DealMemo{},
		&schema.Carry{},
		&schema.Signature{},
		&schema.ActivityLog{},
		&schema.UserRole{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// UpsertSPV writes the root record and each provided section keyed by the SPV
// identifier. The writes are deliberately NOT wrapped in a transaction: each
// sub-record is independently upsertable by key, and a failure part-way is
// recovered by re-submitting the same operation. Wrapping them would change
// the documented recovery contract.
func (s *pgStore) UpsertSPV(ctx context.Context, input UpsertSPVInput) (uuid.UUID, error) {
	root := schema.SPV{
		SPVName:           input.SPVName,
		CompanyName:       input.CompanyName,
		Description:       input.Description,
		Country:           input.Country,
		IncorporationType: input.IncorporationType,
		Status:            input.Status,
		IsComplete:        input.IsComplete,
	}

	if input.ID != nil {
		root.ID = *input.ID
		res := s.db.WithContext(ctx).
			Model(&schema.SPV{}).
			Where("id = ?", root.ID).
			Updates(map[string]interface{}{
				"spv_name":           root.SPVName,
				"company_name":       root.CompanyName,
				"description":        root.Description,
				"country":            root.Country,
				"incorporation_type": root.IncorporationType,
				"status":             root.Status,
				"is_complete":        root.IsComplete,
			})
		if res.Error != nil {
			return uuid.Nil, fmt.Errorf("failed to update spv root: %w", res.Error)
		}
		// A zero-row update means the id names no root; writing the sections
		// anyway would orphan them.
		if res.RowsAffected == 0 {
			return uuid.Nil, domain.ErrSPVNotFound
		}
	} else {
		root.ID = uuid.New()
		if err := s.db.WithContext(ctx).Create(&root).Error; err != nil {
			return uuid.Nil, fmt.Errorf("failed to create spv root: %w", err)
		}
	}

	if input.Terms != nil {
		terms := schema.Terms{
			SPVID:           root.ID,
			TransactionType: input.Terms.TransactionType,
			InstrumentType:  input.Terms.InstrumentType,
			ValuationType:   input.Terms.ValuationType,
			ShareClass:      input.Terms.ShareClass,
			RoundType:       input.Terms.RoundType,
			RoundSize:       input.Terms.RoundSize,
			Allocation:      input.Terms.Allocation,
			DocumentRef:     input.Terms.DocumentRef,
		}
		if err := s.upsertSection(ctx, &terms); err != nil {
			return root.ID, fmt.Errorf("failed to upsert terms: %w", err)
		}
	}

	if input.DealMemo != nil {
		memo := schema.DealMemo{
			SPVID:          root.ID,
			Memo:           input.DealMemo.Memo,
			PitchDeckRef:   input.DealMemo.PitchDeckRef,
			OtherInvestors: input.DealMemo.OtherInvestors,
			PastFinancing:  input.DealMemo.PastFinancing,
			Risks:          input.DealMemo.Risks,
			Disclosures:    input.DealMemo.Disclosures,
		}
		if err := s.upsertSection(ctx, &memo); err != nil {
			return root.ID, fmt.Errorf("failed to upsert deal memo: %w", err)
		}
	}

	if input.Carry != nil {
		carry := schema.Carry{
			SPVID:          root.ID,
			CarryAmount:    input.Carry.CarryAmount,
			CarryRecipient: input.Carry.CarryRecipient,
			DealPartners:   input.Carry.DealPartners,
		}
		if err := s.upsertSection(ctx, &carry); err != nil {
			return root.ID, fmt.Errorf("failed to upsert carry: %w", err)
		}
	}

	if input.Signature != nil {
		sig := schema.Signature{
			SPVID:         root.ID,
			SignatureData: input.Signature.SignatureData,
			SignedBy:      input.Signature.SignedBy,
			SignedAt:      input.Signature.SignedAt,
		}
		if err := s.upsertSection(ctx, &sig); err != nil {
			return root.ID, fmt.Errorf("failed to upsert signature: %w", err)
		}
	}

	return root.ID, nil
}

// upsertSection inserts or fully updates a one-to-one section keyed by spv_id
func (s *pgStore) upsertSection(ctx context.Context, section interface{}) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "spv_id"}},
		UpdateAll: true,
	}).Create(section).Error
}

// GetSPV retrieves the joined aggregate for an SPV
func (s *pgStore) GetSPV(ctx context.Context, id uuid.UUID) (*SPVAggregate, error) {
	var root schema.SPV
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&root).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSPVNotFound
		}
		return nil, fmt.Errorf("failed to get spv: %w", err)
	}

	agg := &SPVAggregate{SPV: root}

	var terms schema.Terms
	if err := s.sectionForSPV(ctx, id, &terms); err != nil {
		return nil, fmt.Errorf("failed to get terms: %w", err)
	} else if terms.SPVID == id {
		agg.Terms = &terms
	}

	var memo schema.DealMemo
	if err := s.sectionForSPV(ctx, id, &memo); err != nil {
		return nil, fmt.Errorf("failed to get deal memo: %w", err)
	} else if memo.SPVID == id {
		agg.DealMemo = &memo
	}

	var carry schema.Carry
	if err := s.sectionForSPV(ctx, id, &carry); err != nil {
		return nil, fmt.Errorf("failed to get carry: %w", err)
	} else if carry.SPVID == id {
		agg.Carry = &carry
	}

	var sig schema.Signature
	if err := s.sectionForSPV(ctx, id, &sig); err != nil {
		return nil, fmt.Errorf("failed to get signature: %w", err)
	} else if sig.SPVID == id {
		agg.Signature = &sig
	}

	return agg, nil
}

// sectionForSPV loads a one-to-one section by spv_id; a missing section is not
// an error, the destination is simply left zero-valued
func (s *pgStore) sectionForSPV(ctx context.Context, id uuid.UUID, dest interface{}) error {
	err := s.db.WithContext(ctx).Where("spv_id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// GetSPVRoot retrieves only the root record
func (s *pgStore) GetSPVRoot(ctx context.Context, id uuid.UUID) (*schema.SPV, error) {
	var root schema.SPV
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&root).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSPVNotFound
		}
		return nil, fmt.Errorf("failed to get spv: %w", err)
	}
	return &root, nil
}

// ListSPVs returns SPVs matching the filter, newest-created first
func (s *pgStore) ListSPVs(ctx context.Context, filter SPVFilter) ([]schema.SPV, error) {
	query := s.db.WithContext(ctx).Model(&schema.SPV{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.ExcludeDrafts {
		query = query.Where("status <> ?", domain.StatusDraft)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("spv_name ILIKE ? OR company_name ILIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var spvs []schema.SPV
	if err := query.Order("created_at DESC").Find(&spvs).Error; err != nil {
		return nil, fmt.Errorf("failed to list spvs: %w", err)
	}

	return spvs, nil
}

// UpdateSPVStatus writes the status on the root record and returns the status
// read immediately before the write. The read and the write are two calls;
// concurrent transitions may interleave, which is documented listing behavior,
// not a linearizable history.
func (s *pgStore) UpdateSPVStatus(ctx context.Context, id uuid.UUID, newStatus domain.Status) (domain.Status, error) {
	var root schema.SPV
	err := s.db.WithContext(ctx).Select("id", "status").Where("id = ?", id).First(&root).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrSPVNotFound
		}
		return "", fmt.Errorf("failed to read spv status: %w", err)
	}

	err = s.db.WithContext(ctx).
		Model(&schema.SPV{}).
		Where("id = ?", id).
		Update("status", newStatus).Error
	if err != nil {
		return "", fmt.Errorf("failed to update spv status: %w", err)
	}

	return root.Status, nil
}

// AppendActivity inserts one activity log entry
func (s *pgStore) AppendActivity(ctx context.Context, input AppendActivityInput) (*schema.ActivityLog, error) {
	entry := schema.ActivityLog{
		ID:             ulid.Make().String(),
		SPVID:          input.SPVID,
		UserID:         input.UserID,
		Action:         input.Action,
		PreviousStatus: input.PreviousStatus,
		NewStatus:      input.NewStatus,
		Meta:           input.Meta,
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to append activity: %w", err)
	}

	return &entry, nil
}

// ListActivityForSPV returns entries ordered created_at descending; the ULID
// primary key carries insertion order, so it serves as the tiebreaker
func (s *pgStore) ListActivityForSPV(ctx context.Context, spvID uuid.UUID) ([]schema.ActivityLog, error) {
	var entries []schema.ActivityLog
	err := s.db.WithContext(ctx).
		Where("spv_id = ?", spvID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	return entries, nil
}

// CountActivityForSPV returns the number of entries for an SPV
func (s *pgStore) CountActivityForSPV(ctx context.Context, spvID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.ActivityLog{}).
		Where("spv_id = ?", spvID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}

	return count, nil
}

// GetUserRole returns the assigned role for a user, or "" when none exists
func (s *pgStore) GetUserRole(ctx context.Context, userID string) (domain.Role, error) {
	var assignment schema.UserRole
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get user role: %w", err)
	}

	return assignment.Role, nil
}
