package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestUpsertInput creates a fully populated upsert input
func buildTestUpsertInput(name string) UpsertSPVInput {
	return UpsertSPVInput{
		SPVName:           name,
		CompanyName:       "Acme Robotics",
		Description:       "Seed round vehicle",
		Country:           "US",
		IncorporationType: "LLC",
		Status:            domain.StatusDraft,
		Terms: &TermsInput{
			TransactionType: schema.TransactionTypePrimary,
			InstrumentType:  schema.InstrumentTypeSAFE,
			ValuationType:   schema.ValuationTypePostMoney,
			ShareClass:      "Common",
			RoundType:       "Seed",
			RoundSize:       "5000000",
			Allocation:      "250000",
			DocumentRef:     "https://storage.example.com/documents/terms.pdf",
		},
		DealMemo: &DealMemoInput{
			Memo:           "Strong founding team",
			PitchDeckRef:   "https://storage.example.com/documents/deck.pdf",
			OtherInvestors: "Fund A, Fund B",
			PastFinancing:  true,
			Risks:          "Early stage",
			Disclosures:    "None",
		},
		Carry: &CarryInput{
			CarryAmount:    "20",
			CarryRecipient: schema.CarryRecipientGPCommitment,
			DealPartners:   "Partner X",
		},
		Signature: &SignatureInput{
			SignatureData: "data:image/png;base64,iVBORw0KGgo=",
			SignedBy:      "user-1",
			SignedAt:      time.Now().UTC(),
		},
	}
}

// RunStoreTests runs the full store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	t.Run("UpsertSPV", func(t *testing.T) { testUpsertSPV(t, initDB) })
	t.Run("GetSPV", func(t *testing.T) { testGetSPV(t, initDB) })
	t.Run("ListSPVs", func(t *testing.T) { testListSPVs(t, initDB) })
	t.Run("UpdateSPVStatus", func(t *testing.T) { testUpdateSPVStatus(t, initDB) })
	t.Run("ActivityLog", func(t *testing.T) { testActivityLog(t, initDB) })
	t.Run("GetUserRole", func(t *testing.T) { testGetUserRole(t, initDB) })
}

// =============================================================================
// Test: UpsertSPV
// =============================================================================

func testUpsertSPV(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("create then fetch round-trips all sections", func(t *testing.T) {
		s, _ := initDB(t)
		input := buildTestUpsertInput("Acme SPV I")

		id, err := s.UpsertSPV(ctx, input)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		agg, err := s.GetSPV(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, "Acme SPV I", agg.SPV.SPVName)
		assert.Equal(t, "Acme Robotics", agg.SPV.CompanyName)
		assert.Equal(t, domain.StatusDraft, agg.SPV.Status)
		assert.False(t, agg.SPV.IsComplete)

		require.NotNil(t, agg.Terms)
		assert.Equal(t, schema.TransactionTypePrimary, agg.Terms.TransactionType)
		assert.Equal(t, "250000", agg.Terms.Allocation)

		require.NotNil(t, agg.DealMemo)
		assert.Equal(t, "Strong founding team", agg.DealMemo.Memo)
		assert.True(t, agg.DealMemo.PastFinancing)

		require.NotNil(t, agg.Carry)
		assert.Equal(t, "20", agg.Carry.CarryAmount)

		require.NotNil(t, agg.Signature)
		assert.Equal(t, "user-1", agg.Signature.SignedBy)
		assert.True(t, agg.HasSignature())
	})

	t.Run("second upsert by id updates root and sections in place", func(t *testing.T) {
		s, db := initDB(t)
		input := buildTestUpsertInput("Acme SPV II")

		id, err := s.UpsertSPV(ctx, input)
		require.NoError(t, err)

		input.ID = &id
		input.SPVName = "Acme SPV II (renamed)"
		input.Status = domain.StatusApproved
		input.IsComplete = true
		input.Carry.CarryAmount = "25"

		resolved, err := s.UpsertSPV(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, id, resolved)

		agg, err := s.GetSPV(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Acme SPV II (renamed)", agg.SPV.SPVName)
		assert.Equal(t, domain.StatusApproved, agg.SPV.Status)
		assert.True(t, agg.SPV.IsComplete)
		assert.Equal(t, "25", agg.Carry.CarryAmount)

		// Still exactly one row per section
		var count int64
		require.NoError(t, db.Model(&schema.Carry{}).Where("spv_id = ?", id).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown id returns ErrSPVNotFound and writes no sections", func(t *testing.T) {
		s, db := initDB(t)

		missing := uuid.New()
		input := buildTestUpsertInput("Ghost SPV")
		input.ID = &missing

		_, err := s.UpsertSPV(ctx, input)
		assert.ErrorIs(t, err, domain.ErrSPVNotFound)

		var count int64
		require.NoError(t, db.Model(&schema.Terms{}).Where("spv_id = ?", missing).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("nil sections are skipped", func(t *testing.T) {
		s, _ := initDB(t)
		input := UpsertSPVInput{
			SPVName: "Draft only",
			Status:  domain.StatusDraft,
		}

		id, err := s.UpsertSPV(ctx, input)
		require.NoError(t, err)

		agg, err := s.GetSPV(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, agg.Terms)
		assert.Nil(t, agg.DealMemo)
		assert.Nil(t, agg.Carry)
		assert.Nil(t, agg.Signature)
		assert.False(t, agg.HasSignature())
	})
}

// =============================================================================
// Test: GetSPV
// =============================================================================

func testGetSPV(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("unknown id returns ErrSPVNotFound", func(t *testing.T) {
		s, _ := initDB(t)

		_, err := s.GetSPV(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrSPVNotFound)

		_, err = s.GetSPVRoot(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrSPVNotFound)
	})

	t.Run("root fetch returns only the root record", func(t *testing.T) {
		s, _ := initDB(t)

		id, err := s.UpsertSPV(ctx, buildTestUpsertInput("Root only"))
		require.NoError(t, err)

		root, err := s.GetSPVRoot(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Root only", root.SPVName)
	})
}

// =============================================================================
// Test: ListSPVs
// =============================================================================

func testListSPVs(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	seed := func(t *testing.T, s Store) (uuid.UUID, uuid.UUID, uuid.UUID) {
		a, err := s.UpsertSPV(ctx, UpsertSPVInput{SPVName: "Alpha Fund", CompanyName: "Alpha Inc", Status: domain.StatusDraft})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		b, err := s.UpsertSPV(ctx, UpsertSPVInput{SPVName: "Beta Fund", CompanyName: "Beta Inc", Status: domain.StatusApproved})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		c, err := s.UpsertSPV(ctx, UpsertSPVInput{SPVName: "Gamma Fund", CompanyName: "Gamma Inc", Status: domain.StatusRejected})
		require.NoError(t, err)
		return a, b, c
	}

	t.Run("orders newest-created first", func(t *testing.T) {
		s, _ := initDB(t)
		a, b, c := seed(t, s)

		spvs, err := s.ListSPVs(ctx, SPVFilter{})
		require.NoError(t, err)
		require.Len(t, spvs, 3)
		assert.Equal(t, c, spvs[0].ID)
		assert.Equal(t, b, spvs[1].ID)
		assert.Equal(t, a, spvs[2].ID)
	})

	t.Run("exclude drafts", func(t *testing.T) {
		s, _ := initDB(t)
		_, b, c := seed(t, s)

		spvs, err := s.ListSPVs(ctx, SPVFilter{ExcludeDrafts: true})
		require.NoError(t, err)
		require.Len(t, spvs, 2)
		assert.Equal(t, c, spvs[0].ID)
		assert.Equal(t, b, spvs[1].ID)
	})

	t.Run("filter by statuses", func(t *testing.T) {
		s, _ := initDB(t)
		_, b, _ := seed(t, s)

		spvs, err := s.ListSPVs(ctx, SPVFilter{Statuses: []domain.Status{domain.StatusApproved}})
		require.NoError(t, err)
		require.Len(t, spvs, 1)
		assert.Equal(t, b, spvs[0].ID)
	})

	t.Run("search matches spv and company name", func(t *testing.T) {
		s, _ := initDB(t)
		a, _, _ := seed(t, s)

		spvs, err := s.ListSPVs(ctx, SPVFilter{Query: "alpha"})
		require.NoError(t, err)
		require.Len(t, spvs, 1)
		assert.Equal(t, a, spvs[0].ID)

		spvs, err = s.ListSPVs(ctx, SPVFilter{Query: "Inc"})
		require.NoError(t, err)
		assert.Len(t, spvs, 3)
	})
}

// =============================================================================
// Test: UpdateSPVStatus
// =============================================================================

func testUpdateSPVStatus(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("returns the status read before the write", func(t *testing.T) {
		s, _ := initDB(t)

		id, err := s.UpsertSPV(ctx, UpsertSPVInput{SPVName: "Workflow SPV", Status: domain.StatusDraft})
		require.NoError(t, err)

		prev, err := s.UpdateSPVStatus(ctx, id, domain.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, prev)

		prev, err = s.UpdateSPVStatus(ctx, id, domain.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, prev)

		root, err := s.GetSPVRoot(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, root.Status)
	})

	t.Run("unknown id returns ErrSPVNotFound", func(t *testing.T) {
		s, _ := initDB(t)

		_, err := s.UpdateSPVStatus(ctx, uuid.New(), domain.StatusRejected)
		assert.ErrorIs(t, err, domain.ErrSPVNotFound)
	})
}

// =============================================================================
// Test: ActivityLog
// =============================================================================

func testActivityLog(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("append and list in reverse insertion order", func(t *testing.T) {
		s, _ := initDB(t)

		id, err := s.UpsertSPV(ctx, UpsertSPVInput{SPVName: "Audited SPV", Status: domain.StatusDraft})
		require.NoError(t, err)

		first, err := s.AppendActivity(ctx, AppendActivityInput{
			SPVID:          id,
			UserID:         domain.SystemUserID,
			Action:         schema.ActionSPVCreated,
			NewStatus:      domain.StatusDraft,
			PreviousStatus: domain.StatusDraft,
		})
		require.NoError(t, err)
		require.NotEmpty(t, first.ID)

		second, err := s.AppendActivity(ctx, AppendActivityInput{
			SPVID:          id,
			UserID:         "user-1",
			Action:         schema.ActionSPVSubmitted,
			PreviousStatus: domain.StatusDraft,
			NewStatus:      domain.StatusApproved,
		})
		require.NoError(t, err)

		entries, err := s.ListActivityForSPV(ctx, id)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, second.ID, entries[0].ID)
		assert.Equal(t, first.ID, entries[1].ID)
		assert.Equal(t, domain.StatusDraft, entries[0].PreviousStatus)
		assert.Equal(t, domain.StatusApproved, entries[0].NewStatus)

		count, err := s.CountActivityForSPV(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("count is zero for an spv with no entries", func(t *testing.T) {
		s, _ := initDB(t)

		id, err := s.UpsertSPV(ctx, UpsertSPVInput{SPVName: "Quiet SPV", Status: domain.StatusDraft})
		require.NoError(t, err)

		count, err := s.CountActivityForSPV(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

// =============================================================================
// Test: GetUserRole
// =============================================================================

func testGetUserRole(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	ctx := context.Background()

	t.Run("missing assignment returns empty role", func(t *testing.T) {
		s, _ := initDB(t)

		role, err := s.GetUserRole(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, domain.Role(""), role)
	})

	t.Run("returns assigned role", func(t *testing.T) {
		s, db := initDB(t)

		require.NoError(t, db.Create(&schema.UserRole{UserID: "user-9", Role: domain.RoleAdmin}).Error)

		role, err := s.GetUserRole(ctx, "user-9")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, role)
	})
}
