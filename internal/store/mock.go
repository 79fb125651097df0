package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// MockStore is a testify mock of Store for unit tests that do not need a
// real database
type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpsertSPV(ctx context.Context, input UpsertSPVInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStore) GetSPV(ctx context.Context, id uuid.UUID) (*SPVAggregate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SPVAggregate), args.Error(1)
}

func (m *MockStore) GetSPVRoot(ctx context.Context, id uuid.UUID) (*schema.SPV, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.SPV), args.Error(1)
}

func (m *MockStore) ListSPVs(ctx context.Context, filter SPVFilter) ([]schema.SPV, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.SPV), args.Error(1)
}

func (m *MockStore) UpdateSPVStatus(ctx context.Context, id uuid.UUID, newStatus domain.Status) (domain.Status, error) {
	args := m.Called(ctx, id, newStatus)
	return args.Get(0).(domain.Status), args.Error(1)
}

func (m *MockStore) AppendActivity(ctx context.Context, input AppendActivityInput) (*schema.ActivityLog, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.ActivityLog), args.Error(1)
}

func (m *MockStore) ListActivityForSPV(ctx context.Context, spvID uuid.UUID) ([]schema.ActivityLog, error) {
	args := m.Called(ctx, spvID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.ActivityLog), args.Error(1)
}

func (m *MockStore) CountActivityForSPV(ctx context.Context, spvID uuid.UUID) (int64, error) {
	args := m.Called(ctx, spvID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetUserRole(ctx context.Context, userID string) (domain.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Role), args.Error(1)
}
