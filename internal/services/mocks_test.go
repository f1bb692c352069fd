package services

import (
	"context"
	"time"

	"github.com/ledgerdemain/backend/internal/database"
	"github.com/ledgerdemain/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, req *models.PayrollRequest) (*models.PayrollResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayrollResponse), args.Error(1)
}

type MockLock struct {
	mock.Mock
	released int
}

func (m *MockLock) Acquire(ctx context.Context, wait time.Duration) (database.Unlock, error) {
	args := m.Called(ctx, wait)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, employeeIDs []string) (map[string]string, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
