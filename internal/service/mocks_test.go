package service_test

import (
	"context"
	"time"

	"muontra/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) Update(ctx context.Context, item *domain.Item, expectedRemaining int32) error {
	args := m.Called(ctx, item, expectedRemaining)
	return args.Error(0)
}
func (m *MockItemRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Item), args.Error(1)
}

type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, ticket *domain.LoanTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.LoanTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanTicket), args.Error(1)
}
func (m *MockLoanRepo) List(ctx context.Context) ([]domain.LoanTicket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}
func (m *MockLoanRepo) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error) {
	args := m.Called(ctx, borrowerID)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}
func (m *MockLoanRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}
func (m *MockLoanRepo) Update(ctx context.Context, ticket *domain.LoanTicket, from domain.Status, restock bool) error {
	args := m.Called(ctx, ticket, from, restock)
	return args.Error(0)
}
func (m *MockLoanRepo) Delete(ctx context.Context, ticket *domain.LoanTicket, restock bool) error {
	args := m.Called(ctx, ticket, restock)
	return args.Error(0)
}
func (m *MockLoanRepo) CountActiveByItem(ctx context.Context, itemID int32) (int32, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) SumActiveQuantityByItem(ctx context.Context, itemID int32) (int32, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLoanRepo) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OverdueReminder), args.Error(1)
}
