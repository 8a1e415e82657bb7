package http_test

import (
	"context"

	"muontra/internal/domain"
	"muontra/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Account), args.String(1), args.Error(2)
}

type MockAccountService struct{ mock.Mock }

func (m *MockAccountService) GetProfile(ctx context.Context, accountID int32) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, actor service.Actor, accountID int32, upd domain.ProfileUpdate) error {
	args := m.Called(ctx, actor, accountID, upd)
	return args.Error(0)
}

type MockItemService struct{ mock.Mock }

func (m *MockItemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemService) CreateItem(ctx context.Context, actor service.Actor, item *domain.Item) error {
	args := m.Called(ctx, actor, item)
	return args.Error(0)
}

func (m *MockItemService) UpdateItem(ctx context.Context, actor service.Actor, item *domain.Item) error {
	args := m.Called(ctx, actor, item)
	return args.Error(0)
}

func (m *MockItemService) DeleteItem(ctx context.Context, actor service.Actor, id int32) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockLoanService struct{ mock.Mock }

func (m *MockLoanService) ListTickets(ctx context.Context) ([]domain.LoanTicket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}

func (m *MockLoanService) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error) {
	args := m.Called(ctx, borrowerID)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}

func (m *MockLoanService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}

func (m *MockLoanService) GetTicket(ctx context.Context, id int32) (*domain.LoanTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanTicket), args.Error(1)
}

func (m *MockLoanService) CreateTicket(ctx context.Context, actor service.Actor, req domain.NewLoanTicket) (*domain.LoanTicket, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanTicket), args.Error(1)
}

func (m *MockLoanService) UpdateTicket(ctx context.Context, actor service.Actor, upd domain.LoanTicketUpdate) (*domain.LoanTicket, error) {
	args := m.Called(ctx, actor, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanTicket), args.Error(1)
}

func (m *MockLoanService) DeleteTicket(ctx context.Context, actor service.Actor, id int32) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockLoanService) MarkOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
