package app_test

import (
	"context"
	"io"

	"muontra/internal/client"
	"muontra/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct{ mock.Mock }

func (m *MockGateway) result(args mock.Arguments) (*domain.Result, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Result), args.Error(1)
}

func (m *MockGateway) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}

func (m *MockGateway) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Result, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockGateway) GetProfile(ctx context.Context, accountID int32) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockGateway) UpdateProfile(ctx context.Context, accountID int32, upd domain.ProfileUpdate) (*domain.Result, error) {
	return m.result(m.Called(ctx, accountID, upd))
}

func (m *MockGateway) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockGateway) ListItemsByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockGateway) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockGateway) CreateItem(ctx context.Context, item domain.Item) (*domain.Result, error) {
	return m.result(m.Called(ctx, item))
}

func (m *MockGateway) UpdateItem(ctx context.Context, item domain.Item) (*domain.Result, error) {
	return m.result(m.Called(ctx, item))
}

func (m *MockGateway) DeleteItem(ctx context.Context, id int32) (*domain.Result, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockGateway) UploadImage(ctx context.Context, contentType string, r io.Reader) (*client.ImageUpload, error) {
	args := m.Called(ctx, contentType, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ImageUpload), args.Error(1)
}

func (m *MockGateway) ListTickets(ctx context.Context) ([]domain.LoanTicket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}

func (m *MockGateway) ListLegacy(ctx context.Context) ([]client.LegacyTicket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]client.LegacyTicket), args.Error(1)
}

func (m *MockGateway) ListTicketsByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error) {
	args := m.Called(ctx, borrowerID)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}

func (m *MockGateway) ListTicketsByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.LoanTicket), args.Error(1)
}

func (m *MockGateway) GetTicket(ctx context.Context, id int32) (*domain.LoanTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanTicket), args.Error(1)
}

func (m *MockGateway) CreateTicket(ctx context.Context, req domain.NewLoanTicket) (*domain.Result, error) {
	return m.result(m.Called(ctx, req))
}

func (m *MockGateway) UpdateTicket(ctx context.Context, upd domain.LoanTicketUpdate) (*domain.Result, error) {
	return m.result(m.Called(ctx, upd))
}

func (m *MockGateway) DeleteTicket(ctx context.Context, id int32) (*domain.Result, error) {
	return m.result(m.Called(ctx, id))
}
