package service

import (
	"context"
	"errors"
	"io"

	"muontra/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrForbidden          = errors.New("not allowed for this account")
	ErrItemInUse          = errors.New("item has loan tickets that are still out")
)

// Actor is the authenticated caller. The zero Actor is used when the server runs without auth
// and skips ownership checks.
type Actor struct {
	AccountID int32
	Role      domain.Role
}

func (a Actor) Anonymous() bool {
	return a.AccountID == 0
}

// owns is true for an anonymous actor or the given account.
func (a Actor) owns(accountID int32) bool {
	return a.Anonymous() || a.AccountID == accountID
}

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error)
	// Login returns the account and a bearer token for it.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error)
}

type AccountService interface {
	GetProfile(ctx context.Context, accountID int32) (*domain.Account, error)
	UpdateProfile(ctx context.Context, actor Actor, accountID int32, upd domain.ProfileUpdate) error
}

type ItemService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error)
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	CreateItem(ctx context.Context, actor Actor, item *domain.Item) error
	UpdateItem(ctx context.Context, actor Actor, item *domain.Item) error
	DeleteItem(ctx context.Context, actor Actor, id int32) error
}

type LoanService interface {
	ListTickets(ctx context.Context) ([]domain.LoanTicket, error)
	ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error)
	GetTicket(ctx context.Context, id int32) (*domain.LoanTicket, error)
	CreateTicket(ctx context.Context, actor Actor, req domain.NewLoanTicket) (*domain.LoanTicket, error)
	UpdateTicket(ctx context.Context, actor Actor, upd domain.LoanTicketUpdate) (*domain.LoanTicket, error)
	DeleteTicket(ctx context.Context, actor Actor, id int32) error
	// MarkOverdue applies the time-triggered borrowed -> overdue transition.
	MarkOverdue(ctx context.Context) (int64, error)
}

type ImageService interface {
	UploadImage(ctx context.Context, actor Actor, contentType string, r io.Reader) (key, url string, err error)
	OpenImage(ctx context.Context, key string) (io.ReadCloser, string, error)
}

type EmailService interface {
	SendOverdueReminder(ctx context.Context, reminder domain.OverdueReminder) error
}
