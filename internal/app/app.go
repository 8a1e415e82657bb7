package app

import (
	"context"
	"errors"
	"io"
	"time"

	"muontra/internal/client"
	"muontra/internal/domain"
	"muontra/internal/session"
)

// ErrNotLoggedIn blocks actions that must be attributed to an account.
var ErrNotLoggedIn = &domain.ValidationError{Field: "session", Message: "please log in first"}

// ErrOwnerOnly blocks owner screens for borrower accounts.
var ErrOwnerOnly = &domain.ValidationError{Field: "session", Message: "this action is only available to owner accounts"}

// Gateway is the subset of the remote API the screens use.
type Gateway interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Result, error)
	GetProfile(ctx context.Context, accountID int32) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID int32, upd domain.ProfileUpdate) (*domain.Result, error)

	ListItems(ctx context.Context) ([]domain.Item, error)
	ListItemsByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error)
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (*domain.Result, error)
	UpdateItem(ctx context.Context, item domain.Item) (*domain.Result, error)
	DeleteItem(ctx context.Context, id int32) (*domain.Result, error)
	UploadImage(ctx context.Context, contentType string, r io.Reader) (*client.ImageUpload, error)

	ListTickets(ctx context.Context) ([]domain.LoanTicket, error)
	ListLegacy(ctx context.Context) ([]client.LegacyTicket, error)
	ListTicketsByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error)
	ListTicketsByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error)
	GetTicket(ctx context.Context, id int32) (*domain.LoanTicket, error)
	CreateTicket(ctx context.Context, req domain.NewLoanTicket) (*domain.Result, error)
	UpdateTicket(ctx context.Context, upd domain.LoanTicketUpdate) (*domain.Result, error)
	DeleteTicket(ctx context.Context, id int32) (*domain.Result, error)
}

// App backs the client screens. Every action reads the account from the one session manager.
type App struct {
	api     Gateway
	session *session.Manager
	now     func() time.Time
}

type Option func(*App)

func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

func New(api Gateway, sess *session.Manager, opts ...Option) *App {
	a := &App{api: api, session: sess, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Session(ctx context.Context) session.Session {
	return a.session.Current(ctx)
}

func (a *App) requireLogin(ctx context.Context) (session.Session, error) {
	sess := a.session.Current(ctx)
	if !sess.LoggedIn() {
		return sess, ErrNotLoggedIn
	}
	return sess, nil
}

func (a *App) requireOwner(ctx context.Context) (session.Session, error) {
	sess, err := a.requireLogin(ctx)
	if err != nil {
		return sess, err
	}
	if !sess.IsOwner {
		return sess, ErrOwnerOnly
	}
	return sess, nil
}

// Describe renders any failure as the message shown to the user.
func Describe(err error) string {
	var verr *domain.ValidationError
	var apiErr *client.APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case client.IsTransport(err):
		return "cannot connect to server, please check your connection and try again"
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return "something went wrong: " + err.Error()
	}
}
