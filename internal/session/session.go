package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned by Get when nothing has been saved.
var ErrNoSession = errors.New("no saved session")

// Session is what the client remembers about the logged-in account.
type Session struct {
	AccountID int32     `json:"taiKhoanId"`
	IsOwner   bool      `json:"chuSoHuu"`
	Token     string    `json:"token,omitempty"`
	SavedAt   time.Time `json:"savedAt"`
}

func (s Session) LoggedIn() bool {
	return s.AccountID > 0
}

// Store persists one session per device.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
}
