package repository

import (
	"context"
	"errors"
	"time"

	"muontra/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrConflict is returned when a row changed between read and write.
	ErrConflict = errors.New("record was modified concurrently")
)

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int32) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Update writes the profile fields and, when non-empty, the password hash.
	Update(ctx context.Context, account *domain.Account) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	// Update writes the item only while its remaining quantity still equals expectedRemaining,
	// so a borrow that landed after the caller read the item is not overwritten (ErrConflict).
	Update(ctx context.Context, item *domain.Item, expectedRemaining int32) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Item, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error)
}

type LoanRepository interface {
	// Create reserves the ticket quantity on the item and inserts the ticket in one transaction.
	Create(ctx context.Context, ticket *domain.LoanTicket) error
	GetByID(ctx context.Context, id int32) (*domain.LoanTicket, error)
	List(ctx context.Context) ([]domain.LoanTicket, error)
	ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error)
	// Update persists status, return date and note, guarded by the status the caller read.
	// When restock is set the ticket quantity goes back to the item.
	Update(ctx context.Context, ticket *domain.LoanTicket, from domain.Status, restock bool) error
	Delete(ctx context.Context, ticket *domain.LoanTicket, restock bool) error
	CountActiveByItem(ctx context.Context, itemID int32) (int32, error)
	// SumActiveQuantityByItem is the number of units out on borrowed or overdue tickets.
	SumActiveQuantityByItem(ctx context.Context, itemID int32) (int32, error)
	// MarkOverdue moves borrowed tickets whose expected return date is before now to overdue.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error)
}
