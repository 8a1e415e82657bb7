package app

import (
	"context"
	"strings"

	"muontra/internal/client"
	"muontra/internal/domain"
)

// BorrowOptions overrides the quick-borrow defaults. Zero values keep the default.
type BorrowOptions struct {
	Quantity int32
	Days     int
	Note     string
}

// Borrow requests an item for the logged-in account after checking it against the item's
// current stock.
func (a *App) Borrow(ctx context.Context, itemID int32, opts BorrowOptions) (*domain.Result, error) {
	sess, err := a.requireLogin(ctx)
	if err != nil {
		return nil, err
	}

	item, err := a.api.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	req := domain.QuickBorrow(item, sess.AccountID, a.now())
	if opts.Quantity != 0 {
		req.Quantity = opts.Quantity
	}
	if opts.Days > 0 {
		req.ExpectedReturnDate = domain.NewLocalTime(req.BorrowDate.AddDate(0, 0, opts.Days))
	}
	if note := strings.TrimSpace(opts.Note); note != "" {
		req.Note = note
	}

	if err := domain.ValidateLoanRequest(item, req); err != nil {
		return nil, err
	}
	return a.api.CreateTicket(ctx, req)
}

// TicketScope picks which ticket list to show.
type TicketScope int

const (
	ScopeAll TicketScope = iota
	ScopeBorrowed
	ScopeOwned
)

func (a *App) Tickets(ctx context.Context, scope TicketScope) ([]domain.LoanTicket, error) {
	if scope == ScopeAll {
		return a.api.ListTickets(ctx)
	}
	sess, err := a.requireLogin(ctx)
	if err != nil {
		return nil, err
	}
	if scope == ScopeOwned {
		return a.api.ListTicketsByOwner(ctx, sess.AccountID)
	}
	return a.api.ListTicketsByBorrower(ctx, sess.AccountID)
}

// LegacyTickets lists every ticket in the older flat shape, for servers that predate
// the embedded item.
func (a *App) LegacyTickets(ctx context.Context) ([]client.LegacyTicket, error) {
	return a.api.ListLegacy(ctx)
}

func (a *App) Ticket(ctx context.Context, id int32) (*domain.LoanTicket, error) {
	return a.api.GetTicket(ctx, id)
}

// TicketEdit is the owner's update form.
type TicketEdit struct {
	ID     int32
	Return bool
	Status *domain.Status
	Note   *string
}

// UpdateTicket checks the requested status change against the transition table before
// sending it. Returning stamps the actual return date with the current time.
func (a *App) UpdateTicket(ctx context.Context, edit TicketEdit) (*domain.Result, error) {
	if _, err := a.requireOwner(ctx); err != nil {
		return nil, err
	}
	current, err := a.api.GetTicket(ctx, edit.ID)
	if err != nil {
		return nil, err
	}

	upd := domain.LoanTicketUpdate{ID: edit.ID, Note: edit.Note}
	target := current.Status
	if edit.Status != nil {
		target = *edit.Status
	}
	if edit.Return {
		target = domain.StatusReturned
	}

	if target != current.Status {
		action, err := domain.ActionForStatus(target)
		if err != nil {
			return nil, &domain.ValidationError{Field: "trangThaiId", Message: err.Error(), Err: err}
		}
		if _, err := domain.Transition(current.Status, action); err != nil {
			return nil, &domain.ValidationError{Field: "trangThaiId", Message: err.Error(), Err: err}
		}
		status := target
		upd.Status = &status
	}
	if target == domain.StatusReturned && current.ActualReturnDate == nil {
		at := domain.NewLocalTime(a.now())
		upd.ActualReturnDate = &at
	}
	if upd.Status == nil && upd.Note == nil && upd.ActualReturnDate == nil {
		return nil, &domain.ValidationError{Field: "id", Message: "nothing to update"}
	}
	return a.api.UpdateTicket(ctx, upd)
}

func (a *App) DeleteTicket(ctx context.Context, id int32) (*domain.Result, error) {
	if _, err := a.requireLogin(ctx); err != nil {
		return nil, err
	}
	return a.api.DeleteTicket(ctx, id)
}
