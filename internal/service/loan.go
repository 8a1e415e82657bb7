package service

import (
	"context"
	"time"

	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository"
)

type loanService struct {
	loanRepo    repository.LoanRepository
	itemRepo    repository.ItemRepository
	accountRepo repository.AccountRepository
	now         func() time.Time
}

type LoanServiceOption func(*loanService)

// WithClock overrides the time source used for return stamps and the overdue sweep.
func WithClock(now func() time.Time) LoanServiceOption {
	return func(s *loanService) {
		s.now = now
	}
}

func NewLoanService(loanRepo repository.LoanRepository, itemRepo repository.ItemRepository, accountRepo repository.AccountRepository, opts ...LoanServiceOption) LoanService {
	s := &loanService{
		loanRepo:    loanRepo,
		itemRepo:    itemRepo,
		accountRepo: accountRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *loanService) ListTickets(ctx context.Context) ([]domain.LoanTicket, error) {
	return s.loanRepo.List(ctx)
}

func (s *loanService) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error) {
	return s.loanRepo.ListByBorrower(ctx, borrowerID)
}

func (s *loanService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error) {
	return s.loanRepo.ListByOwner(ctx, ownerID)
}

func (s *loanService) GetTicket(ctx context.Context, id int32) (*domain.LoanTicket, error) {
	return s.loanRepo.GetByID(ctx, id)
}

// CreateTicket opens a ticket in the borrowed state. The item quantity is reserved by the
// repository in the same transaction, so a concurrent borrow of the last unit fails cleanly.
func (s *loanService) CreateTicket(ctx context.Context, actor Actor, req domain.NewLoanTicket) (*domain.LoanTicket, error) {
	logger.EnterMethod("loanService.CreateTicket", "itemID", req.ItemID, "borrowerID", req.BorrowerID, "quantity", req.Quantity)
	if !actor.Anonymous() {
		if req.BorrowerID == 0 {
			req.BorrowerID = actor.AccountID
		}
		if req.BorrowerID != actor.AccountID {
			return nil, ErrForbidden
		}
	}

	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, &domain.ValidationError{Field: "vatDungId", Message: domain.ErrItemNotLendable.Error(), Err: domain.ErrItemNotLendable}
	}
	if err := domain.ValidateLoanRequest(item, req); err != nil {
		return nil, err
	}
	if req.BorrowerID == item.OwnerID {
		return nil, &domain.ValidationError{Field: "nguoiMuonId", Message: "owners cannot borrow their own items"}
	}
	if _, err := s.accountRepo.GetByID(ctx, req.BorrowerID); err != nil {
		return nil, err
	}

	ticket := &domain.LoanTicket{
		ItemID:             item.ID,
		BorrowerID:         req.BorrowerID,
		OwnerID:            item.OwnerID,
		Quantity:           req.Quantity,
		BorrowDate:         req.BorrowDate,
		ExpectedReturnDate: req.ExpectedReturnDate,
		Note:               req.Note,
		Status:             domain.StatusBorrowed,
		Item: &domain.ItemSummary{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Condition:   item.Condition,
		},
	}
	if err := s.loanRepo.Create(ctx, ticket); err != nil {
		logger.ExitMethodWithError("loanService.CreateTicket", err, "itemID", req.ItemID)
		return nil, err
	}

	logger.ExitMethod("loanService.CreateTicket", "ticketID", ticket.ID)
	return ticket, nil
}

// UpdateTicket applies an owner's partial update. A return date without a status means return,
// a status equal to the current one only touches the note, and a return without a date is
// stamped with the current time.
func (s *loanService) UpdateTicket(ctx context.Context, actor Actor, upd domain.LoanTicketUpdate) (*domain.LoanTicket, error) {
	logger.EnterMethod("loanService.UpdateTicket", "ticketID", upd.ID)
	current, err := s.loanRepo.GetByID(ctx, upd.ID)
	if err != nil {
		return nil, err
	}
	if !actor.owns(current.OwnerID) {
		return nil, ErrForbidden
	}

	target := current.Status
	switch {
	case upd.Status != nil:
		if !upd.Status.Valid() {
			return nil, &domain.ValidationError{Field: "trangThaiId", Message: "unknown status"}
		}
		target = *upd.Status
	case upd.ActualReturnDate != nil:
		target = domain.StatusReturned
	}

	next := *current
	restock := false
	if target != current.Status {
		action, err := domain.ActionForStatus(target)
		if err != nil {
			return nil, err
		}
		if next.Status, err = domain.Transition(current.Status, action); err != nil {
			return nil, err
		}
		restock = action.Restocks()
	}

	if upd.ActualReturnDate != nil && !upd.ActualReturnDate.IsZero() {
		at := *upd.ActualReturnDate
		if current.ActualReturnDate != nil && !current.ActualReturnDate.Equal(at.Time) {
			return nil, domain.ErrReturnDateFinal
		}
		if next.Status != domain.StatusReturned {
			return nil, &domain.ValidationError{Field: "ngayTraThucTe", Message: "actual return date can only be set on a returned ticket"}
		}
		if at.Before(current.BorrowDate.Time) {
			return nil, &domain.ValidationError{Field: "ngayTraThucTe", Message: "actual return date cannot be before the borrow date"}
		}
		next.ActualReturnDate = &at
	}
	if next.Status == domain.StatusReturned && next.ActualReturnDate == nil {
		stamp := domain.NewLocalTime(s.now())
		next.ActualReturnDate = &stamp
	}
	if upd.Note != nil {
		next.Note = *upd.Note
	}

	if err := s.loanRepo.Update(ctx, &next, current.Status, restock); err != nil {
		logger.ExitMethodWithError("loanService.UpdateTicket", err, "ticketID", upd.ID)
		return nil, err
	}
	logger.ExitMethod("loanService.UpdateTicket", "ticketID", upd.ID, "status", next.Status, "restock", restock)
	return &next, nil
}

// DeleteTicket removes the record outright. Units still out go back to the item.
func (s *loanService) DeleteTicket(ctx context.Context, actor Actor, id int32) error {
	current, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(current.OwnerID) && !actor.owns(current.BorrowerID) {
		return ErrForbidden
	}
	return s.loanRepo.Delete(ctx, current, current.Status.IsActive())
}

func (s *loanService) MarkOverdue(ctx context.Context) (int64, error) {
	return s.loanRepo.MarkOverdue(ctx, s.now())
}
