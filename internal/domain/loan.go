package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status is the loan ticket lifecycle state (trangThaiId).
type Status int32

const (
	StatusBorrowed  Status = 1
	StatusReturned  Status = 2
	StatusOverdue   Status = 3
	StatusCancelled Status = 4
)

func (s Status) Valid() bool {
	return s >= StatusBorrowed && s <= StatusCancelled
}

// IsActive is true while the borrowed units are still out.
func (s Status) IsActive() bool {
	return s == StatusBorrowed || s == StatusOverdue
}

func (s Status) IsTerminal() bool {
	return s == StatusReturned || s == StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusBorrowed:
		return "borrowed"
	case StatusReturned:
		return "returned"
	case StatusOverdue:
		return "overdue"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Action is an event that moves a ticket between statuses.
type Action int

const (
	ActionReturn Action = iota + 1
	ActionMarkOverdue
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionReturn:
		return "return"
	case ActionMarkOverdue:
		return "mark-overdue"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Restocks reports whether the action hands the borrowed units back to the item.
func (a Action) Restocks() bool {
	return a == ActionReturn || a == ActionCancel
}

var (
	ErrIllegalTransition = errors.New("illegal loan status transition")
	ErrReturnDateFinal   = errors.New("actual return date is already set")
)

var transitions = map[Status]map[Action]Status{
	StatusBorrowed: {
		ActionReturn:      StatusReturned,
		ActionMarkOverdue: StatusOverdue,
		ActionCancel:      StatusCancelled,
	},
	StatusOverdue: {
		ActionReturn: StatusReturned,
	},
}

// Transition is the only way a ticket status changes. Returned and cancelled are terminal.
func Transition(current Status, action Action) (Status, error) {
	next, ok := transitions[current][action]
	if !ok {
		return current, fmt.Errorf("%w: cannot %s a %s ticket", ErrIllegalTransition, action, current)
	}
	return next, nil
}

// ActionForStatus maps a requested target status to the action that reaches it.
func ActionForStatus(target Status) (Action, error) {
	switch target {
	case StatusReturned:
		return ActionReturn, nil
	case StatusOverdue:
		return ActionMarkOverdue, nil
	case StatusCancelled:
		return ActionCancel, nil
	default:
		return 0, fmt.Errorf("%w: status %d cannot be set directly", ErrIllegalTransition, target)
	}
}

// ItemSummary is the item snapshot embedded in ticket listings.
type ItemSummary struct {
	ID          int32  `json:"id"`
	Name        string `json:"tenVatDung"`
	Description string `json:"moTa,omitempty"`
	Condition   string `json:"tinhTrang,omitempty"`
}

type LoanTicket struct {
	ID                 int32        `json:"id"`
	ItemID             int32        `json:"vatDungId"`
	BorrowerID         int32        `json:"nguoiMuonId"`
	OwnerID            int32        `json:"chuSoHuuId"`
	Quantity           int32        `json:"soLuong"`
	BorrowDate         LocalTime    `json:"ngayMuon"`
	ExpectedReturnDate LocalTime    `json:"ngayTraDuKien"`
	ActualReturnDate   *LocalTime   `json:"ngayTraThucTe,omitempty"`
	Note               string       `json:"ghiChu,omitempty"`
	Status             Status       `json:"trangThaiId"`
	CreatedOn          LocalTime    `json:"ngayTao"`
	Item               *ItemSummary `json:"vatDung,omitempty"`
}

// IsOverdueAt is true for a still-borrowed ticket whose expected return date has passed.
func (t *LoanTicket) IsOverdueAt(now time.Time) bool {
	return t.Status == StatusBorrowed && t.ExpectedReturnDate.Before(now)
}

// NewLoanTicket is the create request (ThemPhieuMuon).
type NewLoanTicket struct {
	ItemID             int32     `json:"vatDungId"`
	BorrowerID         int32     `json:"nguoiMuonId"`
	OwnerID            int32     `json:"chuSoHuuId"`
	Quantity           int32     `json:"soLuong"`
	BorrowDate         LocalTime `json:"ngayMuon"`
	ExpectedReturnDate LocalTime `json:"ngayTraDuKien"`
	Note               string    `json:"ghiChu,omitempty"`
}

// LoanTicketUpdate is the partial update request (SuaPhieuMuon). Nil fields are left unchanged.
type LoanTicketUpdate struct {
	ID               int32      `json:"id"`
	ActualReturnDate *LocalTime `json:"ngayTraThucTe,omitempty"`
	Note             *string    `json:"ghiChu,omitempty"`
	Status           *Status    `json:"trangThaiId,omitempty"`
}

// OverdueReminder joins an overdue ticket with what the reminder email needs.
type OverdueReminder struct {
	TicketID           int32
	BorrowerEmail      string
	BorrowerName       string
	ItemName           string
	Quantity           int32
	ExpectedReturnDate LocalTime
	DaysOverdue        int
}

// DefaultLoanDays is the loan length used by quick-borrow when the borrower gives none.
const DefaultLoanDays = 7

// QuickBorrow fills the defaults for a one-unit, seven-day loan starting today.
func QuickBorrow(item *Item, borrowerID int32, now time.Time) NewLoanTicket {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return NewLoanTicket{
		ItemID:             item.ID,
		BorrowerID:         borrowerID,
		OwnerID:            item.OwnerID,
		Quantity:           1,
		BorrowDate:         NewLocalTime(today),
		ExpectedReturnDate: NewLocalTime(today.AddDate(0, 0, DefaultLoanDays)),
		Note:               "Mượn " + item.Name,
	}
}
