package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"muontra/internal/app"
	"muontra/internal/client"
	"muontra/internal/domain"
	"muontra/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 10, 18, 9, 30, 0, 0, time.UTC)

var ok = &domain.Result{Message: "ok", Success: true}

func newApp(t *testing.T) (*app.App, *MockGateway, *session.Manager) {
	t.Helper()
	gw := new(MockGateway)
	mgr := session.NewManager(session.NewMemoryStore())
	t.Cleanup(func() { gw.AssertExpectations(t) })
	return app.New(gw, mgr, app.WithClock(func() time.Time { return fixedNow })), gw, mgr
}

func login(t *testing.T, mgr *session.Manager, id int32, owner bool) {
	t.Helper()
	require.NoError(t, mgr.Login(context.Background(), id, owner, "tok"))
}

func TestApp_Register(t *testing.T) {
	ctx := context.Background()
	req := domain.RegisterRequest{Email: "a@b.c", Password: "secret1", Phone: "0901", Address: "HN", FullName: "Lan", Role: domain.RoleBorrower}

	t.Run("ConfirmationMismatch", func(t *testing.T) {
		a, _, _ := newApp(t)
		_, err := a.Register(ctx, req, "secret2")
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "xacNhanMatKhau", verr.Field)
	})

	t.Run("Sent", func(t *testing.T) {
		a, gw, _ := newApp(t)
		gw.On("Register", mock.Anything, req).Return(ok, nil)
		_, err := a.Register(ctx, req, "secret1")
		assert.NoError(t, err)
	})
}

func TestApp_LoginLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("LoginSavesSession", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		id, owner := int32(7), true
		gw.On("Login", mock.Anything, domain.LoginRequest{Email: "a@b.c", Password: "secret1"}).
			Return(&domain.LoginResponse{Message: "ok", AccountID: &id, IsOwner: &owner, Token: "tok"}, nil)

		sess, err := a.Login(ctx, " a@b.c ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, int32(7), sess.AccountID)

		read := mgr.Current(ctx)
		assert.Equal(t, int32(7), read.AccountID)
		assert.True(t, read.IsOwner)
		assert.Equal(t, "tok", read.Token)

		require.NoError(t, a.Logout(ctx))
		assert.False(t, a.Session(ctx).LoggedIn())
	})

	t.Run("LoginWithoutAccountID", func(t *testing.T) {
		a, gw, _ := newApp(t)
		gw.On("Login", mock.Anything, mock.Anything).Return(&domain.LoginResponse{Message: "wrong password"}, nil)

		_, err := a.Login(ctx, "a@b.c", "secret1")
		assert.Equal(t, "wrong password", app.Describe(err))
		assert.False(t, a.Session(ctx).LoggedIn())
	})

	t.Run("LoginValidation", func(t *testing.T) {
		a, _, _ := newApp(t)
		_, err := a.Login(ctx, "", "")
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestApp_Borrow(t *testing.T) {
	ctx := context.Background()
	item := &domain.Item{ID: 5, OwnerID: 2, Name: "Khoan", TotalQuantity: 3, RemainingQuantity: 1, Lendable: true, Active: true}

	t.Run("RequiresLogin", func(t *testing.T) {
		a, _, _ := newApp(t)
		_, err := a.Borrow(ctx, 5, app.BorrowOptions{})
		assert.ErrorIs(t, err, app.ErrNotLoggedIn)
	})

	t.Run("QuantityExceedsRemaining", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 3, false)
		gw.On("GetItem", mock.Anything, int32(5)).Return(item, nil)

		_, err := a.Borrow(ctx, 5, app.BorrowOptions{Quantity: 2})
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
		assert.Equal(t, "requested quantity exceeds remaining quantity", app.Describe(err))
		gw.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)
	})

	t.Run("NotLendable", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 3, false)
		locked := *item
		locked.Lendable = false
		gw.On("GetItem", mock.Anything, int32(5)).Return(&locked, nil)

		_, err := a.Borrow(ctx, 5, app.BorrowOptions{})
		assert.ErrorIs(t, err, domain.ErrItemNotLendable)
	})

	t.Run("QuickBorrowDefaults", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 3, false)
		gw.On("GetItem", mock.Anything, int32(5)).Return(item, nil)
		gw.On("CreateTicket", mock.Anything, mock.MatchedBy(func(req domain.NewLoanTicket) bool {
			return req.ItemID == 5 && req.BorrowerID == 3 && req.OwnerID == 2 && req.Quantity == 1 &&
				req.BorrowDate.String() == "2025-10-18T00:00:00" &&
				req.ExpectedReturnDate.String() == "2025-10-25T00:00:00" &&
				req.Note == "Mượn Khoan"
		})).Return(ok, nil)

		_, err := a.Borrow(ctx, 5, app.BorrowOptions{})
		assert.NoError(t, err)
	})

	t.Run("CustomDays", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 3, false)
		gw.On("GetItem", mock.Anything, int32(5)).Return(item, nil)
		gw.On("CreateTicket", mock.Anything, mock.MatchedBy(func(req domain.NewLoanTicket) bool {
			return req.ExpectedReturnDate.String() == "2025-10-21T00:00:00" && req.Note == "for the weekend"
		})).Return(ok, nil)

		_, err := a.Borrow(ctx, 5, app.BorrowOptions{Days: 3, Note: " for the weekend "})
		assert.NoError(t, err)
	})
}

func TestApp_SaveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("BorrowerBlocked", func(t *testing.T) {
		a, _, mgr := newApp(t)
		login(t, mgr, 3, false)
		_, err := a.SaveItem(ctx, domain.Item{Name: "Khoan"}, app.ModeCreate)
		assert.ErrorIs(t, err, app.ErrOwnerOnly)
	})

	t.Run("CreateStartsFullyStocked", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 2, true)
		gw.On("CreateItem", mock.Anything, mock.MatchedBy(func(it domain.Item) bool {
			return it.OwnerID == 2 && it.RemainingQuantity == 4 && it.Active
		})).Return(ok, nil)

		_, err := a.SaveItem(ctx, domain.Item{Name: "Khoan", CategoryID: 1, TotalQuantity: 4, Lendable: true}, app.ModeCreate)
		assert.NoError(t, err)
	})

	t.Run("UpdateRejectsRemainingAboveTotal", func(t *testing.T) {
		a, _, mgr := newApp(t)
		login(t, mgr, 2, true)
		_, err := a.SaveItem(ctx, domain.Item{ID: 5, Name: "Khoan", TotalQuantity: 2, RemainingQuantity: 3}, app.ModeUpdate)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "soLuongCon", verr.Field)
	})

	t.Run("UpdateNeedsID", func(t *testing.T) {
		a, _, mgr := newApp(t)
		login(t, mgr, 2, true)
		_, err := a.SaveItem(ctx, domain.Item{Name: "Khoan", TotalQuantity: 2}, app.ModeUpdate)
		assert.Error(t, err)
	})
}

func TestApp_UpdateTicket(t *testing.T) {
	ctx := context.Background()
	borrowed := &domain.LoanTicket{ID: 4, Status: domain.StatusBorrowed}

	t.Run("ReturnSetsStatusAndDate", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 2, true)
		gw.On("GetTicket", mock.Anything, int32(4)).Return(borrowed, nil)
		gw.On("UpdateTicket", mock.Anything, mock.MatchedBy(func(upd domain.LoanTicketUpdate) bool {
			return upd.Status != nil && *upd.Status == domain.StatusReturned &&
				upd.ActualReturnDate != nil && upd.ActualReturnDate.Equal(fixedNow)
		})).Return(ok, nil)

		_, err := a.UpdateTicket(ctx, app.TicketEdit{ID: 4, Return: true})
		assert.NoError(t, err)
	})

	t.Run("TerminalTicketRejected", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 2, true)
		gw.On("GetTicket", mock.Anything, int32(4)).Return(&domain.LoanTicket{ID: 4, Status: domain.StatusCancelled}, nil)

		_, err := a.UpdateTicket(ctx, app.TicketEdit{ID: 4, Return: true})
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("BackToBorrowedRejected", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 2, true)
		gw.On("GetTicket", mock.Anything, int32(4)).Return(&domain.LoanTicket{ID: 4, Status: domain.StatusOverdue}, nil)

		status := domain.StatusBorrowed
		_, err := a.UpdateTicket(ctx, app.TicketEdit{ID: 4, Status: &status})
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("NoteOnly", func(t *testing.T) {
		a, gw, mgr := newApp(t)
		login(t, mgr, 2, true)
		note := "scratched"
		gw.On("GetTicket", mock.Anything, int32(4)).Return(borrowed, nil)
		gw.On("UpdateTicket", mock.Anything, domain.LoanTicketUpdate{ID: 4, Note: &note}).Return(ok, nil)

		_, err := a.UpdateTicket(ctx, app.TicketEdit{ID: 4, Note: &note})
		assert.NoError(t, err)
	})
}

func TestApp_Tickets(t *testing.T) {
	ctx := context.Background()
	a, gw, mgr := newApp(t)

	_, err := a.Tickets(ctx, app.ScopeBorrowed)
	assert.ErrorIs(t, err, app.ErrNotLoggedIn)

	login(t, mgr, 3, false)
	gw.On("ListTicketsByBorrower", mock.Anything, int32(3)).Return([]domain.LoanTicket{{ID: 1}}, nil)
	tickets, err := a.Tickets(ctx, app.ScopeBorrowed)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestApp_LegacyTickets(t *testing.T) {
	ctx := context.Background()
	a, gw, _ := newApp(t)
	gw.On("ListLegacy", mock.Anything).Return([]client.LegacyTicket{{ID: 7, ItemID: 5, Quantity: 2}}, nil)

	tickets, err := a.LegacyTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, int32(5), tickets[0].ItemID)
	gw.AssertExpectations(t)
}

func TestApp_Dashboard(t *testing.T) {
	ctx := context.Background()
	a, gw, mgr := newApp(t)
	login(t, mgr, 2, true)
	gw.On("ListItemsByOwner", mock.Anything, int32(2)).Return([]domain.Item{
		{ID: 1, TotalQuantity: 2, RemainingQuantity: 2},
		{ID: 2, TotalQuantity: 2, RemainingQuantity: 0},
	}, nil)

	summary, err := a.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StockSummary{Total: 2, InStock: 1, OutOfStock: 1}, summary)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", app.Describe(nil))
	assert.Equal(t, "please log in first", app.Describe(app.ErrNotLoggedIn))
	assert.Contains(t, app.Describe(&client.TransportError{Op: "GET /", Err: errors.New("refused")}), "cannot connect")
	assert.Equal(t, "item not found", app.Describe(&client.APIError{StatusCode: 404, Message: "item not found"}))
}
