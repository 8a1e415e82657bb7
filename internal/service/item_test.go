package service_test

import (
	"context"
	"errors"
	"testing"

	"muontra/internal/domain"
	"muontra/internal/repository"
	"muontra/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItemService_CreateItem(t *testing.T) {
	ctx := context.Background()
	owner := service.Actor{AccountID: 2, Role: domain.RoleOwner}

	t.Run("RemainingStartsAtTotal", func(t *testing.T) {
		items, loans, accounts := new(MockItemRepo), new(MockLoanRepo), new(MockAccountRepo)
		svc := service.NewItemService(items, loans, accounts)

		accounts.On("GetByID", ctx, int32(2)).Return(&domain.Account{ID: 2, Role: domain.RoleOwner}, nil)
		items.On("Create", ctx, mock.MatchedBy(func(it *domain.Item) bool {
			return it.RemainingQuantity == 3 && it.Active && it.OwnerID == 2
		})).Return(nil)

		it := &domain.Item{Name: "Ladder", CategoryID: 1, TotalQuantity: 3, RemainingQuantity: 0, Lendable: true}
		require.NoError(t, svc.CreateItem(ctx, owner, it))
		items.AssertExpectations(t)
	})

	t.Run("BorrowerCannotList", func(t *testing.T) {
		svc := service.NewItemService(new(MockItemRepo), new(MockLoanRepo), new(MockAccountRepo))
		it := &domain.Item{Name: "Ladder", CategoryID: 1, TotalQuantity: 3}
		err := svc.CreateItem(ctx, service.Actor{AccountID: 8, Role: domain.RoleBorrower}, it)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("MissingCategory", func(t *testing.T) {
		svc := service.NewItemService(new(MockItemRepo), new(MockLoanRepo), new(MockAccountRepo))
		it := &domain.Item{Name: "Ladder", TotalQuantity: 3}
		err := svc.CreateItem(ctx, owner, it)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "danhMucId", ve.Field)
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Item{ID: 5, OwnerID: 2, Name: "Ladder", CategoryID: 1, TotalQuantity: 3, RemainingQuantity: 1, Lendable: true}

	t.Run("RemainingAboveTotalRejected", func(t *testing.T) {
		items := new(MockItemRepo)
		svc := service.NewItemService(items, new(MockLoanRepo), new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)

		edit := *existing
		edit.RemainingQuantity = 4
		err := svc.UpdateItem(ctx, service.Actor{AccountID: 2, Role: domain.RoleOwner}, &edit)
		var ve *domain.ValidationError
		assert.True(t, errors.As(err, &ve))
		items.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LentUnitsStayReserved", func(t *testing.T) {
		lent := &domain.Item{ID: 6, OwnerID: 2, Name: "Tent", CategoryID: 1, TotalQuantity: 3, RemainingQuantity: 0, Lendable: true}
		items, loans := new(MockItemRepo), new(MockLoanRepo)
		svc := service.NewItemService(items, loans, new(MockAccountRepo))
		items.On("GetByID", ctx, int32(6)).Return(lent, nil)
		loans.On("SumActiveQuantityByItem", ctx, int32(6)).Return(int32(3), nil)

		edit := *lent
		edit.RemainingQuantity = 3
		err := svc.UpdateItem(ctx, service.Actor{AccountID: 2, Role: domain.RoleOwner}, &edit)
		var ve *domain.ValidationError
		if assert.True(t, errors.As(err, &ve)) {
			assert.Equal(t, "soLuongCon", ve.Field)
		}
		items.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("TotalBelowLentRejected", func(t *testing.T) {
		items, loans := new(MockItemRepo), new(MockLoanRepo)
		svc := service.NewItemService(items, loans, new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)
		loans.On("SumActiveQuantityByItem", ctx, int32(5)).Return(int32(2), nil)

		edit := *existing
		edit.TotalQuantity = 1
		edit.RemainingQuantity = 0
		err := svc.UpdateItem(ctx, service.Actor{}, &edit)
		var ve *domain.ValidationError
		if assert.True(t, errors.As(err, &ve)) {
			assert.Equal(t, "soLuongTong", ve.Field)
		}
		items.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RestockWithinFreeUnits", func(t *testing.T) {
		items, loans := new(MockItemRepo), new(MockLoanRepo)
		svc := service.NewItemService(items, loans, new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)
		loans.On("SumActiveQuantityByItem", ctx, int32(5)).Return(int32(2), nil)
		items.On("Update", ctx, mock.MatchedBy(func(it *domain.Item) bool {
			return it.TotalQuantity == 5 && it.RemainingQuantity == 3
		}), int32(1)).Return(nil)

		edit := *existing
		edit.TotalQuantity = 5
		edit.RemainingQuantity = 3
		require.NoError(t, svc.UpdateItem(ctx, service.Actor{AccountID: 2, Role: domain.RoleOwner}, &edit))
		items.AssertExpectations(t)
	})

	t.Run("StockMovedConcurrently", func(t *testing.T) {
		items, loans := new(MockItemRepo), new(MockLoanRepo)
		svc := service.NewItemService(items, loans, new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)
		loans.On("SumActiveQuantityByItem", ctx, int32(5)).Return(int32(2), nil)
		items.On("Update", ctx, mock.Anything, int32(1)).Return(repository.ErrConflict)

		edit := *existing
		assert.ErrorIs(t, svc.UpdateItem(ctx, service.Actor{}, &edit), repository.ErrConflict)
	})

	t.Run("NotTheOwner", func(t *testing.T) {
		items := new(MockItemRepo)
		svc := service.NewItemService(items, new(MockLoanRepo), new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)

		edit := *existing
		err := svc.UpdateItem(ctx, service.Actor{AccountID: 3, Role: domain.RoleOwner}, &edit)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("OwnerCannotBeReassigned", func(t *testing.T) {
		items, loans := new(MockItemRepo), new(MockLoanRepo)
		svc := service.NewItemService(items, loans, new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)
		loans.On("SumActiveQuantityByItem", ctx, int32(5)).Return(int32(2), nil)
		items.On("Update", ctx, mock.MatchedBy(func(it *domain.Item) bool { return it.OwnerID == 2 }), int32(1)).Return(nil)

		edit := *existing
		edit.OwnerID = 99
		require.NoError(t, svc.UpdateItem(ctx, service.Actor{}, &edit))
		items.AssertExpectations(t)
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Item{ID: 5, OwnerID: 2}

	t.Run("BlockedWhileLent", func(t *testing.T) {
		items, loans := new(MockItemRepo), new(MockLoanRepo)
		svc := service.NewItemService(items, loans, new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)
		loans.On("CountActiveByItem", ctx, int32(5)).Return(int32(1), nil)

		assert.ErrorIs(t, svc.DeleteItem(ctx, service.Actor{}, 5), service.ErrItemInUse)
		items.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Deleted", func(t *testing.T) {
		items, loans := new(MockItemRepo), new(MockLoanRepo)
		svc := service.NewItemService(items, loans, new(MockAccountRepo))
		items.On("GetByID", ctx, int32(5)).Return(existing, nil)
		loans.On("CountActiveByItem", ctx, int32(5)).Return(int32(0), nil)
		items.On("Delete", ctx, int32(5)).Return(nil)

		assert.NoError(t, svc.DeleteItem(ctx, service.Actor{AccountID: 2, Role: domain.RoleOwner}, 5))
	})
}
