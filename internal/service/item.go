package service

import (
	"context"
	"fmt"
	"strings"

	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository"
)

type itemService struct {
	itemRepo    repository.ItemRepository
	loanRepo    repository.LoanRepository
	accountRepo repository.AccountRepository
}

func NewItemService(itemRepo repository.ItemRepository, loanRepo repository.LoanRepository, accountRepo repository.AccountRepository) ItemService {
	return &itemService{
		itemRepo:    itemRepo,
		loanRepo:    loanRepo,
		accountRepo: accountRepo,
	}
}

func (s *itemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.List(ctx)
}

func (s *itemService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	return s.itemRepo.ListByOwner(ctx, ownerID)
}

func (s *itemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// CreateItem starts every new item fully in stock and active.
func (s *itemService) CreateItem(ctx context.Context, actor Actor, item *domain.Item) error {
	logger.EnterMethod("itemService.CreateItem", "ownerID", item.OwnerID, "name", item.Name)
	if !actor.Anonymous() {
		if item.OwnerID == 0 {
			item.OwnerID = actor.AccountID
		}
		if item.OwnerID != actor.AccountID || !actor.Role.IsOwner() {
			return ErrForbidden
		}
	}

	item.Name = strings.TrimSpace(item.Name)
	item.RemainingQuantity = item.TotalQuantity
	item.Active = true
	if err := item.ValidateNew(); err != nil {
		return err
	}

	owner, err := s.accountRepo.GetByID(ctx, item.OwnerID)
	if err != nil {
		return err
	}
	if !owner.Role.IsOwner() {
		return ErrForbidden
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError("itemService.CreateItem", err, "ownerID", item.OwnerID)
		return err
	}
	logger.ExitMethod("itemService.CreateItem", "itemID", item.ID)
	return nil
}

// UpdateItem keeps the stored owner; an owner may not hand an item to someone else.
// Units out on active tickets stay reserved: the edit may not shrink the total below
// them or report more units in stock than the total leaves free.
func (s *itemService) UpdateItem(ctx context.Context, actor Actor, item *domain.Item) error {
	logger.EnterMethod("itemService.UpdateItem", "itemID", item.ID)
	existing, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if !actor.owns(existing.OwnerID) {
		return ErrForbidden
	}

	item.OwnerID = existing.OwnerID
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return err
	}

	out, err := s.loanRepo.SumActiveQuantityByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if item.TotalQuantity < out {
		return &domain.ValidationError{Field: "soLuongTong",
			Message: fmt.Sprintf("total quantity cannot be less than the %d units out on loan", out)}
	}
	if free := item.TotalQuantity - out; item.RemainingQuantity > free {
		return &domain.ValidationError{Field: "soLuongCon",
			Message: fmt.Sprintf("remaining quantity cannot exceed %d while %d units are out on loan", free, out)}
	}

	if err := s.itemRepo.Update(ctx, item, existing.RemainingQuantity); err != nil {
		logger.ExitMethodWithError("itemService.UpdateItem", err, "itemID", item.ID)
		return err
	}
	logger.ExitMethod("itemService.UpdateItem", "itemID", item.ID)
	return nil
}

func (s *itemService) DeleteItem(ctx context.Context, actor Actor, id int32) error {
	existing, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(existing.OwnerID) {
		return ErrForbidden
	}

	out, err := s.loanRepo.CountActiveByItem(ctx, id)
	if err != nil {
		return err
	}
	if out > 0 {
		return ErrItemInUse
	}
	return s.itemRepo.Delete(ctx, id)
}
