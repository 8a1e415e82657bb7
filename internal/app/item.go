package app

import (
	"context"
	"io"

	"muontra/internal/domain"
)

// FormMode selects whether the item form creates or updates.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeUpdate
)

// Items lists the catalog, or only the logged-in owner's items when mine is set.
func (a *App) Items(ctx context.Context, mine bool) ([]domain.Item, error) {
	if !mine {
		return a.api.ListItems(ctx)
	}
	sess, err := a.requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	return a.api.ListItemsByOwner(ctx, sess.AccountID)
}

// Dashboard counts the owner's items by stock.
func (a *App) Dashboard(ctx context.Context) (domain.StockSummary, error) {
	items, err := a.Items(ctx, true)
	if err != nil {
		return domain.StockSummary{}, err
	}
	return domain.SummarizeStock(items), nil
}

func (a *App) Item(ctx context.Context, id int32) (*domain.Item, error) {
	return a.api.GetItem(ctx, id)
}

// SaveItem is the one item form. Create attributes the item to the logged-in owner and
// starts it fully in stock.
func (a *App) SaveItem(ctx context.Context, item domain.Item, mode FormMode) (*domain.Result, error) {
	sess, err := a.requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeCreate:
		item.ID = 0
		item.OwnerID = sess.AccountID
		item.RemainingQuantity = item.TotalQuantity
		item.Active = true
		if err := item.ValidateNew(); err != nil {
			return nil, err
		}
		return a.api.CreateItem(ctx, item)
	default:
		if item.ID <= 0 {
			return nil, &domain.ValidationError{Field: "id", Message: "choose an item to update"}
		}
		item.OwnerID = sess.AccountID
		if err := item.Validate(); err != nil {
			return nil, err
		}
		return a.api.UpdateItem(ctx, item)
	}
}

func (a *App) DeleteItem(ctx context.Context, id int32) (*domain.Result, error) {
	if _, err := a.requireOwner(ctx); err != nil {
		return nil, err
	}
	return a.api.DeleteItem(ctx, id)
}

// UploadImage stores a picture and returns the URL for the item's hinhAnh field.
func (a *App) UploadImage(ctx context.Context, contentType string, r io.Reader) (string, error) {
	if _, err := a.requireOwner(ctx); err != nil {
		return "", err
	}
	res, err := a.api.UploadImage(ctx, contentType, r)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}
