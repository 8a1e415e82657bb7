package postgres

import (
	"context"
	"database/sql"
	"errors"

	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, owner_id, name, COALESCE(description, ''), category_id, total_quantity, remaining_quantity,
	lendable, COALESCE(condition, ''), COALESCE(image_url, ''), active`

func scanItem(row interface{ Scan(...any) error }) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.CategoryID, &it.TotalQuantity,
		&it.RemainingQuantity, &it.Lendable, &it.Condition, &it.ImageURL, &it.Active)
	return it, err
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	query := `INSERT INTO items (owner_id, name, description, category_id, total_quantity, remaining_quantity, lendable, condition, image_url, active, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	logger.DatabaseCall("itemRepository.Create", query, "ownerID", it.OwnerID)
	err := r.db.QueryRowContext(ctx, query, it.OwnerID, it.Name, it.Description, it.CategoryID, it.TotalQuantity,
		it.RemainingQuantity, it.Lendable, it.Condition, it.ImageURL, it.Active, timeNow().UTC()).Scan(&it.ID)
	logger.DatabaseResult("itemRepository.Create", 1, err)
	return mapError(err)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_on IS NULL`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &it, nil
}

func (r *itemRepository) Update(ctx context.Context, it *domain.Item, expectedRemaining int32) error {
	query := `UPDATE items SET name=$1, description=$2, category_id=$3, total_quantity=$4, remaining_quantity=$5,
	          lendable=$6, condition=$7, image_url=$8, active=$9
	          WHERE id=$10 AND deleted_on IS NULL AND remaining_quantity=$11`
	logger.DatabaseCall("itemRepository.Update", query, "itemID", it.ID, "expectedRemaining", expectedRemaining)
	res, err := r.db.ExecContext(ctx, query, it.Name, it.Description, it.CategoryID, it.TotalQuantity, it.RemainingQuantity,
		it.Lendable, it.Condition, it.ImageURL, it.Active, it.ID, expectedRemaining)
	err = checkAffected("itemRepository.Update", res, err)
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	// Zero rows: either the item is gone or its stock moved under us.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND deleted_on IS NULL)`, it.ID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrConflict
	}
	return repository.ErrNotFound
}

// Delete is a soft delete so finished tickets keep their item reference.
func (r *itemRepository) Delete(ctx context.Context, id int32) error {
	query := `UPDATE items SET deleted_on = $1, active = FALSE WHERE id = $2 AND deleted_on IS NULL`
	logger.DatabaseCall("itemRepository.Delete", query, "itemID", id)
	res, err := r.db.ExecContext(ctx, query, timeNow().UTC(), id)
	return checkAffected("itemRepository.Delete", res, err)
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deleted_on IS NULL ORDER BY id DESC`
	return r.query(ctx, query)
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = $1 AND deleted_on IS NULL ORDER BY id DESC`
	return r.query(ctx, query, ownerID)
}

func (r *itemRepository) query(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// checkAffected turns a zero-row update into ErrNotFound.
func checkAffected(op string, res sql.Result, err error) error {
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return mapError(err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult(op, n, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
