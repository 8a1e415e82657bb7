package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const ticketSelect = `SELECT t.id, t.item_id, t.borrower_id, t.owner_id, t.quantity, t.borrow_date, t.expected_return_date,
	t.actual_return_date, COALESCE(t.note, ''), t.status_id, t.created_on,
	i.name, COALESCE(i.description, ''), COALESCE(i.condition, '')
	FROM loan_tickets t JOIN items i ON i.id = t.item_id`

func scanTicket(row interface{ Scan(...any) error }) (domain.LoanTicket, error) {
	var t domain.LoanTicket
	var returned domain.LocalTime
	summary := &domain.ItemSummary{}
	err := row.Scan(&t.ID, &t.ItemID, &t.BorrowerID, &t.OwnerID, &t.Quantity, &t.BorrowDate, &t.ExpectedReturnDate,
		&returned, &t.Note, &t.Status, &t.CreatedOn,
		&summary.Name, &summary.Description, &summary.Condition)
	if err != nil {
		return t, err
	}
	if !returned.IsZero() {
		t.ActualReturnDate = &returned
	}
	summary.ID = t.ItemID
	t.Item = summary
	return t, nil
}

func (r *loanRepository) Create(ctx context.Context, t *domain.LoanTicket) error {
	logger.EnterMethod("loanRepository.Create", "itemID", t.ItemID, "quantity", t.Quantity)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	reserve := `UPDATE items SET remaining_quantity = remaining_quantity - $1
	            WHERE id = $2 AND deleted_on IS NULL AND lendable AND remaining_quantity >= $1`
	res, err := tx.ExecContext(ctx, reserve, t.Quantity, t.ItemID)
	if err != nil {
		logger.ExitMethodWithError("loanRepository.Create", err, "itemID", t.ItemID)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		logger.ExitMethodWithError("loanRepository.Create", domain.ErrInsufficientQuantity, "itemID", t.ItemID)
		return domain.ErrInsufficientQuantity
	}

	insert := `INSERT INTO loan_tickets (item_id, borrower_id, owner_id, quantity, borrow_date, expected_return_date, note, status_id, created_on)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	t.CreatedOn = domain.NewLocalTime(timeNow())
	err = tx.QueryRowContext(ctx, insert, t.ItemID, t.BorrowerID, t.OwnerID, t.Quantity, t.BorrowDate, t.ExpectedReturnDate,
		t.Note, t.Status, t.CreatedOn).Scan(&t.ID)
	if err != nil {
		logger.ExitMethodWithError("loanRepository.Create", err, "itemID", t.ItemID)
		return mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("loanRepository.Create", "ticketID", t.ID)
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.LoanTicket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx, ticketSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *loanRepository) List(ctx context.Context) ([]domain.LoanTicket, error) {
	return r.query(ctx, ticketSelect+` ORDER BY t.created_on DESC, t.id DESC`)
}

func (r *loanRepository) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error) {
	return r.query(ctx, ticketSelect+` WHERE t.borrower_id = $1 ORDER BY t.created_on DESC, t.id DESC`, borrowerID)
}

func (r *loanRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error) {
	return r.query(ctx, ticketSelect+` WHERE t.owner_id = $1 ORDER BY t.created_on DESC, t.id DESC`, ownerID)
}

func (r *loanRepository) query(ctx context.Context, query string, args ...any) ([]domain.LoanTicket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.LoanTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *loanRepository) Update(ctx context.Context, t *domain.LoanTicket, from domain.Status, restock bool) error {
	logger.EnterMethod("loanRepository.Update", "ticketID", t.ID, "from", from, "to", t.Status, "restock", restock)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE loan_tickets SET status_id=$1, actual_return_date=$2, note=$3 WHERE id=$4 AND status_id=$5`
	var returned any
	if t.ActualReturnDate != nil {
		returned = *t.ActualReturnDate
	}
	res, err := tx.ExecContext(ctx, query, t.Status, returned, t.Note, t.ID, from)
	if err != nil {
		logger.ExitMethodWithError("loanRepository.Update", err, "ticketID", t.ID)
		return err
	}
	if err := expectOne(res); err != nil {
		logger.ExitMethodWithError("loanRepository.Update", err, "ticketID", t.ID)
		return err
	}

	if restock {
		if err := restockItem(ctx, tx, t.ItemID, t.Quantity); err != nil {
			logger.ExitMethodWithError("loanRepository.Update", err, "ticketID", t.ID)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("loanRepository.Update", "ticketID", t.ID)
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, t *domain.LoanTicket, restock bool) error {
	logger.EnterMethod("loanRepository.Delete", "ticketID", t.ID, "restock", restock)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM loan_tickets WHERE id = $1 AND status_id = $2`, t.ID, t.Status)
	if err != nil {
		return err
	}
	if err := expectOne(res); err != nil {
		logger.ExitMethodWithError("loanRepository.Delete", err, "ticketID", t.ID)
		return err
	}
	if restock {
		if err := restockItem(ctx, tx, t.ItemID, t.Quantity); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("loanRepository.Delete", "ticketID", t.ID)
	return nil
}

// expectOne maps a guarded write that touched no row to ErrConflict.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrConflict
	}
	return nil
}

func restockItem(ctx context.Context, tx *sql.Tx, itemID, quantity int32) error {
	query := `UPDATE items SET remaining_quantity = LEAST(total_quantity, remaining_quantity + $1) WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, quantity, itemID); err != nil {
		return fmt.Errorf("failed to restock item %d: %w", itemID, err)
	}
	return nil
}

func (r *loanRepository) CountActiveByItem(ctx context.Context, itemID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM loan_tickets WHERE item_id = $1 AND status_id IN ($2, $3)`
	err := r.db.QueryRowContext(ctx, query, itemID, domain.StatusBorrowed, domain.StatusOverdue).Scan(&count)
	return count, err
}

func (r *loanRepository) SumActiveQuantityByItem(ctx context.Context, itemID int32) (int32, error) {
	var out int32
	query := `SELECT COALESCE(SUM(quantity), 0) FROM loan_tickets WHERE item_id = $1 AND status_id IN ($2, $3)`
	err := r.db.QueryRowContext(ctx, query, itemID, domain.StatusBorrowed, domain.StatusOverdue).Scan(&out)
	return out, err
}

func (r *loanRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE loan_tickets SET status_id = $1 WHERE status_id = $2 AND expected_return_date < $3`
	logger.DatabaseCall("loanRepository.MarkOverdue", query)
	res, err := r.db.ExecContext(ctx, query, domain.StatusOverdue, domain.StatusBorrowed, now.UTC())
	if err != nil {
		logger.DatabaseResult("loanRepository.MarkOverdue", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("loanRepository.MarkOverdue", n, err)
	return n, err
}

func (r *loanRepository) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	query := `SELECT t.id, a.email, a.full_name, i.name, t.quantity, t.expected_return_date
	          FROM loan_tickets t
	          JOIN accounts a ON a.id = t.borrower_id
	          JOIN items i ON i.id = t.item_id
	          WHERE t.status_id = $1
	          ORDER BY t.expected_return_date`
	rows, err := r.db.QueryContext(ctx, query, domain.StatusOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.OverdueReminder
	for rows.Next() {
		var rm domain.OverdueReminder
		if err := rows.Scan(&rm.TicketID, &rm.BorrowerEmail, &rm.BorrowerName, &rm.ItemName, &rm.Quantity, &rm.ExpectedReturnDate); err != nil {
			return nil, err
		}
		reminders = append(reminders, rm)
	}
	return reminders, rows.Err()
}
