package postgres

import (
	"context"
	"database/sql"

	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, email, password_hash, phone, address, full_name, COALESCE(avatar_url, ''), role_id, created_on`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Phone, &a.Address, &a.FullName, &a.AvatarURL, &a.Role, &a.CreatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (email, password_hash, phone, address, full_name, avatar_url, role_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8) RETURNING id`
	logger.DatabaseCall("accountRepository.Create", query, "email", a.Email)
	a.CreatedOn = domain.NewLocalTime(timeNow())
	err := r.db.QueryRowContext(ctx, query, a.Email, a.PasswordHash, a.Phone, a.Address, a.FullName, a.AvatarURL, a.Role, a.CreatedOn).Scan(&a.ID)
	logger.DatabaseResult("accountRepository.Create", 1, err)
	return mapError(err)
}

func (r *accountRepository) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	query := `UPDATE accounts SET email=$1, phone=$2, address=$3, full_name=$4,
	          password_hash = COALESCE(NULLIF($5, ''), password_hash) WHERE id=$6`
	logger.DatabaseCall("accountRepository.Update", query, "accountID", a.ID)
	res, err := r.db.ExecContext(ctx, query, a.Email, a.Phone, a.Address, a.FullName, a.PasswordHash, a.ID)
	return checkAffected("accountRepository.Update", res, err)
}
