package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"muontra/internal/domain"
	"muontra/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type accountService struct {
	accountRepo repository.AccountRepository
}

func NewAccountService(accountRepo repository.AccountRepository) AccountService {
	return &accountService{accountRepo: accountRepo}
}

func (s *accountService) GetProfile(ctx context.Context, accountID int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, accountID)
}

func (s *accountService) UpdateProfile(ctx context.Context, actor Actor, accountID int32, upd domain.ProfileUpdate) error {
	if !actor.owns(accountID) {
		return ErrForbidden
	}
	upd.Email = strings.TrimSpace(upd.Email)
	if err := upd.Validate(); err != nil {
		return err
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !strings.EqualFold(account.Email, upd.Email) {
		other, err := s.accountRepo.GetByEmail(ctx, upd.Email)
		switch {
		case err == nil && other.ID != accountID:
			return ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}

	account.Email = upd.Email
	account.FullName = upd.FullName
	account.Phone = upd.Phone
	account.Address = upd.Address
	account.PasswordHash = ""
	if upd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = string(hash)
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}
