package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository"
	"muontra/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	accountRepo  repository.AccountRepository
	tokenManager security.TokenManager
}

func NewAuthService(accountRepo repository.AccountRepository, tokenManager security.TokenManager) AuthService {
	return &authService{
		accountRepo:  accountRepo,
		tokenManager: tokenManager,
	}
}

func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	logger.EnterMethod("authService.Register", "email", req.Email, "role", req.Role)
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Address:      req.Address,
		FullName:     req.FullName,
		Role:         req.Role,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		logger.ExitMethodWithError("authService.Register", err, "email", req.Email)
		return nil, err
	}

	logger.ExitMethod("authService.Register", "accountID", account.ID)
	return account, nil
}

func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	account, err := s.accountRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		logger.Info("Login rejected", "accountID", account.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateAccessToken(account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return account, token, nil
}
