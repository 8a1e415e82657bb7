package app

import (
	"context"
	"strings"

	"muontra/internal/client"
	"muontra/internal/domain"
	"muontra/internal/session"
)

// Register checks the form, including the password confirmation, before sending it.
func (a *App) Register(ctx context.Context, req domain.RegisterRequest, confirm string) (*domain.Result, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := domain.ValidateRegistration(req, confirm); err != nil {
		return nil, err
	}
	return a.api.Register(ctx, req)
}

// Login saves the returned account id and owner flag as the current session.
func (a *App) Login(ctx context.Context, email, password string) (session.Session, error) {
	req := domain.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := req.Validate(); err != nil {
		return session.Session{}, err
	}

	res, err := a.api.Login(ctx, req)
	if err != nil {
		return session.Session{}, err
	}
	if res.AccountID == nil || *res.AccountID <= 0 {
		msg := res.Message
		if msg == "" {
			msg = "login failed"
		}
		return session.Session{}, &client.APIError{StatusCode: 200, Message: msg}
	}

	isOwner := res.IsOwner != nil && *res.IsOwner
	if err := a.session.Login(ctx, *res.AccountID, isOwner, res.Token); err != nil {
		return session.Session{}, err
	}
	return a.session.Current(ctx), nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *App) Profile(ctx context.Context) (*domain.Account, error) {
	sess, err := a.requireLogin(ctx)
	if err != nil {
		return nil, err
	}
	return a.api.GetProfile(ctx, sess.AccountID)
}

func (a *App) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.Result, error) {
	sess, err := a.requireLogin(ctx)
	if err != nil {
		return nil, err
	}
	upd.Email = strings.TrimSpace(upd.Email)
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	return a.api.UpdateProfile(ctx, sess.AccountID, upd)
}
