package http

import (
	"net/http"

	"muontra/internal/domain"
	"muontra/internal/service"
)

type AuthHandler struct {
	authSvc    service.AuthService
	accountSvc service.AccountService
}

func NewAuthHandler(authSvc service.AuthService, accountSvc service.AccountService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, accountSvc: accountSvc}
}

// Login answers DangNhap. The account id and owner flag are only present on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, token, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		status, message := statusFor(err)
		writeJSON(w, status, domain.LoginResponse{Message: message})
		return
	}

	isOwner := account.Role.IsOwner()
	writeJSON(w, http.StatusOK, domain.LoginResponse{
		Message:   "login successful",
		AccountID: &account.ID,
		IsOwner:   &isOwner,
		Token:     token,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.authSvc.Register(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "registration successful")
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "idTaiKhoan")
	if err != nil {
		writeError(w, r, err)
		return
	}
	account, err := h.accountSvc.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "idTaiKhoan")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var upd domain.ProfileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.accountSvc.UpdateProfile(r.Context(), ActorFromContext(r.Context()), id, upd); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "profile updated")
}
