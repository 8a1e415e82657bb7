package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"muontra/internal/domain"
	"muontra/internal/logger"
	"muontra/internal/repository"
	"muontra/internal/security"
	"muontra/internal/service"
	"muontra/internal/storage"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response body", "error", err)
	}
}

func writeResult(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, domain.Result{Message: message, Success: true})
}

// writeError answers with {message, success:false} and a status derived from err.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, domain.Result{Message: message})
}

func statusFor(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrReturnDateFinal),
		errors.Is(err, domain.ErrInsufficientQuantity),
		errors.Is(err, domain.ErrItemNotLendable),
		errors.Is(err, service.ErrItemInUse),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

var (
	errBadRequest      = errors.New("bad request")
	errUnauthenticated = errors.New("authorization token is required")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// bodyID reads the bare JSON number several legacy routes post as their body.
// An object with an "id" field and the id query parameter are accepted too.
func bodyID(r *http.Request) (int32, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return 0, badRequest("failed to read body: %v", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return queryID(r, "id")
	}

	var n int32
	if err := json.Unmarshal(data, &n); err == nil {
		if n <= 0 {
			return 0, badRequest("invalid id: %d", n)
		}
		return n, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return parseID("id", s)
	}
	var obj struct {
		ID int32 `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.ID > 0 {
		return obj.ID, nil
	}
	return 0, badRequest("body must be a numeric id")
}

func queryID(r *http.Request, name string) (int32, error) {
	return parseID(name, r.URL.Query().Get(name))
}

func parseID(name, raw string) (int32, error) {
	if raw == "" {
		return 0, badRequest("missing %s", name)
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n <= 0 {
		return 0, badRequest("invalid %s: %q", name, raw)
	}
	return int32(n), nil
}
