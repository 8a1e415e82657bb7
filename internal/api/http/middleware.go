package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"muontra/internal/config"
	"muontra/internal/logger"
	"muontra/internal/security"
	"muontra/internal/service"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.HTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start), RequestIDFromContext(r.Context()))
	})
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				w.Header().Set("Connection", "close")
				writeError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Authenticator turns a bearer token into a service.Actor on the request context.
type Authenticator struct {
	tokenManager security.TokenManager
	required     bool
}

func NewAuthenticator(tm security.TokenManager, required bool) *Authenticator {
	return &Authenticator{tokenManager: tm, required: required}
}

// Require returns middleware enforcing the given level. With auth disabled every request
// passes as the zero Actor.
func (a *Authenticator) Require(level config.SecurityLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.required || level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token := extractToken(r)
			if token == "" {
				writeError(w, r, errUnauthenticated)
				return
			}
			claims, err := a.tokenManager.ValidateToken(token)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if level == config.SecurityOwner && !claims.IsOwner() {
				writeError(w, r, service.ErrForbidden)
				return
			}

			actor := service.Actor{AccountID: claims.AccountID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
		})
	}
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
