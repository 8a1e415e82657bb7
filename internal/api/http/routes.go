package http

import (
	"context"
	"net/http"

	"muontra/internal/config"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth   *AuthHandler
	Items  *ItemHandler
	Loans  *LoanHandler
	Images *ImageUploadHandler
	Health Pinger
}

// NewRouter mounts the XacThuc, VatDung and PhieuMuonTra routes. Each route's chain is
// chosen from config.EndpointSecurityConfig by the route name.
func NewRouter(h Handlers, auth *Authenticator, corsCfg config.CORSConfig) http.Handler {
	standard := alice.New(recoverPanic, requestID, logRequest)
	chains := map[config.SecurityLevel]alice.Chain{
		config.SecurityPublic: standard,
		config.SecurityAccess: standard.Append(auth.Require(config.SecurityAccess)),
		config.SecurityOwner:  standard.Append(auth.Require(config.SecurityOwner)),
	}

	router := mux.NewRouter()
	handle := func(path, name string, fn http.HandlerFunc, methods ...string) {
		chain := chains[config.RouteSecurity(name)]
		router.Handle(path, chain.ThenFunc(fn)).Methods(methods...).Name(name)
	}

	// XacThuc
	handle("/api/XacThuc/DangNhap", "DangNhap", h.Auth.Login, http.MethodPost)
	handle("/api/XacThuc/DangKy", "DangKy", h.Auth.Register, http.MethodPost)
	handle("/api/XacThuc/XemThongTinCaNhan", "XemThongTinCaNhan", h.Auth.GetProfile, http.MethodGet)
	handle("/api/XacThuc/CapNhatThongTinCaNhan", "CapNhatThongTinCaNhan", h.Auth.UpdateProfile, http.MethodPost)

	// VatDung
	handle("/api/VatDung/DanhSachVatDung", "DanhSachVatDung", h.Items.List, http.MethodGet)
	handle("/api/VatDung/DanhSachVatDungTheoChuSoHuu", "DanhSachVatDungTheoChuSoHuu", h.Items.ListByOwner, http.MethodPost)
	handle("/api/VatDung/ChiTietVatDung", "ChiTietVatDung", h.Items.Get, http.MethodPost, http.MethodGet)
	handle("/api/VatDung/ThemVatDung", "ThemVatDung", h.Items.Create, http.MethodPost)
	handle("/api/VatDung/CapNhatVatDung", "CapNhatVatDung", h.Items.Update, http.MethodPost)
	handle("/api/VatDung/XoaVatDung", "XoaVatDung", h.Items.Delete, http.MethodPost)

	// PhieuMuonTra
	handle("/api/PhieuMuonTra/DanhSachPhieuMuonTra", "DanhSachPhieuMuonTra", h.Loans.List, http.MethodGet)
	handle("/api/PhieuMuonTra/DanhSachPhieuMuonTraTheoNguoiMuon", "DanhSachPhieuMuonTraTheoNguoiMuon", h.Loans.ListByBorrower, http.MethodPost)
	handle("/api/PhieuMuonTra/DanhSachPhieuMuonTraTheoChuSoHuu", "DanhSachPhieuMuonTraTheoChuSoHuu", h.Loans.ListByOwner, http.MethodPost)
	handle("/api/PhieuMuonTra/chitiet", "chitiet", h.Loans.Get, http.MethodPost, http.MethodGet)
	handle("/api/PhieuMuonTra/ThemPhieuMuonTra", "ThemPhieuMuonTra", h.Loans.Create, http.MethodPost)
	handle("/api/PhieuMuonTra/CapNhatPhieuMuonTra", "CapNhatPhieuMuonTra", h.Loans.Update, http.MethodPost)
	handle("/api/PhieuMuonTra/XoaPhieuMuonTra", "XoaPhieuMuonTra", h.Loans.Delete, http.MethodPost)

	if h.Images != nil {
		handle("/api/VatDung/HinhAnh", "HinhAnh", h.Images.HandleUpload, http.MethodPost)
		handle("/uploads/{key}", "uploads", h.Images.HandleDownload, http.MethodGet)
	}

	handle("/healthz", "healthz", func(w http.ResponseWriter, r *http.Request) {
		if h.Health != nil {
			if err := h.Health.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}, http.MethodGet)

	origins := corsCfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(router)
}
