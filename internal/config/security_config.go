package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityOwner                       // Access token with the owner role required
)

// EndpointSecurityConfig maps route names to their required security level.
// Routes missing from the map require an access token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// XacThuc
	"DangNhap":              SecurityPublic,
	"DangKy":                SecurityPublic,
	"XemThongTinCaNhan":     SecurityAccess,
	"CapNhatThongTinCaNhan": SecurityAccess,

	// VatDung
	"DanhSachVatDung":             SecurityAccess,
	"DanhSachVatDungTheoChuSoHuu": SecurityAccess,
	"ChiTietVatDung":              SecurityAccess,
	"ThemVatDung":                 SecurityOwner,
	"CapNhatVatDung":              SecurityOwner,
	"XoaVatDung":                  SecurityOwner,
	"HinhAnh":                     SecurityOwner,

	// PhieuMuonTra
	"DanhSachPhieuMuonTra":              SecurityAccess,
	"DanhSachPhieuMuonTraTheoNguoiMuon": SecurityAccess,
	"DanhSachPhieuMuonTraTheoChuSoHuu":  SecurityAccess,
	"chitiet":                           SecurityAccess,
	"ThemPhieuMuonTra":                  SecurityAccess,
	"CapNhatPhieuMuonTra":               SecurityOwner,
	"XoaPhieuMuonTra":                   SecurityAccess,

	// Infrastructure
	"healthz": SecurityPublic,
	"uploads": SecurityPublic,
}

// RouteSecurity returns the level for a named route.
func RouteSecurity(name string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[name]; ok {
		return level
	}
	return SecurityAccess
}
