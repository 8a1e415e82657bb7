package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"muontra/internal/domain"
)

// LegacyTicket is the older ticket listing shape without the embedded item.
type LegacyTicket struct {
	ID                 int32             `json:"id"`
	ItemID             int32             `json:"vatDungId"`
	BorrowerID         int32             `json:"nguoiMuonId"`
	OwnerID            int32             `json:"chuSoHuuId"`
	Quantity           int32             `json:"soLuong"`
	BorrowDate         domain.LocalTime  `json:"ngayMuon"`
	ExpectedReturnDate domain.LocalTime  `json:"ngayTraDuKien"`
	ActualReturnDate   *domain.LocalTime `json:"ngayTraThucTe,omitempty"`
	Note               string            `json:"ghiChu,omitempty"`
	Status             domain.Status     `json:"trangThaiId"`
	CreatedOn          domain.LocalTime  `json:"ngayTao"`
}

type ImageUpload struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Key     string `json:"key"`
	URL     string `json:"hinhAnh"`
}

func idQuery(path, name string, id int32) string {
	return path + "?" + url.Values{name: {strconv.Itoa(int(id))}}.Encode()
}

// XacThuc

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var res domain.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/XacThuc/DangNhap", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Result, error) {
	var res domain.Result
	if err := c.do(ctx, http.MethodPost, "/api/XacThuc/DangKy", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetProfile(ctx context.Context, accountID int32) (*domain.Account, error) {
	var account domain.Account
	if err := c.do(ctx, http.MethodGet, idQuery("/api/XacThuc/XemThongTinCaNhan", "idTaiKhoan", accountID), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) UpdateProfile(ctx context.Context, accountID int32, upd domain.ProfileUpdate) (*domain.Result, error) {
	var res domain.Result
	if err := c.do(ctx, http.MethodPost, idQuery("/api/XacThuc/CapNhatThongTinCaNhan", "idTaiKhoan", accountID), upd, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// VatDung

func (c *Client) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.do(ctx, http.MethodGet, "/api/VatDung/DanhSachVatDung", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ListItemsByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.do(ctx, http.MethodPost, "/api/VatDung/DanhSachVatDungTheoChuSoHuu", ownerID, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	var item domain.Item
	if err := c.do(ctx, http.MethodPost, idQuery("/api/VatDung/ChiTietVatDung", "idVatDung", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateItem(ctx context.Context, item domain.Item) (*domain.Result, error) {
	return c.mutate(ctx, "/api/VatDung/ThemVatDung", item)
}

func (c *Client) UpdateItem(ctx context.Context, item domain.Item) (*domain.Result, error) {
	return c.mutate(ctx, "/api/VatDung/CapNhatVatDung", item)
}

func (c *Client) DeleteItem(ctx context.Context, id int32) (*domain.Result, error) {
	return c.mutate(ctx, "/api/VatDung/XoaVatDung", id)
}

// UploadImage posts raw image bytes and returns the stored URL.
func (c *Client) UploadImage(ctx context.Context, contentType string, r io.Reader) (*ImageUpload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/VatDung/HinhAnh", r)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var res ImageUpload
	if err := c.send(req, "/api/VatDung/HinhAnh", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PhieuMuonTra

func (c *Client) ListTickets(ctx context.Context) ([]domain.LoanTicket, error) {
	var tickets []domain.LoanTicket
	if err := c.do(ctx, http.MethodGet, "/api/PhieuMuonTra/DanhSachPhieuMuonTra", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListLegacy reads the same endpoint as ListTickets in the older flat shape.
func (c *Client) ListLegacy(ctx context.Context) ([]LegacyTicket, error) {
	var tickets []LegacyTicket
	if err := c.do(ctx, http.MethodGet, "/api/PhieuMuonTra/DanhSachPhieuMuonTra", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) ListTicketsByBorrower(ctx context.Context, borrowerID int32) ([]domain.LoanTicket, error) {
	var tickets []domain.LoanTicket
	if err := c.do(ctx, http.MethodPost, "/api/PhieuMuonTra/DanhSachPhieuMuonTraTheoNguoiMuon", borrowerID, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) ListTicketsByOwner(ctx context.Context, ownerID int32) ([]domain.LoanTicket, error) {
	var tickets []domain.LoanTicket
	if err := c.do(ctx, http.MethodPost, "/api/PhieuMuonTra/DanhSachPhieuMuonTraTheoChuSoHuu", ownerID, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) GetTicket(ctx context.Context, id int32) (*domain.LoanTicket, error) {
	var ticket domain.LoanTicket
	if err := c.do(ctx, http.MethodPost, idQuery("/api/PhieuMuonTra/chitiet", "id", id), nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) CreateTicket(ctx context.Context, req domain.NewLoanTicket) (*domain.Result, error) {
	return c.mutate(ctx, "/api/PhieuMuonTra/ThemPhieuMuonTra", req)
}

func (c *Client) UpdateTicket(ctx context.Context, upd domain.LoanTicketUpdate) (*domain.Result, error) {
	return c.mutate(ctx, "/api/PhieuMuonTra/CapNhatPhieuMuonTra", upd)
}

func (c *Client) DeleteTicket(ctx context.Context, id int32) (*domain.Result, error) {
	return c.mutate(ctx, "/api/PhieuMuonTra/XoaPhieuMuonTra", id)
}

// Health checks the server's liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// mutate posts body and expects {message, success}. success=false on a 2xx is an APIError.
func (c *Client) mutate(ctx context.Context, path string, body any) (*domain.Result, error) {
	var res domain.Result
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "request was not accepted"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	return &res, nil
}
