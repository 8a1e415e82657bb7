package domain

// Role is the account type chosen at registration.
type Role int32

const (
	RoleOwner    Role = 2
	RoleBorrower Role = 3
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleBorrower
}

func (r Role) IsOwner() bool {
	return r == RoleOwner
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleBorrower:
		return "borrower"
	default:
		return "unknown"
	}
}

type Account struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"soDienThoai"`
	Address      string    `json:"diaChi"`
	FullName     string    `json:"hoTen"`
	AvatarURL    string    `json:"hinhAnh,omitempty"`
	Role         Role      `json:"loaiTaiKhoanId"`
	CreatedOn    LocalTime `json:"ngayTao"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"matKhau"`
	Phone    string `json:"soDienThoai"`
	Address  string `json:"diaChi"`
	FullName string `json:"hoTen"`
	Role     Role   `json:"LoaiTaiKhoanId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"matKhau"`
}

// LoginResponse carries the account id and owner flag only on success.
type LoginResponse struct {
	Message   string `json:"message"`
	AccountID *int32 `json:"taiKhoanId,omitempty"`
	IsOwner   *bool  `json:"chuSoHuu,omitempty"`
	Token     string `json:"token,omitempty"`
}

// ProfileUpdate replaces the editable profile fields. An empty Password keeps the current one.
type ProfileUpdate struct {
	Email    string `json:"email"`
	Password string `json:"matKhau"`
	Phone    string `json:"soDienThoai"`
	Address  string `json:"diaChi"`
	FullName string `json:"hoTen"`
}

// Result is the body returned by every mutating endpoint.
type Result struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
