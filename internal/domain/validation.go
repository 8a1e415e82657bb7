package domain

import (
	"regexp"
	"strings"
)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a form error caught before any request is sent or stored.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "please fill in all required fields"}
	}
	return nil
}

func validatePassword(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return &ValidationError{Field: "matKhau", Message: "password must be at least 6 characters"}
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	return nil
}

func (r *RegisterRequest) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"email", r.Email},
		{"matKhau", r.Password},
		{"soDienThoai", r.Phone},
		{"diaChi", r.Address},
		{"hoTen", r.FullName},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	if !r.Role.Valid() {
		return &ValidationError{Field: "LoaiTaiKhoanId", Message: "account type must be owner (2) or borrower (3)"}
	}
	return nil
}

// ValidateRegistration is the registration form check, including the confirmation field.
func ValidateRegistration(r RegisterRequest, confirm string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Password != confirm {
		return &ValidationError{Field: "xacNhanMatKhau", Message: "passwords do not match"}
	}
	return nil
}

func (r *LoginRequest) Validate() error {
	if err := required("email", r.Email); err != nil {
		return err
	}
	return required("matKhau", r.Password)
}

func (u *ProfileUpdate) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"email", u.Email},
		{"hoTen", u.FullName},
		{"soDienThoai", u.Phone},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	if u.Password != "" {
		return validatePassword(u.Password)
	}
	return nil
}

// ValidateLoanRequest checks a borrow request against the item as last seen.
func ValidateLoanRequest(item *Item, req NewLoanTicket) error {
	if req.BorrowerID <= 0 {
		return &ValidationError{Field: "nguoiMuonId", Message: "borrower is unknown, please log in again"}
	}
	if req.Quantity <= 0 {
		return &ValidationError{Field: "soLuong", Message: "quantity must be greater than 0"}
	}
	if err := item.CanLend(req.Quantity); err != nil {
		return &ValidationError{Field: "soLuong", Message: err.Error(), Err: err}
	}
	if req.BorrowDate.IsZero() || req.ExpectedReturnDate.IsZero() {
		return &ValidationError{Field: "ngayMuon", Message: "borrow and expected return dates are required"}
	}
	if !req.ExpectedReturnDate.After(req.BorrowDate.Time) {
		return &ValidationError{Field: "ngayTraDuKien", Message: "expected return date must be after the borrow date"}
	}
	return nil
}
