package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("data tidak ditemukan")
	ErrInvalidCredentials = errors.New("username atau password salah")
	ErrInactiveAccount    = errors.New("akun tidak aktif")
	ErrUnauthorized       = errors.New("tidak terautentikasi")
	ErrForbidden          = errors.New("tidak memiliki akses ke halaman ini")
	ErrInvalidToken       = errors.New("token tidak valid")
	ErrTokenExpired       = errors.New("token sudah kedaluwarsa")
	ErrInvalidState       = errors.New("perubahan status tidak valid")
	ErrDuplicate          = errors.New("data sudah ada")
	ErrInvalidTenant      = errors.New("perusahaan tidak dikenal")
	ErrInvalidFile        = errors.New("file tidak valid")
	ErrValidation         = errors.New("data tidak valid")
	ErrStorage            = errors.New("gagal mengakses penyimpanan file")
)

// ValidationError reports an invalid input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
