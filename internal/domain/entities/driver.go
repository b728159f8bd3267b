package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role роль пользователя в системе
type Role string

const (
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// Driver представляет водителя автопарка
type Driver struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	FullName        string     `json:"full_name" db:"full_name"`
	Username        string     `json:"username" db:"username"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	PasswordChanged bool       `json:"password_changed" db:"password_changed"`
	Role            Role       `json:"role" db:"role"`
	CNH             string     `json:"cnh" db:"cnh"`
	CNHCategory     string     `json:"cnh_category" db:"cnh_category"`
	InitialPoints   int        `json:"initial_points" db:"initial_points"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// NormalizeUsername приводит имя пользователя к каноническому виду
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NewDriver создает нового водителя
func NewDriver(fullName, username, passwordHash, cnh, cnhCategory string) *Driver {
	now := time.Now()
	return &Driver{
		ID:           uuid.New(),
		FullName:     fullName,
		Username:     NormalizeUsername(username),
		PasswordHash: passwordHash,
		Role:         RoleDriver,
		CNH:          cnh,
		CNHCategory:  cnhCategory,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin проверяет, является ли пользователь администратором
func (d *Driver) IsAdmin() bool {
	return d.Role == RoleAdmin
}

// IsActive проверяет, активен ли водитель
func (d *Driver) IsActive() bool {
	return d.DeletedAt == nil
}

// ResetPassword устанавливает новый хэш пароля, выданный администратором.
// Водитель обязан сменить пароль при следующем входе.
func (d *Driver) ResetPassword(passwordHash string) {
	d.PasswordHash = passwordHash
	d.PasswordChanged = false
	d.UpdatedAt = time.Now()
}

// ChangePassword устанавливает хэш пароля, выбранного самим водителем
func (d *Driver) ChangePassword(passwordHash string) {
	d.PasswordHash = passwordHash
	d.PasswordChanged = true
	d.UpdatedAt = time.Now()
}

// Validate проверяет валидность данных водителя
func (d *Driver) Validate() error {
	if d.FullName == "" {
		return ErrInvalidName
	}

	if NormalizeUsername(d.Username) == "" {
		return ErrInvalidUsername
	}

	if d.CNH == "" {
		return ErrInvalidLicense
	}

	return nil
}

// DriverPoints сводка штрафных баллов водителя
type DriverPoints struct {
	DriverID      uuid.UUID `json:"driver_id"`
	InitialPoints int       `json:"initial_points"`
	FinePoints    int       `json:"fine_points"`
	Total         int       `json:"total"`
}
