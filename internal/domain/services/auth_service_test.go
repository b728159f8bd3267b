package services

import (
	"context"
	"testing"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, *memStore, *entities.Driver) {
	t.Helper()
	store := newMemStore()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	driver := entities.NewDriver("Joao Silva", "joao", string(hash), "12345678900", "B")
	require.NoError(t, store.Drivers().Create(context.Background(), driver))

	service := NewAuthService(store, "test-signing-key", time.Hour, zap.NewNop())
	return service, store, driver
}

func TestAuthService_Authenticate(t *testing.T) {
	service, _, driver := newAuthFixture(t)

	authenticated, token, err := service.Authenticate(context.Background(), "joao", "secret123")

	require.NoError(t, err)
	assert.Equal(t, driver.ID, authenticated.ID)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, []byte("test-signing-key"))
	require.NoError(t, err)
	assert.Equal(t, driver.ID.String(), claims.Subject)
	assert.Equal(t, string(entities.RoleDriver), claims.Role)
}

func TestAuthService_Authenticate_BadCredentials(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"Wrong password", "joao", "wrong"},
		{"Unknown username", "nobody", "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Authenticate(context.Background(), tt.username, tt.password)

			// Неизвестный пользователь и неверный пароль неразличимы снаружи
			assert.ErrorIs(t, err, entities.ErrInvalidPassword)
		})
	}
}

func TestAuthService_Authenticate_WrongSecret(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	_, token, err := service.Authenticate(context.Background(), "joao", "secret123")
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("another-key"))
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	service, store, driver := newAuthFixture(t)

	err := service.ChangePassword(context.Background(), driver.ID, "secret123", "newsecret")
	require.NoError(t, err)

	stored, err := store.Drivers().GetByID(context.Background(), driver.ID)
	require.NoError(t, err)
	assert.True(t, stored.PasswordChanged)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")))
}

func TestAuthService_ChangePassword_Rejected(t *testing.T) {
	service, store, driver := newAuthFixture(t)

	tests := []struct {
		name    string
		current string
		next    string
	}{
		{"Wrong current password", "wrong", "newsecret"},
		{"New password too short", "secret123", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ChangePassword(context.Background(), driver.ID, tt.current, tt.next)

			assert.ErrorIs(t, err, entities.ErrInvalidPassword)

			stored, err := store.Drivers().GetByID(context.Background(), driver.ID)
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	service, store, driver := newAuthFixture(t)

	err := service.ResetPassword(context.Background(), driver.ID, "issued-pass", "admin")
	require.NoError(t, err)

	stored, err := store.Drivers().GetByID(context.Background(), driver.ID)
	require.NoError(t, err)
	// Выданный пароль обязателен к смене при следующем входе
	assert.False(t, stored.PasswordChanged)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("issued-pass")))

	entries, err := store.AuditLogs().ListByEntity(context.Background(), driver.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.AuditPasswordReset, entries[0].Kind)
}
