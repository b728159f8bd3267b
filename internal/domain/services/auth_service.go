package services

import (
	"context"
	"errors"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService аутентификация водителей и выдача токенов
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*entities.Driver, string, error)
	ChangePassword(ctx context.Context, driverID uuid.UUID, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, driverID uuid.UUID, newPassword, actor string) error
}

// authService реализация AuthService
type authService struct {
	store    repositories.Store
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthService создает новый AuthService
func NewAuthService(store repositories.Store, secret string, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Claims полезная нагрузка токена
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate проверяет учетные данные и выдает токен. При неверном
// имени пользователя и неверном пароле возвращается одна и та же ошибка.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*entities.Driver, string, error) {
	driver, err := s.store.Drivers().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrDriverNotFound) {
			return nil, "", entities.ErrInvalidPassword
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(driver.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt",
			zap.String("username", driver.Username),
		)
		return nil, "", entities.ErrInvalidPassword
	}

	now := time.Now()
	claims := Claims{
		Role: string(driver.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   driver.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", err
	}

	return driver, token, nil
}

// ChangePassword меняет пароль водителя по его собственному запросу
func (s *authService) ChangePassword(ctx context.Context, driverID uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return entities.ErrInvalidPassword
	}

	return s.store.InTx(ctx, func(tx repositories.Store) error {
		driver, err := tx.Drivers().GetByID(ctx, driverID)
		if err != nil {
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(driver.PasswordHash), []byte(currentPassword)); err != nil {
			return entities.ErrInvalidPassword
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		driver.ChangePassword(string(hash))
		return tx.Drivers().Update(ctx, driver)
	})
}

// ResetPassword устанавливает пароль, выданный администратором.
// Водитель будет обязан сменить его при следующем входе.
func (s *authService) ResetPassword(ctx context.Context, driverID uuid.UUID, newPassword, actor string) error {
	if len(newPassword) < 6 {
		return entities.ErrInvalidPassword
	}

	return s.store.InTx(ctx, func(tx repositories.Store) error {
		driver, err := tx.Drivers().GetByID(ctx, driverID)
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		driver.ResetPassword(string(hash))
		if err := tx.Drivers().Update(ctx, driver); err != nil {
			return err
		}

		entry := entities.NewAuditLog(driverID, entities.AuditPasswordReset, actor, "password reset by administrator")
		return tx.AuditLogs().Create(ctx, entry)
	})
}

// ParseToken проверяет подпись токена и возвращает полезную нагрузку
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
