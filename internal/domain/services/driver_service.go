package services

import (
	"context"
	"errors"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateDriverInput данные для регистрации водителя
type CreateDriverInput struct {
	FullName      string
	Username      string
	Password      string
	Role          entities.Role
	CNH           string
	CNHCategory   string
	InitialPoints int
}

// DriverService интерфейс административных операций над водителями
type DriverService interface {
	CreateDriver(ctx context.Context, input CreateDriverInput) (*entities.Driver, error)
	GetDriver(ctx context.Context, driverID uuid.UUID) (*entities.Driver, error)
	ListDrivers(ctx context.Context) ([]*entities.Driver, error)
	UpdateDriver(ctx context.Context, driver *entities.Driver) (*entities.Driver, error)
	DeleteDriver(ctx context.Context, driverID uuid.UUID) error
}

// driverService реализация DriverService
type driverService struct {
	store  repositories.Store
	logger *zap.Logger
}

// NewDriverService создает новый сервис водителей
func NewDriverService(store repositories.Store, logger *zap.Logger) DriverService {
	return &driverService{
		store:  store,
		logger: logger,
	}
}

// CreateDriver регистрирует нового водителя. Имя пользователя должно
// быть уникальным, начальный пароль хэшируется и считается временным.
func (s *driverService) CreateDriver(ctx context.Context, input CreateDriverInput) (*entities.Driver, error) {
	username := entities.NormalizeUsername(input.Username)
	if username == "" {
		return nil, entities.ErrInvalidUsername
	}

	existing, err := s.store.Drivers().GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, entities.ErrDriverNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, entities.ErrDriverExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	driver := entities.NewDriver(input.FullName, username, string(hash), input.CNH, input.CNHCategory)
	driver.InitialPoints = input.InitialPoints
	if input.Role != "" {
		driver.Role = input.Role
	}

	if err := driver.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Drivers().Create(ctx, driver); err != nil {
		return nil, err
	}

	s.logger.Info("Driver registered",
		zap.String("driver_id", driver.ID.String()),
		zap.String("username", driver.Username),
		zap.String("role", string(driver.Role)),
	)

	return driver, nil
}

// GetDriver возвращает водителя по идентификатору
func (s *driverService) GetDriver(ctx context.Context, driverID uuid.UUID) (*entities.Driver, error) {
	return s.store.Drivers().GetByID(ctx, driverID)
}

// ListDrivers возвращает всех активных водителей
func (s *driverService) ListDrivers(ctx context.Context) ([]*entities.Driver, error) {
	return s.store.Drivers().List(ctx)
}

// UpdateDriver обновляет описательные поля водителя. Учетные данные
// сохраняются из текущей записи.
func (s *driverService) UpdateDriver(ctx context.Context, driver *entities.Driver) (*entities.Driver, error) {
	current, err := s.store.Drivers().GetByID(ctx, driver.ID)
	if err != nil {
		return nil, err
	}

	driver.Username = current.Username
	driver.PasswordHash = current.PasswordHash
	driver.PasswordChanged = current.PasswordChanged
	driver.CreatedAt = current.CreatedAt

	if err := driver.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Drivers().Update(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// DeleteDriver помечает водителя удаленным. Водитель с активной
// поездкой не может быть удален.
func (s *driverService) DeleteDriver(ctx context.Context, driverID uuid.UUID) error {
	return s.store.InTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Drivers().GetByID(ctx, driverID); err != nil {
			return err
		}

		_, err := tx.Trips().GetActiveByDriver(ctx, driverID)
		if err == nil {
			return entities.ErrDriverHasTrip
		}
		if !errors.Is(err, entities.ErrTripNotFound) {
			return err
		}

		return tx.Drivers().SoftDelete(ctx, driverID)
	})
}
