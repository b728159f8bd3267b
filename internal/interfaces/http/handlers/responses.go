package handlers

import (
	"net/http"

	"fleet-service/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorResponse стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// MessageResponse стандартный ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// currentDriverID извлекает идентификатор вошедшего водителя из контекста
func currentDriverID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get("driver_id")
	if !ok {
		return uuid.Nil, false
	}

	driverID, ok := value.(uuid.UUID)
	return driverID, ok
}

// handleServiceError преобразует ошибку доменного слоя в HTTP ответ
func handleServiceError(c *gin.Context, logger *zap.Logger, err error, message string) {
	logger.Error(message, zap.Error(err))

	if restriction, ok := entities.IsRestriction(err); ok {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: restriction.Message,
			Code:  string(restriction.Kind),
		})
		return
	}

	if entities.IsTransient(err) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Storage temporarily unavailable",
			Code:  "STORE_UNAVAILABLE",
		})
		return
	}

	switch err {
	case entities.ErrVehicleNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Vehicle not found",
			Code:  "VEHICLE_NOT_FOUND",
		})
	case entities.ErrDriverNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Driver not found",
			Code:  "DRIVER_NOT_FOUND",
		})
	case entities.ErrTripNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Trip not found",
			Code:  "TRIP_NOT_FOUND",
		})
	case entities.ErrMaintenanceNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Maintenance record not found",
			Code:  "MAINTENANCE_NOT_FOUND",
		})
	case entities.ErrFineNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Fine not found",
			Code:  "FINE_NOT_FOUND",
		})
	case entities.ErrNotificationNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Notification not found",
			Code:  "NOTIFICATION_NOT_FOUND",
		})
	case entities.ErrVehicleExists:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Vehicle already exists",
			Code:  "VEHICLE_EXISTS",
		})
	case entities.ErrDriverExists:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Driver already exists",
			Code:  "DRIVER_EXISTS",
		})
	case entities.ErrVehicleUnavailable:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Vehicle is not available",
			Code:  "VEHICLE_UNAVAILABLE",
		})
	case entities.ErrDriverHasTrip:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Driver already has an active trip",
			Code:  "DRIVER_HAS_TRIP",
		})
	case entities.ErrMaintenanceOpen:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Vehicle already has an open maintenance record",
			Code:  "MAINTENANCE_OPEN",
		})
	case entities.ErrMaintenanceNotOpen:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Maintenance record is already resolved",
			Code:  "MAINTENANCE_NOT_OPEN",
		})
	case entities.ErrTripNotActive, entities.ErrInvalidTripPhase:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "Trip is not in the required phase",
			Code:    "INVALID_TRIP_PHASE",
			Details: err.Error(),
		})
	case entities.ErrInvalidPassword:
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid credentials",
			Code:  "INVALID_CREDENTIALS",
		})
	case entities.ErrInvalidPlate, entities.ErrInvalidVehicleData, entities.ErrInvalidOdometerReading,
		entities.ErrInvalidName, entities.ErrInvalidUsername, entities.ErrInvalidLicense,
		entities.ErrInvalidTripData, entities.ErrMissingCancellationReason,
		entities.ErrIncompleteChecklist, entities.ErrInvalidMaintenanceData,
		entities.ErrInvalidFineData, entities.ErrInvalidTireChangeData:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Code:    "INVALID_DATA",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
