package handlers

import (
	"net/http"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VehicleHandler обработчик HTTP запросов для транспортных средств
type VehicleHandler struct {
	vehicleService services.VehicleService
	fleetService   services.FleetService
	logger         *zap.Logger
}

// NewVehicleHandler создает новый VehicleHandler
func NewVehicleHandler(vehicleService services.VehicleService, fleetService services.FleetService, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		fleetService:   fleetService,
		logger:         logger,
	}
}

// CreateVehicleRequest запрос на регистрацию машины
type CreateVehicleRequest struct {
	Plate     string `json:"plate" binding:"required"`
	Brand     string `json:"brand" binding:"required"`
	Model     string `json:"model" binding:"required"`
	Year      int    `json:"year" binding:"required,gt=0"`
	CurrentKm int    `json:"current_km" binding:"gte=0"`
	FuelType  string `json:"fuel_type"`
}

// UpdateVehicleRequest запрос на обновление машины
type UpdateVehicleRequest struct {
	Plate    string `json:"plate" binding:"required"`
	Brand    string `json:"brand" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Year     int    `json:"year" binding:"required,gt=0"`
	FuelType string `json:"fuel_type"`
}

// TireChangeRequest запрос на регистрацию замены шин
type TireChangeRequest struct {
	Date     time.Time `json:"date" binding:"required"`
	Km       int       `json:"km" binding:"gte=0"`
	Position string    `json:"position"`
	Brand    string    `json:"brand"`
	Notes    string    `json:"notes"`
}

// CreateVehicle регистрирует новую машину
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	vehicle := entities.NewVehicle(req.Plate, req.Brand, req.Model, req.Year, req.CurrentKm, req.FuelType)
	created, err := h.vehicleService.CreateVehicle(c.Request.Context(), vehicle)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetVehicle получает машину по ID
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid vehicle ID format",
		})
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to get vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// ListVehicles получает список машин автопарка
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicleService.ListVehicles(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list vehicles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"total":    len(vehicles),
	})
}

// UpdateVehicle обновляет описательные данные машины
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid vehicle ID format",
		})
		return
	}

	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	vehicle := &entities.Vehicle{
		ID:       vehicleID,
		Plate:    req.Plate,
		Brand:    req.Brand,
		Model:    req.Model,
		Year:     req.Year,
		FuelType: req.FuelType,
	}

	updated, err := h.vehicleService.UpdateVehicle(c.Request.Context(), vehicle)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetAvailability получает сводку по статусам автопарка
func (h *VehicleHandler) GetAvailability(c *gin.Context) {
	availability, err := h.fleetService.FleetAvailability(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to get fleet availability")
		return
	}

	c.JSON(http.StatusOK, availability)
}

// ListMaintenanceHistory получает историю обслуживания машины
func (h *VehicleHandler) ListMaintenanceHistory(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid vehicle ID format",
		})
		return
	}

	records, err := h.vehicleService.ListMaintenanceByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list maintenance history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

// RecordTireChange регистрирует замену шин
func (h *VehicleHandler) RecordTireChange(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid vehicle ID format",
		})
		return
	}

	var req TireChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	change := entities.NewTireChange(vehicleID, req.Date, req.Km, req.Position, req.Brand, req.Notes)
	created, err := h.vehicleService.RecordTireChange(c.Request.Context(), change)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to record tire change")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListTireChanges получает историю замен шин машины
func (h *VehicleHandler) ListTireChanges(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid vehicle ID format",
		})
		return
	}

	changes, err := h.vehicleService.ListTireChanges(c.Request.Context(), vehicleID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list tire changes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tire_changes": changes,
		"total":        len(changes),
	})
}
