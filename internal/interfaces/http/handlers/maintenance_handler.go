package handlers

import (
	"net/http"
	"time"

	"fleet-service/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaintenanceHandler обработчик HTTP запросов для технического обслуживания
type MaintenanceHandler struct {
	fleetService services.FleetService
	logger       *zap.Logger
}

// NewMaintenanceHandler создает новый MaintenanceHandler
func NewMaintenanceHandler(fleetService services.FleetService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		fleetService: fleetService,
		logger:       logger,
	}
}

// OpenMaintenanceRequest запрос на постановку машины на обслуживание
type OpenMaintenanceRequest struct {
	VehicleID   uuid.UUID `json:"vehicle_id" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	ServiceType string    `json:"service_type" binding:"required"`
	Cost        float64   `json:"cost" binding:"gte=0"`
	Km          int       `json:"km" binding:"gte=0"`
	Categories  []string  `json:"categories" binding:"required,min=1"`
}

// ResolveMaintenanceRequest запрос на возврат машины из обслуживания
type ResolveMaintenanceRequest struct {
	VehicleID uuid.UUID  `json:"vehicle_id" binding:"required"`
	ExitKm    int        `json:"exit_km" binding:"gte=0"`
	ExitDate  *time.Time `json:"exit_date,omitempty"`
	Cost      *float64   `json:"cost,omitempty"`
	Notes     string     `json:"notes"`
	Checked   []string   `json:"checked" binding:"required"`
}

// OpenMaintenance ставит машину на техническое обслуживание
func (h *MaintenanceHandler) OpenMaintenance(c *gin.Context) {
	var req OpenMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	record, err := h.fleetService.OpenMaintenance(c.Request.Context(), services.OpenMaintenanceInput{
		VehicleID:   req.VehicleID,
		Date:        req.Date,
		ServiceType: req.ServiceType,
		Cost:        req.Cost,
		Km:          req.Km,
		Categories:  req.Categories,
	})
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to open maintenance")
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ResolveMaintenance возвращает машину из технического обслуживания
func (h *MaintenanceHandler) ResolveMaintenance(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid maintenance record ID format",
		})
		return
	}

	var req ResolveMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	exitDate := time.Now()
	if req.ExitDate != nil {
		exitDate = *req.ExitDate
	}

	record, err := h.fleetService.ResolveMaintenance(c.Request.Context(), services.ResolveMaintenanceInput{
		VehicleID: req.VehicleID,
		RecordID:  recordID,
		ExitKm:    req.ExitKm,
		ExitDate:  exitDate,
		Cost:      req.Cost,
		Notes:     req.Notes,
		Checked:   req.Checked,
	})
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to resolve maintenance")
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListMaintenance получает все записи о техническом обслуживании
func (h *MaintenanceHandler) ListMaintenance(c *gin.Context) {
	records, err := h.fleetService.ListMaintenance(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list maintenance records")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}
