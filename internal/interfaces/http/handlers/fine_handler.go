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

// FineHandler обработчик HTTP запросов для штрафов
type FineHandler struct {
	fleetService services.FleetService
	logger       *zap.Logger
}

// NewFineHandler создает новый FineHandler
func NewFineHandler(fleetService services.FleetService, logger *zap.Logger) *FineHandler {
	return &FineHandler{
		fleetService: fleetService,
		logger:       logger,
	}
}

// CreateFineRequest запрос на регистрацию штрафа
type CreateFineRequest struct {
	DriverID    uuid.UUID `json:"driver_id" binding:"required"`
	VehicleID   uuid.UUID `json:"vehicle_id" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Value       float64   `json:"value" binding:"gte=0"`
	Points      int       `json:"points" binding:"gte=0"`
	Description string    `json:"description"`
}

// CreateFine регистрирует штраф водителю
func (h *FineHandler) CreateFine(c *gin.Context) {
	var req CreateFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	fine := entities.NewFine(req.DriverID, req.VehicleID, req.Date, req.Value, req.Points, req.Description)
	created, err := h.fleetService.AddFine(c.Request.Context(), fine)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to create fine")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// DeleteFine удаляет штраф
func (h *FineHandler) DeleteFine(c *gin.Context) {
	fineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid fine ID format",
		})
		return
	}

	actorID, _ := currentDriverID(c)
	if err := h.fleetService.DeleteFine(c.Request.Context(), fineID, actorID.String()); err != nil {
		handleServiceError(c, h.logger, err, "Failed to delete fine")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Fine deleted"})
}

// ListFines получает все штрафы автопарка
func (h *FineHandler) ListFines(c *gin.Context) {
	fines, err := h.fleetService.ListFines(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list fines")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fines": fines,
		"total": len(fines),
	})
}
