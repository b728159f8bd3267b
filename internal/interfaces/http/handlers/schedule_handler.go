package handlers

import (
	"net/http"
	"time"

	"fleet-service/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleHandler обработчик HTTP запросов для запланированных поездок
type ScheduleHandler struct {
	schedulingService services.SchedulingService
	logger            *zap.Logger
}

// NewScheduleHandler создает новый ScheduleHandler
func NewScheduleHandler(schedulingService services.SchedulingService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedulingService: schedulingService,
		logger:            logger,
	}
}

// ScheduleRequest запрос на создание или изменение запланированной поездки
type ScheduleRequest struct {
	DriverID      uuid.UUID `json:"driver_id" binding:"required"`
	VehicleID     uuid.UUID `json:"vehicle_id" binding:"required"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination" binding:"required"`
	Waypoints     []string  `json:"waypoints"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Notes         string    `json:"notes"`
}

func (r *ScheduleRequest) toInput() services.ScheduleInput {
	return services.ScheduleInput{
		DriverID:      r.DriverID,
		VehicleID:     r.VehicleID,
		Origin:        r.Origin,
		Destination:   r.Destination,
		Waypoints:     r.Waypoints,
		City:          r.City,
		State:         r.State,
		ScheduledDate: r.ScheduledDate,
		Notes:         r.Notes,
	}
}

// CreateSchedule планирует новую поездку
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	trip, err := h.schedulingService.CreateOrUpdateSchedule(c.Request.Context(), req.toInput(), uuid.Nil)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to create schedule")
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// UpdateSchedule изменяет запланированную поездку
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid schedule ID format",
		})
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	trip, err := h.schedulingService.CreateOrUpdateSchedule(c.Request.Context(), req.toInput(), scheduleID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to update schedule")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteSchedule удаляет запланированную поездку
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid schedule ID format",
		})
		return
	}

	actorID, _ := currentDriverID(c)
	if err := h.schedulingService.DeleteSchedule(c.Request.Context(), scheduleID, actorID.String()); err != nil {
		handleServiceError(c, h.logger, err, "Failed to delete schedule")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Schedule deleted"})
}

// ListSchedules получает все запланированные поездки
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	trips, err := h.schedulingService.ListSchedules(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list schedules")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schedules": trips,
		"total":     len(trips),
	})
}
