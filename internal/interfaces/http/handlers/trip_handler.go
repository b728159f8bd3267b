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

// TripHandler обработчик HTTP запросов для поездок
type TripHandler struct {
	fleetService services.FleetService
	logger       *zap.Logger
}

// NewTripHandler создает новый TripHandler
func NewTripHandler(fleetService services.FleetService, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		fleetService: fleetService,
		logger:       logger,
	}
}

// ChecklistRequest чек-лист состояния машины при выезде
type ChecklistRequest struct {
	Km        int    `json:"km" binding:"gte=0"`
	FuelLevel int    `json:"fuel_level" binding:"gte=0,lte=100"`
	TiresOK   bool   `json:"tires_ok"`
	OilOK     bool   `json:"oil_ok"`
	WaterOK   bool   `json:"water_ok"`
	LightsOK  bool   `json:"lights_ok"`
	Comments  string `json:"comments"`
}

// StartTripRequest запрос на начало поездки. Либо scheduled_trip_id
// (продвижение запланированной поездки), либо поля новой поездки.
type StartTripRequest struct {
	ScheduledTripID *uuid.UUID       `json:"scheduled_trip_id,omitempty"`
	VehicleID       uuid.UUID        `json:"vehicle_id"`
	Origin          string           `json:"origin"`
	Destination     string           `json:"destination"`
	Waypoints       []string         `json:"waypoints"`
	City            string           `json:"city"`
	State           string           `json:"state"`
	StartTime       *time.Time       `json:"start_time,omitempty"`
	Checklist       ChecklistRequest `json:"checklist" binding:"required"`
}

// EndTripRequest запрос на завершение поездки
type EndTripRequest struct {
	EndKm        int        `json:"end_km" binding:"required,gte=0"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	FuelExpense  float64    `json:"fuel_expense" binding:"gte=0"`
	OtherExpense float64    `json:"other_expense" binding:"gte=0"`
	ExpenseNotes string     `json:"expense_notes"`
}

// CancelTripRequest запрос на отмену поездки
type CancelTripRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TripLogRequest запрос на добавление записи в журнал поездки
type TripLogRequest struct {
	Kind string `json:"kind" binding:"required,oneof=departure in_transit arrival"`
	Text string `json:"text" binding:"required"`
}

// StartTrip начинает поездку
func (h *TripHandler) StartTrip(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	var req StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	startTime := time.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	trip, err := h.fleetService.StartTrip(c.Request.Context(), services.StartTripInput{
		ScheduledTripID: req.ScheduledTripID,
		DriverID:        driverID,
		VehicleID:       req.VehicleID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		Waypoints:       req.Waypoints,
		City:            req.City,
		State:           req.State,
		StartTime:       startTime,
		Checklist: entities.Checklist{
			Km:        req.Checklist.Km,
			FuelLevel: req.Checklist.FuelLevel,
			TiresOK:   req.Checklist.TiresOK,
			OilOK:     req.Checklist.OilOK,
			WaterOK:   req.Checklist.WaterOK,
			LightsOK:  req.Checklist.LightsOK,
			Comments:  req.Checklist.Comments,
			CreatedAt: time.Now(),
		},
	})
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to start trip")
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// EndTrip завершает активную поездку
func (h *TripHandler) EndTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return
	}

	var req EndTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	endTime := time.Now()
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	trip, err := h.fleetService.EndTrip(c.Request.Context(), tripID, services.EndTripInput{
		EndKm:        req.EndKm,
		EndTime:      endTime,
		FuelExpense:  req.FuelExpense,
		OtherExpense: req.OtherExpense,
		ExpenseNotes: req.ExpenseNotes,
	})
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to end trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// CancelTrip отменяет активную поездку
func (h *TripHandler) CancelTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return
	}

	var req CancelTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	actorID, _ := currentDriverID(c)
	trip, err := h.fleetService.CancelTrip(c.Request.Context(), tripID, req.Reason, actorID.String())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to cancel trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// AppendTripLog добавляет запись в журнал активной поездки
func (h *TripHandler) AppendTripLog(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return
	}

	var req TripLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	trip, err := h.fleetService.AppendTripLog(c.Request.Context(), tripID, entities.TripLogKind(req.Kind), req.Text)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to append trip log")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// GetTrip получает поездку по ID
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return
	}

	trip, err := h.fleetService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to get trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ListTrips получает поездки в заданной фазе. По умолчанию активные.
func (h *TripHandler) ListTrips(c *gin.Context) {
	status := entities.TripStatus(c.DefaultQuery("status", string(entities.TripActive)))
	switch status {
	case entities.TripScheduled, entities.TripActive, entities.TripCompleted, entities.TripCancelled:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip status",
			Code:  "INVALID_DATA",
		})
		return
	}

	trips, err := h.fleetService.ListTrips(c.Request.Context(), status)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list trips")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"total": len(trips),
	})
}
