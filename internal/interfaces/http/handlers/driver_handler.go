package handlers

import (
	"net/http"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DriverHandler обработчик HTTP запросов для водителей
type DriverHandler struct {
	driverService services.DriverService
	fleetService  services.FleetService
	logger        *zap.Logger
}

// NewDriverHandler создает новый DriverHandler
func NewDriverHandler(driverService services.DriverService, fleetService services.FleetService, logger *zap.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		fleetService:  fleetService,
		logger:        logger,
	}
}

// CreateDriverRequest запрос на регистрацию водителя
type CreateDriverRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required,min=6"`
	Role          string `json:"role"`
	CNH           string `json:"cnh" binding:"required"`
	CNHCategory   string `json:"cnh_category"`
	InitialPoints int    `json:"initial_points" binding:"gte=0"`
}

// UpdateDriverRequest запрос на обновление водителя
type UpdateDriverRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Role          string `json:"role"`
	CNH           string `json:"cnh" binding:"required"`
	CNHCategory   string `json:"cnh_category"`
	InitialPoints int    `json:"initial_points" binding:"gte=0"`
}

// CreateDriver регистрирует нового водителя
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	driver, err := h.driverService.CreateDriver(c.Request.Context(), services.CreateDriverInput{
		FullName:      req.FullName,
		Username:      req.Username,
		Password:      req.Password,
		Role:          entities.Role(req.Role),
		CNH:           req.CNH,
		CNHCategory:   req.CNHCategory,
		InitialPoints: req.InitialPoints,
	})
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to create driver")
		return
	}

	c.JSON(http.StatusCreated, driver)
}

// GetDriver получает водителя по ID
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	driver, err := h.driverService.GetDriver(c.Request.Context(), driverID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to get driver")
		return
	}

	c.JSON(http.StatusOK, driver)
}

// ListDrivers получает список водителей
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.driverService.ListDrivers(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list drivers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drivers": drivers,
		"total":   len(drivers),
	})
}

// UpdateDriver обновляет данные водителя
func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	var req UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	driver := &entities.Driver{
		ID:            driverID,
		FullName:      req.FullName,
		Role:          entities.Role(req.Role),
		CNH:           req.CNH,
		CNHCategory:   req.CNHCategory,
		InitialPoints: req.InitialPoints,
	}
	if driver.Role == "" {
		driver.Role = entities.RoleDriver
	}

	updated, err := h.driverService.UpdateDriver(c.Request.Context(), driver)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to update driver")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteDriver помечает водителя удаленным
func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	if err := h.driverService.DeleteDriver(c.Request.Context(), driverID); err != nil {
		handleServiceError(c, h.logger, err, "Failed to delete driver")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Driver deleted"})
}

// ListDriverFines получает штрафы водителя
func (h *DriverHandler) ListDriverFines(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	fines, err := h.fleetService.ListFinesByDriver(c.Request.Context(), driverID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list driver fines")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fines": fines,
		"total": len(fines),
	})
}

// GetDriverPoints получает сводку штрафных баллов водителя
func (h *DriverHandler) GetDriverPoints(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	points, err := h.fleetService.DriverPoints(c.Request.Context(), driverID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to get driver points")
		return
	}

	c.JSON(http.StatusOK, points)
}
