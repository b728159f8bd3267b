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

// AuthHandler обработчик HTTP запросов аутентификации
type AuthHandler struct {
	authService services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// LoginRequest запрос на вход
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse ответ с токеном доступа
type LoginResponse struct {
	Token           string        `json:"token"`
	DriverID        uuid.UUID     `json:"driver_id"`
	FullName        string        `json:"full_name"`
	Role            entities.Role `json:"role"`
	PasswordChanged bool          `json:"password_changed"`
	IssuedAt        time.Time     `json:"issued_at"`
}

// ChangePasswordRequest запрос на смену собственного пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ResetPasswordRequest запрос администратора на сброс пароля
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// Login проверяет учетные данные и выдает токен
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	driver, token, err := h.authService.Authenticate(c.Request.Context(), entities.NormalizeUsername(req.Username), req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to authenticate")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:           token,
		DriverID:        driver.ID,
		FullName:        driver.FullName,
		Role:            driver.Role,
		PasswordChanged: driver.PasswordChanged,
		IssuedAt:        time.Now(),
	})
}

// ChangePassword меняет пароль вошедшего водителя
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), driverID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, h.logger, err, "Failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password changed"})
}

// ResetPassword сбрасывает пароль водителя по решению администратора
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	actorID, _ := currentDriverID(c)
	if err := h.authService.ResetPassword(c.Request.Context(), driverID, req.NewPassword, actorID.String()); err != nil {
		handleServiceError(c, h.logger, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset"})
}
