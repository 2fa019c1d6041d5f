// Package handlers contains HTTP request handlers for the records API.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/middleware"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and identity verification.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /users/create [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			RespondError(c, http.StatusBadRequest, "invalid input")
		case errors.Is(err, service.ErrUserExists):
			RespondError(c, http.StatusConflict, "user already exists")
		default:
			LogAndRespondError(c, http.StatusInternalServerError, err, "registration failed")
		}
		return
	}

	// The password digest is excluded by the model's JSON tags.
	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password get the same response so the
		// endpoint cannot be used to enumerate accounts. The distinction
		// stays in the logs.
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidCredentials):
			slog.Info("login rejected", "reason", err.Error())
			RespondError(c, http.StatusUnauthorized, "invalid credentials")
		default:
			LogAndRespondError(c, http.StatusInternalServerError, err, "login failed")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Verify godoc
// @Summary Return the account of the authenticated principal
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Router /users/verify-user [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	id, ok := middleware.PrincipalID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			RespondError(c, http.StatusNotFound, "user not found")
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "verification failed")
		return
	}

	c.JSON(http.StatusOK, user)
}
