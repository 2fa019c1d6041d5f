package handlers

import (
	"errors"
	"net/http"

	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/service"
	"github.com/gin-gonic/gin"
)

// UsersHandler handles the user CRUD surface.
type UsersHandler struct {
	userService service.UserService
}

// NewUsersHandler creates a new UsersHandler instance.
func NewUsersHandler(userService service.UserService) *UsersHandler {
	return &UsersHandler{userService: userService}
}

// UpdateUserRequest represents the user update payload. Empty fields are
// left unchanged.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// List godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Update godoc
// @Summary Update a user by id
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /users/{id} [put]
func (h *UsersHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			RespondError(c, http.StatusBadRequest, "invalid input")
		case errors.Is(err, service.ErrUserNotFound):
			RespondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrUserExists):
			RespondError(c, http.StatusConflict, "email already in use")
		default:
			LogAndRespondError(c, http.StatusInternalServerError, err, "failed to update user")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user by id
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Router /users/{id} [delete]
func (h *UsersHandler) Delete(c *gin.Context) {
	user, err := h.userService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			RespondError(c, http.StatusNotFound, "user not found")
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, user)
}
