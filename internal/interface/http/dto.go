package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwiprasetyo/user-management-api/internal/application"
	"github.com/dwiprasetyo/user-management-api/internal/domain/entity"
	"github.com/dwiprasetyo/user-management-api/internal/domain/repository"
	"github.com/dwiprasetyo/user-management-api/pkg/response"
)

// userJSON renders a user for API responses. The password digest is never
// included.
func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

// respondErr maps domain errors to HTTP statuses. Anything unrecognized is an
// internal error.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.Error(c, http.StatusConflict, "Email already exists", nil)
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
