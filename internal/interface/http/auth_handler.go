package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dwiprasetyo/user-management-api/internal/application"
	"github.com/dwiprasetyo/user-management-api/pkg/response"
	"github.com/dwiprasetyo/user-management-api/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, users *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users, Logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"firstName" binding:"required,name"`
	LastName  string `json:"lastName" binding:"required,name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), strings.ToLower(req.Email), req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.Users.IndexUser(c.Request.Context(), u)

	response.Success(c, http.StatusCreated, gin.H{"user": userJSON(u)}, "User registered successfully")
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         userJSON(res.User),
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresIn":    res.ExpiresIn,
	}, "Login successful")
}

// Refresh POST /auth/refresh
// The refresh token travels in the Authorization header as a bearer token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	res, err := h.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid refresh token", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"accessToken": res.AccessToken,
		"expiresIn":   res.ExpiresIn,
	}, "")
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
