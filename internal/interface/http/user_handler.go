package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dwiprasetyo/user-management-api/internal/application"
	"github.com/dwiprasetyo/user-management-api/internal/interface/middleware"
	"github.com/dwiprasetyo/user-management-api/pkg/response"
	"github.com/dwiprasetyo/user-management-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateUserRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"firstName" binding:"omitempty,name"`
	LastName  string `json:"lastName" binding:"omitempty,name"`
}

// GetProfile GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "")
}

// UpdateProfile PATCH /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	h.update(c, c.GetString(middleware.CtxUserIDKey))
}

// List GET /users?page=&limit=
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	res, err := h.Svc.List(c.Request.Context(), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	users := make([]gin.H, 0, len(res.Users))
	for _, u := range res.Users {
		users = append(users, userJSON(u))
	}
	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"total":      res.Total,
		"page":       res.Page,
		"limit":      res.Limit,
		"totalPages": res.TotalPages,
	}, "")
}

// GetByID GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "")
}

// UpdateByID PATCH /users/:id
func (h *UserHandler) UpdateByID(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	h.update(c, id)
}

// Delete DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User deleted successfully"}, "")
}

// Search GET /users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits}, "")
}

func (h *UserHandler) update(c *gin.Context, id string) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, application.UpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "")
}

func pathUUID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id", map[string]string{"id": "must be a valid UUID"})
		return "", false
	}
	return id, true
}
