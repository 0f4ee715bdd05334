package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwiprasetyo/user-management-api/internal/container"
	handlers "github.com/dwiprasetyo/user-management-api/internal/interface/http"
	"github.com/dwiprasetyo/user-management-api/internal/interface/middleware"
)

// AuthModule wires the public authentication endpoints:
// POST /auth/register, POST /auth/login, POST /auth/refresh
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
}
