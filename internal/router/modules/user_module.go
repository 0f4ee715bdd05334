package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwiprasetyo/user-management-api/internal/container"
	handlers "github.com/dwiprasetyo/user-management-api/internal/interface/http"
	"github.com/dwiprasetyo/user-management-api/internal/interface/middleware"
	"github.com/dwiprasetyo/user-management-api/pkg/helpers"
)

// UserModule wires the protected user endpoints. Every route requires a valid
// bearer access token.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("", m.Handler.List)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PATCH("/profile", m.Handler.UpdateProfile)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.GetByID)
		auth.PATCH("/:id", m.Handler.UpdateByID)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
