package router

import (
	"github.com/dwiprasetyo/user-management-api/internal/application"
	"github.com/dwiprasetyo/user-management-api/internal/container"
	pginfra "github.com/dwiprasetyo/user-management-api/internal/infrastructure/postgres"
	handlers "github.com/dwiprasetyo/user-management-api/internal/interface/http"
	"github.com/dwiprasetyo/user-management-api/internal/router/modules"
)

// InitModules builds services/handlers from the container singletons and
// registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(container.GetPGPool())

	authSvc := application.NewAuthService(repo, container.GetJWT(), logger)
	userSvc := application.NewUserService(repo, logger, container.GetES(), cfg.ESUsersIndex)

	authHandler := handlers.NewAuthHandler(authSvc, userSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
