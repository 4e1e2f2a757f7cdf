// Package auth provides the authentication bounded context module.
package auth

import (
	"studyhub_backend/internal/auth/handler"
	"studyhub_backend/internal/auth/repository"
	"studyhub_backend/internal/auth/service"
	"studyhub_backend/internal/events"
	apphttp "studyhub_backend/internal/http"
	"studyhub_backend/platform/config"
	"studyhub_backend/platform/logger"
	"studyhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig combines what the service and cookie handling need.
type ModuleConfig interface {
	config.AuthServiceConfig
	config.CookieConfig
}

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg ModuleConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log)
	return &Module{handler: handler.New(svc, cfg, val)}
}

func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts the public auth routes behind the stricter rate
// limiter and the profile route on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/auth/profile", m.handler.Profile)
}

var _ apphttp.Module = (*Module)(nil)
