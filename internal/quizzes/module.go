// Package quizzes serves generated quizzes: taking, grading and history.
package quizzes

import (
	"studyhub_backend/internal/events"
	apphttp "studyhub_backend/internal/http"
	"studyhub_backend/internal/quizzes/handler"
	"studyhub_backend/internal/quizzes/repository"
	"studyhub_backend/internal/quizzes/service"
	"studyhub_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	return &Module{handler: handler.New(service.New(repo, eventBus, log)), repo: repo}
}

// Repository is shared with the assistant through an adapter.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

func (m *Module) Name() string {
	return "quizzes"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quizzes"))
}

var _ apphttp.Module = (*Module)(nil)
