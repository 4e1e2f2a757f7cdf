// Package flashcards serves generated study cards and favorites.
package flashcards

import (
	"studyhub_backend/internal/flashcards/handler"
	"studyhub_backend/internal/flashcards/repository"
	"studyhub_backend/internal/flashcards/service"
	apphttp "studyhub_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	return &Module{handler: handler.New(service.New(repo)), repo: repo}
}

// Repository is shared with the assistant through an adapter.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

func (m *Module) Name() string {
	return "flashcards"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/flashcards"))
}

var _ apphttp.Module = (*Module)(nil)
