package search

import (
	apphttp "studyhub_backend/internal/http"
	"studyhub_backend/internal/search/handler"
	"studyhub_backend/internal/search/repository"
	"studyhub_backend/internal/search/service"
	"studyhub_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, repo, repo, log)
	h := handler.New(svc)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/search")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
