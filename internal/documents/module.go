// Package documents is the bounded context for uploaded study PDFs.
package documents

import (
	"studyhub_backend/internal/documents/handler"
	"studyhub_backend/internal/documents/repository"
	"studyhub_backend/internal/documents/service"
	"studyhub_backend/internal/events"
	apphttp "studyhub_backend/internal/http"
	"studyhub_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

// NewModule wires the documents module and subscribes blob cleanup to
// DocumentDeleted.
func NewModule(pool *pgxpool.Pool, blobs service.BlobStore, bucket string, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, blobs, bucket, eventBus, log)
	eventBus.Subscribe(events.DocumentDeleted{}.EventName(), events.HandlerFunc(svc.RemoveBlob))

	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string {
	return "documents"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/documents"))
}

var _ apphttp.Module = (*Module)(nil)
