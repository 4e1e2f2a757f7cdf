// Package assistant is the AI study assistant: document chat, summaries,
// concept explanations and flashcard and quiz generation.
package assistant

import (
	"studyhub_backend/internal/assistant/handler"
	"studyhub_backend/internal/assistant/ports"
	"studyhub_backend/internal/assistant/repository"
	"studyhub_backend/internal/assistant/service"
	"studyhub_backend/internal/events"
	apphttp "studyhub_backend/internal/http"
	"studyhub_backend/platform/ai"
	"studyhub_backend/platform/logger"
	"studyhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, gen ai.Generator, blobs service.BlobReader, bucket string, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), gen, blobs, bucket, val, log)
	return &Module{handler: handler.New(svc), service: svc}
}

// Service is exposed for the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) SetFlashcardStore(store ports.FlashcardStore) { m.service.SetFlashcardStore(store) }

func (m *Module) SetQuizStore(store ports.QuizStore) { m.service.SetQuizStore(store) }

func (m *Module) SetSummaryEnqueuer(enqueuer ports.SummaryEnqueuer) {
	m.service.SetSummaryEnqueuer(enqueuer)
}

// RegisterHandlers subscribes to upload events so summaries are queued.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.DocumentUploaded{}.EventName(), events.HandlerFunc(m.service.QueueSummary))
}

func (m *Module) Name() string {
	return "assistant"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/ai"))
}

var _ apphttp.Module = (*Module)(nil)
