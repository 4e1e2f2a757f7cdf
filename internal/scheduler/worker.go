package scheduler

import (
	"context"
	"fmt"

	"studyhub_backend/platform/config"
	"studyhub_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Summarizer produces and stores a document summary.
type Summarizer interface {
	SummarizeInBackground(ctx context.Context, documentID, userID uuid.UUID) error
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	summarizer Summarizer
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		log:    log,
	}

	mux.HandleFunc(TaskSummarizeDocument, w.handleSummarizeDocument)

	return w, nil
}

func (w *Worker) SetSummarizer(summarizer Summarizer) {
	w.summarizer = summarizer
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleSummarizeDocument(ctx context.Context, task *asynq.Task) error {
	if w.summarizer == nil {
		return nil
	}

	payload, err := ParseSummarizeDocumentPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	documentID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("document id: %v: %w", err, asynq.SkipRetry)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return fmt.Errorf("user id: %v: %w", err, asynq.SkipRetry)
	}

	return w.summarizer.SummarizeInBackground(ctx, documentID, userID)
}
