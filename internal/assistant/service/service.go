package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"studyhub_backend/internal/adapters/storage"
	"studyhub_backend/internal/assistant/ports"
	"studyhub_backend/internal/assistant/repository"
	"studyhub_backend/internal/events"
	"studyhub_backend/platform/ai"
	"studyhub_backend/platform/apperr"
	"studyhub_backend/platform/logger"
	"studyhub_backend/platform/pdftext"
	"studyhub_backend/platform/sanitize"
	"studyhub_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	DefaultFlashcardCount = 10
	MaxFlashcardCount     = 50
	DefaultQuizCount      = 5
	MaxQuizCount          = 20

	// maxSourceBytes bounds how much of a stored PDF is read for lazy extraction.
	maxSourceBytes = 64 << 20

	msgDocumentNotFound = "Document not found"
	msgNoText           = "Document has no extractable text"
	msgChatFailed       = "Failed to process chat message"
	msgHistoryFailed    = "Failed to get chat history"
	msgSummaryFailed    = "Failed to generate summary"
	msgExplainFailed    = "Failed to explain concept"
	msgFlashcardsFailed = "Failed to generate flashcards"
	msgQuizFailed       = "Failed to generate quiz"
)

var errNotConfigured = errors.New("assistant: no AI provider configured")

// BlobReader fetches stored PDFs for lazy text extraction.
type BlobReader interface {
	DownloadFile(ctx context.Context, bucket, fileKey string) (*storage.Object, error)
}

type ChatReply struct {
	Message   string
	SessionID uuid.UUID
}

type Service struct {
	repo       repository.AssistantRepository
	gen        ai.Generator
	blobs      BlobReader
	bucket     string
	val        *validator.Validator
	log        *logger.Logger
	flashcards ports.FlashcardStore
	quizzes    ports.QuizStore
	enqueuer   ports.SummaryEnqueuer
}

// New builds the assistant. gen may be nil when no provider is configured;
// generation calls then fail with an internal error.
func New(repo repository.AssistantRepository, gen ai.Generator, blobs BlobReader, bucket string, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, gen: gen, blobs: blobs, bucket: bucket, val: val, log: log}
}

func (s *Service) SetFlashcardStore(store ports.FlashcardStore) { s.flashcards = store }

func (s *Service) SetQuizStore(store ports.QuizStore) { s.quizzes = store }

func (s *Service) SetSummaryEnqueuer(enqueuer ports.SummaryEnqueuer) { s.enqueuer = enqueuer }

func (s *Service) Chat(ctx context.Context, documentID, userID uuid.UUID, message string) (ChatReply, error) {
	message = sanitize.Text(message)
	if message == "" {
		return ChatReply{}, apperr.Validation("Message is required")
	}

	doc, text, err := s.documentText(ctx, documentID, userID, msgChatFailed)
	if err != nil {
		return ChatReply{}, err
	}

	session, err := s.repo.GetOrCreateSession(ctx, doc.ID, userID)
	if err != nil {
		return ChatReply{}, internal(msgChatFailed, "assistant.Chat", err)
	}
	previous, err := s.repo.ListMessages(ctx, session.ID)
	if err != nil {
		return ChatReply{}, internal(msgChatFailed, "assistant.Chat", err)
	}

	turns := make([]ai.Turn, 0, len(previous))
	for _, m := range previous {
		turns = append(turns, ai.Turn{Role: ai.Role(m.Role), Text: m.Content})
	}

	answer, err := s.generate(ctx, "chat", chatPrompt(text, message, lastTurns(turns, chatHistoryTurns)))
	if err != nil {
		return ChatReply{}, internal(msgChatFailed, "assistant.Chat", err)
	}

	_, err = s.repo.AppendMessages(ctx, session.ID, []repository.NewMessage{
		{Role: string(ai.RoleUser), Content: message},
		{Role: string(ai.RoleAssistant), Content: answer},
	})
	if err != nil {
		return ChatReply{}, internal(msgChatFailed, "assistant.Chat", err)
	}

	return ChatReply{Message: answer, SessionID: session.ID}, nil
}

// History returns the conversation for a document. No session yet means no messages.
func (s *Service) History(ctx context.Context, documentID, userID uuid.UUID) ([]repository.Message, error) {
	session, err := s.repo.FindSession(ctx, documentID, userID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return []repository.Message{}, nil
	}
	if err != nil {
		return nil, internal(msgHistoryFailed, "assistant.History", err)
	}

	msgs, err := s.repo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, internal(msgHistoryFailed, "assistant.History", err)
	}
	return msgs, nil
}

// Summary returns the stored summary or generates and stores one.
func (s *Service) Summary(ctx context.Context, documentID, userID uuid.UUID) (string, bool, error) {
	doc, text, err := s.documentText(ctx, documentID, userID, msgSummaryFailed)
	if err != nil {
		return "", false, err
	}
	if doc.Summary != nil && *doc.Summary != "" {
		return *doc.Summary, true, nil
	}

	summary, err := s.generate(ctx, "summary", summaryPrompt(text))
	if err != nil {
		return "", false, internal(msgSummaryFailed, "assistant.Summary", err)
	}
	if _, err := s.repo.SaveSummary(ctx, doc.ID, summary); err != nil {
		return "", false, internal(msgSummaryFailed, "assistant.Summary", err)
	}
	return summary, false, nil
}

func (s *Service) Explain(ctx context.Context, documentID, userID uuid.UUID, concept string) (string, error) {
	concept = sanitize.Text(concept)
	if concept == "" {
		return "", apperr.Validation("Concept is required")
	}

	_, text, err := s.documentText(ctx, documentID, userID, msgExplainFailed)
	if err != nil {
		return "", err
	}

	explanation, err := s.generate(ctx, "explain", explainPrompt(text, concept))
	if err != nil {
		return "", internal(msgExplainFailed, "assistant.Explain", err)
	}
	return explanation, nil
}

// Flashcards returns the existing deck for a document, or generates one.
// The bool reports whether the deck already existed.
func (s *Service) Flashcards(ctx context.Context, documentID, userID uuid.UUID, count int) ([]ports.Flashcard, bool, error) {
	if s.flashcards == nil {
		return nil, false, internal(msgFlashcardsFailed, "assistant.Flashcards", errors.New("flashcard store not wired"))
	}
	count = ClampCount(count, DefaultFlashcardCount, MaxFlashcardCount)

	doc, text, err := s.documentText(ctx, documentID, userID, msgFlashcardsFailed)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.flashcards.ListByDocument(ctx, doc.ID, userID)
	if err != nil {
		return nil, false, internal(msgFlashcardsFailed, "assistant.Flashcards", err)
	}
	if len(existing) > 0 {
		return existing, true, nil
	}

	raw, err := s.generate(ctx, "flashcards", flashcardsPrompt(text, count))
	if err != nil {
		return nil, false, internal(msgFlashcardsFailed, "assistant.Flashcards", err)
	}
	var drafts []ports.FlashcardDraft
	if err := decodeArray(raw, &drafts); err != nil {
		return nil, false, internal(msgFlashcardsFailed, "assistant.Flashcards", err)
	}
	drafts = keepValid(s, drafts, count)
	if len(drafts) == 0 {
		return nil, false, internal(msgFlashcardsFailed, "assistant.Flashcards", errors.New("no usable flashcards in response"))
	}

	cards, err := s.flashcards.CreateMany(ctx, doc.ID, userID, drafts)
	if err != nil {
		return nil, false, internal(msgFlashcardsFailed, "assistant.Flashcards", err)
	}
	return cards, false, nil
}

// Quiz generates and stores a new quiz. Questions that do not have exactly
// four options and an in-range answer index are dropped.
func (s *Service) Quiz(ctx context.Context, documentID, userID uuid.UUID, count int) (ports.Quiz, error) {
	if s.quizzes == nil {
		return ports.Quiz{}, internal(msgQuizFailed, "assistant.Quiz", errors.New("quiz store not wired"))
	}
	count = ClampCount(count, DefaultQuizCount, MaxQuizCount)

	doc, text, err := s.documentText(ctx, documentID, userID, msgQuizFailed)
	if err != nil {
		return ports.Quiz{}, err
	}

	raw, err := s.generate(ctx, "quiz", quizPrompt(text, count))
	if err != nil {
		return ports.Quiz{}, internal(msgQuizFailed, "assistant.Quiz", err)
	}
	var questions []ports.QuizQuestion
	if err := decodeArray(raw, &questions); err != nil {
		return ports.Quiz{}, internal(msgQuizFailed, "assistant.Quiz", err)
	}
	questions = keepValid(s, questions, count)
	if len(questions) == 0 {
		return ports.Quiz{}, internal(msgQuizFailed, "assistant.Quiz", errors.New("no usable questions in response"))
	}

	quiz, err := s.quizzes.Create(ctx, doc.ID, userID, "Quiz: "+doc.OriginalName, questions)
	if err != nil {
		return ports.Quiz{}, internal(msgQuizFailed, "assistant.Quiz", err)
	}
	return quiz, nil
}

// QueueSummary handles DocumentUploaded by scheduling a background summary.
func (s *Service) QueueSummary(ctx context.Context, event events.Event) error {
	e, ok := event.(events.DocumentUploaded)
	if !ok || s.enqueuer == nil || !e.HasText {
		return nil
	}
	if err := s.enqueuer.EnqueueSummarize(ctx, e.DocumentID, e.UserID); err != nil {
		s.log.Warn("failed to enqueue summary", "error", err, "documentId", e.DocumentID)
		return err
	}
	return nil
}

// SummarizeInBackground stores a summary unless one exists already.
// A document deleted in the meantime is not an error.
func (s *Service) SummarizeInBackground(ctx context.Context, documentID, userID uuid.UUID) error {
	doc, text, err := s.documentText(ctx, documentID, userID, msgSummaryFailed)
	if apperr.Is(err, apperr.KindNotFound) || apperr.Is(err, apperr.KindBadRequest) {
		return nil
	}
	if err != nil {
		return err
	}
	if doc.Summary != nil && *doc.Summary != "" {
		return nil
	}

	summary, err := s.generate(ctx, "summary.background", summaryPrompt(text))
	if err != nil {
		return fmt.Errorf("summarize %s: %w", documentID, err)
	}
	stored, err := s.repo.SaveSummary(ctx, doc.ID, summary)
	if err != nil {
		return fmt.Errorf("save summary %s: %w", documentID, err)
	}
	s.log.Info("background summary finished", "documentId", documentID, "stored", stored)
	return nil
}

// documentText loads the document and its text, extracting it from the
// stored PDF on first use.
func (s *Service) documentText(ctx context.Context, documentID, userID uuid.UUID, failMsg string) (repository.Document, string, error) {
	doc, err := s.repo.GetDocument(ctx, documentID, userID)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return repository.Document{}, "", apperr.NotFound(msgDocumentNotFound)
	}
	if err != nil {
		return repository.Document{}, "", internal(failMsg, "assistant.documentText", err)
	}
	if doc.ExtractedText != nil && *doc.ExtractedText != "" {
		return doc, *doc.ExtractedText, nil
	}

	text, err := s.extract(ctx, doc)
	if errors.Is(err, pdftext.ErrEmptyDocument) {
		return repository.Document{}, "", apperr.BadRequest(msgNoText)
	}
	if err != nil {
		return repository.Document{}, "", internal(failMsg, "assistant.documentText", err)
	}
	if err := s.repo.SaveExtractedText(ctx, doc.ID, text); err != nil {
		s.log.WithContext(ctx).Warn("failed to cache extracted text", "error", err, "documentId", doc.ID)
	}
	return doc, text, nil
}

func (s *Service) extract(ctx context.Context, doc repository.Document) (string, error) {
	if s.blobs == nil {
		return "", errors.New("blob storage not configured")
	}
	obj, err := s.blobs.DownloadFile(ctx, s.bucket, doc.FileKey)
	if err != nil {
		return "", err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(io.LimitReader(obj.Body, maxSourceBytes))
	if err != nil {
		return "", err
	}
	content, err := pdftext.Extract(data)
	if err != nil {
		return "", err
	}
	if content.Text == "" {
		return "", pdftext.ErrEmptyDocument
	}
	return content.Text, nil
}

func (s *Service) generate(ctx context.Context, op string, prompt ai.Prompt) (string, error) {
	if s.gen == nil {
		return "", errNotConfigured
	}
	start := time.Now()
	out, err := s.gen.Generate(ctx, prompt)
	s.log.WithContext(ctx).AIRequest(op, s.gen.Provider(), len(prompt.Text), time.Since(start), err)
	return out, err
}

// ClampCount applies the default to non-positive counts and caps at max.
func ClampCount(count, def, max int) int {
	if count <= 0 {
		return def
	}
	if count > max {
		return max
	}
	return count
}

func decodeArray(raw string, dst any) error {
	span, err := ai.ExtractJSONArray(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(span), dst)
}

// keepValid drops items failing struct validation and caps the result at limit.
func keepValid[T any](s *Service, items []T, limit int) []T {
	out := make([]T, 0, min(len(items), limit))
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if err := s.val.Struct(item); err != nil {
			s.log.Debug("dropping generated item", "reason", validator.FirstMessage(err))
			continue
		}
		out = append(out, item)
	}
	return out
}

func internal(msg, op string, err error) error {
	return apperr.Internal(msg).WithOp(op).WithErr(err)
}
