package handler

import (
	"net/http"
	"strconv"

	"studyhub_backend/internal/assistant/service"
	"studyhub_backend/internal/assistant/transport"
	"studyhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const msgInvalidID = "Invalid ID format"

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat/:documentId", h.Chat)
	rg.GET("/chat/:documentId/history", h.History)
	rg.POST("/summary/:documentId", h.Summary)
	rg.POST("/explain/:documentId", h.Explain)
	rg.POST("/flashcards/:documentId", h.Flashcards)
	rg.POST("/quiz/:documentId", h.Quiz)
}

func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Message is required", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), documentID, identity.UserID(), req.Message)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ChatResponse{Message: reply.Message, SessionID: reply.SessionID.String()})
}

func (h *Handler) History(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	msgs, err := h.svc.History(c.Request.Context(), documentID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, transport.ChatMessage{Role: m.Role, Content: m.Content, Timestamp: m.CreatedAt})
	}
	httpkit.OK(c, transport.HistoryResponse{Messages: out})
}

func (h *Handler) Summary(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	summary, cached, err := h.svc.Summary(c.Request.Context(), documentID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SummaryResponse{Summary: summary, Cached: cached})
}

func (h *Handler) Explain(c *gin.Context) {
	var req transport.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Concept is required", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	explanation, err := h.svc.Explain(c.Request.Context(), documentID, identity.UserID(), req.Concept)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ExplainResponse{Explanation: explanation})
}

func (h *Handler) Flashcards(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	cards, cached, err := h.svc.Flashcards(c.Request.Context(), documentID, identity.UserID(), queryCount(c))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.Flashcard, 0, len(cards))
	for _, card := range cards {
		out = append(out, transport.Flashcard{
			ID:         card.ID.String(),
			Question:   card.Question,
			Answer:     card.Answer,
			IsFavorite: card.IsFavorite,
		})
	}
	resp := transport.FlashcardsResponse{Flashcards: out, Cached: cached}
	if cached {
		httpkit.OK(c, resp)
		return
	}
	httpkit.Created(c, resp)
}

func (h *Handler) Quiz(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	quiz, err := h.svc.Quiz(c.Request.Context(), documentID, identity.UserID(), queryCount(c))
	if httpkit.HandleError(c, err) {
		return
	}

	questions := make([]transport.QuizQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, transport.QuizQuestion{Question: q.Question, Options: q.Options})
	}
	httpkit.Created(c, transport.QuizResponse{Quiz: transport.Quiz{
		ID:             quiz.ID.String(),
		Title:          quiz.Title,
		Questions:      questions,
		TotalQuestions: len(questions),
	}})
}

// queryCount reads ?count=; anything unparsable becomes 0 so the service default applies.
func queryCount(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("count"))
	if err != nil {
		return 0
	}
	return n
}
