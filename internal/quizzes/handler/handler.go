package handler

import (
	"net/http"

	"studyhub_backend/internal/quizzes/service"
	"studyhub_backend/internal/quizzes/transport"
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
	rg.GET("/history", h.History)
	rg.GET("/:quizId", h.Pending)
	rg.POST("/:quizId/submit", h.Submit)
	rg.GET("/:quizId/result", h.Result)
}

func (h *Handler) Pending(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := httpkit.ParamUUID(c, "quizId", msgInvalidID)
	if !ok {
		return
	}

	quiz, err := h.svc.Pending(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.PendingResponse{Quiz: quiz})
}

func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Answers are required", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := httpkit.ParamUUID(c, "quizId", msgInvalidID)
	if !ok {
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), id, identity.UserID(), req.Answers)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Message(c, http.StatusOK, "Quiz submitted", result)
}

func (h *Handler) Result(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := httpkit.ParamUUID(c, "quizId", msgInvalidID)
	if !ok {
		return
	}

	quiz, err := h.svc.Result(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ResultResponse{Quiz: quiz})
}

func (h *Handler) History(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	quizzes, err := h.svc.History(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.HistoryResponse{Quizzes: quizzes})
}
