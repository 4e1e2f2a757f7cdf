package handler

import (
	"net/http"

	"studyhub_backend/internal/flashcards/service"
	"studyhub_backend/internal/flashcards/transport"
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
	rg.GET("/favorites", h.Favorites)
	rg.GET("/document/:documentId", h.ListByDocument)
	rg.DELETE("/document/:documentId", h.DeleteByDocument)
	rg.PATCH("/:flashcardId/favorite", h.ToggleFavorite)
}

func (h *Handler) ListByDocument(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	cards, err := h.svc.ListByDocument(c.Request.Context(), documentID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListResponse{Flashcards: cards})
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := httpkit.ParamUUID(c, "flashcardId", msgInvalidID)
	if !ok {
		return
	}

	toggled, err := h.svc.ToggleFavorite(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToggleResponse{Flashcard: toggled})
}

func (h *Handler) Favorites(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	cards, err := h.svc.Favorites(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListResponse{Flashcards: cards})
}

func (h *Handler) DeleteByDocument(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	documentID, ok := httpkit.ParamUUID(c, "documentId", msgInvalidID)
	if !ok {
		return
	}

	n, err := h.svc.DeleteByDocument(c.Request.Context(), documentID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Message(c, http.StatusOK, "Flashcards deleted", transport.DeleteResponse{Deleted: n})
}
