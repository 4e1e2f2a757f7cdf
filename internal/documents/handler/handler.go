package handler

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"studyhub_backend/internal/documents/service"
	"studyhub_backend/internal/documents/transport"
	"studyhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidID = "Invalid ID format"
	msgNoFile    = "No file uploaded"
	formField    = "file"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.Upload)
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/file", h.File)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fh, err := c.FormFile(formField)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgNoFile, nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgNoFile, nil)
		return
	}
	defer f.Close()

	doc, err := h.svc.Upload(c.Request.Context(), identity.UserID(), service.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Message(c, http.StatusCreated, "Document uploaded successfully", transport.UploadResponse{Document: doc})
}

func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	docs, err := h.svc.List(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListResponse{Documents: docs})
}

func (h *Handler) Stats(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := httpkit.ParamUUID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	doc, err := h.svc.Get(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.DocumentEnvelope{Document: doc})
}

// File streams the stored PDF inline.
func (h *Handler) File(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := httpkit.ParamUUID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	file, err := h.svc.OpenFile(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	defer file.Object.Body.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.Name}))
	if file.Object.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(file.Object.Size, 10))
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file.Object.Body)
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := httpkit.ParamUUID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, identity.UserID())) {
		return
	}
	httpkit.Message(c, http.StatusOK, "Document deleted successfully", nil)
}
