package handler

import (
	"net/http"
	"time"

	"studyhub_backend/internal/auth/repository"
	"studyhub_backend/internal/auth/service"
	"studyhub_backend/internal/auth/transport"
	"studyhub_backend/platform/config"
	"studyhub_backend/platform/httpkit"
	"studyhub_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
	cfg config.CookieConfig
	val *validator.Validator
}

func New(svc *service.Service, cfg config.CookieConfig, val *validator.Validator) *Handler {
	return &Handler{svc: svc, cfg: cfg, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/logout", h.Logout)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, validator.FirstMessage(err), nil)
		return
	}

	session, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, session.RefreshToken)
	httpkit.Message(c, http.StatusCreated, "User registered successfully", transport.AuthResponse{
		User:  toUserResponse(session.User, false),
		Token: session.AccessToken,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, validator.FirstMessage(err), nil)
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, session.RefreshToken)
	httpkit.Message(c, http.StatusOK, "Login successful", transport.AuthResponse{
		User:  toUserResponse(session.User, false),
		Token: session.AccessToken,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.cfg.GetRefreshCookieName())

	session, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		httpkit.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, session.RefreshToken)
	httpkit.OK(c, transport.TokenResponse{Token: session.AccessToken})
}

func (h *Handler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.cfg.GetRefreshCookieName())
	if httpkit.HandleError(c, h.svc.Logout(c.Request.Context(), refreshToken)) {
		return
	}

	h.clearRefreshCookie(c)
	httpkit.Message(c, http.StatusOK, "Logged out", nil)
}

func (h *Handler) Profile(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, err := h.svc.Profile(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ProfileResponse{User: toUserResponse(user, true)})
}

func toUserResponse(u repository.User, withCreated bool) transport.UserResponse {
	resp := transport.UserResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email}
	if withCreated {
		created := u.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string) {
	maxAge := int(h.cfg.GetRefreshTokenTTL() / time.Second)
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		value,
		maxAge,
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		"",
		-1,
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}
