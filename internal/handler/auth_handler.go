package handler

import (
	"net/http"

	"ticketify/internal/model"
	"ticketify/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	manager *session.Manager
}

func NewAuthHandler(manager *session.Manager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// RegisterRoutes mounts the token-issuing routes on public, which must not run
// the Session middleware, so an expired access token can still be refreshed.
func (h *AuthHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	open := public.Group("/auth")
	{
		open.POST("register", h.Register)
		open.POST("login", h.Login)
		open.POST("refresh", h.Refresh)
	}
	router := authed.Group("/auth")
	{
		router.POST("logout", h.Logout)
		router.GET("session", h.Current)
	}
}

// SessionResponse is the public view of a resolved session.
type SessionResponse struct {
	Role    model.Role        `json:"role"`
	UserID  *uuid.UUID        `json:"user_id,omitempty"`
	Email   string            `json:"email,omitempty"`
	Profile *model.Profile    `json:"profile,omitempty"`
	Tokens  *model.AuthTokens `json:"tokens,omitempty"`
}

func newSessionResponse(s *session.Session, withTokens bool) SessionResponse {
	resp := SessionResponse{Role: s.Role()}
	if id, ok := s.Identity(); ok {
		resp.UserID = &id.ID
		resp.Email = id.Email
	}
	if p, ok := s.Profile(); ok {
		resp.Profile = &p
	}
	if t, ok := s.Tokens(); ok && withTokens {
		resp.Tokens = &t
	}
	return resp
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.SignUpRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	reg, err := h.manager.SignUp(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Register")
		return
	}

	resp := newSessionResponse(reg.Session, true)
	resp.Profile = reg.Profile
	h.setTokenCookie(c, reg.Session)
	handleSuccess(c, resp, http.StatusCreated)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.SignInRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	s, err := h.manager.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err, "Login")
		return
	}

	h.setTokenCookie(c, s)
	handleSuccess(c, newSessionResponse(s, true), http.StatusOK)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	s := session.New()
	if err := h.manager.Refresh(c.Request.Context(), s, req.RefreshToken); err != nil {
		c.SetCookie(AccessTokenCookie, "", -1, "/", "", false, true)
		handleError(c, err, "Refresh")
		return
	}

	h.setTokenCookie(c, s)
	handleSuccess(c, newSessionResponse(s, true), http.StatusOK)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.manager.Clear(c.Request.Context(), currentSession(c))
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", false, true)
	if err != nil {
		handleError(c, err, "Logout")
		return
	}
	handleSuccess(c, nil, http.StatusNoContent)
}

func (h *AuthHandler) Current(c *gin.Context) {
	handleSuccess(c, newSessionResponse(currentSession(c), false), http.StatusOK)
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, s *session.Session) {
	t, ok := s.Tokens()
	if !ok || t.AccessToken == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, t.AccessToken, t.ExpiresIn, "/", "", false, true)
}
