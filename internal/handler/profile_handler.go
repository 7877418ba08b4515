package handler

import (
	"net/http"

	"ticketify/internal/model"
	"ticketify/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("profile", h.Get)
	r.PUT("profile", h.Update)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.GetMyProfile(c, currentSession(c))
	if err != nil {
		handleError(c, err, "GetProfile")
		return
	}
	handleSuccess(c, profile, http.StatusOK)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	profile, err := h.service.UpdateMyProfile(c, currentSession(c), req)
	if err != nil {
		handleError(c, err, "UpdateProfile")
		return
	}
	handleSuccess(c, profile, http.StatusOK)
}
