package handler

import (
	"net/http"

	"ticketify/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/organizer/stats", h.ForOrganizer)
}

func (h *StatsHandler) ForOrganizer(c *gin.Context) {
	stats, err := h.service.ForOrganizer(c, currentSession(c))
	if err != nil {
		handleError(c, err, "OrganizerStats")
		return
	}
	handleSuccess(c, stats, http.StatusOK)
}
