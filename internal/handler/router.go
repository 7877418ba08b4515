package handler

import (
	"net/http"
	"time"

	"ticketify/config"
	"ticketify/internal/metrics"
	"ticketify/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Event   *EventHandler
	Ticket  *TicketHandler
	Stats   *StatsHandler
}

func NewRouter(cfg *config.ServerConfig, manager *session.Manager, h Handlers) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(), metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", IdempotencyKeyHeader, RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	authed := api.Group("", Session(manager))

	h.Auth.RegisterRoutes(api, authed)
	h.Profile.RegisterRoutes(authed)
	h.Event.RegisterRoutes(authed)
	h.Ticket.RegisterRoutes(authed)
	h.Stats.RegisterRoutes(authed)

	return r
}
