package handler

import (
	"net/http"

	"ticketify/internal/model"
	"ticketify/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImageBytes bounds banner uploads.
const maxImageBytes = 5 << 20

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	router := r.Group("/events")
	{
		router.GET("", h.List)
		router.GET(":id", h.Get)
		router.POST("", h.Create)
		router.PUT(":id", h.Update)
		router.DELETE(":id", h.Delete)
		router.POST(":id/image", h.UploadImage)
	}
	r.GET("/organizer/events", h.ListMine)
}

func (h *EventHandler) List(c *gin.Context) {
	var q model.ListEventsQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}

	var filter model.EventFilter
	if q.Category != "" {
		category := model.Category(q.Category)
		filter.Category = &category
	}

	events, err := h.service.List(c, filter)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}
	handleSuccess(c, events, http.StatusOK)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Get(c, id)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}
	handleSuccess(c, event, http.StatusOK)
}

func (h *EventHandler) ListMine(c *gin.Context) {
	events, err := h.service.ListMine(c, currentSession(c))
	if err != nil {
		handleError(c, err, "ListMyEvents")
		return
	}
	handleSuccess(c, events, http.StatusOK)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event, err := h.service.Create(c, currentSession(c), req)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}
	handleSuccess(c, event, http.StatusCreated)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event, err := h.service.Update(c, currentSession(c), id, req)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}
	handleSuccess(c, event, http.StatusOK)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c, currentSession(c), id); err != nil {
		handleError(c, err, "DeleteEvent")
		return
	}
	handleSuccess(c, nil, http.StatusNoContent)
}

// UploadImage takes a multipart "image" field.
func (h *EventHandler) UploadImage(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		handleError(c, err, "UploadImage")
		return
	}
	defer f.Close()

	event, err := h.service.UploadImage(c, currentSession(c), id, fh.Header.Get("Content-Type"), f)
	if err != nil {
		handleError(c, err, "UploadImage")
		return
	}
	handleSuccess(c, event, http.StatusOK)
}
