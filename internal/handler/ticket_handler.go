package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"ticketify/internal/model"
	"ticketify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type TicketHandler struct {
	purchases service.PurchaseService
	tickets   service.TicketService
}

func NewTicketHandler(purchases service.PurchaseService, tickets service.TicketService) *TicketHandler {
	return &TicketHandler{purchases: purchases, tickets: tickets}
}

func (h *TicketHandler) RegisterRoutes(r *gin.RouterGroup) {
	router := r.Group("/tickets")
	{
		router.POST("", h.Purchase)
		router.GET("", h.ListMine)
		router.GET(":id/pdf", h.DownloadPDF)
	}
}

// Purchase answers 201 for a new ledger row and 200 when an idempotency key replays one.
func (h *TicketHandler) Purchase(c *gin.Context) {
	var req model.PurchaseTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_id"})
		return
	}
	params := model.PurchaseParams{
		EventID:        eventID,
		Quantity:       req.Quantity,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}
	res, err := h.purchases.Purchase(c, currentSession(c), params)
	if err != nil {
		handleError(c, err, "Purchase")
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	handleSuccess(c, res, status)
}

func (h *TicketHandler) ListMine(c *gin.Context) {
	tickets, err := h.tickets.ListMine(c, currentSession(c))
	if err != nil {
		handleError(c, err, "ListTickets")
		return
	}
	handleSuccess(c, tickets, http.StatusOK)
}

func (h *TicketHandler) DownloadPDF(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	issued, err := h.tickets.Issue(c, currentSession(c), id)
	if err != nil {
		handleError(c, err, "DownloadPDF")
		return
	}

	c.Header("Content-Disposition", attachmentDisposition(issued.Filename))
	c.Data(http.StatusOK, "application/pdf", issued.PDF)
}

// attachmentDisposition always carries an ASCII filename. Names outside ASCII also get
// an RFC 5987 filename* parameter with the UTF-8 original.
func attachmentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r >= utf8.RuneSelf || r < ' ' || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	if fallback == name {
		return fmt.Sprintf(`attachment; filename="%s"`, name)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback,
		strings.ReplaceAll(url.QueryEscape(name), "+", "%20"))
}
