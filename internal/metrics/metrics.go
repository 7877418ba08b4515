package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Purchase outcomes recorded in ticketify_purchases_total.
const (
	PurchaseCreated  = "created"
	PurchaseReplayed = "replayed"
	PurchaseRejected = "rejected"
	PurchaseFailed   = "failed"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketify_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	purchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketify_purchases_total",
			Help: "Ticket purchase attempts by outcome",
		},
		[]string{"result"},
	)

	ticketsSoldTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketify_tickets_sold_total",
			Help: "Sum of quantities of committed ledger rows",
		},
	)

	revenueTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketify_revenue_total",
			Help: "Sum of total_price of committed ledger rows",
		},
	)

	ticketsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketify_tickets_issued_total",
			Help: "PDF ticket renders by outcome",
		},
		[]string{"result"},
	)

	purchaseEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketify_purchase_events_total",
			Help: "Purchase events consumed by the worker by outcome",
		},
		[]string{"result"},
	)
)

func ObservePurchase(result string, quantity int, total decimal.Decimal) {
	purchasesTotal.WithLabelValues(result).Inc()
	if result == PurchaseCreated {
		ticketsSoldTotal.Add(float64(quantity))
		revenueTotal.Add(total.InexactFloat64())
	}
}

func ObserveIssuance(err error) {
	if err != nil {
		ticketsIssuedTotal.WithLabelValues("failed").Inc()
		return
	}
	ticketsIssuedTotal.WithLabelValues("ok").Inc()
}

func ObservePurchaseEvent(err error) {
	if err != nil {
		purchaseEventsTotal.WithLabelValues("retry").Inc()
		return
	}
	purchaseEventsTotal.WithLabelValues("ok").Inc()
}

// Middleware records request latency labelled by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
