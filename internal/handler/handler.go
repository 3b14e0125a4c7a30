package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/quantlab/blotter/internal/blotter"
	"github.com/quantlab/blotter/internal/domain"
	"github.com/quantlab/blotter/internal/marketdata"
	"github.com/quantlab/blotter/internal/middleware"
)

// Handler holds the HTTP handler dependencies.
type Handler struct {
	blotter *blotter.Blotter
	feed    *marketdata.Feed
}

// NewHandler creates a new Handler.
func NewHandler(b *blotter.Blotter, feed *marketdata.Feed) *Handler {
	return &Handler{
		blotter: b,
		feed:    feed,
	}
}

// RegisterRoutes sets up the Gin routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	v1 := r.Group("/v1")
	{
		v1.POST("/order", h.PlaceOrder)
		v1.GET("/order/:id", h.GetOrder)
		v1.DELETE("/order/:id", h.CancelOrder)
		v1.GET("/orders", h.ListOrders)
		v1.DELETE("/orders", h.CancelAllForAsset)
		v1.POST("/marketdata/bar", h.SubmitBar)
		v1.GET("/marketdata/bars", h.GetBars)
		v1.GET("/fills", h.GetFills)
	}
}

// Health returns a health check response.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "blotter",
	})
}

// errStatus maps blotter error kinds to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateOrder),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PlaceOrderRequest is the request body for placing an order.
// Prices accept JSON numbers or strings; null/absent means unset.
type PlaceOrderRequest struct {
	Instrument string              `json:"instrument" binding:"required"`
	Action     domain.TradeAction  `json:"action" binding:"required"`
	Quantity   int64               `json:"quantity" binding:"required"`
	OrderType  domain.OrderType    `json:"order_type" binding:"required"`
	LimitPrice decimal.NullDecimal `json:"limit_price"`
	StopPrice  decimal.NullDecimal `json:"stop_price"`
	OrderID    string              `json:"order_id"`
}

// PlaceOrder handles POST /v1/order.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := h.blotter.PlaceOrder(req.Instrument, req.Quantity,
		req.Action, req.OrderType, req.LimitPrice, req.StopPrice, req.OrderID)
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	middleware.OrdersTotal.WithLabelValues("place", req.Instrument).Inc()
	middleware.OpenOrders.Set(float64(h.blotter.OpenCount()))

	order, _ := h.blotter.Get(orderID)
	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /v1/order/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	order, exists := h.blotter.Get(c.Param("id"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder handles DELETE /v1/order/:id. The instrument query parameter
// must match the instrument the order was placed on.
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID := c.Param("id")
	instrument := c.Query("instrument")
	if instrument == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instrument is required"})
		return
	}

	if err := h.blotter.CancelOrder(orderID, instrument); err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	middleware.OrdersTotal.WithLabelValues("cancel", instrument).Inc()
	middleware.OpenOrders.Set(float64(h.blotter.OpenCount()))

	order, _ := h.blotter.Get(orderID)
	c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /v1/orders. With ?instrument= it returns only the
// resting orders for that instrument; otherwise the whole blotter in
// placement order.
func (h *Handler) ListOrders(c *gin.Context) {
	instrument := c.Query("instrument")

	var orders []domain.Order
	if instrument != "" {
		orders = h.blotter.OpenOrdersFor(instrument)
	} else {
		orders = h.blotter.Orders()
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

// CancelAllForAsset handles DELETE /v1/orders?instrument=.
func (h *Handler) CancelAllForAsset(c *gin.Context) {
	instrument := c.Query("instrument")
	if instrument == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instrument is required"})
		return
	}

	cancelled := h.blotter.CancelAllForAsset(instrument)

	middleware.OrdersTotal.WithLabelValues("cancel_all", instrument).Inc()
	middleware.OpenOrders.Set(float64(h.blotter.OpenCount()))

	c.JSON(http.StatusOK, gin.H{
		"instrument": instrument,
		"cancelled":  cancelled,
	})
}

// SubmitBarRequest is the request body for pushing a price bar.
type SubmitBarRequest struct {
	Instrument string          `json:"instrument" binding:"required"`
	Timestamp  time.Time       `json:"timestamp" binding:"required"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
}

// SubmitBar handles POST /v1/marketdata/bar. The bar is queued for the
// feed's run loop; triggers are observable via GET /v1/fills.
func (h *Handler) SubmitBar(c *gin.Context) {
	var req SubmitBarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.High.LessThan(req.Low) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "high must be >= low"})
		return
	}

	b := &domain.Bar{
		Instrument: req.Instrument,
		Timestamp:  req.Timestamp,
		Open:       req.Open,
		High:       req.High,
		Low:        req.Low,
		Close:      req.Close,
	}
	if err := h.feed.Submit(b); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// GetBars handles GET /v1/marketdata/bars.
func (h *Handler) GetBars(c *gin.Context) {
	instrument := c.Query("instrument")
	if instrument == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instrument is required"})
		return
	}

	countStr := c.DefaultQuery("count", "100")
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		count = 100
	}

	bars := h.feed.RecentBars(instrument, count)
	if bars == nil {
		bars = []*domain.Bar{}
	}

	c.JSON(http.StatusOK, bars)
}

// GetFills handles GET /v1/fills.
func (h *Handler) GetFills(c *gin.Context) {
	instrument := c.Query("instrument")
	orderID := c.Query("order_id")
	sinceStr := c.Query("since")

	var since time.Time
	if sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since format, use RFC3339"})
			return
		}
		since = parsed
	}

	fills := h.feed.Fills(instrument, orderID, since)
	if fills == nil {
		fills = []*domain.Fill{}
	}

	c.JSON(http.StatusOK, fills)
}
