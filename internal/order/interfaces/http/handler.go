// Package http 订单服务接口
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/loganrenz/trade-io-sub000/internal/order/application"
	"github.com/loganrenz/trade-io-sub000/internal/order/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/loganrenz/trade-io-sub000/pkg/response"
)

type Handler struct {
	service *application.OrderService
}

func NewHandler(service *application.OrderService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/orders")
	{
		g.POST("", h.PlaceOrder)
		g.GET("", h.ListOrders)
		g.GET("/:id", h.GetOrder)
		g.GET("/:id/events", h.GetOrderEvents)
		g.PATCH("/:id", h.ModifyOrder)
		g.DELETE("/:id", h.CancelOrder)
	}
}

type PlaceOrderReq struct {
	AccountID   string `json:"account_id" binding:"required"`
	Symbol      string `json:"symbol" binding:"required"`
	Side        string `json:"side" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	LimitPrice  string `json:"limit_price"`
	StopPrice   string `json:"stop_price"`
	TimeInForce string `json:"time_in_force"`
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.NewValidation("body", err.Error()))
		return
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		response.Error(c, errs.NewValidation("quantity", "not a valid number"))
		return
	}
	limitPrice, err := parseOptionalPrice(req.LimitPrice, "limit_price")
	if err != nil {
		response.Error(c, err)
		return
	}
	stopPrice, err := parseOptionalPrice(req.StopPrice, "stop_price")
	if err != nil {
		response.Error(c, err)
		return
	}

	tif := domain.TimeInForce(req.TimeInForce)
	if req.TimeInForce == "" {
		tif = domain.TimeInForceDay
	}

	cmd := application.PlaceOrderCommand{
		AccountID:      req.AccountID,
		Symbol:         req.Symbol,
		Side:           domain.OrderSide(req.Side),
		Type:           domain.OrderType(req.Type),
		Quantity:       quantity,
		LimitPrice:     limitPrice,
		StopPrice:      stopPrice,
		TimeInForce:    tif,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), cmd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

func (h *Handler) GetOrderEvents(c *gin.Context) {
	events, err := h.service.OrderEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, events)
}

type ListOrdersReq struct {
	AccountID string `form:"account_id"`
	Symbol    string `form:"symbol"`
	Status    string `form:"status"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

func (h *Handler) ListOrders(c *gin.Context) {
	var req ListOrdersReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, errs.NewValidation("query", err.Error()))
		return
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), domain.OrderFilter{
		AccountID: req.AccountID,
		Symbol:    req.Symbol,
		Status:    domain.OrderStatus(req.Status),
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"orders": orders, "total": total})
}

type ModifyOrderReq struct {
	Quantity        string `json:"quantity"`
	LimitPrice      string `json:"limit_price"`
	StopPrice       string `json:"stop_price"`
	ExpectedVersion int64  `json:"expected_version"`
}

func (h *Handler) ModifyOrder(c *gin.Context) {
	var req ModifyOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.NewValidation("body", err.Error()))
		return
	}

	quantity, err := parseOptionalPrice(req.Quantity, "quantity")
	if err != nil {
		response.Error(c, err)
		return
	}
	limitPrice, err := parseOptionalPrice(req.LimitPrice, "limit_price")
	if err != nil {
		response.Error(c, err)
		return
	}
	stopPrice, err := parseOptionalPrice(req.StopPrice, "stop_price")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.service.ModifyOrder(c.Request.Context(), application.ModifyOrderCommand{
		OrderID:         c.Param("id"),
		Quantity:        quantity,
		LimitPrice:      limitPrice,
		StopPrice:       stopPrice,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

type CancelOrderReq struct {
	ExpectedVersion int64  `json:"expected_version"`
	Reason          string `json:"reason"`
}

func (h *Handler) CancelOrder(c *gin.Context) {
	var req CancelOrderReq
	// DELETE 可以不带请求体
	_ = c.ShouldBindJSON(&req)

	order, err := h.service.CancelOrder(c.Request.Context(), application.CancelOrderCommand{
		OrderID:         c.Param("id"),
		ExpectedVersion: req.ExpectedVersion,
		Reason:          req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

func parseOptionalPrice(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.NewValidation(field, "not a valid number")
	}
	return value, nil
}
