// Package http 行情服务接口
package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/loganrenz/trade-io-sub000/internal/marketdata/domain"
	"github.com/loganrenz/trade-io-sub000/internal/marketdata/infrastructure"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/loganrenz/trade-io-sub000/pkg/response"
)

// OrderEvaluator 新报价落地后触发挂单重估
type OrderEvaluator interface {
	EvaluateOpenOrders(ctx context.Context, symbol string, quote *domain.Quote) (int, error)
}

type Handler struct {
	store     *infrastructure.RedisQuoteStore
	evaluator OrderEvaluator
}

func NewHandler(store *infrastructure.RedisQuoteStore, evaluator OrderEvaluator) *Handler {
	return &Handler{store: store, evaluator: evaluator}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/quotes")
	{
		g.POST("", h.PublishQuote)
		g.GET("/:symbol", h.GetQuote)
	}
}

type PublishQuoteReq struct {
	Symbol string `json:"symbol" binding:"required"`
	Bid    string `json:"bid" binding:"required"`
	Ask    string `json:"ask" binding:"required"`
	Last   string `json:"last"`
}

// PublishQuote 接收一条报价：先落地，再重估该标的的全部挂单
func (h *Handler) PublishQuote(c *gin.Context) {
	var req PublishQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.NewValidation("body", err.Error()))
		return
	}

	bid, err := decimal.NewFromString(req.Bid)
	if err != nil {
		response.Error(c, errs.NewValidation("bid", "not a valid number"))
		return
	}
	ask, err := decimal.NewFromString(req.Ask)
	if err != nil {
		response.Error(c, errs.NewValidation("ask", "not a valid number"))
		return
	}
	if !bid.IsPositive() || !ask.IsPositive() || bid.GreaterThan(ask) {
		response.Error(c, errs.NewValidation("bid", "quote must have 0 < bid <= ask"))
		return
	}
	last := decimal.Zero
	if req.Last != "" {
		if last, err = decimal.NewFromString(req.Last); err != nil {
			response.Error(c, errs.NewValidation("last", "not a valid number"))
			return
		}
	}

	quote := &domain.Quote{
		Symbol:    req.Symbol,
		Bid:       bid,
		Ask:       ask,
		Last:      last,
		UpdatedAt: time.Now(),
	}
	if err := h.store.SaveQuote(c.Request.Context(), quote); err != nil {
		response.Error(c, err)
		return
	}

	filled, err := h.evaluator.EvaluateOpenOrders(c.Request.Context(), quote.Symbol, quote)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"symbol": quote.Symbol, "orders_filled": filled})
}

func (h *Handler) GetQuote(c *gin.Context) {
	quote, err := h.store.CurrentQuote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if quote == nil {
		response.Error(c, &errs.NotFoundError{Entity: "quote", ID: c.Param("symbol")})
		return
	}
	response.Success(c, quote)
}
