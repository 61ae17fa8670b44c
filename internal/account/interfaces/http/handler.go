// Package http 账户服务接口
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/loganrenz/trade-io-sub000/internal/account/application"
	"github.com/loganrenz/trade-io-sub000/internal/account/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/loganrenz/trade-io-sub000/pkg/response"
)

type Handler struct {
	service *application.AccountService
}

func NewHandler(service *application.AccountService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/accounts")
	{
		g.POST("", h.OpenAccount)
		g.GET("/:id", h.GetAccount)
		g.GET("/:id/summary", h.GetSummary)
		g.PUT("/:id/status", h.SetStatus)
	}
}

type OpenAccountReq struct {
	UserID      string `json:"user_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	InitialCash string `json:"initial_cash" binding:"required"`
}

func (h *Handler) OpenAccount(c *gin.Context) {
	var req OpenAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.NewValidation("body", err.Error()))
		return
	}

	initialCash, err := decimal.NewFromString(req.InitialCash)
	if err != nil {
		response.Error(c, errs.NewValidation("initial_cash", "not a valid number"))
		return
	}

	account, err := h.service.OpenAccount(c.Request.Context(), req.UserID, req.Name, initialCash)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

func (h *Handler) GetAccount(c *gin.Context) {
	account, err := h.service.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

type SetStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errs.NewValidation("body", err.Error()))
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), c.Param("id"), domain.AccountStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"account_id": c.Param("id"), "status": req.Status})
}
