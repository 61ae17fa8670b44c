// Package http 账本服务接口
package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/loganrenz/trade-io-sub000/internal/ledger/application"
	"github.com/loganrenz/trade-io-sub000/pkg/response"
)

type Handler struct {
	service *application.LedgerService
}

func NewHandler(service *application.LedgerService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/accounts/:id/ledger")
	{
		g.GET("/entries", h.ListEntries)
		g.GET("/integrity", h.VerifyIntegrity)
	}
}

func (h *Handler) ListEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	entries, total, err := h.service.ListEntries(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"entries": entries, "total": total})
}

// VerifyIntegrity 校验会计恒等式：
// Cash + Securities = Initial Capital + Gains - Losses - Commission - Fees
func (h *Handler) VerifyIntegrity(c *gin.Context) {
	report, err := h.service.VerifyIntegrity(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, report)
}
