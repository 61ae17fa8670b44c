// Package http 持仓服务接口
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/loganrenz/trade-io-sub000/internal/position/application"
	"github.com/loganrenz/trade-io-sub000/pkg/response"
)

type Handler struct {
	service *application.PositionService
}

func NewHandler(service *application.PositionService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/accounts/:id/positions")
	{
		g.GET("", h.ListPositions)
		g.GET("/:symbol", h.GetPosition)
		g.GET("/:symbol/executions", h.GetExecutions)
		g.POST("/:symbol/rebuild", h.RebuildPosition)
	}
}

func (h *Handler) ListPositions(c *gin.Context) {
	positions, err := h.service.ListPositions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, positions)
}

func (h *Handler) GetPosition(c *gin.Context) {
	position, err := h.service.GetPosition(c.Request.Context(), c.Param("id"), c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	// 无持仓不是错误，返回空对象让客户端自行判断
	response.Success(c, position)
}

func (h *Handler) GetExecutions(c *gin.Context) {
	executions, err := h.service.PositionHistory(c.Request.Context(), c.Param("id"), c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, executions)
}

// RebuildPosition 从成交日志重算持仓缓存，排查不一致时使用
func (h *Handler) RebuildPosition(c *gin.Context) {
	snapshot, err := h.service.RebuildPosition(c.Request.Context(), c.Param("id"), c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snapshot)
}
