package handler

import (
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/order"
	"github.com/Emmanuel-365/chezflora-api/internal/order/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) Register(r, admin *gin.RouterGroup) {
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)

	admin.PUT("/orders/:id/status", h.AdvanceStatus)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.uc.ListOrders(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("id"), auth.CurrentUser(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, o)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	o, err := h.uc.CancelOrder(c.Request.Context(), &dto.CancelOrderInput{
		OrderID: c.Param("id"),
		Actor:   auth.CurrentUser(c),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, o)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	o, err := h.uc.AdvanceStatus(c.Request.Context(), &dto.AdvanceStatusInput{
		OrderID: c.Param("id"),
		Status:  model.OrderStatus(req.Status),
		Actor:   auth.CurrentUser(c),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, o)
}
