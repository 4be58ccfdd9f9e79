package handler

import (
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/response"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription/dto"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	uc     subscription.UseCase
	logger logger.ZapLogger
}

func NewSubscriptionHandler(uc subscription.UseCase, log logger.ZapLogger) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc, logger: log}
}

func (h *SubscriptionHandler) Register(r, admin *gin.RouterGroup) {
	r.POST("/subscriptions", h.Create)
	r.GET("/subscriptions/:id", h.Get)
	r.PUT("/subscriptions/:id/items", h.UpdateItems)
	r.POST("/subscriptions/:id/cancel", h.Cancel)

	admin.POST("/subscriptions/:id/orders", h.GenerateOrder)
	admin.POST("/subscriptions/:id/bill", h.Bill)
}

type itemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func toItems(in []itemRequest) []dto.ItemInput {
	out := make([]dto.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, dto.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

type createRequest struct {
	Cadence   string        `json:"cadence" binding:"required"`
	StartDate time.Time     `json:"start_date" binding:"required"`
	EndDate   *time.Time    `json:"end_date"`
	Items     []itemRequest `json:"items" binding:"dive"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	sub, err := h.uc.Create(c.Request.Context(), &dto.CreateSubscriptionInput{
		ClientID:  auth.CurrentUser(c).UserID,
		Cadence:   model.Cadence(req.Cadence),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Items:     toItems(req.Items),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, sub)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	sub, err := h.uc.Get(c.Request.Context(), c.Param("id"), auth.CurrentUser(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, sub)
}

type updateItemsRequest struct {
	Items []itemRequest `json:"items" binding:"dive"`
}

func (h *SubscriptionHandler) UpdateItems(c *gin.Context) {
	var req updateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	sub, err := h.uc.UpdateItems(c.Request.Context(), &dto.UpdateItemsInput{
		SubscriptionID: c.Param("id"),
		Items:          toItems(req.Items),
		Actor:          auth.CurrentUser(c),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, sub)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	sub, err := h.uc.Cancel(c.Request.Context(), &dto.CancelSubscriptionInput{
		SubscriptionID: c.Param("id"),
		Actor:          auth.CurrentUser(c),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, sub)
}

func (h *SubscriptionHandler) GenerateOrder(c *gin.Context) {
	o, err := h.uc.GenerateOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"order": o, "generated": o != nil})
}

func (h *SubscriptionHandler) Bill(c *gin.Context) {
	p, err := h.uc.Bill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, p)
}
