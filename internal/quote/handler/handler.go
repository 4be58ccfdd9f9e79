package handler

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/response"
	"github.com/Emmanuel-365/chezflora-api/internal/quote"
	"github.com/Emmanuel-365/chezflora-api/internal/quote/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type QuoteHandler struct {
	uc     quote.UseCase
	logger logger.ZapLogger
}

func NewQuoteHandler(uc quote.UseCase, log logger.ZapLogger) *QuoteHandler {
	return &QuoteHandler{uc: uc, logger: log}
}

func (h *QuoteHandler) Register(r, admin *gin.RouterGroup) {
	r.POST("/quotes", h.Create)
	r.GET("/quotes/:id", h.Get)
	r.POST("/quotes/:id/submit", h.action(h.uc.Submit))
	r.POST("/quotes/:id/accept", h.action(h.uc.Accept))
	r.POST("/quotes/:id/refuse", h.action(h.uc.Refuse))

	admin.POST("/quotes/:id/response", h.ProposeResponse)
}

type createRequest struct {
	ServiceID      string           `json:"service_id" binding:"required"`
	Description    string           `json:"description" binding:"required"`
	RequestedPrice *decimal.Decimal `json:"requested_price"`
	Submit         bool             `json:"submit"`
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	q, err := h.uc.Create(c.Request.Context(), &dto.CreateQuoteInput{
		ClientID:       auth.CurrentUser(c).UserID,
		ServiceID:      req.ServiceID,
		Description:    req.Description,
		RequestedPrice: req.RequestedPrice,
		Submit:         req.Submit,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, q)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	q, err := h.uc.Get(c.Request.Context(), c.Param("id"), auth.CurrentUser(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, q)
}

type actionFunc func(ctx context.Context, input *dto.QuoteActionInput) (*model.Quote, error)

func (h *QuoteHandler) action(fn actionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := fn(c.Request.Context(), &dto.QuoteActionInput{QuoteID: c.Param("id"), Actor: auth.CurrentUser(c)})
		if err != nil {
			response.Error(c, h.logger, err)
			return
		}
		response.OK(c, q)
	}
}

type responseRequest struct {
	Status  string           `json:"status" binding:"required"`
	Price   *decimal.Decimal `json:"price"`
	Comment *string          `json:"comment"`
}

func (h *QuoteHandler) ProposeResponse(c *gin.Context) {
	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	q, err := h.uc.ProposeResponse(c.Request.Context(), &dto.ProposeResponseInput{
		QuoteID: c.Param("id"),
		Status:  model.QuoteStatus(req.Status),
		Price:   req.Price,
		Comment: req.Comment,
		Actor:   auth.CurrentUser(c),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, q)
}
