package handler

import (
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/cart"
	"github.com/Emmanuel-365/chezflora-api/internal/cart/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{uc: uc, logger: log}
}

// Register mounts the caller's cart routes. The cart is always the one of the
// authenticated user.
func (h *CartHandler) Register(r *gin.RouterGroup) {
	r.GET("/cart", h.GetCart)
	r.POST("/cart/lines", h.AddLine)
	r.PUT("/cart/lines/:product_id", h.SetQuantity)
	r.DELETE("/cart/lines/:product_id", h.RemoveLine)
	r.POST("/cart/checkout", h.Checkout)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.uc.GetCart(c.Request.Context(), auth.CurrentUser(c).UserID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, view)
}

type addLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	line, err := h.uc.AddLine(c.Request.Context(), &dto.AddLineInput{
		ClientID:  auth.CurrentUser(c).UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, line)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	line, err := h.uc.SetQuantity(c.Request.Context(), &dto.SetQuantityInput{
		ClientID:  auth.CurrentUser(c).UserID,
		ProductID: c.Param("product_id"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, line)
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	err := h.uc.RemoveLine(c.Request.Context(), &dto.RemoveLineInput{
		ClientID:  auth.CurrentUser(c).UserID,
		ProductID: c.Param("product_id"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

type checkoutRequest struct {
	Address string `json:"address"`
}

func (h *CartHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	o, err := h.uc.Checkout(c.Request.Context(), &dto.CheckoutInput{
		ClientID: auth.CurrentUser(c).UserID,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, o)
}
