package handler

import (
	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	uc     payment.UseCase
	logger logger.ZapLogger
}

func NewPaymentHandler(uc payment.UseCase, log logger.ZapLogger) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: log}
}

// Register mounts payment lookups on r and the manual settlement routes,
// used when the gateway simulator is not running, on admin.
func (h *PaymentHandler) Register(r, admin *gin.RouterGroup) {
	r.GET("/payments/:id", h.GetPayment)

	admin.GET("/payments", h.ListPayments)
	admin.POST("/payments/:id/settle", h.Settle)
	admin.POST("/payments/:id/fail", h.Fail)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.uc.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if !auth.CurrentUser(c).CanActFor(p.ClientID) {
		response.Error(c, h.logger, apperror.Unauthorized("payment %s belongs to another client", p.ID))
		return
	}
	response.OK(c, p)
}

// ListPayments expects ?kind=order|subscription|workshop&id=...
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	target := model.PaymentTarget{Kind: model.PaymentTargetKind(c.Query("kind")), ID: c.Query("id")}
	list, err := h.uc.ListPayments(c.Request.Context(), target)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, list)
}

func (h *PaymentHandler) Settle(c *gin.Context) {
	p, err := h.uc.Settle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}

func (h *PaymentHandler) Fail(c *gin.Context) {
	p, err := h.uc.Fail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}
