package handler

import (
	"net/http"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/response"
	"github.com/Emmanuel-365/chezflora-api/internal/workshop"
	"github.com/Emmanuel-365/chezflora-api/internal/workshop/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WorkshopHandler struct {
	uc     workshop.UseCase
	logger logger.ZapLogger
}

func NewWorkshopHandler(uc workshop.UseCase, log logger.ZapLogger) *WorkshopHandler {
	return &WorkshopHandler{uc: uc, logger: log}
}

func (h *WorkshopHandler) Register(r, admin *gin.RouterGroup) {
	r.GET("/workshops", h.ListAvailable)
	r.GET("/workshops/:id", h.Get)
	r.POST("/workshops/:id/enroll", h.Enroll)
	r.POST("/workshops/:id/withdraw", h.Withdraw)

	admin.POST("/workshops", h.Create)
	admin.POST("/workshops/:id/cancel", h.Cancel)
	admin.POST("/workshops/:id/participants/:user_id/attended", h.MarkAttended)
}

type createRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date" binding:"required"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	TotalSeats      int             `json:"total_seats"`
}

func (h *WorkshopHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	w, err := h.uc.Create(c.Request.Context(), &dto.CreateWorkshopInput{
		Name:            req.Name,
		Description:     req.Description,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		TotalSeats:      req.TotalSeats,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, w)
}

func (h *WorkshopHandler) Get(c *gin.Context) {
	w, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, w)
}

func (h *WorkshopHandler) ListAvailable(c *gin.Context) {
	ws, err := h.uc.ListAvailable(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, ws)
}

func (h *WorkshopHandler) Enroll(c *gin.Context) {
	p, err := h.uc.Enroll(c.Request.Context(), &dto.EnrollmentInput{WorkshopID: c.Param("id"), Actor: auth.CurrentUser(c)})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, p)
}

func (h *WorkshopHandler) Withdraw(c *gin.Context) {
	err := h.uc.Withdraw(c.Request.Context(), &dto.EnrollmentInput{WorkshopID: c.Param("id"), Actor: auth.CurrentUser(c)})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *WorkshopHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	w, err := h.uc.Cancel(c.Request.Context(), &dto.CancelWorkshopInput{
		WorkshopID: c.Param("id"),
		Reason:     req.Reason,
		Actor:      auth.CurrentUser(c),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, w)
}

func (h *WorkshopHandler) MarkAttended(c *gin.Context) {
	p, err := h.uc.MarkAttended(c.Request.Context(), &dto.MarkAttendedInput{
		WorkshopID: c.Param("id"),
		UserID:     c.Param("user_id"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}
