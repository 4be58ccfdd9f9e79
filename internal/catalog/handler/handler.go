package handler

import (
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: log}
}

// Register mounts read routes on r and management routes on admin.
func (h *CatalogHandler) Register(r, admin *gin.RouterGroup) {
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)

	admin.POST("/categories", h.CreateCategory)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.POST("/products/:id/stock", h.AdjustStock)
	admin.POST("/promotions", h.CreatePromotion)
	admin.POST("/promotions/:id/deactivate", h.DeactivatePromotion)
	admin.POST("/photos", h.AddPhoto)
	admin.POST("/products/low-stock/notify", h.NotifyLowStock)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, cat)
}

type productRequest struct {
	CategoryID  string          `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"is_active"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, p)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:          c.Param("id"),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    active,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}

// ListProducts serves both browsing and ?q= text search. Clients only see
// active products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, size := response.Page(c)
	filters := &dto.ProductFilters{
		CategoryID:  c.Query("category_id"),
		SearchQuery: c.Query("q"),
		ActiveOnly:  !auth.CurrentUser(c).IsAdmin(),
		Page:        page,
		PageSize:    size,
	}
	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, products, total, page, size)
}

type stockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	p, err := h.uc.AdjustStock(c.Request.Context(), &dto.AdjustStockInput{
		ProductID: c.Param("id"),
		Delta:     req.Delta,
		Reason:    req.Reason,
		UserID:    auth.CurrentUser(c).UserID,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}

type promotionRequest struct {
	Name       string          `json:"name" binding:"required"`
	Discount   decimal.Decimal `json:"discount"`
	StartsAt   time.Time       `json:"starts_at" binding:"required"`
	EndsAt     time.Time       `json:"ends_at" binding:"required"`
	CategoryID string          `json:"category_id"`
	ProductIDs []string        `json:"product_ids"`
}

func (h *CatalogHandler) CreatePromotion(c *gin.Context) {
	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	promo, err := h.uc.CreatePromotion(c.Request.Context(), &dto.CreatePromotionInput{
		Name:       req.Name,
		Discount:   req.Discount,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		CategoryID: req.CategoryID,
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, promo)
}

func (h *CatalogHandler) DeactivatePromotion(c *gin.Context) {
	promo, err := h.uc.DeactivatePromotion(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, promo)
}

type photoRequest struct {
	OwnerKind string `json:"owner_kind" binding:"required"`
	OwnerID   string `json:"owner_id" binding:"required"`
	URL       string `json:"url" binding:"required"`
}

func (h *CatalogHandler) AddPhoto(c *gin.Context) {
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	photo, err := h.uc.AddPhoto(c.Request.Context(), &dto.AddPhotoInput{
		Owner: model.PhotoOwner{Kind: model.PhotoOwnerKind(req.OwnerKind), ID: req.OwnerID},
		URL:   req.URL,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, photo)
}

func (h *CatalogHandler) NotifyLowStock(c *gin.Context) {
	res, err := h.uc.NotifyLowStock(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, res)
}
