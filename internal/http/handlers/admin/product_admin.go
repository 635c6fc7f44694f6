package admin

import (
	"strconv"

	"github.com/shoply-api/internal/cache"
	"github.com/shoply-api/internal/http/handlers/shared"
	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/repository"
	"github.com/shoply-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Price       models.Money `json:"price" binding:"required"`
	Currency    string       `json:"currency"`
	IsActive    *bool        `json:"is_active"`
	DiscountID  *uint        `json:"discount_id"`
	CategoryIDs []uint       `json:"category_ids"`
	Quantity    *int         `json:"quantity"`
}

// InventoryRequest 库存设置请求
type InventoryRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ListProducts 商品列表（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Pagination.DefaultPageSize, h.Config.Pagination.MaxPageSize)

	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Search:     c.Query("search"),
		CategoryID: uint(categoryID),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "fetch products failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "fetch product failed")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Create(productInputFromRequest(req))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "create product failed")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Update(id, productInputFromRequest(req))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "update product failed")
		return
	}
	h.purgeProductCache(c, id)
	response.Success(c, gin.H{"product": product})
}

// SetInventory 设置商品库存量
func (h *Handler) SetInventory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.SetInventory(id, *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "set inventory failed")
		return
	}
	h.purgeProductCache(c, id)
	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "delete product failed")
		return
	}
	h.purgeProductCache(c, id)
	response.Success(c, gin.H{"deleted": true})
}

func productInputFromRequest(req ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		IsActive:    req.IsActive,
		DiscountID:  req.DiscountID,
		CategoryIDs: req.CategoryIDs,
		Quantity:    req.Quantity,
	}
}

func (h *Handler) purgeProductCache(c *gin.Context, productID uint) {
	if err := cache.Del(c.Request.Context(), cache.ProductKey(productID)); err != nil {
		shared.RequestLog(c).Warnw("product_cache_del_failed", "product_id", productID, "error", err)
	}
}
