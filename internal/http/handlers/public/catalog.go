package public

import (
	"strconv"
	"time"

	"github.com/shoply-api/internal/cache"
	"github.com/shoply-api/internal/http/handlers/shared"
	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/repository"
	"github.com/shoply-api/internal/service"

	"github.com/gin-gonic/gin"
)

const productCacheTTL = 5 * time.Minute

// ProductView 商品展示结构，带折后成交价
type ProductView struct {
	models.Product
	EffectivePrice models.Money `json:"effective_price"`
}

func newProductView(product *models.Product) ProductView {
	return ProductView{
		Product:        *product,
		EffectivePrice: service.EffectiveUnitPrice(product),
	}
}

// ListProducts 商品列表（仅上架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Pagination.DefaultPageSize, h.Config.Pagination.MaxPageSize)

	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	filter := repository.ProductListFilter{
		Search:     c.Query("search"),
		CategoryID: uint(categoryID),
		OnlyActive: true,
		Page:       page,
		PageSize:   pageSize,
	}
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch products failed", err)
		return
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}
	response.SuccessWithPage(c, gin.H{"products": views}, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情，带缓存
func (h *Handler) GetProduct(c *gin.Context) {
	rawID := c.Param("id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	ctx := c.Request.Context()
	cacheKey := cache.ProductKey(uint(productID))
	var cached ProductView
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		response.Success(c, gin.H{"product": cached})
		return
	}

	product, err := h.ProductService.GetByID(uint(productID))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "fetch product failed")
		return
	}
	if !product.IsActive {
		respondError(c, response.CodeNotFound, "product not found", nil)
		return
	}
	view := newProductView(product)
	if err := cache.SetJSON(ctx, cacheKey, view, productCacheTTL); err != nil {
		shared.RequestLog(c).Warnw("product_cache_set_failed", "product_id", productID, "error", err)
	}
	response.Success(c, gin.H{"product": view})
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Pagination.DefaultPageSize, h.Config.Pagination.MaxPageSize)

	categories, total, err := h.CategoryService.List(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch categories failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"categories": categories}, response.NewPagination(page, pageSize, total))
}
