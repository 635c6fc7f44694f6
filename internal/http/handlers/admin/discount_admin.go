package admin

import (
	"strconv"

	"github.com/shoply-api/internal/http/handlers/shared"
	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/service"

	"github.com/gin-gonic/gin"
)

// DiscountRequest 折扣创建/更新请求
type DiscountRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Percent     int    `json:"percent" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

// ListDiscounts 折扣列表
func (h *Handler) ListDiscounts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Pagination.DefaultPageSize, h.Config.Pagination.MaxPageSize)

	discounts, total, err := h.DiscountService.List(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch discounts failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"discounts": discounts}, response.NewPagination(page, pageSize, total))
}

// GetDiscount 折扣详情
func (h *Handler) GetDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	discount, err := h.DiscountService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "fetch discount failed")
		return
	}
	response.Success(c, gin.H{"discount": discount})
}

// CreateDiscount 创建折扣
func (h *Handler) CreateDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	discount, err := h.DiscountService.Create(service.DiscountInput{
		Name:        req.Name,
		Description: req.Description,
		Percent:     req.Percent,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "create discount failed")
		return
	}
	response.Success(c, gin.H{"discount": discount})
}

// UpdateDiscount 更新折扣
func (h *Handler) UpdateDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	discount, err := h.DiscountService.Update(id, service.DiscountInput{
		Name:        req.Name,
		Description: req.Description,
		Percent:     req.Percent,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "update discount failed")
		return
	}
	response.Success(c, gin.H{"discount": discount})
}

// DeleteDiscount 删除折扣
func (h *Handler) DeleteDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.DiscountService.Delete(id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "delete discount failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
