package admin

import (
	"strconv"

	"github.com/shoply-api/internal/http/handlers/shared"
	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = shared.NormalizePagination(page, pageSize, h.Config.Pagination.DefaultPageSize, h.Config.Pagination.MaxPageSize)

	users, total, err := h.UserService.List(repository.UserListFilter{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "fetch users failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"users": users}, response.NewPagination(page, pageSize, total))
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, userAdminErrorRules, response.CodeInternal, "fetch user failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}
