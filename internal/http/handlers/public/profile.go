package public

import (
	"github.com/shoply-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangeEmailRequest 更换邮箱请求
type ChangeEmailRequest struct {
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// AddressRequest 收货地址请求
type AddressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country" binding:"required"`
}

// GetProfile 获取当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(uid)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "fetch profile failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	user, err := h.UserService.UpdateProfile(uid, req.DisplayName)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "update profile failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// ChangePassword 修改当前用户密码
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if err := h.UserService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "change password failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// ChangeEmail 更换当前用户邮箱
func (h *Handler) ChangeEmail(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	user, err := h.UserService.ChangeEmail(uid, req.Password, req.Email)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "change email failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// UpsertAddress 创建或整体更新收货地址
func (h *Handler) UpsertAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	user, err := h.UserService.UpsertAddress(uid, req.Street, req.City, req.Country)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "update address failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}
