package admin

import (
	"errors"

	"github.com/shoply-api/internal/http/response"
	"github.com/shoply-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductNameTaken, code: response.CodeBadRequest, msg: "product name already exists"},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
	{target: service.ErrCategoryNameTaken, code: response.CodeBadRequest, msg: "category name already exists"},
	{target: service.ErrDiscountNotFound, code: response.CodeNotFound, msg: "discount not found"},
	{target: service.ErrDiscountNameTaken, code: response.CodeBadRequest, msg: "discount name already exists"},
	{target: service.ErrDiscountInvalid, code: response.CodeBadRequest, msg: "discount percent must be between 1 and 100"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity must not be negative"},
}

var orderAdminErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrLineItemNotFound, code: response.CodeNotFound, msg: "order item not found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity must be positive"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, msg: "invalid order status"},
}

var userAdminErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
}
