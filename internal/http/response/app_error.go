package response

import "fmt"

// AppError 业务错误，携带响应码、对外文案与底层原因
// Msg 随响应返回给调用方，Cause 只进日志。
type AppError struct {
	Code  int
	Msg   string
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 构造业务错误
func NewAppError(code int, msg string, cause error) *AppError {
	return &AppError{
		Code:  code,
		Msg:   msg,
		Cause: cause,
	}
}
