package shared

import (
	"errors"
	"strings"

	"github.com/easyq-blog/internal/http/response"
	"github.com/easyq-blog/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

var serviceErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest},
	{target: service.ErrPasswordRequired, code: response.CodeBadRequest},
	{target: service.ErrNotFound, code: response.CodeNotFound},
	{target: service.ErrSlugExists, code: response.CodeConflict},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized},
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized, msg: "Unauthorized"},
}

// RespondServiceError 按业务错误类型返回对应状态码，未知错误统一 500
func RespondServiceError(c *gin.Context, err error, fallbackMsg string) {
	if appErr, ok := response.AsAppError(err); ok {
		RespondError(c, appErr.Code, appErr.Message, appErr.Err)
		return
	}
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.target) {
			msg := rule.msg
			if msg == "" {
				msg = clientMessage(err, rule.target)
			}
			RespondError(c, rule.code, msg, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, fallbackMsg, err)
}

// clientMessage 校验类错误的细节对调用方可见
func clientMessage(err, target error) string {
	if errors.Is(target, service.ErrValidation) {
		if detail := strings.TrimPrefix(err.Error(), target.Error()+": "); detail != "" {
			return detail
		}
	}
	return target.Error()
}
