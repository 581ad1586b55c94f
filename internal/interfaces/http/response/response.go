package response

import (
	"errors"

	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Bare domain sentinels get their matching status;
// anything else is logged and hidden behind a generic 500.
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.Code == domainerrors.CodeInternalError {
		logger.Error(c.Request.Context(), "Request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Action != "" {
		body["action"] = appErr.Action
	}
	c.JSON(appErr.Status, body)
}

func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrConflict):
		return domainerrors.Conflict("resource already claimed")
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return domainerrors.BadRequest("invalid input")
	case errors.Is(err, domainerrors.ErrUnsupportedPlatform):
		return domainerrors.UnsupportedPlatform("unsupported platform")
	default:
		return domainerrors.InternalError(err)
	}
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
