package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-paywall/internal/api/shared/errors"
	"github.com/feral-file/ff-paywall/internal/logger"
)

// respondError responds with the status matching the API error
func respondError(c *gin.Context, apiErr *errors.APIError) {
	c.JSON(apiErr.Status(), apiErr)
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, errors.NewValidationError(message))
}

// respondInternalError logs err and responds with an internal server error
func respondInternalError(c *gin.Context, err error, message string, details ...string) {
	logger.ErrorCtx(c.Request.Context(), err, zap.String("message", message), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, errors.NewInternalError(message, details...))
}
