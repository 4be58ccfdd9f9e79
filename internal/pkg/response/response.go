// Package response writes the JSON envelopes shared by every HTTP handler.
package response

import (
	"net/http"
	"strconv"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

func List(c *gin.Context, data interface{}, total, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"data":      data,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Error maps err to its HTTP status and writes {"error": kind, "detail": msg}.
// Internal errors are logged and their detail is hidden.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(apperror.HTTPStatus(kind), gin.H{
		"error":  string(kind),
		"detail": apperror.Message(err),
	})
}

func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "bad_request",
		"detail": err.Error(),
	})
}

// Page reads ?page= and ?page_size=, defaulting to 1 and 20 and capping the
// size at 100.
func Page(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
