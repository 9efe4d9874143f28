package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nrasaily/SleepSentinelPro/internal"
	"github.com/nrasaily/SleepSentinelPro/internal/response"
)

// HandleError logs the failure with its correlation fields and writes
// the error envelope. The public message carries the wrapped error so
// clients see what was rejected; the log line adds route context.
func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	logger.Errorf("request_id=%s method=%s route=%s status=%d %s: %v",
		RequestID(c), c.Request.Method, c.FullPath(), status, msg, err)
	c.JSON(status, response.NewAppError(status, msg+": "+err.Error()))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	logger.Debugf("request_id=%s method=%s route=%s status=%d",
		RequestID(c), c.Request.Method, c.FullPath(), http.StatusOK)
	c.JSON(http.StatusOK, response.Success(data, meta))
}
