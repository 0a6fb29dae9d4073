package middleware

import (
	ierr "erp/internal/errors"
	"erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		c.JSON(status, response.Error(status, ierr.DisplayMessage(err)))
	}
}
