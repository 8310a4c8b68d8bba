package apiutil

import (
	"net/http"

	"github.com/Aidin1998/foodgram/api/responses"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WriteError writes err as a problem response. Server side failures are logged with the request logger.
func WriteError(c *gin.Context, log *zap.Logger, err error) {
	problem := ProblemFromError(err, c.Request.URL.Path)
	if problem.Status >= http.StatusInternalServerError {
		RequestLogger(c, log).Error("request failed", zap.Error(err))
	}
	responses.Error(c, problem)
}
