package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is the envelope every endpoint answers with:
// {"code": <http status>, "data": <payload or null>, "message": <text>}.
type ServiceResult struct {
	StatusCode int    `json:"code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// Write renders the envelope with its own status code.
func (result *ServiceResult) Write(c *RequestContext) {
	c.JSON(result.StatusCode, result)
}

// Abort renders the envelope and stops the remaining handlers.
func (result *ServiceResult) Abort(c *RequestContext) {
	c.AbortWithStatusJSON(result.StatusCode, result)
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}
