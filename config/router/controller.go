package router

import (
	"fmt"
	"net/http"
	"path"

	"github.com/akeren/wallet-waitlist/pkg/ratelimit"
)

// NewRESTController mounts a group of handlers under mountPoint.
// prepare runs once, from MountController, and registers the handlers.
func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: path.Join("/", mountPoint),
		prepare:    prepare,
	}
}

// NewVersionedRESTController prefixes the mount point with version, e.g. "v1" + "/waitlist" -> "/v1/waitlist".
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: path.Join("/", version, mountPoint),
		version:    version,
		prepare:    prepare,
	}
}

// RateLimitWith replaces the default limiter for every handler of the controller
// that has no limiter of its own.
func (controller *RESTController) RateLimitWith(routerService *RouterService, limiter ratelimit.RateLimiter) *RESTController {
	routerService.bindOverrideRateLimiter(controller.mountPoint, limiter)
	return controller
}

// routePath joins the controller mount point and a relative handler path.
// Gin parameters such as ":id" pass through unchanged.
func (controller *RESTController) routePath(relativePath string) string {
	return path.Join("/", controller.mountPoint, relativePath)
}

func (routerService *RouterService) keyForPathAndMethod(path, method string) string {
	return method + "-" + path
}

func (routerService *RouterService) AddPostHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addHandler(http.MethodPost, controller, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddGetHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addHandler(http.MethodGet, controller, limiter, path, handler, middlewares)
}

// addHandler registers the route and records which controller and limiter own
// it so rateLimitMiddleware can resolve overrides. Registering the same method
// and route twice panics at startup.
func (routerService *RouterService) addHandler(
	method string,
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	relativePath string,
	handler HandlerFunction,
	middlewares []MiddlewareFunc,
) {
	route := controller.routePath(relativePath)
	key := routerService.keyForPathAndMethod(route, method)

	if owner, taken := routerService.handlerToControllerMap[key]; taken {
		panic(fmt.Sprintf("%s %s is already registered by controller %q", method, route, owner.name))
	}
	routerService.handlerToControllerMap[key] = controller
	routerService.bindOverrideRateLimiter(key, limiter)

	controller.handlerCount++
	routerService.engine.Handle(method, route, append(middlewares, createHandler(handler))...)
	routerService.logger.Debug("Handler registered", "method", method, "path", route)
}

func (routerService *RouterService) bindOverrideRateLimiter(key string, limiter ratelimit.RateLimiter) {
	if limiter == nil {
		return
	}

	if _, taken := routerService.rateLimitOverrides[key]; taken {
		panic(fmt.Sprintf("A rate limiter is already registered for %q", key))
	}

	routerService.rateLimitOverrides[key] = limiter
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)
		if result == nil {
			InternalServerErrorResult("A handler returned an undefined result. This typically indicates a bug in a handler's implementation.").Write(c)
			return
		}

		result.Write(c)
	}
}
