package eureka

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/discoverykit/component"
)

const (
	statusHandler = "eureka.status"
	healthHandler = "eureka.health"
)

// RegisterRoutes serves the status page and health check paths advertised
// in the instance document.
func (c *Client) RegisterRoutes(r gin.IRoutes) {
	for _, rt := range c.Routes() {
		h := c.handleStatus
		if rt.Handler == healthHandler {
			h = c.handleHealth
		}
		r.Handle(rt.Method, rt.Path, h)
	}
}

// Routes lists the routes added by RegisterRoutes. When the status page and
// health check share a path, the path is served once by the health check,
// whose response code follows the instance status.
func (c *Client) Routes() []component.Route {
	status, health := c.statusPath(), c.healthPath()
	routes := make([]component.Route, 0, 2)
	if status != health {
		routes = append(routes, component.Route{Method: http.MethodGet, Path: status, Handler: statusHandler})
	}
	return append(routes, component.Route{Method: http.MethodGet, Path: health, Handler: healthHandler})
}

func (c *Client) statusPath() string {
	return routePath(c.instanceOpts.StatusPageURLPath, DefaultStatusPageURLPath)
}

func (c *Client) healthPath() string {
	return routePath(c.instanceOpts.HealthCheckURLPath, DefaultHealthCheckURLPath)
}

func routePath(path, fallback string) string {
	if path == "" {
		return fallback
	}
	if path[0] != '/' {
		return "/" + path
	}
	return path
}

func (c *Client) handleStatus(ctx *gin.Context) {
	info := c.InstanceInfo()
	ctx.JSON(http.StatusOK, gin.H{
		"instanceId": info.InstanceID,
		"app":        info.App,
		"status":     info.Status,
		"hostName":   info.HostName,
		"port":       info.Port.Port,
		"metadata":   info.Metadata,
	})
}

func (c *Client) handleHealth(ctx *gin.Context) {
	status := c.Status()
	code := http.StatusOK
	if status != StatusUp {
		code = http.StatusServiceUnavailable
	}
	ctx.JSON(code, gin.H{"status": status})
}
