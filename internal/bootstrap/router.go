package bootstrap

import (
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/todo-list-api/todo-list-api/config"
	httpapi "github.com/todo-list-api/todo-list-api/internal/api/http"
	"github.com/todo-list-api/todo-list-api/internal/api/http/middleware"
	todoshttp "github.com/todo-list-api/todo-list-api/internal/todos/http"
)

type RouterDeps struct {
	HTTP   config.HTTPConfig
	Logger *log.Logger
	Store  todoshttp.Store
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.RedirectTrailingSlash = false

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		dep.Logger.Error("panic recovered", "request_id", c.GetString("request_id"), "panic", recovered)
		httpapi.Internal(c)
	}))
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(corsConfig(dep.HTTP.CORSOrigin)))
	r.Use(middleware.NewRateLimiter(dep.HTTP.RateLimitPerMinute, dep.HTTP.RateLimitBurst).Middleware())

	if dep.HTTP.StaticDir != "" {
		r.Use(staticFiles(dep.HTTP.StaticDir))
	}

	healthHandler := httpapi.NewHealthHandler()
	healthHandler.RegisterRoutes(r)

	if ok, err := registerDocs(r, dep.HTTP.OpenAPIPath); err != nil {
		return nil, err
	} else if ok {
		dep.Logger.Info("api docs enabled", "path", dep.HTTP.OpenAPIPath)
	}

	todosHandler := todoshttp.New(dep.Store, dep.Logger)
	todosHandler.Register(r.Group("/todos"))

	r.NoRoute(httpapi.NotFound)

	return r, nil
}

func corsConfig(origin string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowCredentials = false
	cfg.AddAllowHeaders("X-Request-Id")
	cfg.AddExposeHeaders("X-Request-Id", "RateLimit-Limit", "RateLimit-Remaining")
	if origin == "" {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = []string{origin}
	}
	return cfg
}
