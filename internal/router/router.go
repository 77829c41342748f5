// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/seat-allocation/internal/config"
	"github.com/iliyamo/seat-allocation/internal/handler"
	"github.com/iliyamo/seat-allocation/internal/identity"
	"github.com/iliyamo/seat-allocation/internal/middleware"
)

// Deps are the collaborators New wires together.  Redis and DB may be nil.
type Deps struct {
	Handler  *handler.Handler
	Resolver identity.Resolver
	Logger   *logrus.Logger
	Redis    *redis.Client
	Cache    config.CacheConfig
	DB       handler.Pinger
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Metrics(),
	)

	e.GET("/healthz", handler.Health(d.DB))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Every /v1 route acts on behalf of a principal.
	v1 := e.Group("/v1", middleware.Principal(d.Resolver))
	RegisterTenancy(v1, d.Handler, middleware.ResponseCache(d.Cache, d.Redis))
	RegisterSeating(v1, d.Handler)
	RegisterAllocations(v1, d.Handler)
	return e
}
