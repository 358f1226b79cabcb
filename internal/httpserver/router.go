package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vianajose7/faaxis-auth/internal/metrics"
	"github.com/vianajose7/faaxis-auth/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Resolver    *middleware.Resolver
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut, d.Resolver.Optional)

	auth.GET("/me", d.AuthHandler.Me, d.Resolver.RequireAuth)
}
