package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})

	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_refreshes_total",
		Help: "Tokens transparently re-issued by the session resolver.",
	})

	StoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_store_fallbacks_total",
		Help: "Requests served by the secondary credential store.",
	})
)

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
