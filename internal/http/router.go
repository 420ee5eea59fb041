// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hail/internal/http/handlers"
	"hail/internal/http/middleware"
	"hail/internal/infra"
	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
)

type RouterDeps struct {
	Users    *user.Service
	Drivers  *driver.Service
	Rides    *ride.Service
	Verifier infra.TokenVerifier
	Logger   *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Observability(deps.Logger))
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Users)
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	rideHandler := handlers.NewRideHandler(deps.Rides)
	api.POST("/rides", rideHandler.Create)
	// GET /api/rides is the driver poll: open (requested) rides only.
	api.GET("/rides", rideHandler.ListAvailable)
	api.GET("/rides/:id", rideHandler.Get)
	api.POST("/rides/:id/status", rideHandler.UpdateStatus)
	api.GET("/users/:id/rides", rideHandler.ListForUser)

	driverHandler := handlers.NewDriverHandler(deps.Drivers)
	api.POST("/drivers", driverHandler.CreateProfile)
	api.GET("/drivers/:id", driverHandler.GetProfile)

	driverOnly := api.Group("", middleware.RequireDriver())
	driverOnly.POST("/rides/:id/accept", rideHandler.Accept)
	driverOnly.PUT("/drivers/:id/status", driverHandler.SetStatus)

	return r
}
