package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/payways/internal/handlers"
	"github.com/akylbek/payment-system/payways/internal/service"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

type RouterOptions struct {
	ServiceName string
	SessionTTL  time.Duration
}

func NewRouter(state *service.AppState, opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": opts.ServiceName})
	})

	authHandler := handlers.NewAuthHandler(state.Sessions, opts.SessionTTL)
	viewHandler := handlers.NewViewHandler(state.Sessions)
	catalogHandler := handlers.NewCatalogHandler(state.Catalog)
	paymentHandler := handlers.NewPaymentHandler(state.Sessions)
	adminHandler := handlers.NewAdminHandler(state)

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	// Catalog reads are public so the sign-in screen can render
	r.GET("/countries", catalogHandler.ListCountries)
	r.GET("/payment-methods", catalogHandler.ListPaymentMethods)

	authed := r.Group("/", handlers.RequireSession(state.Sessions))
	authed.GET("/auth/session", authHandler.Current)
	authed.DELETE("/auth/session", authHandler.Logout)
	authed.GET("/view", viewHandler.GetView)
	authed.PUT("/view", viewHandler.SetView)

	authed.POST("/payments", paymentHandler.Submit)
	authed.GET("/payments", paymentHandler.History)
	authed.GET("/payments/state", paymentHandler.GetState)
	authed.POST("/payments/acknowledge", paymentHandler.Acknowledge)
	authed.POST("/payments/edit", paymentHandler.Edit)
	authed.POST("/payments/cancel", paymentHandler.Cancel)

	admin := authed.Group("/admin", handlers.RequireAdmin())
	admin.GET("/summary", adminHandler.Summary)
	admin.POST("/countries", catalogHandler.AddCountry)
	admin.PUT("/countries/:code", catalogHandler.UpdateCountry)
	admin.DELETE("/countries/:code", catalogHandler.RemoveCountry)

	return r
}
