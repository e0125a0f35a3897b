package routes

import (
	"github.com/wesdalton/Respire/controllers"
	"github.com/wesdalton/Respire/middlewares"
	"github.com/wesdalton/Respire/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter builds the service layer and wires every endpoint. The
// hub and push service arrive pre-built so main can share them with the
// alert bus.
func SetupRouter(db *gorm.DB, hub *services.RealtimeHub, push *services.PushService) *gin.Engine {
	r := gin.Default()

	metricSvc := services.NewMetricService(db)
	burnoutSvc := services.NewBurnoutService(db, metricSvc)
	whoopSvc := services.NewWhoopService(db, metricSvc)
	dashboardSvc := services.NewDashboardService(db)
	exportSvc := services.NewExportService(db)

	metrics := controllers.NewMetricController(metricSvc)
	burnout := controllers.NewBurnoutController(burnoutSvc)
	whoop := controllers.NewWhoopController(whoopSvc)
	dashboard := controllers.NewDashboardController(dashboardSvc)
	export := controllers.NewExportController(exportSvc)
	devices := controllers.NewDeviceController(push)
	realtime := controllers.NewRealtimeController(hub)
	dev := controllers.NewDevController(push)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.DELETE("/account", controllers.DeleteAccount)
		user.POST("/whoop/link", controllers.LinkWhoop)
		user.POST("/notifications/toggle", devices.ToggleNotifications)
	}

	// Day-to-day API
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/metrics", metrics.PostMetrics)
		api.GET("/metrics", metrics.GetMetrics)
		api.GET("/metrics/:date", metrics.GetMetricByDate)
		api.POST("/mood", metrics.PostMood)

		api.POST("/burnout/calculate", burnout.Calculate)
		api.GET("/burnout/history", burnout.GetHistory)
		api.POST("/burnout/backfill", burnout.Backfill)

		api.GET("/dashboard", dashboard.GetDashboard)
		api.GET("/dashboard/calendar/:year/:month", dashboard.GetCalendar)
		api.GET("/correlation", dashboard.GetCorrelation)

		api.GET("/export", export.GetExport)
		api.POST("/export/archive", export.ArchiveExport)

		api.POST("/whoop/sync", whoop.Sync)
		api.POST("/devices", devices.Register)

		api.GET("/alerts", controllers.GetAlerts)
		api.POST("/alerts/:id/ack", controllers.AcknowledgeAlert)

		api.POST("/dev/push-test", dev.PushTest)
	}

	// Websocket authenticates itself (token rides the query string)
	r.GET("/api/ws", realtime.AlertsWS)

	return r
}
