package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"monotaskr/coordinator/internal/handler"
	"monotaskr/coordinator/internal/middleware"
	"monotaskr/coordinator/internal/service"
)

func New(
	authService *service.AuthService,
	deviceHandler *handler.DeviceHandler,
	timerHandler *handler.TimerHandler,
	accessHandler *handler.AccessHandler,
	settingsHandler *handler.SettingsHandler,
	eventsHandler *handler.EventsHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.POST("/devices/pair", deviceHandler.Pair)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService))

	protected.GET("/timer/state", timerHandler.GetState)
	protected.POST("/timer/start", timerHandler.Start)
	protected.POST("/timer/pause", timerHandler.Pause)
	protected.POST("/timer/reset", timerHandler.Reset)
	protected.POST("/debug", timerHandler.Debug)

	protected.GET("/sessions", timerHandler.History)
	protected.GET("/sessions/export", timerHandler.Export)
	protected.GET("/stats", timerHandler.Stats)

	protected.GET("/schedule", settingsHandler.GetSchedule)
	protected.PUT("/schedule", settingsHandler.UpdateSchedule)
	protected.GET("/settings", settingsHandler.Get)
	protected.PUT("/settings", settingsHandler.Update)

	protected.POST("/access/temp", accessHandler.RequestTempAccess)
	protected.GET("/access/check", accessHandler.Check)

	protected.GET("/events", eventsHandler.Stream)

	return engine
}
