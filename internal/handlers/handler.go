package handlers

import (
	"net/http"

	"campanario/internal/logger"
	"campanario/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	hub      *Hub
	metrics  http.Handler
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// WithHub streams controller events to /ws clients.
func (h *Handler) WithHub(hub *Hub) *Handler {
	h.hub = hub
	return h
}

// WithMetrics serves the Prometheus handler on /metrics.
func (h *Handler) WithMetrics(metrics http.Handler) *Handler {
	h.metrics = metrics
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// UI event stream
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/state", h.getState)
		api.PUT("/page", h.setPage)

		h.registerBellRoutes(api)
		h.registerHeatingRoutes(api)
		h.registerAlarmRoutes(api)
		h.registerLanguageRoutes(api)
		h.registerConfigRoutes(api)
		h.registerOTARoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerBellRoutes(api *gin.RouterGroup) {
	bells := api.Group("/bells")
	{
		bells.GET("", h.getBells)
		// Body example: {"sequence":"Misa"}
		bells.POST("/trigger", h.triggerBells)
		bells.POST("/stop", h.stopBells)
	}
}

func (h *Handler) registerHeatingRoutes(api *gin.RouterGroup) {
	heating := api.Group("/heating")
	{
		heating.GET("", h.getHeating)
		heating.POST("/toggle", h.toggleHeating)
		heating.PUT("", h.setHeating)
		heating.PUT("/minutes", h.setHeatingMinutes)
		heating.GET("/picker", h.getPicker)
		heating.POST("/picker/open", h.openPicker)
		// Body example: {"position":1,"up":true}
		heating.POST("/picker/step", h.stepPicker)
		heating.POST("/picker/accept", h.acceptPicker)
	}
}

func (h *Handler) registerAlarmRoutes(api *gin.RouterGroup) {
	alarms := api.Group("/alarms")
	{
		alarms.GET("", h.listAlarms)
		alarms.POST("/refresh", h.refreshAlarms)
		alarms.POST("", h.createAlarm)
		alarms.PUT("/:id", h.updateAlarm)
		alarms.POST("/:id/toggle", h.toggleAlarm)
		alarms.POST("/:id/edit", h.beginAlarmEdit)
		alarms.DELETE("/:id", h.deleteAlarm)
	}
	api.DELETE("/alarm-form", h.cancelAlarmEdit)
}

func (h *Handler) registerLanguageRoutes(api *gin.RouterGroup) {
	api.GET("/language", h.getLanguage)
	api.PUT("/language", h.setLanguage)
}

func (h *Handler) registerConfigRoutes(api *gin.RouterGroup) {
	cfg := api.Group("/config")
	{
		cfg.GET("", h.getConfig)
		cfg.POST("/pin", h.verifyPIN)
		cfg.POST("/lock", h.lockConfig)
	}
	unlocked := api.Group("/config", h.configScopeMiddleware)
	{
		unlocked.GET("/telegram", h.getTelegram)
		unlocked.PUT("/telegram", h.saveTelegram)
		unlocked.POST("/reset", h.resetSystem)
	}
}

func (h *Handler) registerOTARoutes(api *gin.RouterGroup) {
	ota := api.Group("/ota")
	{
		ota.GET("", h.getOTA)
		ota.POST("/open", h.openOTA)
		ota.POST("/check", h.checkOTA)
		// Body example: {"kind":"firmware"}
		ota.POST("/install", h.installOTA)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
