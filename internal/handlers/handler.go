package handlers

import (
	"smart_home_catalog/internal/logger"
	"smart_home_catalog/internal/metrics"
	"smart_home_catalog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services, logging and metrics.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewHandler constructs a new HTTP handler. log and m may be nil.
func NewHandler(services *service.Service, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{services: services, log: log, metrics: m}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.metrics.Middleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// latest-reading stream, same port
	router.GET("/ws/readings", h.wsReadings)

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
		h.registerHouseRoutes(api)
		h.registerDeviceRoutes(api)
		h.registerReadingRoutes(api)
		api.GET("/catalog", h.getReferenceData)
		api.GET("/power/peak", h.getPeakPower)
	}
}

func (h *Handler) registerHouseRoutes(api *gin.RouterGroup) {
	houses := api.Group("/houses")
	{
		houses.POST("", h.createHouse)
		houses.GET("", h.listHouses)
		houses.GET("/:id", h.getHouse)
		houses.POST("/:id/rooms", h.createRoom)
		houses.GET("/:id/rooms", h.listRooms)
	}
	api.GET("/rooms/:id", h.getRoom)
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	devices := api.Group("/devices")
	{
		devices.POST("", h.createDevice)
		devices.GET("", h.listDevices)
		devices.GET("/by-type", h.getDevicesByType)
		devices.GET("/:id", h.getDevice)
		devices.POST("/:id/deactivate", h.deactivateDevice)
		devices.POST("/:id/sensors", h.createSensor)
		devices.GET("/:id/sensors", h.listSensors)
		devices.POST("/:id/actuators", h.createActuator)
		devices.GET("/:id/actuators", h.listActuators)
	}
	api.GET("/sensors/:id", h.getSensor)
	api.GET("/actuators/:id", h.getActuator)
}

func (h *Handler) registerReadingRoutes(api *gin.RouterGroup) {
	readings := api.Group("/readings")
	{
		readings.POST("", h.appendReading)
		readings.GET("", h.listReadings)
	}
	api.GET("/sensors/:id/latest", h.getLatestReading)
}
