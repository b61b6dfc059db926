package handlers

import (
	"net/http"

	"smart_home_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

type deviceRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name" binding:"required" example:"Power Grid Meter"`
	Model  string `json:"model" binding:"required" example:"PGM-1"`
	RoomID string `json:"room_id" binding:"required"`
}

// attachRequest creates a sensor or an actuator on the device in the path.
type attachRequest struct {
	ID      string `json:"id"`
	ModelID string `json:"model_id" binding:"required" example:"PC500W"`
}

// @Summary      Register device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      deviceRequest  true  "device"
// @Success      201   {object}  models.Device
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "room not found"
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/devices [post]
// @Security     BearerAuth
func (h *Handler) createDevice(c *gin.Context) {
	var req deviceRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	d, err := h.services.CreateDevice(c.Request.Context(), service.DeviceParams{
		ID:     req.ID,
		Name:   req.Name,
		Model:  req.Model,
		RoomID: req.RoomID,
	})
	if err != nil {
		h.fail(c, err, "failed to create device", "device_create_failed", "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Param        room_id  query     string  false  "only devices in this room"
// @Success      200      {array}   models.Device
// @Failure      404      {object}  map[string]string
// @Router       /api/v1/devices [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	devices, err := h.services.ListDevices(c.Request.Context(), c.Query("room_id"))
	if err != nil {
		h.fail(c, err, "failed to list devices", "device_list_failed", "room_id", c.Query("room_id"))
		return
	}
	c.JSON(http.StatusOK, devices)
}

// @Summary      Get device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "device id"
// @Success      200  {object}  models.Device
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/devices/{id} [get]
// @Security     BearerAuth
func (h *Handler) getDevice(c *gin.Context) {
	d, err := h.services.GetDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load device", "device_get_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Deactivate device
// @Description  One-way. Deactivating an inactive device is a no-op.
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "device id"
// @Success      200  {object}  models.Device
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/devices/{id}/deactivate [post]
// @Security     BearerAuth
func (h *Handler) deactivateDevice(c *gin.Context) {
	d, err := h.services.DeactivateDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to deactivate device", "device_deactivate_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Attach sensor
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "device id"
// @Param        body  body      attachRequest  true  "sensor"
// @Success      201   {object}  models.Sensor
// @Failure      400   {object}  map[string]string  "unknown model"
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/devices/{id}/sensors [post]
// @Security     BearerAuth
func (h *Handler) createSensor(c *gin.Context) {
	var req attachRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	s, err := h.services.CreateSensor(c.Request.Context(), service.AttachParams{ID: req.ID, DeviceID: c.Param("id"), ModelID: req.ModelID})
	if err != nil {
		h.fail(c, err, "failed to create sensor", "sensor_create_failed", "device_id", c.Param("id"), "model_id", req.ModelID)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// @Summary      List sensors of a device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "device id"
// @Success      200  {array}   models.Sensor
// @Router       /api/v1/devices/{id}/sensors [get]
// @Security     BearerAuth
func (h *Handler) listSensors(c *gin.Context) {
	sensors, err := h.services.ListSensors(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to list sensors", "sensor_list_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, sensors)
}

// @Summary      Get sensor
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "sensor id"
// @Success      200  {object}  models.Sensor
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sensors/{id} [get]
// @Security     BearerAuth
func (h *Handler) getSensor(c *gin.Context) {
	s, err := h.services.GetSensor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load sensor", "sensor_get_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Attach actuator
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "device id"
// @Param        body  body      attachRequest  true  "actuator"
// @Success      201   {object}  models.Actuator
// @Failure      400   {object}  map[string]string  "unknown model"
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/devices/{id}/actuators [post]
// @Security     BearerAuth
func (h *Handler) createActuator(c *gin.Context) {
	var req attachRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	a, err := h.services.CreateActuator(c.Request.Context(), service.AttachParams{ID: req.ID, DeviceID: c.Param("id"), ModelID: req.ModelID})
	if err != nil {
		h.fail(c, err, "failed to create actuator", "actuator_create_failed", "device_id", c.Param("id"), "model_id", req.ModelID)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary      List actuators of a device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "device id"
// @Success      200  {array}   models.Actuator
// @Router       /api/v1/devices/{id}/actuators [get]
// @Security     BearerAuth
func (h *Handler) listActuators(c *gin.Context) {
	actuators, err := h.services.ListActuators(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to list actuators", "actuator_list_failed", "device_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, actuators)
}

// @Summary      Get actuator
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "actuator id"
// @Success      200  {object}  models.Actuator
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/actuators/{id} [get]
// @Security     BearerAuth
func (h *Handler) getActuator(c *gin.Context) {
	a, err := h.services.GetActuator(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load actuator", "actuator_get_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, a)
}
