package handlers

import (
	"net/http"
	"strconv"
	"time"

	"smart_home_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// PeakResponse is the body of a successful peak power query.
type PeakResponse struct {
	Peak float64 `json:"peak" example:"45"`
}

// @Summary      Devices grouped by sensor/actuator type
// @Description  Maps each type description to the devices hosting a sensor or actuator of that type. Devices whose type chain cannot be resolved are listed under "unresolved".
// @Tags         queries
// @Produce      json
// @Success      200  {object}  service.DeviceGroups
// @Router       /api/v1/devices/by-type [get]
// @Security     BearerAuth
func (h *Handler) getDevicesByType(c *gin.Context) {
	groups, err := h.services.GroupDevicesByType(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to group devices", "devices_by_type_failed")
		return
	}
	c.JSON(http.StatusOK, groups)
}

// @Summary      Peak house power
// @Description  Splits [from, to] into windows of 'interval' minutes and returns the highest summed mean consumption of any window.
// @Tags         queries
// @Produce      json
// @Param        from      query     string  true  "Start (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        to        query     string  true  "End, same formats; a bare date means the end of that day"
// @Param        interval  query     int     true  "Window length in minutes"  example(60)
// @Success      200       {object}  PeakResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string  "power grid meter not found, or no data"
// @Failure      422       {object}  map[string]string  "corrupt reading"
// @Router       /api/v1/power/peak [get]
// @Security     BearerAuth
func (h *Handler) getPeakPower(c *gin.Context) {
	fromQS, toQS := c.Query("from"), c.Query("to")
	if fromQS == "" || toQS == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' and 'to' are required"})
		return
	}
	from, err := parseQueryTime(fromQS)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
		return
	}
	to, err := parseQueryTime(toQS)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
		return
	}
	if isDateOnly(toQS) {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	interval, err := strconv.Atoi(c.Query("interval"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'interval' must be a whole number of minutes"})
		return
	}

	peak, err := h.services.HousePeakPower(c.Request.Context(), service.PeakParams{
		From:            from,
		To:              to,
		IntervalMinutes: interval,
	})
	h.metrics.PeakQuery(err)
	if err != nil {
		h.fail(c, err, "failed to compute peak power", "peak_power_failed", "from", from, "to", to, "interval", interval)
		return
	}
	c.JSON(http.StatusOK, PeakResponse{Peak: peak})
}

// @Summary      Reference catalog
// @Tags         queries
// @Produce      json
// @Success      200  {object}  service.ReferenceData
// @Router       /api/v1/catalog [get]
// @Security     BearerAuth
func (h *Handler) getReferenceData(c *gin.Context) {
	rd, err := h.services.ReferenceData(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to load catalog", "catalog_load_failed")
		return
	}
	c.JSON(http.StatusOK, rd)
}
