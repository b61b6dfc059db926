package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"smart_home_catalog/internal/metrics"
	"smart_home_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

type readingRequest struct {
	ID       string `json:"id"`
	DeviceID string `json:"device_id" binding:"required"`
	SensorID string `json:"sensor_id" binding:"required"`
	// Raw value as reported by the sensor.
	Value string `json:"value" binding:"required" example:"230"`
	// Defaults to the time of receipt.
	Timestamp time.Time `json:"timestamp"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Append reading
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        body  body      readingRequest  true  "reading"
// @Success      201   {object}  models.SensorReading
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/readings [post]
// @Security     BearerAuth
func (h *Handler) appendReading(c *gin.Context) {
	var req readingRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	r, err := h.services.AppendReading(c.Request.Context(), service.ReadingParams{
		ID:        req.ID,
		DeviceID:  req.DeviceID,
		SensorID:  req.SensorID,
		Value:     req.Value,
		Timestamp: req.Timestamp,
	})
	h.metrics.ReadingIngested(metrics.SourceHTTP, err)
	if err != nil {
		h.fail(c, err, "failed to store reading", "reading_append_failed", "device_id", req.DeviceID, "sensor_id", req.SensorID)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary      List readings of a device sensor
// @Description  Bounds are inclusive. If 'to' is date-only it covers that whole day; when omitted it defaults to now.
// @Tags         readings
// @Produce      json
// @Param        device_id  query     string  true   "device id"
// @Param        sensor_id  query     string  true   "sensor id"
// @Param        from       query     string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to         query     string  false  "End of range, same formats"  example(2025-08-31)
// @Success      200        {object}  map[string]interface{}  "count, readings"
// @Failure      400        {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) listReadings(c *gin.Context) {
	deviceID, sensorID := c.Query("device_id"), c.Query("sensor_id")
	if deviceID == "" || sensorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id and sensor_id are required"})
		return
	}
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}
	readings, err := h.services.ListReadings(c.Request.Context(), service.ReadingFilter{
		DeviceID: deviceID,
		SensorID: sensorID,
		From:     from,
		To:       to,
	})
	if err != nil {
		h.fail(c, err, "failed to load readings", "reading_list_failed", "device_id", deviceID, "sensor_id", sensorID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Latest reading of a sensor
// @Tags         readings
// @Produce      json
// @Param        id   path      string  true  "sensor id"
// @Success      200  {object}  models.SensorReading
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sensors/{id}/latest [get]
// @Security     BearerAuth
func (h *Handler) getLatestReading(c *gin.Context) {
	r, ok, err := h.services.LatestForSensor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load reading", "reading_latest_failed", "sensor_id", c.Param("id"))
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no readings for sensor"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// parseRange reads the optional from/to query pair. A date-only 'to' is the
// end of that day. It writes a 400 and returns ok=false on bad input.
func (h *Handler) parseRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return from, to, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return from, to, false
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return from, to, false
	}
	return from, to, true
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
