package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Envelope types.
const (
	wsTypeReading = "reading"
	wsTypeNoData  = "no_data"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsReadings streams the latest reading of ?sensor_id=. The current value is
// sent on connect; afterwards a message goes out only when a newer reading arrives.
func (h *Handler) wsReadings(c *gin.Context) {
	sensorID := c.Query("sensor_id")
	if sensorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sensor_id is required"})
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	lastSent, err := h.sendLatest(ctx, conn, sensorID, "", true)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "sensor_id", sensorID, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if lastSent, err = h.sendLatest(ctx, conn, sensorID, lastSent, false); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "sensor_id", sensorID, "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendLatest writes the newest reading unless its ID equals lastID. With
// force set, a "no_data" envelope is written when the sensor has no readings.
// It returns the ID of the reading the client now holds.
func (h *Handler) sendLatest(ctx context.Context, conn *websocket.Conn, sensorID, lastID string, force bool) (string, error) {
	r, ok, err := h.services.LatestForSensor(ctx, sensorID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_latest_reading_failed", "sensor_id", sensorID, "err", err)
		}
		return lastID, err
	}

	env := wsEnvelope{Type: wsTypeNoData}
	switch {
	case ok && r.ID != lastID:
		env = wsEnvelope{Type: wsTypeReading, Data: r}
	case !force:
		return lastID, nil
	case ok:
		env = wsEnvelope{Type: wsTypeReading, Data: r}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(env); err != nil {
		return lastID, err
	}
	if ok {
		return r.ID, nil
	}
	return lastID, nil
}
