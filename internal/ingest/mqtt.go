// Package ingest subscribes to the MQTT broker and stores every sensor
// reading published under <prefix>/<deviceID>/<sensorID>.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"smart_home_catalog/internal/logger"
	"smart_home_catalog/internal/metrics"
	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	qos               = 1
	disconnectQuiesce = 250 // ms
	appendTimeout     = 5 * time.Second
)

var ErrBadTopic = errors.New("topic does not match <prefix>/<device>/<sensor>")

// Appender is the part of the reading service the subscriber needs.
type Appender interface {
	AppendReading(ctx context.Context, p service.ReadingParams) (models.SensorReading, error)
}

type Config struct {
	Broker   string
	ClientID string
	Prefix   string
}

// payload is a decoded message. A body that is not a JSON object is taken
// as the raw value.
type payload struct {
	ID        string
	Value     string
	Timestamp time.Time
}

type Subscriber struct {
	cfg      Config
	client   mqtt.Client
	readings Appender
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewSubscriber(cfg Config, readings Appender, m *metrics.Metrics, log *logger.Logger) *Subscriber {
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")
	return &Subscriber{cfg: cfg, readings: readings, metrics: m, log: log}
}

// Start connects to the broker and subscribes to <prefix>/+/+. Messages are
// handled on paho's goroutines until Stop.
func (s *Subscriber) Start() error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			// resubscribe after every reconnect
			if err := s.subscribe(c); err != nil {
				s.log.Errorw("mqtt_subscribe_failed", "topic", s.filter(), "err", err)
			}
		})

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect %s: %w", s.cfg.Broker, token.Error())
	}
	s.log.Infow("mqtt_connected", "broker", s.cfg.Broker, "topic", s.filter())
	return nil
}

func (s *Subscriber) Stop() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(disconnectQuiesce)
	}
}

func (s *Subscriber) filter() string {
	if s.cfg.Prefix == "" {
		return "+/+"
	}
	return s.cfg.Prefix + "/+/+"
}

func (s *Subscriber) subscribe(c mqtt.Client) error {
	token := c.Subscribe(s.filter(), qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg)
	})
	token.Wait()
	return token.Error()
}

// handleMessage stores one reading. Bad messages are logged and dropped.
func (s *Subscriber) handleMessage(msg mqtt.Message) {
	err := s.process(msg.Topic(), msg.Payload())
	s.metrics.ReadingIngested(metrics.SourceMQTT, err)
	if err != nil {
		s.log.Warnw("mqtt_reading_rejected", "topic", msg.Topic(), "err", err)
	}
}

func (s *Subscriber) process(topic string, body []byte) error {
	deviceID, sensorID, err := parseTopic(s.cfg.Prefix, topic)
	if err != nil {
		return err
	}
	p, err := parsePayload(body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	_, err = s.readings.AppendReading(ctx, service.ReadingParams{
		ID:        p.ID,
		DeviceID:  deviceID,
		SensorID:  sensorID,
		Value:     p.Value,
		Timestamp: p.Timestamp,
	})
	return err
}

func parseTopic(prefix, topic string) (deviceID, sensorID string, err error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if prefix == "" {
		rest, ok = topic, true
	}
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrBadTopic, topic)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadTopic, topic)
	}
	return parts[0], parts[1], nil
}

// parsePayload accepts the value as a JSON string or a bare JSON number.
func parsePayload(body []byte) (payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return payload{Value: string(body)}, nil
	}
	var wire struct {
		ID        string          `json:"id"`
		Value     json.RawMessage `json:"value"`
		Timestamp time.Time       `json:"timestamp"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return payload{}, fmt.Errorf("decode reading payload: %w", err)
	}
	p := payload{ID: wire.ID, Timestamp: wire.Timestamp, Value: string(wire.Value)}
	var text string
	if err := json.Unmarshal(wire.Value, &text); err == nil {
		p.Value = text
	}
	return p, nil
}
