package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"

	"github.com/google/uuid"
)

// LatestReadingCache keeps the newest reading per sensor. A miss is ok=false.
type LatestReadingCache interface {
	Get(ctx context.Context, sensorID string) (models.SensorReading, bool, error)
	Set(ctx context.Context, r models.SensorReading) error
}

// ReadingService appends and queries sensor readings. It also serves as the
// ReadingStore for peak power aggregation.
type ReadingService struct {
	readings repository.ReadingRepo
	devices  repository.DeviceRepo
	sensors  repository.SensorRepo
	cache    LatestReadingCache
	now      func() time.Time
}

// NewReadingService builds the service; cache may be nil.
func NewReadingService(readings repository.ReadingRepo, devices repository.DeviceRepo, sensors repository.SensorRepo, cache LatestReadingCache) *ReadingService {
	return &ReadingService{
		readings: readings,
		devices:  devices,
		sensors:  sensors,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ ReadingStore = (*ReadingService)(nil)

// AppendReading stores a reading of sensor on device. The sensor must belong
// to the device. Readings are immutable once stored.
func (s *ReadingService) AppendReading(ctx context.Context, p ReadingParams) (models.SensorReading, error) {
	value := strings.TrimSpace(p.Value)
	if p.DeviceID == "" || p.SensorID == "" {
		return models.SensorReading{}, invalid("device_id and sensor_id are required")
	}
	if value == "" {
		return models.SensorReading{}, invalid("reading value is empty")
	}
	if _, err := s.devices.Get(ctx, p.DeviceID); err != nil {
		return models.SensorReading{}, translate(err, "device")
	}
	sn, err := s.sensors.GetSensor(ctx, p.SensorID)
	if err != nil {
		return models.SensorReading{}, translate(err, "sensor")
	}
	if sn.DeviceID != p.DeviceID {
		return models.SensorReading{}, invalid("sensor %q does not belong to device %q", p.SensorID, p.DeviceID)
	}

	r := models.SensorReading{
		ID:        p.ID,
		DeviceID:  p.DeviceID,
		SensorID:  p.SensorID,
		Value:     value,
		Timestamp: p.Timestamp.UTC(),
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if p.Timestamp.IsZero() {
		r.Timestamp = s.now()
	}
	if err := s.readings.Append(ctx, r); err != nil {
		return models.SensorReading{}, translate(err, "reading")
	}
	s.remember(ctx, r)
	return r, nil
}

// ListReadings returns a device sensor's readings within the filter bounds.
func (s *ReadingService) ListReadings(ctx context.Context, f ReadingFilter) ([]models.SensorReading, error) {
	from, to := f.From.UTC(), f.To.UTC()
	if f.To.IsZero() {
		to = s.now()
	}
	if from.After(to) {
		return nil, ErrInvalidPeriod
	}
	return s.ReadingsForDeviceSensorInRange(ctx, f.DeviceID, f.SensorID, from, to)
}

func (s *ReadingService) ReadingsForDeviceInWindow(ctx context.Context, deviceID string, from, to time.Time) ([]models.SensorReading, error) {
	return s.readings.ListForDevice(ctx, deviceID, from, to)
}

func (s *ReadingService) ReadingsForDeviceSensorInRange(ctx context.Context, deviceID, sensorID string, from, to time.Time) ([]models.SensorReading, error) {
	return s.readings.ListForDeviceSensor(ctx, deviceID, sensorID, from, to)
}

// LatestForSensor returns the newest reading of sensorID, preferring the
// cache. ok is false when the sensor has no readings.
func (s *ReadingService) LatestForSensor(ctx context.Context, sensorID string) (models.SensorReading, bool, error) {
	if s.cache != nil {
		if r, ok, err := s.cache.Get(ctx, sensorID); err == nil && ok {
			return r, true, nil
		}
	}
	r, err := s.readings.Latest(ctx, sensorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.SensorReading{}, false, nil
		}
		return models.SensorReading{}, false, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, r)
	}
	return r, true, nil
}

// remember updates the cache unless it already holds a newer reading.
// The cache is best effort; the database stays the source of truth.
func (s *ReadingService) remember(ctx context.Context, r models.SensorReading) {
	if s.cache == nil {
		return
	}
	if cur, ok, err := s.cache.Get(ctx, r.SensorID); err == nil && ok && cur.Timestamp.After(r.Timestamp) {
		return
	}
	_ = s.cache.Set(ctx, r)
}
