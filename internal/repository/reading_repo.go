package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smart_home_catalog/internal/models"

	"github.com/google/uuid"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	readingColumns = `id, device_id, sensor_id, value, recorded_at`

	insertReadingSQL = `INSERT INTO sensor_readings (` + readingColumns + `) VALUES (?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`

	listDeviceReadingsSQL = `SELECT ` + readingColumns + ` FROM sensor_readings
		WHERE device_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC`

	listDeviceSensorReadingsSQL = `SELECT ` + readingColumns + ` FROM sensor_readings
		WHERE device_id = ? AND sensor_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC`

	latestReadingSQL = `SELECT ` + readingColumns + ` FROM sensor_readings
		WHERE sensor_id = ? ORDER BY recorded_at DESC LIMIT 1`
)

// Append inserts r. Empty ID and zero Timestamp are filled in; readings are never updated.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.SensorReading) error {
	if rd.ID == "" {
		rd.ID = uuid.NewString()
	}
	if rd.Timestamp.IsZero() {
		rd.Timestamp = time.Now().UTC()
	}
	err := insertIfAbsent(ctx, r.db, insertReadingSQL,
		rd.ID, rd.DeviceID, rd.SensorID, rd.Value, rd.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("insert reading %q: %w", rd.ID, err)
	}
	return nil
}

// ListForDevice returns the device's readings with from <= recorded_at <= to.
func (r *ReadingSQLite) ListForDevice(ctx context.Context, deviceID string, from, to time.Time) ([]models.SensorReading, error) {
	return r.query(ctx, listDeviceReadingsSQL, deviceID, from.UTC(), to.UTC())
}

func (r *ReadingSQLite) ListForDeviceSensor(ctx context.Context, deviceID, sensorID string, from, to time.Time) ([]models.SensorReading, error) {
	return r.query(ctx, listDeviceSensorReadingsSQL, deviceID, sensorID, from.UTC(), to.UTC())
}

// Latest returns the most recent reading of sensorID, or ErrNotFound.
func (r *ReadingSQLite) Latest(ctx context.Context, sensorID string) (models.SensorReading, error) {
	var rd models.SensorReading
	err := r.db.QueryRowContext(ctx, latestReadingSQL, sensorID).
		Scan(&rd.ID, &rd.DeviceID, &rd.SensorID, &rd.Value, &rd.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SensorReading{}, ErrNotFound
		}
		return models.SensorReading{}, fmt.Errorf("latest reading of sensor %q: %w", sensorID, err)
	}
	rd.Timestamp = rd.Timestamp.UTC()
	return rd, nil
}

func (r *ReadingSQLite) query(ctx context.Context, q string, args ...any) ([]models.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	out := make([]models.SensorReading, 0, 64)
	for rows.Next() {
		var rd models.SensorReading
		if err := rows.Scan(&rd.ID, &rd.DeviceID, &rd.SensorID, &rd.Value, &rd.Timestamp); err != nil {
			return nil, err
		}
		rd.Timestamp = rd.Timestamp.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
