package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smart_home_catalog/internal/models"

	"github.com/google/uuid"
)

// SensorSQLite stores both sensors and actuators; the two tables share a shape.
type SensorSQLite struct {
	db *sql.DB
}

func NewSensorSQLite(db *sql.DB) *SensorSQLite { return &SensorSQLite{db: db} }

var _ SensorRepo = (*SensorSQLite)(nil)

const (
	insertSensorSQL       = `INSERT INTO sensors (id, device_id, model_id) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`
	selectSensorSQL       = `SELECT id, device_id, model_id FROM sensors WHERE id = ?`
	listSensorsSQL        = `SELECT id, device_id, model_id FROM sensors ORDER BY rowid ASC`
	listDeviceSensorsSQL  = `SELECT id, device_id, model_id FROM sensors WHERE device_id = ? ORDER BY rowid ASC`
	insertActuatorSQL     = `INSERT INTO actuators (id, device_id, model_id) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`
	selectActuatorSQL     = `SELECT id, device_id, model_id FROM actuators WHERE id = ?`
	listActuatorsSQL      = `SELECT id, device_id, model_id FROM actuators ORDER BY rowid ASC`
	listDeviceActuatorSQL = `SELECT id, device_id, model_id FROM actuators WHERE device_id = ? ORDER BY rowid ASC`
)

// attachment is the common row shape of sensors and actuators.
type attachment struct {
	ID, DeviceID, ModelID string
}

func (r *SensorSQLite) CreateSensor(ctx context.Context, s models.Sensor) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := insertIfAbsent(ctx, r.db, insertSensorSQL, s.ID, s.DeviceID, s.ModelID); err != nil {
		return fmt.Errorf("insert sensor %q: %w", s.ID, err)
	}
	return nil
}

func (r *SensorSQLite) GetSensor(ctx context.Context, id string) (models.Sensor, error) {
	a, err := r.get(ctx, selectSensorSQL, id)
	if err != nil {
		return models.Sensor{}, err
	}
	return models.Sensor(a), nil
}

func (r *SensorSQLite) ListSensors(ctx context.Context, deviceID string) ([]models.Sensor, error) {
	var (
		rows []attachment
		err  error
	)
	if deviceID == "" {
		rows, err = r.list(ctx, listSensorsSQL)
	} else {
		rows, err = r.list(ctx, listDeviceSensorsSQL, deviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("list sensors: %w", err)
	}
	out := make([]models.Sensor, len(rows))
	for i, a := range rows {
		out[i] = models.Sensor(a)
	}
	return out, nil
}

func (r *SensorSQLite) CreateActuator(ctx context.Context, a models.Actuator) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := insertIfAbsent(ctx, r.db, insertActuatorSQL, a.ID, a.DeviceID, a.ModelID); err != nil {
		return fmt.Errorf("insert actuator %q: %w", a.ID, err)
	}
	return nil
}

func (r *SensorSQLite) GetActuator(ctx context.Context, id string) (models.Actuator, error) {
	a, err := r.get(ctx, selectActuatorSQL, id)
	if err != nil {
		return models.Actuator{}, err
	}
	return models.Actuator(a), nil
}

func (r *SensorSQLite) ListActuators(ctx context.Context, deviceID string) ([]models.Actuator, error) {
	var (
		rows []attachment
		err  error
	)
	if deviceID == "" {
		rows, err = r.list(ctx, listActuatorsSQL)
	} else {
		rows, err = r.list(ctx, listDeviceActuatorSQL, deviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("list actuators: %w", err)
	}
	out := make([]models.Actuator, len(rows))
	for i, a := range rows {
		out[i] = models.Actuator(a)
	}
	return out, nil
}

func (r *SensorSQLite) get(ctx context.Context, q, id string) (attachment, error) {
	var a attachment
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.DeviceID, &a.ModelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attachment{}, ErrNotFound
		}
		return attachment{}, fmt.Errorf("select %q: %w", id, err)
	}
	return a, nil
}

func (r *SensorSQLite) list(ctx context.Context, q string, args ...any) ([]attachment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attachment
	for rows.Next() {
		var a attachment
		if err := rows.Scan(&a.ID, &a.DeviceID, &a.ModelID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
