package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smart_home_catalog/internal/models"

	"github.com/google/uuid"
)

type DeviceSQLite struct {
	db *sql.DB
}

func NewDeviceSQLite(db *sql.DB) *DeviceSQLite { return &DeviceSQLite{db: db} }

var _ DeviceRepo = (*DeviceSQLite)(nil)

const (
	deviceColumns = `id, name, model, room_id, active`

	insertDeviceSQL     = `INSERT INTO devices (` + deviceColumns + `) VALUES (?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`
	selectDeviceSQL     = `SELECT ` + deviceColumns + ` FROM devices WHERE id = ?`
	listDevicesSQL      = `SELECT ` + deviceColumns + ` FROM devices ORDER BY rowid ASC`
	listRoomDevicesSQL  = `SELECT ` + deviceColumns + ` FROM devices WHERE room_id = ? ORDER BY rowid ASC`
	listDevicesNamedSQL = `SELECT ` + deviceColumns + ` FROM devices WHERE name = ? ORDER BY rowid ASC`
	deactivateDeviceSQL = `UPDATE devices SET active = 0 WHERE id = ?`
)

// Create inserts d; a duplicate ID yields ErrAlreadyExists.
func (r *DeviceSQLite) Create(ctx context.Context, d models.Device) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := insertIfAbsent(ctx, r.db, insertDeviceSQL, d.ID, d.Name, d.Model, d.RoomID, d.Active); err != nil {
		return fmt.Errorf("insert device %q: %w", d.ID, err)
	}
	return nil
}

func (r *DeviceSQLite) Get(ctx context.Context, id string) (models.Device, error) {
	var d models.Device
	err := r.db.QueryRowContext(ctx, selectDeviceSQL, id).Scan(&d.ID, &d.Name, &d.Model, &d.RoomID, &d.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Device{}, ErrNotFound
		}
		return models.Device{}, fmt.Errorf("select device %q: %w", id, err)
	}
	return d, nil
}

// List returns every device, or only those in roomID when it is non-empty.
func (r *DeviceSQLite) List(ctx context.Context, roomID string) ([]models.Device, error) {
	if roomID == "" {
		return r.query(ctx, listDevicesSQL)
	}
	return r.query(ctx, listRoomDevicesSQL, roomID)
}

func (r *DeviceSQLite) ListByName(ctx context.Context, name string) ([]models.Device, error) {
	return r.query(ctx, listDevicesNamedSQL, name)
}

// Deactivate clears the active flag. Deactivating an inactive device is a no-op.
func (r *DeviceSQLite) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deactivateDeviceSQL, id)
	if err != nil {
		return fmt.Errorf("deactivate device %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate device %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DeviceSQLite) query(ctx context.Context, q string, args ...any) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	out := make([]models.Device, 0, 16)
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.Model, &d.RoomID, &d.Active); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
