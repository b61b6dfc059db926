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

type HouseSQLite struct {
	db *sql.DB
}

func NewHouseSQLite(db *sql.DB) *HouseSQLite { return &HouseSQLite{db: db} }

var _ HouseRepo = (*HouseSQLite)(nil)

const (
	insertHouseSQL = `INSERT INTO houses (id, name, address, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`
	selectHouseSQL = `SELECT id, name, address, created_at FROM houses WHERE id = ?`
	listHousesSQL  = `SELECT id, name, address, created_at FROM houses ORDER BY created_at ASC`

	insertRoomSQL = `INSERT INTO rooms (id, house_id, name, floor) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`
	selectRoomSQL = `SELECT id, house_id, name, floor FROM rooms WHERE id = ?`
	listRoomsSQL  = `SELECT id, house_id, name, floor FROM rooms WHERE house_id = ? ORDER BY name ASC`
)

// CreateHouse inserts h. Empty ID and zero CreatedAt are filled in.
func (r *HouseSQLite) CreateHouse(ctx context.Context, h models.House) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	if err := insertIfAbsent(ctx, r.db, insertHouseSQL, h.ID, h.Name, h.Address, h.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert house %q: %w", h.ID, err)
	}
	return nil
}

func (r *HouseSQLite) GetHouse(ctx context.Context, id string) (models.House, error) {
	var (
		h       models.House
		address sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectHouseSQL, id).Scan(&h.ID, &h.Name, &address, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.House{}, ErrNotFound
		}
		return models.House{}, fmt.Errorf("select house %q: %w", id, err)
	}
	h.Address = address.String
	h.CreatedAt = h.CreatedAt.UTC()
	return h, nil
}

func (r *HouseSQLite) ListHouses(ctx context.Context) ([]models.House, error) {
	rows, err := r.db.QueryContext(ctx, listHousesSQL)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()

	out := make([]models.House, 0, 8)
	for rows.Next() {
		var (
			h       models.House
			address sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.Name, &address, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Address = address.String
		h.CreatedAt = h.CreatedAt.UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

// CreateRoom inserts rm. The owning house is checked by the service layer.
func (r *HouseSQLite) CreateRoom(ctx context.Context, rm models.Room) error {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	if err := insertIfAbsent(ctx, r.db, insertRoomSQL, rm.ID, rm.HouseID, rm.Name, rm.Floor); err != nil {
		return fmt.Errorf("insert room %q: %w", rm.ID, err)
	}
	return nil
}

func (r *HouseSQLite) GetRoom(ctx context.Context, id string) (models.Room, error) {
	var rm models.Room
	err := r.db.QueryRowContext(ctx, selectRoomSQL, id).Scan(&rm.ID, &rm.HouseID, &rm.Name, &rm.Floor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Room{}, ErrNotFound
		}
		return models.Room{}, fmt.Errorf("select room %q: %w", id, err)
	}
	return rm, nil
}

func (r *HouseSQLite) ListRooms(ctx context.Context, houseID string) ([]models.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, houseID)
	if err != nil {
		return nil, fmt.Errorf("list rooms of house %q: %w", houseID, err)
	}
	defer rows.Close()

	var out []models.Room
	for rows.Next() {
		var rm models.Room
		if err := rows.Scan(&rm.ID, &rm.HouseID, &rm.Name, &rm.Floor); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
