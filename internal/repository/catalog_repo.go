package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smart_home_catalog/internal/models"
)

// CatalogSQLite holds the static type/model reference tables.
type CatalogSQLite struct {
	db *sql.DB
}

func NewCatalogSQLite(db *sql.DB) *CatalogSQLite { return &CatalogSQLite{db: db} }

var _ CatalogRepo = (*CatalogSQLite)(nil)

const (
	putSensorTypeSQL    = `INSERT INTO sensor_types (id, description, unit) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`
	putActuatorTypeSQL  = `INSERT INTO actuator_types (id, description, unit) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`
	putSensorModelSQL   = `INSERT INTO sensor_models (id, type_id) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`
	putActuatorModelSQL = `INSERT INTO actuator_models (id, type_id) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`

	listSensorTypesSQL    = `SELECT id, description, unit FROM sensor_types ORDER BY id ASC`
	listActuatorTypesSQL  = `SELECT id, description, unit FROM actuator_types ORDER BY id ASC`
	listSensorModelsSQL   = `SELECT id, type_id FROM sensor_models ORDER BY id ASC`
	listActuatorModelsSQL = `SELECT id, type_id FROM actuator_models ORDER BY id ASC`
)

// Put* insert reference rows if absent. An existing row is left untouched
// and reported as ErrAlreadyExists so seeding can tell new rows from old.

func (r *CatalogSQLite) PutSensorType(ctx context.Context, t models.SensorType) error {
	return r.put(ctx, putSensorTypeSQL, "sensor type", t.ID, t.ID, t.Description, t.Unit)
}

func (r *CatalogSQLite) PutActuatorType(ctx context.Context, t models.ActuatorType) error {
	return r.put(ctx, putActuatorTypeSQL, "actuator type", t.ID, t.ID, t.Description, t.Unit)
}

func (r *CatalogSQLite) PutSensorModel(ctx context.Context, m models.SensorModel) error {
	return r.put(ctx, putSensorModelSQL, "sensor model", m.ID, m.ID, m.TypeID)
}

func (r *CatalogSQLite) PutActuatorModel(ctx context.Context, m models.ActuatorModel) error {
	return r.put(ctx, putActuatorModelSQL, "actuator model", m.ID, m.ID, m.TypeID)
}

func (r *CatalogSQLite) put(ctx context.Context, q, kind, id string, args ...any) error {
	if err := insertIfAbsent(ctx, r.db, q, args...); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("insert %s %q: %w", kind, id, err)
	}
	return nil
}

func (r *CatalogSQLite) ListSensorTypes(ctx context.Context) ([]models.SensorType, error) {
	var out []models.SensorType
	err := r.scanTypes(ctx, listSensorTypesSQL, func(id, desc, unit string) {
		out = append(out, models.SensorType{ID: id, Description: desc, Unit: unit})
	})
	return out, err
}

func (r *CatalogSQLite) ListActuatorTypes(ctx context.Context) ([]models.ActuatorType, error) {
	var out []models.ActuatorType
	err := r.scanTypes(ctx, listActuatorTypesSQL, func(id, desc, unit string) {
		out = append(out, models.ActuatorType{ID: id, Description: desc, Unit: unit})
	})
	return out, err
}

func (r *CatalogSQLite) ListSensorModels(ctx context.Context) ([]models.SensorModel, error) {
	var out []models.SensorModel
	err := r.scanModels(ctx, listSensorModelsSQL, func(id, typeID string) {
		out = append(out, models.SensorModel{ID: id, TypeID: typeID})
	})
	return out, err
}

func (r *CatalogSQLite) ListActuatorModels(ctx context.Context) ([]models.ActuatorModel, error) {
	var out []models.ActuatorModel
	err := r.scanModels(ctx, listActuatorModelsSQL, func(id, typeID string) {
		out = append(out, models.ActuatorModel{ID: id, TypeID: typeID})
	})
	return out, err
}

func (r *CatalogSQLite) scanTypes(ctx context.Context, q string, emit func(id, desc, unit string)) error {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, desc string
			unit     sql.NullString
		)
		if err := rows.Scan(&id, &desc, &unit); err != nil {
			return err
		}
		emit(id, desc, unit.String)
	}
	return rows.Err()
}

func (r *CatalogSQLite) scanModels(ctx context.Context, q string, emit func(id, typeID string)) error {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, typeID string
		if err := rows.Scan(&id, &typeID); err != nil {
			return err
		}
		emit(id, typeID)
	}
	return rows.Err()
}
