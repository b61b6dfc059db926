package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"smart_home_catalog/internal/models"
)

var (
	// ErrNotFound is returned by single-row lookups that matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when an insert-if-absent affected no rows.
	ErrAlreadyExists = errors.New("record already exists")
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type HouseRepo interface {
	CreateHouse(ctx context.Context, h models.House) error
	GetHouse(ctx context.Context, id string) (models.House, error)
	ListHouses(ctx context.Context) ([]models.House, error)
	CreateRoom(ctx context.Context, r models.Room) error
	GetRoom(ctx context.Context, id string) (models.Room, error)
	ListRooms(ctx context.Context, houseID string) ([]models.Room, error)
}

type DeviceRepo interface {
	Create(ctx context.Context, d models.Device) error
	Get(ctx context.Context, id string) (models.Device, error)
	List(ctx context.Context, roomID string) ([]models.Device, error)
	ListByName(ctx context.Context, name string) ([]models.Device, error)
	Deactivate(ctx context.Context, id string) error
}

type SensorRepo interface {
	CreateSensor(ctx context.Context, s models.Sensor) error
	GetSensor(ctx context.Context, id string) (models.Sensor, error)
	ListSensors(ctx context.Context, deviceID string) ([]models.Sensor, error)
	CreateActuator(ctx context.Context, a models.Actuator) error
	GetActuator(ctx context.Context, id string) (models.Actuator, error)
	ListActuators(ctx context.Context, deviceID string) ([]models.Actuator, error)
}

type CatalogRepo interface {
	PutSensorType(ctx context.Context, t models.SensorType) error
	PutActuatorType(ctx context.Context, t models.ActuatorType) error
	PutSensorModel(ctx context.Context, m models.SensorModel) error
	PutActuatorModel(ctx context.Context, m models.ActuatorModel) error
	ListSensorTypes(ctx context.Context) ([]models.SensorType, error)
	ListActuatorTypes(ctx context.Context) ([]models.ActuatorType, error)
	ListSensorModels(ctx context.Context) ([]models.SensorModel, error)
	ListActuatorModels(ctx context.Context) ([]models.ActuatorModel, error)
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.SensorReading) error
	ListForDevice(ctx context.Context, deviceID string, from, to time.Time) ([]models.SensorReading, error)
	ListForDeviceSensor(ctx context.Context, deviceID, sensorID string, from, to time.Time) ([]models.SensorReading, error)
	Latest(ctx context.Context, sensorID string) (models.SensorReading, error)
}

type Repository struct {
	Houses   HouseRepo
	Devices  DeviceRepo
	Sensors  SensorRepo
	Catalog  CatalogRepo
	Readings ReadingRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Houses:   NewHouseSQLite(db),
		Devices:  NewDeviceSQLite(db),
		Sensors:  NewSensorSQLite(db),
		Catalog:  NewCatalogSQLite(db),
		Readings: NewReadingSQLite(db),
		Auth:     NewUserRepository(db),
	}
}

// insertIfAbsent runs an INSERT ... ON CONFLICT DO NOTHING and reports
// ErrAlreadyExists when the row was already present.
func insertIfAbsent(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}
