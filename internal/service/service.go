package service

import (
	"context"
	"time"

	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Houses manages houses and the rooms inside them.
type Houses interface {
	CreateHouse(ctx context.Context, p HouseParams) (models.House, error)
	GetHouse(ctx context.Context, id string) (models.House, error)
	ListHouses(ctx context.Context) ([]models.House, error)
	CreateRoom(ctx context.Context, p RoomParams) (models.Room, error)
	GetRoom(ctx context.Context, id string) (models.Room, error)
	ListRooms(ctx context.Context, houseID string) ([]models.Room, error)
}

// Devices manages devices; deactivation is one-way.
type Devices interface {
	CreateDevice(ctx context.Context, p DeviceParams) (models.Device, error)
	GetDevice(ctx context.Context, id string) (models.Device, error)
	ListDevices(ctx context.Context, roomID string) ([]models.Device, error)
	DeactivateDevice(ctx context.Context, id string) (models.Device, error)
}

// Attachments manages the sensors and actuators hosted by devices. Both are read-only after creation.
type Attachments interface {
	CreateSensor(ctx context.Context, p AttachParams) (models.Sensor, error)
	GetSensor(ctx context.Context, id string) (models.Sensor, error)
	ListSensors(ctx context.Context, deviceID string) ([]models.Sensor, error)
	CreateActuator(ctx context.Context, p AttachParams) (models.Actuator, error)
	GetActuator(ctx context.Context, id string) (models.Actuator, error)
	ListActuators(ctx context.Context, deviceID string) ([]models.Actuator, error)
}

type Catalog interface {
	ReferenceData(ctx context.Context) (ReferenceData, error)
}

// Readings is append-only access to sensor readings.
type Readings interface {
	AppendReading(ctx context.Context, p ReadingParams) (models.SensorReading, error)
	ListReadings(ctx context.Context, f ReadingFilter) ([]models.SensorReading, error)
	LatestForSensor(ctx context.Context, sensorID string) (models.SensorReading, bool, error)
}

type TypeGrouping interface {
	GroupDevicesByType(ctx context.Context) (DeviceGroups, error)
}

type Power interface {
	HousePeakPower(ctx context.Context, p PeakParams) (float64, error)
}

// Service aggregates all sub-services.
type Service struct {
	Houses
	Devices
	Attachments
	Catalog
	Readings
	TypeGrouping
	Power
	Authorization
}

// Options carries the configurable knobs of the service layer.
type Options struct {
	GridMeterName    string
	ConsumptionModel string
	MaxPeakWindows   int
	SigningKey       string
	TokenTTL         time.Duration
}

// NewService wires the repository layer into concrete services. cache may be nil.
func NewService(repos *repository.Repository, cache LatestReadingCache, opts Options) *Service {
	catalogSvc := NewCatalogService(repos)
	readings := NewReadingService(repos.Readings, repos.Devices, repos.Sensors, cache)
	return &Service{
		Houses:        catalogSvc,
		Devices:       catalogSvc,
		Attachments:   catalogSvc,
		Catalog:       catalogSvc,
		Readings:      readings,
		TypeGrouping:  NewGroupingService(repos.Devices, repos.Sensors, repos.Catalog),
		Power:         NewPowerService(repos.Devices, repos.Sensors, readings, opts.GridMeterName, opts.ConsumptionModel, opts.MaxPeakWindows),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
	}
}
