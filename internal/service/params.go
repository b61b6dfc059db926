package service

import (
	"time"

	"smart_home_catalog/internal/models"
)

type HouseParams struct {
	ID      string
	Name    string
	Address string
}

type RoomParams struct {
	ID      string
	HouseID string
	Name    string
	Floor   int
}

type DeviceParams struct {
	ID     string // optional; generated when empty
	Name   string
	Model  string
	RoomID string
}

// AttachParams describes a sensor or actuator to create on a device.
type AttachParams struct {
	ID       string
	DeviceID string
	ModelID  string
}

type ReadingParams struct {
	ID        string
	DeviceID  string
	SensorID  string
	Value     string
	Timestamp time.Time // zero means now
}

// ReadingFilter selects a device sensor's readings in [From, To].
type ReadingFilter struct {
	DeviceID string
	SensorID string
	From     time.Time // zero means no lower bound
	To       time.Time // zero means now
}

type PeakParams struct {
	From            time.Time
	To              time.Time
	IntervalMinutes int
}

// ReferenceData is the full sensor/actuator type and model catalog.
type ReferenceData struct {
	SensorTypes    []models.SensorType    `json:"sensor_types"`
	SensorModels   []models.SensorModel   `json:"sensor_models"`
	ActuatorTypes  []models.ActuatorType  `json:"actuator_types"`
	ActuatorModels []models.ActuatorModel `json:"actuator_models"`
}
