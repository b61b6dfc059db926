package models

import "time"

// SensorReading is append-only. Value is kept as the raw text the sensor reported.
type SensorReading struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	SensorID  string    `json:"sensor_id"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}
