package models

// Device lives in exactly one room. Active flips to false once and never back.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Model  string `json:"model"`
	RoomID string `json:"room_id"`
	Active bool   `json:"active"`
}

// Sensor is fixed to its device at creation; there is no update path.
type Sensor struct {
	ID       string `json:"id"`
	DeviceID string `json:"device_id"`
	ModelID  string `json:"model_id"`
}

type Actuator struct {
	ID       string `json:"id"`
	DeviceID string `json:"device_id"`
	ModelID  string `json:"model_id"`
}
