package models

// SensorType is static reference data. Two types are equal iff their IDs match.
type SensorType struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Unit        string `json:"unit,omitempty" yaml:"unit"`
}

type ActuatorType struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Unit        string `json:"unit,omitempty" yaml:"unit"`
}

// SensorModel points at the SensorType it measures.
type SensorModel struct {
	ID     string `json:"id" yaml:"id"`
	TypeID string `json:"type_id" yaml:"type_id"`
}

type ActuatorModel struct {
	ID     string `json:"id" yaml:"id"`
	TypeID string `json:"type_id" yaml:"type_id"`
}
