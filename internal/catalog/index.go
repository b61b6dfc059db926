// Package catalog holds the sensor/actuator reference data: the in-memory
// model→type lookup used by device grouping, and the YAML seed loader.
package catalog

import (
	"context"
	"fmt"

	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"
)

// Index is a read-only snapshot of the reference tables keyed by ID.
// Lookups report a miss with ok=false and never fail.
type Index struct {
	sensorModels   map[string]models.SensorModel
	sensorTypes    map[string]models.SensorType
	actuatorModels map[string]models.ActuatorModel
	actuatorTypes  map[string]models.ActuatorType
}

func NewIndex(sm []models.SensorModel, st []models.SensorType, am []models.ActuatorModel, at []models.ActuatorType) *Index {
	idx := &Index{
		sensorModels:   make(map[string]models.SensorModel, len(sm)),
		sensorTypes:    make(map[string]models.SensorType, len(st)),
		actuatorModels: make(map[string]models.ActuatorModel, len(am)),
		actuatorTypes:  make(map[string]models.ActuatorType, len(at)),
	}
	for _, m := range sm {
		idx.sensorModels[m.ID] = m
	}
	for _, t := range st {
		idx.sensorTypes[t.ID] = t
	}
	for _, m := range am {
		idx.actuatorModels[m.ID] = m
	}
	for _, t := range at {
		idx.actuatorTypes[t.ID] = t
	}
	return idx
}

// Load builds an Index from the persisted reference tables.
func Load(ctx context.Context, repo repository.CatalogRepo) (*Index, error) {
	sm, err := repo.ListSensorModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sensor models: %w", err)
	}
	st, err := repo.ListSensorTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sensor types: %w", err)
	}
	am, err := repo.ListActuatorModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load actuator models: %w", err)
	}
	at, err := repo.ListActuatorTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load actuator types: %w", err)
	}
	return NewIndex(sm, st, am, at), nil
}

func (i *Index) SensorModel(id string) (models.SensorModel, bool) {
	m, ok := i.sensorModels[id]
	return m, ok
}

func (i *Index) SensorType(id string) (models.SensorType, bool) {
	t, ok := i.sensorTypes[id]
	return t, ok
}

func (i *Index) ActuatorModel(id string) (models.ActuatorModel, bool) {
	m, ok := i.actuatorModels[id]
	return m, ok
}

func (i *Index) ActuatorType(id string) (models.ActuatorType, bool) {
	t, ok := i.actuatorTypes[id]
	return t, ok
}
