package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"

	"gopkg.in/yaml.v3"
)

// Seed is the on-disk shape of the reference catalog file.
type Seed struct {
	SensorTypes    []models.SensorType    `yaml:"sensor_types"`
	SensorModels   []models.SensorModel   `yaml:"sensor_models"`
	ActuatorTypes  []models.ActuatorType  `yaml:"actuator_types"`
	ActuatorModels []models.ActuatorModel `yaml:"actuator_models"`
}

// SeedResult counts rows that were newly inserted.
type SeedResult struct {
	Inserted int
	Skipped  int
}

// LoadSeedFile parses a YAML catalog file. Environment variables in the
// file are expanded before parsing.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog seed: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &s); err != nil {
		return nil, fmt.Errorf("parsing catalog seed: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Seed) validate() error {
	for _, t := range s.SensorTypes {
		if t.ID == "" || t.Description == "" {
			return fmt.Errorf("sensor type %q: id and description are required", t.ID)
		}
	}
	for _, t := range s.ActuatorTypes {
		if t.ID == "" || t.Description == "" {
			return fmt.Errorf("actuator type %q: id and description are required", t.ID)
		}
	}
	for _, m := range s.SensorModels {
		if m.ID == "" || m.TypeID == "" {
			return fmt.Errorf("sensor model %q: id and type_id are required", m.ID)
		}
	}
	for _, m := range s.ActuatorModels {
		if m.ID == "" || m.TypeID == "" {
			return fmt.Errorf("actuator model %q: id and type_id are required", m.ID)
		}
	}
	return nil
}

// Apply writes the seed through repo. Rows that already exist are left as
// they are, so applying the same file twice is harmless.
func (s *Seed) Apply(ctx context.Context, repo repository.CatalogRepo) (SeedResult, error) {
	var res SeedResult
	count := func(err error) error {
		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, repository.ErrAlreadyExists):
			res.Skipped++
		default:
			return err
		}
		return nil
	}

	for _, t := range s.SensorTypes {
		if err := count(repo.PutSensorType(ctx, t)); err != nil {
			return res, err
		}
	}
	for _, t := range s.ActuatorTypes {
		if err := count(repo.PutActuatorType(ctx, t)); err != nil {
			return res, err
		}
	}
	for _, m := range s.SensorModels {
		if err := count(repo.PutSensorModel(ctx, m)); err != nil {
			return res, err
		}
	}
	for _, m := range s.ActuatorModels {
		if err := count(repo.PutActuatorModel(ctx, m)); err != nil {
			return res, err
		}
	}
	return res, nil
}
