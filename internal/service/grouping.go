package service

import (
	"context"
	"fmt"

	"smart_home_catalog/internal/catalog"
	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"
)

// TypeCatalog resolves model and type IDs. A miss is reported with ok=false.
type TypeCatalog interface {
	SensorModel(id string) (models.SensorModel, bool)
	SensorType(id string) (models.SensorType, bool)
	ActuatorModel(id string) (models.ActuatorModel, bool)
	ActuatorType(id string) (models.ActuatorType, bool)
}

// DeviceLookup finds a device record by ID.
type DeviceLookup func(id string) (models.Device, bool)

// DeviceGroups maps a type description to the devices hosting a sensor or
// actuator of that type. Unresolved lists the IDs of devices that own at
// least one sensor/actuator whose model→type chain or device record is
// missing; those are left out of Groups.
type DeviceGroups struct {
	Groups     map[string][]models.Device `json:"groups"`
	Unresolved []string                   `json:"unresolved"`
}

// GroupDevicesByType scans sensors then actuators and files the owning device
// under the description of the resolved type. A device appears once per
// sensor/actuator it owns, so the same device may be listed more than once
// under a key. Unresolvable entries are skipped and reported in Unresolved.
func GroupDevicesByType(sensors []models.Sensor, actuators []models.Actuator, devices DeviceLookup, types TypeCatalog) DeviceGroups {
	out := DeviceGroups{
		Groups:     make(map[string][]models.Device),
		Unresolved: []string{},
	}
	seen := make(map[string]struct{})
	skip := func(deviceID string) {
		if _, ok := seen[deviceID]; ok {
			return
		}
		seen[deviceID] = struct{}{}
		out.Unresolved = append(out.Unresolved, deviceID)
	}
	file := func(desc, deviceID string) {
		d, ok := devices(deviceID)
		if !ok {
			skip(deviceID)
			return
		}
		out.Groups[desc] = append(out.Groups[desc], d)
	}

	for _, s := range sensors {
		desc, ok := sensorTypeDescription(s, types)
		if !ok {
			skip(s.DeviceID)
			continue
		}
		file(desc, s.DeviceID)
	}
	for _, a := range actuators {
		desc, ok := actuatorTypeDescription(a, types)
		if !ok {
			skip(a.DeviceID)
			continue
		}
		file(desc, a.DeviceID)
	}
	return out
}

func sensorTypeDescription(s models.Sensor, types TypeCatalog) (string, bool) {
	m, ok := types.SensorModel(s.ModelID)
	if !ok {
		return "", false
	}
	t, ok := types.SensorType(m.TypeID)
	if !ok {
		return "", false
	}
	return t.Description, true
}

func actuatorTypeDescription(a models.Actuator, types TypeCatalog) (string, bool) {
	m, ok := types.ActuatorModel(a.ModelID)
	if !ok {
		return "", false
	}
	t, ok := types.ActuatorType(m.TypeID)
	if !ok {
		return "", false
	}
	return t.Description, true
}

// GroupingService loads the whole catalog and groups it.
type GroupingService struct {
	devices repository.DeviceRepo
	sensors repository.SensorRepo
	catalog repository.CatalogRepo
}

func NewGroupingService(devices repository.DeviceRepo, sensors repository.SensorRepo, catalogRepo repository.CatalogRepo) *GroupingService {
	return &GroupingService{devices: devices, sensors: sensors, catalog: catalogRepo}
}

// GroupDevicesByType groups every device in the catalog regardless of its
// activation status.
func (s *GroupingService) GroupDevicesByType(ctx context.Context) (DeviceGroups, error) {
	sensors, err := s.sensors.ListSensors(ctx, "")
	if err != nil {
		return DeviceGroups{}, fmt.Errorf("load sensors: %w", err)
	}
	actuators, err := s.sensors.ListActuators(ctx, "")
	if err != nil {
		return DeviceGroups{}, fmt.Errorf("load actuators: %w", err)
	}
	devices, err := s.devices.List(ctx, "")
	if err != nil {
		return DeviceGroups{}, fmt.Errorf("load devices: %w", err)
	}
	idx, err := catalog.Load(ctx, s.catalog)
	if err != nil {
		return DeviceGroups{}, err
	}
	return GroupDevicesByType(sensors, actuators, indexDevices(devices), idx), nil
}

func indexDevices(devices []models.Device) DeviceLookup {
	byID := make(map[string]models.Device, len(devices))
	for _, d := range devices {
		byID[d.ID] = d
	}
	return func(id string) (models.Device, bool) {
		d, ok := byID[id]
		return d, ok
	}
}
