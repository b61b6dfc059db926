package service

import (
	"context"
	"strings"

	"smart_home_catalog/internal/catalog"
	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"

	"github.com/google/uuid"
)

// CatalogService owns houses, rooms, devices and their sensors/actuators.
type CatalogService struct {
	houses  repository.HouseRepo
	devices repository.DeviceRepo
	sensors repository.SensorRepo
	refs    repository.CatalogRepo
}

func NewCatalogService(repos *repository.Repository) *CatalogService {
	return &CatalogService{
		houses:  repos.Houses,
		devices: repos.Devices,
		sensors: repos.Sensors,
		refs:    repos.Catalog,
	}
}

func newID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// ---- houses & rooms ----

func (s *CatalogService) CreateHouse(ctx context.Context, p HouseParams) (models.House, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.House{}, invalid("house name is required")
	}
	h := models.House{ID: newID(p.ID), Name: name, Address: strings.TrimSpace(p.Address)}
	if err := s.houses.CreateHouse(ctx, h); err != nil {
		return models.House{}, translate(err, "house")
	}
	return s.GetHouse(ctx, h.ID)
}

func (s *CatalogService) GetHouse(ctx context.Context, id string) (models.House, error) {
	h, err := s.houses.GetHouse(ctx, id)
	return h, translate(err, "house")
}

func (s *CatalogService) ListHouses(ctx context.Context) ([]models.House, error) {
	return s.houses.ListHouses(ctx)
}

func (s *CatalogService) CreateRoom(ctx context.Context, p RoomParams) (models.Room, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Room{}, invalid("room name is required")
	}
	if _, err := s.houses.GetHouse(ctx, p.HouseID); err != nil {
		return models.Room{}, translate(err, "house")
	}
	rm := models.Room{ID: newID(p.ID), HouseID: p.HouseID, Name: name, Floor: p.Floor}
	if err := s.houses.CreateRoom(ctx, rm); err != nil {
		return models.Room{}, translate(err, "room")
	}
	return rm, nil
}

func (s *CatalogService) GetRoom(ctx context.Context, id string) (models.Room, error) {
	rm, err := s.houses.GetRoom(ctx, id)
	return rm, translate(err, "room")
}

func (s *CatalogService) ListRooms(ctx context.Context, houseID string) ([]models.Room, error) {
	if _, err := s.houses.GetHouse(ctx, houseID); err != nil {
		return nil, translate(err, "house")
	}
	return s.houses.ListRooms(ctx, houseID)
}

// ---- devices ----

// CreateDevice registers an active device in an existing room. A taken ID is a conflict.
func (s *CatalogService) CreateDevice(ctx context.Context, p DeviceParams) (models.Device, error) {
	name, model := strings.TrimSpace(p.Name), strings.TrimSpace(p.Model)
	if name == "" || model == "" {
		return models.Device{}, invalid("device name and model are required")
	}
	if _, err := s.houses.GetRoom(ctx, p.RoomID); err != nil {
		return models.Device{}, translate(err, "room")
	}
	d := models.Device{ID: newID(p.ID), Name: name, Model: model, RoomID: p.RoomID, Active: true}
	if err := s.devices.Create(ctx, d); err != nil {
		return models.Device{}, translate(err, "device")
	}
	return d, nil
}

func (s *CatalogService) GetDevice(ctx context.Context, id string) (models.Device, error) {
	d, err := s.devices.Get(ctx, id)
	return d, translate(err, "device")
}

// ListDevices lists every device, or only those in roomID when it is set.
func (s *CatalogService) ListDevices(ctx context.Context, roomID string) ([]models.Device, error) {
	if roomID != "" {
		if _, err := s.houses.GetRoom(ctx, roomID); err != nil {
			return nil, translate(err, "room")
		}
	}
	return s.devices.List(ctx, roomID)
}

// DeactivateDevice switches a device off for good. There is no way back.
func (s *CatalogService) DeactivateDevice(ctx context.Context, id string) (models.Device, error) {
	d, err := s.devices.Get(ctx, id)
	if err != nil {
		return models.Device{}, translate(err, "device")
	}
	if !d.Active {
		return d, nil
	}
	if err := s.devices.Deactivate(ctx, id); err != nil {
		return models.Device{}, translate(err, "device")
	}
	d.Active = false
	return d, nil
}

// ---- sensors & actuators ----

func (s *CatalogService) CreateSensor(ctx context.Context, p AttachParams) (models.Sensor, error) {
	idx, err := s.attachTarget(ctx, p)
	if err != nil {
		return models.Sensor{}, err
	}
	if _, ok := idx.SensorModel(p.ModelID); !ok {
		return models.Sensor{}, invalid("unknown sensor model %q", p.ModelID)
	}
	sn := models.Sensor{ID: newID(p.ID), DeviceID: p.DeviceID, ModelID: p.ModelID}
	if err := s.sensors.CreateSensor(ctx, sn); err != nil {
		return models.Sensor{}, translate(err, "sensor")
	}
	return sn, nil
}

func (s *CatalogService) GetSensor(ctx context.Context, id string) (models.Sensor, error) {
	sn, err := s.sensors.GetSensor(ctx, id)
	return sn, translate(err, "sensor")
}

// ListSensors lists the sensors of one device, or all sensors when deviceID is empty.
func (s *CatalogService) ListSensors(ctx context.Context, deviceID string) ([]models.Sensor, error) {
	if err := s.deviceExists(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.sensors.ListSensors(ctx, deviceID)
}

func (s *CatalogService) CreateActuator(ctx context.Context, p AttachParams) (models.Actuator, error) {
	idx, err := s.attachTarget(ctx, p)
	if err != nil {
		return models.Actuator{}, err
	}
	if _, ok := idx.ActuatorModel(p.ModelID); !ok {
		return models.Actuator{}, invalid("unknown actuator model %q", p.ModelID)
	}
	a := models.Actuator{ID: newID(p.ID), DeviceID: p.DeviceID, ModelID: p.ModelID}
	if err := s.sensors.CreateActuator(ctx, a); err != nil {
		return models.Actuator{}, translate(err, "actuator")
	}
	return a, nil
}

func (s *CatalogService) GetActuator(ctx context.Context, id string) (models.Actuator, error) {
	a, err := s.sensors.GetActuator(ctx, id)
	return a, translate(err, "actuator")
}

func (s *CatalogService) ListActuators(ctx context.Context, deviceID string) ([]models.Actuator, error) {
	if err := s.deviceExists(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.sensors.ListActuators(ctx, deviceID)
}

func (s *CatalogService) deviceExists(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	if _, err := s.devices.Get(ctx, deviceID); err != nil {
		return translate(err, "device")
	}
	return nil
}

// attachTarget checks the owning device exists and loads the model catalog.
func (s *CatalogService) attachTarget(ctx context.Context, p AttachParams) (*catalog.Index, error) {
	if p.DeviceID == "" || p.ModelID == "" {
		return nil, invalid("device_id and model_id are required")
	}
	if _, err := s.devices.Get(ctx, p.DeviceID); err != nil {
		return nil, translate(err, "device")
	}
	return catalog.Load(ctx, s.refs)
}

// ---- reference data ----

func (s *CatalogService) ReferenceData(ctx context.Context) (ReferenceData, error) {
	var (
		rd  ReferenceData
		err error
	)
	if rd.SensorTypes, err = s.refs.ListSensorTypes(ctx); err != nil {
		return ReferenceData{}, err
	}
	if rd.SensorModels, err = s.refs.ListSensorModels(ctx); err != nil {
		return ReferenceData{}, err
	}
	if rd.ActuatorTypes, err = s.refs.ListActuatorTypes(ctx); err != nil {
		return ReferenceData{}, err
	}
	if rd.ActuatorModels, err = s.refs.ListActuatorModels(ctx); err != nil {
		return ReferenceData{}, err
	}
	return rd, nil
}
