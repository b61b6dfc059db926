package service

import (
	"context"
	"sync"
	"time"

	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"
)

// memStore is an in-memory stand-in for every repository the services use.
type memStore struct {
	mu        sync.Mutex
	houses    []models.House
	rooms     []models.Room
	devices   []models.Device
	sensors   []models.Sensor
	actuators []models.Actuator
	readings  []models.SensorReading

	sensorTypes    []models.SensorType
	sensorModels   []models.SensorModel
	actuatorTypes  []models.ActuatorType
	actuatorModels []models.ActuatorModel

	listErr error
}

func (m *memStore) repos() *repository.Repository {
	return &repository.Repository{
		Houses:   m,
		Devices:  (*memDevices)(m),
		Sensors:  m,
		Catalog:  m,
		Readings: (*memReadings)(m),
	}
}

// ---- houses ----

func (m *memStore) CreateHouse(_ context.Context, h models.House) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.houses {
		if x.ID == h.ID {
			return repository.ErrAlreadyExists
		}
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	m.houses = append(m.houses, h)
	return nil
}

func (m *memStore) GetHouse(_ context.Context, id string) (models.House, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.houses {
		if x.ID == id {
			return x, nil
		}
	}
	return models.House{}, repository.ErrNotFound
}

func (m *memStore) ListHouses(context.Context) ([]models.House, error) {
	return m.houses, m.listErr
}

func (m *memStore) CreateRoom(_ context.Context, r models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.rooms {
		if x.ID == r.ID {
			return repository.ErrAlreadyExists
		}
	}
	m.rooms = append(m.rooms, r)
	return nil
}

func (m *memStore) GetRoom(_ context.Context, id string) (models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.rooms {
		if x.ID == id {
			return x, nil
		}
	}
	return models.Room{}, repository.ErrNotFound
}

func (m *memStore) ListRooms(_ context.Context, houseID string) ([]models.Room, error) {
	var out []models.Room
	for _, x := range m.rooms {
		if x.HouseID == houseID {
			out = append(out, x)
		}
	}
	return out, m.listErr
}

// ---- devices ----

type memDevices memStore

func (d *memDevices) Create(_ context.Context, dev models.Device) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, x := range d.devices {
		if x.ID == dev.ID {
			return repository.ErrAlreadyExists
		}
	}
	d.devices = append(d.devices, dev)
	return nil
}

func (d *memDevices) Get(_ context.Context, id string) (models.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, x := range d.devices {
		if x.ID == id {
			return x, nil
		}
	}
	return models.Device{}, repository.ErrNotFound
}

func (d *memDevices) List(_ context.Context, roomID string) ([]models.Device, error) {
	var out []models.Device
	for _, x := range d.devices {
		if roomID == "" || x.RoomID == roomID {
			out = append(out, x)
		}
	}
	return out, d.listErr
}

func (d *memDevices) ListByName(_ context.Context, name string) ([]models.Device, error) {
	var out []models.Device
	for _, x := range d.devices {
		if x.Name == name {
			out = append(out, x)
		}
	}
	return out, d.listErr
}

func (d *memDevices) Deactivate(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.devices {
		if d.devices[i].ID == id {
			d.devices[i].Active = false
			return nil
		}
	}
	return repository.ErrNotFound
}

// ---- sensors & actuators ----

func (m *memStore) CreateSensor(_ context.Context, s models.Sensor) error {
	for _, x := range m.sensors {
		if x.ID == s.ID {
			return repository.ErrAlreadyExists
		}
	}
	m.sensors = append(m.sensors, s)
	return nil
}

func (m *memStore) GetSensor(_ context.Context, id string) (models.Sensor, error) {
	for _, x := range m.sensors {
		if x.ID == id {
			return x, nil
		}
	}
	return models.Sensor{}, repository.ErrNotFound
}

func (m *memStore) ListSensors(_ context.Context, deviceID string) ([]models.Sensor, error) {
	var out []models.Sensor
	for _, x := range m.sensors {
		if deviceID == "" || x.DeviceID == deviceID {
			out = append(out, x)
		}
	}
	return out, m.listErr
}

func (m *memStore) CreateActuator(_ context.Context, a models.Actuator) error {
	for _, x := range m.actuators {
		if x.ID == a.ID {
			return repository.ErrAlreadyExists
		}
	}
	m.actuators = append(m.actuators, a)
	return nil
}

func (m *memStore) GetActuator(_ context.Context, id string) (models.Actuator, error) {
	for _, x := range m.actuators {
		if x.ID == id {
			return x, nil
		}
	}
	return models.Actuator{}, repository.ErrNotFound
}

func (m *memStore) ListActuators(_ context.Context, deviceID string) ([]models.Actuator, error) {
	var out []models.Actuator
	for _, x := range m.actuators {
		if deviceID == "" || x.DeviceID == deviceID {
			out = append(out, x)
		}
	}
	return out, m.listErr
}

// ---- reference catalog ----

func (m *memStore) PutSensorType(_ context.Context, t models.SensorType) error {
	m.sensorTypes = append(m.sensorTypes, t)
	return nil
}

func (m *memStore) PutActuatorType(_ context.Context, t models.ActuatorType) error {
	m.actuatorTypes = append(m.actuatorTypes, t)
	return nil
}

func (m *memStore) PutSensorModel(_ context.Context, sm models.SensorModel) error {
	m.sensorModels = append(m.sensorModels, sm)
	return nil
}

func (m *memStore) PutActuatorModel(_ context.Context, am models.ActuatorModel) error {
	m.actuatorModels = append(m.actuatorModels, am)
	return nil
}

func (m *memStore) ListSensorTypes(context.Context) ([]models.SensorType, error) {
	return m.sensorTypes, nil
}

func (m *memStore) ListActuatorTypes(context.Context) ([]models.ActuatorType, error) {
	return m.actuatorTypes, nil
}

func (m *memStore) ListSensorModels(context.Context) ([]models.SensorModel, error) {
	return m.sensorModels, nil
}

func (m *memStore) ListActuatorModels(context.Context) ([]models.ActuatorModel, error) {
	return m.actuatorModels, nil
}

// ---- readings ----

type memReadings memStore

func (r *memReadings) Append(_ context.Context, rd models.SensorReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.readings {
		if x.ID == rd.ID {
			return repository.ErrAlreadyExists
		}
	}
	r.readings = append(r.readings, rd)
	return nil
}

func (r *memReadings) ListForDevice(_ context.Context, deviceID string, from, to time.Time) ([]models.SensorReading, error) {
	var out []models.SensorReading
	for _, x := range r.readings {
		if x.DeviceID == deviceID && !x.Timestamp.Before(from) && !x.Timestamp.After(to) {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *memReadings) ListForDeviceSensor(_ context.Context, deviceID, sensorID string, from, to time.Time) ([]models.SensorReading, error) {
	var out []models.SensorReading
	for _, x := range r.readings {
		if x.DeviceID == deviceID && x.SensorID == sensorID && !x.Timestamp.Before(from) && !x.Timestamp.After(to) {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *memReadings) Latest(_ context.Context, sensorID string) (models.SensorReading, error) {
	var (
		best  models.SensorReading
		found bool
	)
	for _, x := range r.readings {
		if x.SensorID == sensorID && (!found || x.Timestamp.After(best.Timestamp)) {
			best, found = x, true
		}
	}
	if !found {
		return models.SensorReading{}, repository.ErrNotFound
	}
	return best, nil
}

// fakeCache is an in-memory LatestReadingCache.
type fakeCache struct {
	byID map[string]models.SensorReading
	sets int
}

func newFakeCache() *fakeCache { return &fakeCache{byID: map[string]models.SensorReading{}} }

func (c *fakeCache) Get(_ context.Context, id string) (models.SensorReading, bool, error) {
	r, ok := c.byID[id]
	return r, ok, nil
}

func (c *fakeCache) Set(_ context.Context, r models.SensorReading) error {
	c.sets++
	c.byID[r.SensorID] = r
	return nil
}
