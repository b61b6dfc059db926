package service

import (
	"context"
	"errors"
	"testing"

	"smart_home_catalog/internal/models"
)

func newCatalogFixture() (*CatalogService, *memStore) {
	store := &memStore{
		sensorModels:   []models.SensorModel{{ID: "TMP36", TypeID: "ST-TEMP"}},
		sensorTypes:    []models.SensorType{{ID: "ST-TEMP", Description: "Temperature"}},
		actuatorModels: []models.ActuatorModel{{ID: "SW-ONOFF", TypeID: "AT-SWITCH"}},
		actuatorTypes:  []models.ActuatorType{{ID: "AT-SWITCH", Description: "Switch"}},
	}
	return NewCatalogService(store.repos()), store
}

func TestCatalog_HouseRoomDeviceFlow(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalogFixture()
	ctx := context.Background()

	h, err := svc.CreateHouse(ctx, HouseParams{Name: " Home "})
	if err != nil {
		t.Fatalf("CreateHouse: %v", err)
	}
	if h.ID == "" || h.Name != "Home" {
		t.Fatalf("unexpected house: %+v", h)
	}

	rm, err := svc.CreateRoom(ctx, RoomParams{HouseID: h.ID, Name: "Kitchen", Floor: 1})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	d, err := svc.CreateDevice(ctx, DeviceParams{ID: "fridge", Name: "Fridge", Model: "F-200", RoomID: rm.ID})
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if !d.Active {
		t.Fatalf("new devices must be active")
	}

	if _, err := svc.CreateDevice(ctx, DeviceParams{ID: "fridge", Name: "Fridge 2", Model: "F-200", RoomID: rm.ID}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on duplicate id, got %v", err)
	}

	list, err := svc.ListDevices(ctx, rm.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListDevices = %+v, %v", list, err)
	}
}

func TestCatalog_NotFoundAndValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalogFixture()
	ctx := context.Background()

	if _, err := svc.CreateRoom(ctx, RoomParams{HouseID: "nope", Name: "Hall"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("room in missing house: %v", err)
	}
	if _, err := svc.CreateDevice(ctx, DeviceParams{Name: "Lamp", Model: "L", RoomID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("device in missing room: %v", err)
	}
	if _, err := svc.CreateDevice(ctx, DeviceParams{Name: "", Model: "L", RoomID: "r"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("device without name: %v", err)
	}
	if _, err := svc.CreateHouse(ctx, HouseParams{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("house without name: %v", err)
	}
	if _, err := svc.GetDevice(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetDevice ghost: %v", err)
	}
	if _, err := svc.ListRooms(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListRooms ghost: %v", err)
	}
}

func TestCatalog_DeactivateIsOneWay(t *testing.T) {
	t.Parallel()
	svc, store := newCatalogFixture()
	store.devices = []models.Device{{ID: "d1", Name: "Lamp", Active: true}}
	ctx := context.Background()

	d, err := svc.DeactivateDevice(ctx, "d1")
	if err != nil || d.Active {
		t.Fatalf("DeactivateDevice = %+v, %v", d, err)
	}
	// second call is a no-op success
	d, err = svc.DeactivateDevice(ctx, "d1")
	if err != nil || d.Active {
		t.Fatalf("second DeactivateDevice = %+v, %v", d, err)
	}
	if _, err := svc.DeactivateDevice(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalog_AttachSensorsAndActuators(t *testing.T) {
	t.Parallel()
	svc, store := newCatalogFixture()
	store.devices = []models.Device{{ID: "d1", Name: "Thermo", Active: true}}
	ctx := context.Background()

	s, err := svc.CreateSensor(ctx, AttachParams{DeviceID: "d1", ModelID: "TMP36"})
	if err != nil {
		t.Fatalf("CreateSensor: %v", err)
	}
	if s.ID == "" || s.DeviceID != "d1" {
		t.Fatalf("unexpected sensor: %+v", s)
	}
	if _, err := svc.CreateSensor(ctx, AttachParams{DeviceID: "d1", ModelID: "SW-ONOFF"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("actuator model on sensor: %v", err)
	}
	if _, err := svc.CreateSensor(ctx, AttachParams{DeviceID: "ghost", ModelID: "TMP36"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("sensor on missing device: %v", err)
	}

	a, err := svc.CreateActuator(ctx, AttachParams{ID: "a1", DeviceID: "d1", ModelID: "SW-ONOFF"})
	if err != nil {
		t.Fatalf("CreateActuator: %v", err)
	}
	if _, err := svc.CreateActuator(ctx, AttachParams{ID: "a1", DeviceID: "d1", ModelID: "SW-ONOFF"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate actuator: %v", err)
	}
	got, err := svc.GetActuator(ctx, a.ID)
	if err != nil || got.ModelID != "SW-ONOFF" {
		t.Fatalf("GetActuator = %+v, %v", got, err)
	}
}

func TestCatalog_ListAttachmentsOfMissingDevice(t *testing.T) {
	t.Parallel()
	svc, store := newCatalogFixture()
	store.devices = []models.Device{{ID: "d1", Name: "Thermo", Active: true}}
	store.sensors = []models.Sensor{{ID: "s1", DeviceID: "d1", ModelID: "TMP36"}}
	ctx := context.Background()

	if _, err := svc.ListSensors(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListSensors on missing device: %v", err)
	}
	if _, err := svc.ListActuators(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListActuators on missing device: %v", err)
	}

	sensors, err := svc.ListSensors(ctx, "d1")
	if err != nil || len(sensors) != 1 {
		t.Fatalf("ListSensors(d1) = %+v, %v", sensors, err)
	}
	actuators, err := svc.ListActuators(ctx, "d1")
	if err != nil || len(actuators) != 0 {
		t.Fatalf("ListActuators(d1) = %+v, %v", actuators, err)
	}
	all, err := svc.ListSensors(ctx, "")
	if err != nil || len(all) != 1 {
		t.Fatalf("ListSensors(all) = %+v, %v", all, err)
	}
}

func TestCatalog_ReferenceData(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalogFixture()

	rd, err := svc.ReferenceData(context.Background())
	if err != nil {
		t.Fatalf("ReferenceData: %v", err)
	}
	if len(rd.SensorTypes) != 1 || len(rd.ActuatorModels) != 1 {
		t.Fatalf("unexpected reference data: %+v", rd)
	}
}
