package handlers

import (
	"context"
	"net/http"

	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockHouses struct {
	house     models.House
	room      models.Room
	rooms     []models.Room
	err       error
	lastHouse service.HouseParams
	lastRoom  service.RoomParams
}

func (m *mockHouses) CreateHouse(_ context.Context, p service.HouseParams) (models.House, error) {
	m.lastHouse = p
	return m.house, m.err
}
func (m *mockHouses) GetHouse(context.Context, string) (models.House, error) {
	return m.house, m.err
}
func (m *mockHouses) ListHouses(context.Context) ([]models.House, error) {
	return []models.House{m.house}, m.err
}
func (m *mockHouses) CreateRoom(_ context.Context, p service.RoomParams) (models.Room, error) {
	m.lastRoom = p
	return m.room, m.err
}
func (m *mockHouses) GetRoom(context.Context, string) (models.Room, error) {
	return m.room, m.err
}
func (m *mockHouses) ListRooms(context.Context, string) ([]models.Room, error) {
	return m.rooms, m.err
}

type mockDevices struct {
	device      models.Device
	list        []models.Device
	err         error
	lastCreate  service.DeviceParams
	lastRoomID  string
	deactivated []string
}

func (m *mockDevices) CreateDevice(_ context.Context, p service.DeviceParams) (models.Device, error) {
	m.lastCreate = p
	return m.device, m.err
}
func (m *mockDevices) GetDevice(context.Context, string) (models.Device, error) {
	return m.device, m.err
}
func (m *mockDevices) ListDevices(_ context.Context, roomID string) ([]models.Device, error) {
	m.lastRoomID = roomID
	return m.list, m.err
}
func (m *mockDevices) DeactivateDevice(_ context.Context, id string) (models.Device, error) {
	m.deactivated = append(m.deactivated, id)
	d := m.device
	d.Active = false
	return d, m.err
}

type mockAttachments struct {
	sensor     models.Sensor
	actuator   models.Actuator
	err        error
	lastAttach service.AttachParams
}

func (m *mockAttachments) CreateSensor(_ context.Context, p service.AttachParams) (models.Sensor, error) {
	m.lastAttach = p
	return m.sensor, m.err
}
func (m *mockAttachments) GetSensor(context.Context, string) (models.Sensor, error) {
	return m.sensor, m.err
}
func (m *mockAttachments) ListSensors(context.Context, string) ([]models.Sensor, error) {
	return []models.Sensor{m.sensor}, m.err
}
func (m *mockAttachments) CreateActuator(_ context.Context, p service.AttachParams) (models.Actuator, error) {
	m.lastAttach = p
	return m.actuator, m.err
}
func (m *mockAttachments) GetActuator(context.Context, string) (models.Actuator, error) {
	return m.actuator, m.err
}
func (m *mockAttachments) ListActuators(context.Context, string) ([]models.Actuator, error) {
	return []models.Actuator{m.actuator}, m.err
}

type mockCatalog struct {
	data service.ReferenceData
	err  error
}

func (m *mockCatalog) ReferenceData(context.Context) (service.ReferenceData, error) {
	return m.data, m.err
}

type mockReadings struct {
	appended   models.SensorReading
	appendErr  error
	list       []models.SensorReading
	listErr    error
	latest     models.SensorReading
	latestOK   bool
	latestErr  error
	lastAppend service.ReadingParams
	lastFilter service.ReadingFilter
}

func (m *mockReadings) AppendReading(_ context.Context, p service.ReadingParams) (models.SensorReading, error) {
	m.lastAppend = p
	return m.appended, m.appendErr
}
func (m *mockReadings) ListReadings(_ context.Context, f service.ReadingFilter) ([]models.SensorReading, error) {
	m.lastFilter = f
	return m.list, m.listErr
}
func (m *mockReadings) LatestForSensor(context.Context, string) (models.SensorReading, bool, error) {
	return m.latest, m.latestOK, m.latestErr
}

type mockGrouping struct {
	groups service.DeviceGroups
	err    error
}

func (m *mockGrouping) GroupDevicesByType(context.Context) (service.DeviceGroups, error) {
	return m.groups, m.err
}

type mockPower struct {
	peak     float64
	err      error
	lastPeak service.PeakParams
}

func (m *mockPower) HousePeakPower(_ context.Context, p service.PeakParams) (float64, error) {
	m.lastPeak = p
	return m.peak, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
