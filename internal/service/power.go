package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smart_home_catalog/internal/models"
	"smart_home_catalog/internal/repository"
)

const (
	DefaultGridMeterName    = "Power Grid Meter"
	DefaultConsumptionModel = "PC500W"
	// DefaultMaxWindows bounds the work of one peak query; every window costs
	// one reading lookup per consumption device.
	DefaultMaxWindows = 50_000
)

// ReadingStore fetches a device's readings with from <= timestamp <= to.
// No readings is an empty slice, not an error.
type ReadingStore interface {
	ReadingsForDeviceInWindow(ctx context.Context, deviceID string, from, to time.Time) ([]models.SensorReading, error)
}

// Window is one slice of a peak-power query period. Windows are half-open
// [Start, End) except the last, which also includes End.
type Window struct {
	Start time.Time
	End   time.Time
	Last  bool
}

// Contains reports whether t falls inside w.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.Last {
		return !t.After(w.End)
	}
	return t.Before(w.End)
}

// SplitWindows partitions [start, end] into ceil(d/interval) consecutive
// windows of interval length; the final one is clipped to end. A zero
// period yields no windows. interval must be positive.
func SplitWindows(start, end time.Time, interval time.Duration) []Window {
	d := end.Sub(start)
	if d <= 0 || interval <= 0 {
		return nil
	}
	if interval > d {
		interval = d
	}
	n := windowCount(d, interval)
	out := make([]Window, 0, n)
	for i := 0; i < n; i++ {
		ws := start.Add(time.Duration(i) * interval)
		we := ws.Add(interval)
		if we.After(end) {
			we = end
		}
		out = append(out, Window{Start: ws, End: we, Last: i == n-1})
	}
	return out
}

// windowCount is ceil(d/interval) for positive d and interval, without
// overflowing on d + interval.
func windowCount(d, interval time.Duration) int {
	n := d / interval
	if d%interval != 0 {
		n++
	}
	return int(n)
}

// windowLength converts intervalMinutes to a duration for a period of
// length d. An interval at least as long as the period is one window, which
// also keeps huge minute counts from overflowing.
func windowLength(d time.Duration, intervalMinutes int) time.Duration {
	periodMinutes := int64(windowCount(d, time.Minute))
	if int64(intervalMinutes) >= periodMinutes {
		return d
	}
	return time.Duration(intervalMinutes) * time.Minute
}

// PowerService answers peak consumption queries for a house power grid.
type PowerService struct {
	devices          repository.DeviceRepo
	sensors          repository.SensorRepo
	readings         ReadingStore
	gridMeterName    string
	consumptionModel string
	maxWindows       int
}

// NewPowerService builds the service. Empty names and a non-positive
// maxWindows fall back to the defaults.
func NewPowerService(devices repository.DeviceRepo, sensors repository.SensorRepo, readings ReadingStore, gridMeterName, consumptionModel string, maxWindows int) *PowerService {
	if gridMeterName == "" {
		gridMeterName = DefaultGridMeterName
	}
	if consumptionModel == "" {
		consumptionModel = DefaultConsumptionModel
	}
	if maxWindows <= 0 {
		maxWindows = DefaultMaxWindows
	}
	return &PowerService{
		devices:          devices,
		sensors:          sensors,
		readings:         readings,
		gridMeterName:    gridMeterName,
		consumptionModel: consumptionModel,
		maxWindows:       maxWindows,
	}
}

// HousePeakPower finds the power grid meter by name and runs PeakPower for it.
func (s *PowerService) HousePeakPower(ctx context.Context, p PeakParams) (float64, error) {
	meters, err := s.devices.ListByName(ctx, s.gridMeterName)
	if err != nil {
		return 0, fmt.Errorf("find power grid meter: %w", err)
	}
	if len(meters) == 0 {
		return 0, ErrGridMeterNotFound
	}
	return s.PeakPower(ctx, meters[0], p.From, p.To, p.IntervalMinutes)
}

// PeakPower returns the highest total consumption seen in any one window of
// [start, end]. Within a window each consumption device contributes the mean
// of its readings (0 without readings); the window total is the sum of those
// means.
func (s *PowerService) PeakPower(ctx context.Context, gridMeter models.Device, start, end time.Time, intervalMinutes int) (float64, error) {
	if gridMeter.Name != s.gridMeterName {
		return 0, ErrWrongDevice
	}
	if end.Before(start) {
		return 0, ErrInvalidPeriod
	}
	if intervalMinutes < 0 {
		return 0, ErrInvalidInterval
	}
	if end.Equal(start) {
		return 0, ErrNoData
	}
	if intervalMinutes == 0 {
		return 0, ErrInvalidInterval
	}
	d := end.Sub(start)
	if !start.Add(d).Equal(end) {
		return 0, ErrPeriodTooLong
	}
	interval := windowLength(d, intervalMinutes)
	if n := windowCount(d, interval); n > s.maxWindows {
		return 0, fmt.Errorf("%w: %d windows exceed the limit of %d", ErrTooManyWindows, n, s.maxWindows)
	}

	candidates, err := s.consumptionDevices(ctx)
	if err != nil {
		return 0, err
	}

	windows := SplitWindows(start, end, interval)
	if len(windows) == 0 {
		return 0, ErrNoData
	}

	peak := 0.0
	for i, w := range windows {
		total := 0.0
		for _, deviceID := range candidates {
			mean, err := s.windowMean(ctx, deviceID, w)
			if err != nil {
				return 0, err
			}
			total += mean
		}
		if i == 0 || total > peak {
			peak = total
		}
	}
	return peak, nil
}

// consumptionDevices lists, in encounter order and without repeats, the
// devices owning a sensor of the power-consumption model.
func (s *PowerService) consumptionDevices(ctx context.Context) ([]string, error) {
	sensors, err := s.sensors.ListSensors(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load sensors: %w", err)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, sn := range sensors {
		if sn.ModelID != s.consumptionModel {
			continue
		}
		if _, ok := seen[sn.DeviceID]; ok {
			continue
		}
		seen[sn.DeviceID] = struct{}{}
		out = append(out, sn.DeviceID)
	}
	return out, nil
}

func (s *PowerService) windowMean(ctx context.Context, deviceID string, w Window) (float64, error) {
	readings, err := s.readings.ReadingsForDeviceInWindow(ctx, deviceID, w.Start, w.End)
	if err != nil {
		return 0, fmt.Errorf("readings of device %q: %w", deviceID, err)
	}
	var (
		sum   int64
		count int
	)
	for _, r := range readings {
		if !w.Contains(r.Timestamp) {
			continue
		}
		v, err := strconv.ParseInt(strings.TrimSpace(r.Value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: reading %q of device %q has value %q", ErrCorruptReading, r.ID, deviceID, r.Value)
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}
