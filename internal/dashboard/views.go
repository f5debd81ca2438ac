// internal/dashboard/views.go
package dashboard

import (
	"time"

	"solagire-dashboard/internal/data"
	"solagire-dashboard/internal/metrics"
)

// Point is one sample of a trend line.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Trend is a named line over the 24 h window.
type Trend struct {
	Metric string  `json:"metric"`
	Points []Point `json:"points"`
}

// Header is the site banner: location, server time and snapshot id.
type Header struct {
	Location   data.Location `json:"location"`
	ServerTime time.Time     `json:"server_time"`
	SnapshotID string        `json:"snapshot_id"`
}

// OverviewView is the summary tab: output, panel heat, battery and the power trend.
type OverviewView struct {
	Power            float64 `json:"power"`
	PanelTemperature float64 `json:"panel_temperature"`
	BatteryLevel     float64 `json:"battery_level"`
	PowerTrend       Trend   `json:"power_trend"`
}

// EnvironmentView holds the latest ambient readings and their trends.
type EnvironmentView struct {
	AirTemperature   float64 `json:"air_temperature"`
	RelativeHumidity float64 `json:"relative_humidity"`
	Irradiance       float64 `json:"irradiance"`
	SoilHumidity     float64 `json:"soil_humidity"`
	// Irradiance vs air temperature, then air vs soil humidity.
	Trends []Trend `json:"trends"`
}

// SystemView holds the latest electrical readings.
type SystemView struct {
	Voltage          float64 `json:"voltage"`
	Current          float64 `json:"current"`
	Power            float64 `json:"power"`
	PanelTemperature float64 `json:"panel_temperature"`
	BatteryLevel     float64 `json:"battery_level"`
}

// TiltView compares the measured tilt with the ideal one and shows the operator setting.
type TiltView struct {
	MeasuredAngle int              `json:"measured_angle"`
	IdealTilt     float64          `json:"ideal_tilt"`
	DayOfYear     int              `json:"day_of_year"`
	Declination   float64          `json:"declination"`
	Setting       data.TiltSetting `json:"setting"`
}

// AlertsView is one snapshot's alert report.
type AlertsView struct {
	SnapshotID string           `json:"snapshot_id"`
	Report     data.AlertReport `json:"report"`
}

// SeriesView is the raw series, optionally cut to a window.
type SeriesView struct {
	SnapshotID string      `json:"snapshot_id"`
	Window     string      `json:"window,omitempty"`
	Count      int         `json:"count"`
	Series     data.Series `json:"series"`
}

func trend(series data.Series, metric string, value func(data.Observation) float64) Trend {
	points := make([]Point, len(series))
	for i, o := range series {
		points[i] = Point{Timestamp: o.Timestamp, Value: value(o)}
	}
	return Trend{Metric: metric, Points: points}
}

// Header is available before the first refresh; SnapshotID is empty then.
func (s *Service) Header() Header {
	h := Header{Location: s.opts.Location, ServerTime: s.now()}
	if snap, err := s.Current(); err == nil {
		h.SnapshotID = snap.ID
	}
	return h
}

// Overview returns the summary tab of the current snapshot.
func (s *Service) Overview() (OverviewView, error) {
	snap, err := s.Current()
	if err != nil {
		return OverviewView{}, err
	}
	l := snap.Latest
	return OverviewView{
		Power:            l.Power,
		PanelTemperature: l.PanelTemperature,
		BatteryLevel:     l.BatteryLevel,
		PowerTrend:       trend(snap.Last24h, "power", func(o data.Observation) float64 { return o.Power }),
	}, nil
}

// Environment returns the latest ambient readings with their 24 h trends.
func (s *Service) Environment() (EnvironmentView, error) {
	snap, err := s.Current()
	if err != nil {
		return EnvironmentView{}, err
	}
	l := snap.Latest
	w := snap.Last24h
	return EnvironmentView{
		AirTemperature:   l.AirTemperature,
		RelativeHumidity: l.RelativeHumidity,
		Irradiance:       l.Irradiance,
		SoilHumidity:     l.SoilHumidity,
		Trends: []Trend{
			trend(w, "irradiance", func(o data.Observation) float64 { return o.Irradiance }),
			trend(w, "air_temperature", func(o data.Observation) float64 { return o.AirTemperature }),
			trend(w, "relative_humidity", func(o data.Observation) float64 { return o.RelativeHumidity }),
			trend(w, "soil_humidity", func(o data.Observation) float64 { return o.SoilHumidity }),
		},
	}, nil
}

// System returns the latest electrical readings.
func (s *Service) System() (SystemView, error) {
	snap, err := s.Current()
	if err != nil {
		return SystemView{}, err
	}
	l := snap.Latest
	return SystemView{
		Voltage:          l.Voltage,
		Current:          l.Current,
		Power:            l.Power,
		PanelTemperature: l.PanelTemperature,
		BatteryLevel:     l.BatteryLevel,
	}, nil
}

// Tilt returns measured, ideal and operator tilt.
func (s *Service) Tilt() (TiltView, error) {
	snap, err := s.Current()
	if err != nil {
		return TiltView{}, err
	}
	setting, err := s.TiltSetting()
	if err != nil {
		return TiltView{}, err
	}
	return TiltView{
		MeasuredAngle: snap.Latest.TiltAngle,
		IdealTilt:     snap.IdealTilt,
		DayOfYear:     snap.DayOfYear,
		Declination:   snap.Declination,
		Setting:       setting,
	}, nil
}

// Alerts returns the current snapshot's alert report.
func (s *Service) Alerts() (AlertsView, error) {
	snap, err := s.Current()
	if err != nil {
		return AlertsView{}, err
	}
	return AlertsView{SnapshotID: snap.ID, Report: snap.Report}, nil
}

// AlertHistory returns the reports of up to limit retained snapshots,
// newest first.
func (s *Service) AlertHistory(limit int) []AlertsView {
	snaps := s.store.Recent(limit)
	out := make([]AlertsView, len(snaps))
	for i, snap := range snaps {
		out[i] = AlertsView{SnapshotID: snap.ID, Report: snap.Report}
	}
	return out
}

// Series returns the current series, or the part of it within window of
// the latest observation when window > 0.
func (s *Service) Series(window time.Duration) (SeriesView, error) {
	snap, err := s.Current()
	if err != nil {
		return SeriesView{}, err
	}
	view := SeriesView{SnapshotID: snap.ID, Series: snap.Series}
	if window > 0 {
		view.Window = window.String()
		view.Series = metrics.Window(snap.Series, snap.Latest.Timestamp, window)
	}
	view.Count = len(view.Series)
	return view, nil
}
