// internal/data/models.go
package data

import "time"

// Observation is one synthetic sample of the site's environment and PV system.
type Observation struct {
	Timestamp time.Time `json:"timestamp"`

	// Environment
	AirTemperature   float64 `json:"air_temperature"`   // °C
	RelativeHumidity float64 `json:"relative_humidity"` // %
	Irradiance       float64 `json:"irradiance"`        // W/m²
	SoilHumidity     float64 `json:"soil_humidity"`     // %

	// Panel / system
	Voltage          float64 `json:"voltage"`           // V
	Current          float64 `json:"current"`           // A
	Power            float64 `json:"power"`             // W
	PanelTemperature float64 `json:"panel_temperature"` // °C
	BatteryLevel     float64 `json:"battery_level"`     // %
	TiltAngle        int     `json:"tilt_angle"`        // degrees
}

// Series is an ascending, evenly spaced run of observations. It is never
// modified after generation.
type Series []Observation

// Location is the static site description.
type Location struct {
	Name      string  `json:"name" mapstructure:"name"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
	Altitude  float64 `json:"altitude" mapstructure:"altitude"` // metres
}

// Alert is a warning raised by a threshold rule over the latest observation.
type Alert struct {
	Timestamp time.Time `json:"timestamp"`
	Code      string    `json:"code"`
	Severity  string    `json:"severity"` // "WARN"
	Message   string    `json:"message"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
}

// ReportStatus discriminates an evaluation without alerts from one with alerts.
type ReportStatus string

const (
	StatusNominal  ReportStatus = "nominal"
	StatusAlerting ReportStatus = "alerting"
)

// AlertReport is the result of evaluating the alert rules once. A nominal
// report never carries alerts.
type AlertReport struct {
	Status      ReportStatus `json:"status"`
	Alerts      []Alert      `json:"alerts"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
}

// Nominal reports whether no rule fired.
func (r AlertReport) Nominal() bool { return r.Status == StatusNominal }

// TiltMode is the operator-selected panel control mode.
type TiltMode string

const (
	TiltAutomatic TiltMode = "automatic"
	TiltManual    TiltMode = "manual"
)

// TiltSetting is what the operator picked on the tilt control. It is shown
// back to the operator and not used in any computation.
type TiltSetting struct {
	Mode      TiltMode  `json:"mode"`
	Angle     int       `json:"angle"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is the immutable output of one refresh cycle.
type Snapshot struct {
	ID          string      `json:"id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Series      Series      `json:"series"`
	Latest      Observation `json:"latest"`
	Last24h     Series      `json:"last_24h"`
	DayOfYear   int         `json:"day_of_year"`
	Declination float64     `json:"declination"`
	IdealTilt   float64     `json:"ideal_tilt"`
	Report      AlertReport `json:"report"`
}
