// internal/alerting/rules.go
package alerting

import (
	"time"

	"solagire-dashboard/internal/data"
)

// Alert codes, one per rule.
const (
	CodeSoilDry      = "soil_humidity_low"
	CodeBatteryLow   = "battery_low"
	CodePanelSoiling = "panel_soiling"
)

// Thresholds are the rule limits. Comparisons are strict.
type Thresholds struct {
	SoilHumidityMin      float64 `mapstructure:"soil_humidity_min"`
	BatteryLevelMin      float64 `mapstructure:"battery_level_min"`
	SoilingIrradianceMin float64 `mapstructure:"soiling_irradiance_min"`
	SoilingPowerMax      float64 `mapstructure:"soiling_power_max"`
}

// DefaultThresholds returns the stock rule limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SoilHumidityMin:      15,
		BatteryLevelMin:      30,
		SoilingIrradianceMin: 700,
		SoilingPowerMax:      1000,
	}
}

type rule struct {
	code     string
	severity string
	metric   string
	message  string
	value    func(data.Observation) float64
	fires    func(data.Observation, Thresholds) bool
}

// Evaluation order is the order alerts appear in a report.
var rules = []rule{
	{
		code:     CodeSoilDry,
		severity: "WARN",
		metric:   "soil_humidity",
		message:  "soil humidity too low — activate irrigation.",
		value:    func(o data.Observation) float64 { return o.SoilHumidity },
		fires:    func(o data.Observation, t Thresholds) bool { return o.SoilHumidity < t.SoilHumidityMin },
	},
	{
		code:     CodeBatteryLow,
		severity: "WARN",
		metric:   "battery_level",
		message:  "battery level low.",
		value:    func(o data.Observation) float64 { return o.BatteryLevel },
		fires:    func(o data.Observation, t Thresholds) bool { return o.BatteryLevel < t.BatteryLevelMin },
	},
	{
		code:     CodePanelSoiling,
		severity: "WARN",
		metric:   "power",
		message:  "possible panel soiling (high irradiance, low output).",
		value:    func(o data.Observation) float64 { return o.Power },
		fires: func(o data.Observation, t Thresholds) bool {
			return o.Irradiance > t.SoilingIrradianceMin && o.Power < t.SoilingPowerMax
		},
	},
}

// Evaluate runs every rule against obs. Rules are independent; a report
// with no fired rule is nominal.
func Evaluate(obs data.Observation, t Thresholds, now time.Time) data.AlertReport {
	report := data.AlertReport{Status: data.StatusNominal, Alerts: []data.Alert{}, EvaluatedAt: now}
	for _, r := range rules {
		if !r.fires(obs, t) {
			continue
		}
		report.Alerts = append(report.Alerts, data.Alert{
			Timestamp: obs.Timestamp,
			Code:      r.code,
			Severity:  r.severity,
			Message:   r.message,
			Metric:    r.metric,
			Value:     r.value(obs),
		})
	}
	if len(report.Alerts) > 0 {
		report.Status = data.StatusAlerting
	}
	return report
}
