// internal/alerting/alerter.go
package alerting

import (
	"log/slog"

	"solagire-dashboard/internal/data"
)

// Broadcaster delivers alerts to live clients.
type Broadcaster interface {
	BroadcastAlert(alert data.Alert)
}

// Alerter logs fired alerts and forwards them to live clients.
type Alerter struct {
	log *slog.Logger
	out Broadcaster
}

// NewAlerter returns an Alerter; out may be nil.
func NewAlerter(log *slog.Logger, out Broadcaster) *Alerter {
	return &Alerter{log: log, out: out}
}

// ProcessReport logs the report and pushes each alert to the broadcaster.
func (a *Alerter) ProcessReport(report data.AlertReport) {
	if report.Nominal() {
		a.log.Debug("alert evaluation nominal")
		return
	}

	a.log.Info("processing alerts", "count", len(report.Alerts))
	for _, alert := range report.Alerts {
		a.log.Warn("alert raised", "code", alert.Code, "metric", alert.Metric, "value", alert.Value, "message", alert.Message)
		if a.out != nil {
			a.out.BroadcastAlert(alert)
		}
	}
}
