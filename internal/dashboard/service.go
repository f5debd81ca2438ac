// internal/dashboard/service.go
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"solagire-dashboard/internal/alerting"
	"solagire-dashboard/internal/data"
	"solagire-dashboard/internal/metrics"
	"solagire-dashboard/internal/simulator"
	"solagire-dashboard/internal/storage"
)

// ErrNoSnapshot is returned by the views before the first refresh.
var ErrNoSnapshot = errors.New("no snapshot generated yet")

// Publisher pushes refreshed snapshots to live clients.
type Publisher interface {
	BroadcastSnapshot(snap *data.Snapshot)
}

// Options are the site and generation settings of a Service.
type Options struct {
	Samples    int
	Location   data.Location
	Thresholds alerting.Thresholds
}

// Service owns the refresh cycle and serves read-only views over the
// current snapshot.
type Service struct {
	log     *slog.Logger
	opts    Options
	gen     *simulator.Generator
	store   *storage.SnapshotStore
	alerter *alerting.Alerter
	pub     Publisher
	now     func() time.Time

	mu sync.Mutex // serialises refreshes; the generator's source isn't concurrent-safe

	tiltMu sync.RWMutex
	tilt   *data.TiltSetting // nil until the operator sets one
}

// New wires a Service. alerter and pub may be nil.
func New(log *slog.Logger, opts Options, gen *simulator.Generator, store *storage.SnapshotStore, alerter *alerting.Alerter, pub Publisher) *Service {
	return &Service{
		log:     log,
		opts:    opts,
		gen:     gen,
		store:   store,
		alerter: alerter,
		pub:     pub,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Location returns the site configuration.
func (s *Service) Location() data.Location { return s.opts.Location }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Refresh generates a new series anchored at now, derives every snapshot
// value and swaps it in as the current snapshot.
func (s *Service) Refresh(ctx context.Context) (*data.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Held through publishing so clients see snapshots in swap order.
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.build(s.now())
	if err != nil {
		return nil, err
	}
	s.store.Swap(snap)

	s.log.Info("snapshot refreshed",
		"id", snap.ID, "samples", len(snap.Series), "status", snap.Report.Status, "ideal_tilt", snap.IdealTilt)
	if s.alerter != nil {
		s.alerter.ProcessReport(snap.Report)
	}
	if s.pub != nil {
		s.pub.BroadcastSnapshot(snap)
	}
	return snap, nil
}

func (s *Service) build(now time.Time) (*data.Snapshot, error) {
	series, err := s.gen.Generate(s.opts.Samples, now)
	if err != nil {
		return nil, fmt.Errorf("generating series: %w", err)
	}
	latest, err := metrics.Latest(series)
	if err != nil {
		return nil, err
	}
	day := now.YearDay()
	ideal, err := metrics.IdealTilt(s.opts.Location.Latitude, day)
	if err != nil {
		return nil, err
	}

	return &data.Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Series:      series,
		Latest:      latest,
		Last24h:     metrics.Window(series, latest.Timestamp, metrics.TrendWindow),
		DayOfYear:   day,
		Declination: metrics.Declination(day),
		IdealTilt:   ideal,
		Report:      alerting.Evaluate(latest, s.opts.Thresholds, now),
	}, nil
}

// Run refreshes every interval until ctx is done. A non-positive interval
// returns immediately.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	s.log.Info("refresh loop started", "interval", interval.String())
	for {
		select {
		case <-t.C:
			if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("refresh failed", "err", err)
			}
		case <-ctx.Done():
			s.log.Info("refresh loop stopped")
			return
		}
	}
}

// Current returns the current snapshot.
func (s *Service) Current() (*data.Snapshot, error) {
	snap, ok := s.store.Current()
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// SetTilt records the operator's tilt control. It is displayed only.
func (s *Service) SetTilt(setting data.TiltSetting) error {
	if err := setting.Validate(); err != nil {
		return err
	}
	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = s.now()
	}
	s.tiltMu.Lock()
	s.tilt = &setting
	s.tiltMu.Unlock()
	s.log.Info("tilt control updated", "mode", setting.Mode, "angle", setting.Angle)
	return nil
}

// UpdateTilt merges a JSON tilt command into the current setting. Fields
// missing from raw keep their value; concurrent partial updates don't
// lose each other's fields.
func (s *Service) UpdateTilt(raw []byte) (data.TiltSetting, error) {
	s.tiltMu.Lock()
	defer s.tiltMu.Unlock()

	current, err := s.tiltLocked()
	if err != nil {
		return data.TiltSetting{}, err
	}
	setting, err := data.ParseTiltSetting(raw, current, s.now())
	if err != nil {
		return data.TiltSetting{}, err
	}
	s.tilt = &setting
	s.log.Info("tilt control updated", "mode", setting.Mode, "angle", setting.Angle)
	return setting, nil
}

// TiltSetting returns the operator setting. Until one is set it is automatic
// mode at the latest measured angle.
func (s *Service) TiltSetting() (data.TiltSetting, error) {
	s.tiltMu.RLock()
	defer s.tiltMu.RUnlock()
	return s.tiltLocked()
}

// tiltLocked must be called with tiltMu held.
func (s *Service) tiltLocked() (data.TiltSetting, error) {
	if s.tilt != nil {
		return *s.tilt, nil
	}
	snap, err := s.Current()
	if err != nil {
		return data.TiltSetting{}, err
	}
	return data.TiltSetting{Mode: data.TiltAutomatic, Angle: snap.Latest.TiltAngle}, nil
}

// IdealTiltFor computes the ideal tilt at the site latitude for a day.
func (s *Service) IdealTiltFor(day int) (float64, error) {
	return metrics.IdealTilt(s.opts.Location.Latitude, day)
}
