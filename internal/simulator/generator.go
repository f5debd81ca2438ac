// internal/simulator/generator.go
package simulator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"solagire-dashboard/internal/data"
)

// DefaultSpacing is the interval between two consecutive samples.
const DefaultSpacing = 30 * time.Minute

// Range is a closed interval a field is drawn from.
type Range struct {
	Min float64
	Max float64
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Field ranges. Each field is drawn on its own; power is not derived from
// irradiance, voltage or current.
var (
	AirTemperature   = Range{15, 35}
	RelativeHumidity = Range{30, 90}
	Irradiance       = Range{200, 1000}
	SoilHumidity     = Range{10, 60}
	Voltage          = Range{200, 400}
	Current          = Range{0, 20}
	Power            = Range{0, 5000}
	PanelTemperature = Range{20, 50}
	BatteryLevel     = Range{20, 100}
)

// MaxTilt is the largest tilt angle the generator emits, inclusive.
const MaxTilt = 90

// Generator produces synthetic observation series from an explicit random
// source. It is not safe for concurrent use because the source isn't.
type Generator struct {
	rng     *rand.Rand
	spacing time.Duration
}

// NewGenerator returns a generator seeded with seed. Equal seeds and
// reference times produce equal series.
func NewGenerator(seed uint64, spacing time.Duration) *Generator {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	return &Generator{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		spacing: spacing,
	}
}

// Spacing returns the interval between samples.
func (g *Generator) Spacing() time.Duration { return g.spacing }

// Generate returns count samples ending at referenceTime, oldest first.
func (g *Generator) Generate(count int, referenceTime time.Time) (data.Series, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: sample count %d, need at least 1", data.ErrInvalidArgument, count)
	}

	series := make(data.Series, count)
	for i := range series {
		offset := time.Duration(count-1-i) * g.spacing
		series[i] = data.Observation{
			Timestamp:        referenceTime.Add(-offset),
			AirTemperature:   AirTemperature.draw(g.rng),
			RelativeHumidity: RelativeHumidity.draw(g.rng),
			Irradiance:       Irradiance.draw(g.rng),
			SoilHumidity:     SoilHumidity.draw(g.rng),
			Voltage:          Voltage.draw(g.rng),
			Current:          Current.draw(g.rng),
			Power:            Power.draw(g.rng),
			PanelTemperature: PanelTemperature.draw(g.rng),
			BatteryLevel:     BatteryLevel.draw(g.rng),
			TiltAngle:        g.rng.IntN(MaxTilt + 1),
		}
	}
	return series, nil
}
