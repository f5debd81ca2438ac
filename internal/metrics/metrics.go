// internal/metrics/metrics.go
package metrics

import (
	"fmt"
	"math"
	"time"

	"solagire-dashboard/internal/data"
)

// TrendWindow is the span of the trend charts.
const TrendWindow = 24 * time.Hour

// Latest returns the most recent observation.
func Latest(series data.Series) (data.Observation, error) {
	if len(series) == 0 {
		return data.Observation{}, data.ErrEmptySeries
	}
	return series[len(series)-1], nil
}

// Window returns the observations with timestamp >= referenceTime-d, in
// their original order. The result shares no memory with series.
func Window(series data.Series, referenceTime time.Time, d time.Duration) data.Series {
	cutoff := referenceTime.Add(-d)
	out := make(data.Series, 0, len(series))
	for _, o := range series {
		if !o.Timestamp.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out
}

// Last24h is Window anchored at the latest observation.
func Last24h(series data.Series) (data.Series, error) {
	latest, err := Latest(series)
	if err != nil {
		return nil, err
	}
	return Window(series, latest.Timestamp, TrendWindow), nil
}

// Declination is the simplified solar declination in degrees for a day of year.
func Declination(dayOfYear int) float64 {
	return 23.45 * math.Sin(deg2rad(360.0/365.0*float64(dayOfYear-81)))
}

// IdealTilt returns |latitude - declination| rounded to one decimal.
func IdealTilt(latitude float64, dayOfYear int) (float64, error) {
	if dayOfYear < 1 || dayOfYear > 366 {
		return 0, fmt.Errorf("%w: day of year %d outside [1, 366]", data.ErrInvalidArgument, dayOfYear)
	}
	return round1(math.Abs(latitude - Declination(dayOfYear))), nil
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
