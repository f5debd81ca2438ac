package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solagire-dashboard/internal/data"
)

var refTime = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func TestGenerateLengthAndAnchor(t *testing.T) {
	g := NewGenerator(1, DefaultSpacing)
	for _, n := range []int{1, 2, 48, 50, 500} {
		series, err := g.Generate(n, refTime)
		require.NoError(t, err)
		require.Len(t, series, n)
		require.True(t, series[n-1].Timestamp.Equal(refTime), "last timestamp for n=%d", n)
	}
}

func TestGenerateSpacing(t *testing.T) {
	series, err := NewGenerator(7, DefaultSpacing).Generate(50, refTime)
	require.NoError(t, err)
	for i := 1; i < len(series); i++ {
		require.Equal(t, 30*time.Minute, series[i].Timestamp.Sub(series[i-1].Timestamp))
	}
}

func TestGenerateFieldRanges(t *testing.T) {
	series, err := NewGenerator(42, DefaultSpacing).Generate(2000, refTime)
	require.NoError(t, err)

	sawMaxTilt := false
	for _, o := range series {
		require.True(t, AirTemperature.Contains(o.AirTemperature))
		require.True(t, RelativeHumidity.Contains(o.RelativeHumidity))
		require.True(t, Irradiance.Contains(o.Irradiance))
		require.True(t, SoilHumidity.Contains(o.SoilHumidity))
		require.True(t, Voltage.Contains(o.Voltage))
		require.True(t, Current.Contains(o.Current))
		require.True(t, Power.Contains(o.Power))
		require.True(t, PanelTemperature.Contains(o.PanelTemperature))
		require.True(t, BatteryLevel.Contains(o.BatteryLevel))
		require.GreaterOrEqual(t, o.TiltAngle, 0)
		require.LessOrEqual(t, o.TiltAngle, MaxTilt)
		if o.TiltAngle == MaxTilt {
			sawMaxTilt = true
		}
	}
	require.True(t, sawMaxTilt, "tilt range should include 90")
}

func TestGenerateDeterministicUnderSeed(t *testing.T) {
	a, err := NewGenerator(99, DefaultSpacing).Generate(20, refTime)
	require.NoError(t, err)
	b, err := NewGenerator(99, DefaultSpacing).Generate(20, refTime)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := NewGenerator(100, DefaultSpacing).Generate(20, refTime)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	g := NewGenerator(1, DefaultSpacing)
	for _, n := range []int{0, -1} {
		series, err := g.Generate(n, refTime)
		require.ErrorIs(t, err, data.ErrInvalidArgument)
		require.Nil(t, series)
	}
}

func TestNewGeneratorDefaultsSpacing(t *testing.T) {
	require.Equal(t, DefaultSpacing, NewGenerator(1, 0).Spacing())
	require.Equal(t, time.Hour, NewGenerator(1, time.Hour).Spacing())
}
