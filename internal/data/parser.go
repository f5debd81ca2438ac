// internal/data/parser.go
package data

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// ParseTiltSetting decodes an operator tilt command. Missing fields keep the
// values from current.
func ParseTiltSetting(raw []byte, current TiltSetting, now time.Time) (TiltSetting, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return TiltSetting{}, fmt.Errorf("%w: tilt payload: %v", ErrInvalidArgument, err)
	}

	setting := current
	if v, ok := payload["mode"]; ok {
		s, isString := v.(string)
		if !isString {
			return TiltSetting{}, fmt.Errorf("%w: mode must be a string", ErrInvalidArgument)
		}
		mode, err := ParseTiltMode(s)
		if err != nil {
			return TiltSetting{}, err
		}
		setting.Mode = mode
	}

	if v, ok := payload["angle"]; ok {
		f, isNumber := v.(float64)
		if !isNumber || f != math.Trunc(f) {
			return TiltSetting{}, fmt.Errorf("%w: angle must be an integer", ErrInvalidArgument)
		}
		setting.Angle = int(f)
	}

	if err := setting.Validate(); err != nil {
		return TiltSetting{}, err
	}
	setting.UpdatedAt = now
	return setting, nil
}

// ParseTiltMode accepts the mode names case-insensitively.
func ParseTiltMode(s string) (TiltMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "automatic", "auto":
		return TiltAutomatic, nil
	case "manual":
		return TiltManual, nil
	}
	return "", fmt.Errorf("%w: unknown tilt mode %q", ErrInvalidArgument, s)
}

// Validate checks the mode and that the angle is within 0–90 degrees.
func (t TiltSetting) Validate() error {
	if t.Mode != TiltAutomatic && t.Mode != TiltManual {
		return fmt.Errorf("%w: unknown tilt mode %q", ErrInvalidArgument, t.Mode)
	}
	if t.Angle < 0 || t.Angle > 90 {
		return fmt.Errorf("%w: angle %d outside [0, 90]", ErrInvalidArgument, t.Angle)
	}
	return nil
}
