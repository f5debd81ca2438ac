// internal/data/errors.go
package data

import "errors"

var (
	// ErrInvalidArgument is returned when a caller passes a value outside an
	// operation's domain (sample count, day of year, tilt setting).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptySeries is returned by derived-value operations on an empty series.
	ErrEmptySeries = errors.New("empty series")
)
