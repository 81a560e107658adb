package enrich

import "context"

// StaticLocation always reports the configured coordinates.
type StaticLocation struct {
	location Location
}

// NewStaticLocation creates a provider for a fixed position.
func NewStaticLocation(latitude, longitude float64) *StaticLocation {
	return &StaticLocation{location: Location{Latitude: latitude, Longitude: longitude}}
}

// LastKnown returns the fixed position.
func (s *StaticLocation) LastKnown(_ context.Context) (Location, error) {
	return s.location, nil
}

// NoLocation never resolves a location.
type NoLocation struct{}

// LastKnown always fails with ErrLocationUnavailable.
func (NoLocation) LastKnown(_ context.Context) (Location, error) {
	return Location{}, ErrLocationUnavailable
}
