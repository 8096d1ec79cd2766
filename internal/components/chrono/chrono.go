package chrono

import "time"

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
	Location() *time.Location
}

// StandardImpl is the standard implementation of API using the system clock.
type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl loads the given IANA timezone, an empty name means UTC.
func NewStandardImpl(timezone string) (StandardImpl, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.Location())
}

func (s StandardImpl) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}
	return s.location
}

// FixedImpl always returns the same instant, it is used in tests.
type FixedImpl struct {
	Time time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Time
}

func (f FixedImpl) Location() *time.Location {
	return f.Time.Location()
}
