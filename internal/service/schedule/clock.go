package schedule

import "time"

// Clock abstracts time so tests stay deterministic
type Clock interface {
	Now() time.Time
}

// realClock - prod implementation: current time in UTC
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewRealClock exposes the prod clock to wiring code
func NewRealClock() Clock {
	return realClock{}
}
