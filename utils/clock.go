package utils

import "time"

// Clock abstracts time.Now() so attendance and payroll can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
