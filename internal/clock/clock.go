package clock

import "time"

// Clock abstracts wall-clock access so jobs can be driven from a fixed
// instant in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Fixed returns a Clock pinned to the given instant.
func Fixed(at time.Time) Clock { return fixedClock{at: at} }

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }
