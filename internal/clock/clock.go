package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall-clock reads so sale windows can be evaluated against
// a fixed "now" in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Module provides the system clock.
var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)
