// Package clock quantizes wall-clock time into rotation windows.
package clock

import (
	"math"
	"time"

	"github.com/bashhack/tltp/internal/errs"
)

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// System reads the current system time.
type System struct{}

// Now returns time.Now.
func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return time.Time(f) }

// Window describes the rotation window selected for a derivation.
type Window struct {
	// Index is the epoch index fed to the key derivation engine, offset applied.
	Index int64
	// Remaining is the time left in the live (unshifted) window.
	Remaining time.Duration
	// RotatesAt is when the live window ends.
	RotatesAt time.Time
}

// ComputeEpoch returns floor(now/interval)+offset and the seconds left
// before the live window rotates. The remaining time ignores offset.
func ComputeEpoch(now, interval, offset int64) (index int64, remaining int64, err error) {
	if interval <= 0 {
		return 0, 0, errs.Config("interval", "must be a positive number of seconds")
	}

	q, r := now/interval, now%interval
	if r < 0 {
		q--
		r += interval
	}

	if (offset > 0 && q > math.MaxInt64-offset) || (offset < 0 && q < math.MinInt64-offset) {
		return 0, 0, errs.Config("offset", "shifts the window beyond the representable range")
	}

	return q + offset, interval - r, nil
}

// Compute selects the window for now shifted by offset intervals.
// interval must be a positive whole number of seconds.
func Compute(now time.Time, interval time.Duration, offset int64) (Window, error) {
	if interval < time.Second || interval%time.Second != 0 {
		return Window{}, errs.Config("interval", "must be a positive whole number of seconds")
	}

	seconds := int64(interval / time.Second)
	index, remaining, err := ComputeEpoch(now.Unix(), seconds, offset)
	if err != nil {
		return Window{}, err
	}

	rotatesAt := time.Unix(now.Unix()+remaining, 0).UTC()
	return Window{
		Index:     index,
		Remaining: rotatesAt.Sub(now),
		RotatesAt: rotatesAt,
	}, nil
}

// MaxDays is the longest interval, in days, a time.Duration can hold.
const MaxDays = int(math.MaxInt64 / int64(24*time.Hour))

// Days converts a whole number of days into a rotation interval. n must not
// exceed MaxDays.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
