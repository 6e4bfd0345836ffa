// Package attendance check-in/out reconciliation: geolocation acquisition
// with retries and the pairing rules that turn punches into worked hours.
package attendance

import (
	"context"
	"errors"
	"time"

	"staffdesk/config"
	"staffdesk/pkg/geo"
)

var (
	// ErrLocationUnavailable no reading could be obtained after every attempt
	ErrLocationUnavailable = errors.New("attendance: location unavailable")
	// ErrNoMoreReadings a ReadingsLocator has been drained
	ErrNoMoreReadings = errors.New("attendance: no more readings")
)

// Reading one geolocation fix
type Reading struct {
	Point    geo.Point
	Accuracy float64 // meters
}

// Locator yields one position fix per call.
type Locator interface {
	Locate(ctx context.Context) (Reading, error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (Reading, error)

func (f LocatorFunc) Locate(ctx context.Context) (Reading, error) { return f(ctx) }

// Policy retry and acceptance rules for Acquire
type Policy struct {
	MaxAttempts       int
	Backoff           time.Duration
	AttemptTimeout    time.Duration
	AccuracyThreshold float64
}

// DefaultPolicy 3 attempts, 1.5s apart, 10s each, accept under 50m.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       3,
		Backoff:           1500 * time.Millisecond,
		AttemptTimeout:    10 * time.Second,
		AccuracyThreshold: 50,
	}
}

// NewPolicy builds a Policy from configuration
func NewPolicy(cfg *config.AttendanceConfig) Policy {
	return Policy{
		MaxAttempts:       cfg.MaxAttempts,
		Backoff:           cfg.Backoff,
		AttemptTimeout:    cfg.AttemptTimeout,
		AccuracyThreshold: cfg.AccuracyThresholdMeters,
	}
}

// Fix the reading Acquire settled on
type Fix struct {
	Reading
	Attempts int
	Accurate bool // accuracy was under the threshold
}

// Acquire asks loc for a position up to p.MaxAttempts times. The first
// reading under the accuracy threshold wins; otherwise the last successful
// reading is returned. There is no deadline across attempts beyond ctx.
func Acquire(ctx context.Context, loc Locator, p Policy) (Fix, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var (
		last    Reading
		haveAny bool
		lastErr error
		n       int
	)
	for n = 1; n <= attempts; n++ {
		r, err := locateOnce(ctx, loc, p.AttemptTimeout)
		if err == nil {
			last, haveAny = r, true
			if r.Accuracy < p.AccuracyThreshold {
				return Fix{Reading: r, Attempts: n, Accurate: true}, nil
			}
		} else {
			lastErr = err
			if errors.Is(err, ErrNoMoreReadings) {
				break
			}
		}

		if n == attempts {
			break
		}
		if !sleep(ctx, p.Backoff) {
			break
		}
	}
	if haveAny {
		return Fix{Reading: last, Attempts: n}, nil
	}
	if lastErr != nil {
		return Fix{}, errors.Join(ErrLocationUnavailable, lastErr)
	}
	return Fix{}, ErrLocationUnavailable
}

func locateOnce(ctx context.Context, loc Locator, timeout time.Duration) (Reading, error) {
	if timeout <= 0 {
		return loc.Locate(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return loc.Locate(attemptCtx)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ReadingsLocator replays readings sampled by the client, in order.
// Not safe for concurrent use.
type ReadingsLocator struct {
	readings []Reading
	next     int
}

// NewReadingsLocator wraps client samples
func NewReadingsLocator(readings []Reading) *ReadingsLocator {
	return &ReadingsLocator{readings: readings}
}

func (l *ReadingsLocator) Locate(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	if l.next >= len(l.readings) {
		return Reading{}, ErrNoMoreReadings
	}
	r := l.readings[l.next]
	l.next++
	if !r.Point.Valid() || r.Accuracy < 0 {
		return Reading{}, errors.New("attendance: invalid reading")
	}
	return r, nil
}
