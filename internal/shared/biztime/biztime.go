// Package biztime provides utilities for business timezone handling.
// All storage and transport use UTC; the business timezone only matters
// when formatting processor-facing timestamps, which HerePay expects in
// its local (Malaysian) wall-clock time.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the processor's business timezone.
	DefaultTimezone = "Asia/Kuala_Lumpur"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
// If tz is empty, defaults to Asia/Kuala_Lumpur.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing with
// the default when Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// NowBiz returns the current time in the business timezone.
func NowBiz() time.Time {
	return time.Now().In(Location())
}

// FormatProcessor renders t the way the processor expects timestamps:
// second precision, business wall-clock, no timezone suffix.
func FormatProcessor(t time.Time) string {
	return t.In(Location()).Format("2006-01-02 15:04:05")
}
