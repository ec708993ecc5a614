// Package system provides the wall clock used to stamp run artifacts and pace groups.
package system

import (
	"context"
	"fmt"
	"time"
)

// Clock reads the local wall clock.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current local time. Artifact names are stamped in local time.
func (Clock) Now() time.Time {
	return time.Now()
}

// Sleep pauses for d or until ctx is done.
func (Clock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("pause interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
