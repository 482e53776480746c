// Package scheduler fires the daily digest run at a configured wall-clock
// time.
package scheduler

import (
	"context"
	"fmt"
	"time"
)

// DailyScheduler waits until the configured local time each day and runs
// the job with that day's date.
type DailyScheduler struct {
	at   string
	loc  *time.Location
	stop chan struct{}
}

// NewDailyScheduler parses the "15:04" trigger time and the timezone name.
func NewDailyScheduler(at, timezone string) (*DailyScheduler, error) {
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, fmt.Errorf("invalid daily time %q: %w", at, err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &DailyScheduler{at: at, loc: loc}, nil
}

// Start launches the trigger goroutine. The job receives the trigger date in
// the scheduler's timezone.
func (s *DailyScheduler) Start(ctx context.Context, job func(date string)) {
	if job == nil || s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	go func() {
		for {
			timer := time.NewTimer(time.Until(s.next(time.Now().In(s.loc))))
			select {
			case fired := <-timer.C:
				job(fired.In(s.loc).Format("2006-01-02"))
			case <-ctx.Done():
				timer.Stop()
				return
			case <-s.stop:
				timer.Stop()
				return
			}
		}
	}()
}

// Stop halts the trigger goroutine.
func (s *DailyScheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// next computes the upcoming trigger instant after now.
func (s *DailyScheduler) next(now time.Time) time.Time {
	at, _ := time.Parse("15:04", s.at)
	candidate := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, s.loc)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}
