package automation

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Location resolves the schedule's IANA timezone, defaulting to UTC
func (s *ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSchedule, s.Timezone, err)
	}
	return loc, nil
}

// Validate checks the schedule configuration
func (s *ScheduleConfig) Validate() error {
	if !s.Frequency.IsValid() {
		return fmt.Errorf("%w: frequency %q", ErrInvalidSchedule, s.Frequency)
	}
	if s.Frequency == FrequencyCustom {
		if s.CronExpression == "" {
			return fmt.Errorf("%w: custom frequency requires a cron expression", ErrInvalidSchedule)
		}
		if _, err := cron.ParseStandard(s.CronExpression); err != nil {
			return fmt.Errorf("%w: cron %q: %v", ErrInvalidSchedule, s.CronExpression, err)
		}
	}
	if s.Frequency == FrequencyMonthly && s.DayOfMonth < 1 {
		return fmt.Errorf("%w: monthly frequency requires day_of_month", ErrInvalidSchedule)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	return nil
}

// NextFireTime resolves the first fire time strictly after the given instant,
// in the schedule's timezone.
func (s *ScheduleConfig) NextFireTime(after time.Time) (time.Time, error) {
	loc, err := s.Location()
	if err != nil {
		return time.Time{}, err
	}
	local := after.In(loc)

	switch s.Frequency {
	case FrequencyHourly:
		next := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), s.Minute, 0, 0, loc)
		if !next.After(local) {
			next = next.Add(time.Hour)
		}
		return next, nil

	case FrequencyDaily:
		next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, loc)
		if !next.After(local) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case FrequencyWeekly:
		next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, loc)
		offset := (s.Weekday - int(next.Weekday()) + 7) % 7
		next = next.AddDate(0, 0, offset)
		if !next.After(local) {
			next = next.AddDate(0, 0, 7)
		}
		return next, nil

	case FrequencyMonthly:
		next := time.Date(local.Year(), local.Month(), s.DayOfMonth, s.Hour, s.Minute, 0, 0, loc)
		if !next.After(local) {
			next = next.AddDate(0, 1, 0)
		}
		return next, nil

	case FrequencyCustom:
		sched, err := cron.ParseStandard(s.CronExpression)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: cron %q: %v", ErrInvalidSchedule, s.CronExpression, err)
		}
		return sched.Next(local), nil

	default:
		return time.Time{}, fmt.Errorf("%w: frequency %q", ErrInvalidSchedule, s.Frequency)
	}
}

// DueAt reports whether a fire time falls due at the given tick. The tick key
// identifies the fire deterministically so re-delivered ticks stay idempotent.
func (s *ScheduleConfig) DueAt(lastCheck, now time.Time) (time.Time, bool, error) {
	next, err := s.NextFireTime(lastCheck)
	if err != nil {
		return time.Time{}, false, err
	}
	if next.After(now) {
		return time.Time{}, false, nil
	}
	return next, true, nil
}
