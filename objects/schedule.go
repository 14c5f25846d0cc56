// /home/krylon/go/src/github.com/blicero/iris/objects/schedule.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-02 19:21:17 krylon>

package objects

import (
	"errors"
	"fmt"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/objects/repeat"
)

// ErrScheduleField indicates an out-of-range field when constructing a Schedule.
// ErrPastTime indicates a one-shot Schedule whose target time is not in the future.
var (
	ErrScheduleField = errors.New("invalid Schedule field")
	ErrPastTime      = errors.New("scheduled time is in the past")
)

// Go's time package has a type Weekday, too, can I use that somehow?
// ... Turns out it's not super useful to us because it insists on
// Sunday being the first day of the week, whereas in Europe it's
// considered the last day of the week. For computing fire times,
// though, only equality matters, so we use it after all.

// Schedule describes when a notification should fire: a single fixed
// point in time, daily at a fixed time of day, or weekly on a fixed
// weekday. Hour, Minute and Day are range-checked by the constructors;
// a Schedule built by hand is not.
type Schedule struct {
	Repeat repeat.Repeat
	At     time.Time
	Day    time.Weekday
	Hour   int
	Minute int
}

// NewOnce creates a Schedule that fires a single time, at the given moment.
func NewOnce(at time.Time) *Schedule {
	return &Schedule{
		Repeat: repeat.Once,
		At:     at,
	}
} // func NewOnce(at time.Time) *Schedule

// NewDaily creates a Schedule that fires every day at the given time of day.
func NewDaily(hour, minute int) (*Schedule, error) {
	if err := checkTimeOfDay(hour, minute); err != nil {
		return nil, err
	}

	return &Schedule{
		Repeat: repeat.Daily,
		Hour:   hour,
		Minute: minute,
	}, nil
} // func NewDaily(hour, minute int) (*Schedule, error)

// NewWeekly creates a Schedule that fires once per week, on the given
// weekday at the given time of day.
func NewWeekly(day time.Weekday, hour, minute int) (*Schedule, error) {
	if day < time.Sunday || day > time.Saturday {
		return nil, fmt.Errorf("%w: weekday %d",
			ErrScheduleField,
			day)
	} else if err := checkTimeOfDay(hour, minute); err != nil {
		return nil, err
	}

	return &Schedule{
		Repeat: repeat.Weekly,
		Day:    day,
		Hour:   hour,
		Minute: minute,
	}, nil
} // func NewWeekly(day time.Weekday, hour, minute int) (*Schedule, error)

func checkTimeOfDay(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour %d",
			ErrScheduleField,
			hour)
	} else if minute < 0 || minute > 59 {
		return fmt.Errorf("%w: minute %d",
			ErrScheduleField,
			minute)
	}

	return nil
} // func checkTimeOfDay(hour, minute int) error

// Next computes the next time the Schedule fires, strictly after the
// reference time now. Civil fields (Hour, Minute, Day) are interpreted in
// now's Location; the caller is expected to have resolved the reference
// time to the zone it wants.
//
// For a one-shot Schedule whose time has already passed, Next returns
// ErrPastTime; it is up to the caller whether to skip the notification or
// fire it immediately, Next never reschedules a one-shot on its own.
func (s *Schedule) Next(now time.Time) (time.Time, error) {
	switch s.Repeat {
	case repeat.Once:
		if !s.At.After(now) {
			return time.Time{}, fmt.Errorf("%w: %s is not after %s",
				ErrPastTime,
				s.At.Format(common.TimestampFormat),
				now.Format(common.TimestampFormat))
		}

		return s.At, nil
	case repeat.Daily:
		return s.nextTimeOfDay(now), nil
	case repeat.Weekly:
		var due = s.nextTimeOfDay(now)

		for due.Weekday() != s.Day {
			due = due.AddDate(0, 0, 1)
		}

		return due, nil
	default:
		return time.Time{}, fmt.Errorf("%w: invalid Repeat %d",
			ErrScheduleField,
			s.Repeat)
	}
} // func (s *Schedule) Next(now time.Time) (time.Time, error)

// nextTimeOfDay returns the first moment after now whose time of day is
// the Schedule's Hour and Minute. That is either today or tomorrow.
func (s *Schedule) nextTimeOfDay(now time.Time) time.Time {
	var due = time.Date(
		now.Year(),
		now.Month(),
		now.Day(),
		s.Hour,
		s.Minute,
		0,
		0,
		now.Location())

	if !due.After(now) {
		due = due.AddDate(0, 0, 1)
	}

	return due
} // func (s *Schedule) nextTimeOfDay(now time.Time) time.Time

func (s *Schedule) String() string {
	if s == nil {
		return "(None)"
	}

	switch s.Repeat {
	case repeat.Once:
		return fmt.Sprintf("%s(%s)",
			s.Repeat,
			s.At.Format(common.TimestampFormat))
	case repeat.Daily:
		return fmt.Sprintf("%s(%02d:%02d)",
			s.Repeat,
			s.Hour,
			s.Minute)
	case repeat.Weekly:
		return fmt.Sprintf("%s(%s, %02d:%02d)",
			s.Repeat,
			s.Day,
			s.Hour,
			s.Minute)
	default:
		return fmt.Sprintf("InvalidSchedule(%d)", s.Repeat)
	}
} // func (s *Schedule) String() string
