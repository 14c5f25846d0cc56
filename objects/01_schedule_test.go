// /home/krylon/go/src/github.com/blicero/iris/objects/01_schedule_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 20:02:11 krylon>

package objects

import (
	"errors"
	"testing"
	"time"

	"github.com/blicero/iris/objects/repeat"
)

func TestScheduleConstructors(t *testing.T) {
	type testCase struct {
		hour, minute int
		day          time.Weekday
		expectError  bool
	}

	var cases = []testCase{
		testCase{hour: 9, minute: 0, day: time.Monday},
		testCase{hour: 0, minute: 0, day: time.Sunday},
		testCase{hour: 23, minute: 59, day: time.Saturday},
		testCase{hour: 24, minute: 0, day: time.Monday, expectError: true},
		testCase{hour: -1, minute: 0, day: time.Monday, expectError: true},
		testCase{hour: 12, minute: 60, day: time.Monday, expectError: true},
		testCase{hour: 12, minute: -30, day: time.Monday, expectError: true},
		testCase{hour: 12, minute: 30, day: time.Weekday(7), expectError: true},
		testCase{hour: 12, minute: 30, day: time.Weekday(-1), expectError: true},
	}

	for _, c := range cases {
		var (
			err error
			s   *Schedule
		)

		s, err = NewWeekly(c.day, c.hour, c.minute)

		if c.expectError {
			if err == nil {
				t.Errorf("NewWeekly(%s, %d, %d) should have failed",
					c.day,
					c.hour,
					c.minute)
			} else if !errors.Is(err, ErrScheduleField) {
				t.Errorf("NewWeekly(%s, %d, %d) returned the wrong error: %s",
					c.day,
					c.hour,
					c.minute,
					err.Error())
			}
		} else if err != nil || s == nil {
			t.Errorf("NewWeekly(%s, %d, %d) failed: %s",
				c.day,
				c.hour,
				c.minute,
				err)
		}
	}

	if _, err := NewDaily(9, 15); err != nil {
		t.Errorf("NewDaily(9, 15) failed: %s", err.Error())
	}

	if _, err := NewDaily(25, 15); !errors.Is(err, ErrScheduleField) {
		t.Errorf("NewDaily(25, 15) should have failed with ErrScheduleField, got %v",
			err)
	}
} // func TestScheduleConstructors(t *testing.T)

func TestScheduleNext(t *testing.T) {
	type testCase struct {
		s         *Schedule
		ref       time.Time
		expectDue time.Time
		expectErr error
	}

	var (
		now    = time.Date(2023, 5, 8, 10, 0, 0, 0, time.UTC) // a Monday
		daily  *Schedule
		weekly *Schedule
		err    error
	)

	if daily, err = NewDaily(9, 0); err != nil {
		t.Fatalf("Cannot create Daily schedule: %s", err.Error())
	} else if weekly, err = NewWeekly(time.Monday, 9, 0); err != nil {
		t.Fatalf("Cannot create Weekly schedule: %s", err.Error())
	}

	var cases = []testCase{
		// Once, five seconds ahead.
		testCase{
			s:         NewOnce(now.Add(time.Second * 5)),
			ref:       now,
			expectDue: now.Add(time.Second * 5),
		},
		// Once, in the past.
		testCase{
			s:         NewOnce(now.Add(-time.Hour)),
			ref:       now,
			expectErr: ErrPastTime,
		},
		// Once, exactly now, counts as past.
		testCase{
			s:         NewOnce(now),
			ref:       now,
			expectErr: ErrPastTime,
		},
		// Daily 09:00, evaluated at 10:00, is due tomorrow.
		testCase{
			s:         daily,
			ref:       now,
			expectDue: time.Date(2023, 5, 9, 9, 0, 0, 0, time.UTC),
		},
		// Daily 09:00, evaluated at 08:00, is due today.
		testCase{
			s:         daily,
			ref:       time.Date(2023, 5, 8, 8, 0, 0, 0, time.UTC),
			expectDue: time.Date(2023, 5, 8, 9, 0, 0, 0, time.UTC),
		},
		// Weekly Monday 09:00, evaluated Monday 10:00, is due NEXT
		// Monday, not today.
		testCase{
			s:         weekly,
			ref:       now,
			expectDue: time.Date(2023, 5, 15, 9, 0, 0, 0, time.UTC),
		},
		// Weekly Monday 09:00, evaluated Monday 08:00, is due today.
		testCase{
			s:         weekly,
			ref:       time.Date(2023, 5, 8, 8, 0, 0, 0, time.UTC),
			expectDue: time.Date(2023, 5, 8, 9, 0, 0, 0, time.UTC),
		},
	}

	for idx, c := range cases {
		var due time.Time

		due, err = c.s.Next(c.ref)

		if c.expectErr != nil {
			if err == nil {
				t.Errorf("Case %d: Next(%s) should have failed",
					idx,
					c.ref)
			} else if !errors.Is(err, c.expectErr) {
				t.Errorf("Case %d: Next(%s) returned the wrong error: %s",
					idx,
					c.ref,
					err.Error())
			}
			continue
		}

		if err != nil {
			t.Errorf("Case %d: Next(%s) failed: %s",
				idx,
				c.ref,
				err.Error())
		} else if !due.Equal(c.expectDue) {
			t.Errorf(`Case %d: Unexpected due time:
Expected:       %s
Got:            %s
`,
				idx,
				c.expectDue,
				due)
		}
	}
} // func TestScheduleNext(t *testing.T)

// Whatever the reference time, a recurring Schedule's next fire time must
// be strictly in the future, and a Weekly one at most seven days out.
func TestScheduleMonotonic(t *testing.T) {
	var (
		err  error
		refs = []time.Time{
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 5, 8, 8, 59, 59, 0, time.UTC),
			time.Date(2023, 5, 8, 9, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
			time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
		}
	)

	for hour := 0; hour < 24; hour += 7 {
		for day := time.Sunday; day <= time.Saturday; day++ {
			var daily, weekly *Schedule

			if daily, err = NewDaily(hour, 30); err != nil {
				t.Fatalf("Cannot create Daily schedule: %s", err.Error())
			} else if weekly, err = NewWeekly(day, hour, 30); err != nil {
				t.Fatalf("Cannot create Weekly schedule: %s", err.Error())
			}

			for _, ref := range refs {
				var due time.Time

				if due, err = daily.Next(ref); err != nil {
					t.Fatalf("Daily.Next(%s) failed: %s",
						ref,
						err.Error())
				} else if !due.After(ref) {
					t.Errorf("Daily %s: due time %s is not after %s",
						daily,
						due,
						ref)
				} else if due.Sub(ref) > time.Hour*24 {
					t.Errorf("Daily %s: due time %s is more than a day after %s",
						daily,
						due,
						ref)
				}

				if due, err = weekly.Next(ref); err != nil {
					t.Fatalf("Weekly.Next(%s) failed: %s",
						ref,
						err.Error())
				} else if !due.After(ref) {
					t.Errorf("Weekly %s: due time %s is not after %s",
						weekly,
						due,
						ref)
				} else if due.Weekday() != day {
					t.Errorf("Weekly %s: due time %s falls on a %s",
						weekly,
						due,
						due.Weekday())
				} else if due.Sub(ref) > time.Hour*24*8 {
					t.Errorf("Weekly %s: due time %s is more than seven day-advances after %s",
						weekly,
						due,
						ref)
				}
			}
		}
	}
} // func TestScheduleMonotonic(t *testing.T)

func TestScheduleInvalidRepeat(t *testing.T) {
	var (
		s   = &Schedule{Repeat: repeat.Repeat(99)}
		err error
	)

	if _, err = s.Next(time.Now()); err == nil {
		t.Error("Next should fail on an invalid Repeat")
	} else if !errors.Is(err, ErrScheduleField) {
		t.Errorf("Next returned the wrong error: %s",
			err.Error())
	}
} // func TestScheduleInvalidRepeat(t *testing.T)
