// /home/krylon/go/src/github.com/blicero/iris/backend/01_backend_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 25. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 21:40:28 krylon>

// These tests talk to the session bus, so they only run inside a desktop
// session. Without one, they skip.

package backend

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/objects"
)

const testAddr = "127.0.0.1:36819"

var d *Daemon

func init() {
	var baseDir = time.Now().Format("/tmp/iris_backend_test_20060102_150405")

	if err := common.SetBaseDir(baseDir); err != nil {
		panic(err)
	}
} // func init()

func haveSessionBus() bool {
	return os.Getenv("DBUS_SESSION_BUS_ADDRESS") != ""
} // func haveSessionBus() bool

func TestSummon(t *testing.T) {
	if !haveSessionBus() {
		t.SkipNow()
	}

	var err error

	if d, err = Summon(testAddr); err != nil {
		d = nil
		t.Fatalf("Cannot summon Daemon: %s",
			err.Error())
	} else if !d.IsAlive() {
		t.Fatal("Freshly summoned Daemon claims to not be alive")
	}
} // func TestSummon(t *testing.T)

func TestSubmitScheduled(t *testing.T) {
	if d == nil {
		t.SkipNow()
	}

	var (
		err error
		id  int64
		n   = &objects.Notification{
			EntityID: "task-0042",
			Purpose:  "deadline",
			Title:    "Essay due",
			Body:     "The essay on Rilke is due tomorrow.",
			Schedule: objects.NewOnce(time.Now().Add(time.Hour)),
			Envelope: &objects.Envelope{
				Kind:     objects.KindTaskDeadline,
				EntityID: "task-0042",
			},
		}
	)

	if id, err = d.NotificationSubmit(n); err != nil {
		t.Fatalf("Cannot submit Notification: %s", err.Error())
	} else if id != objects.DeriveID("task-0042", "deadline") {
		t.Errorf("Submit returned identity %d, want %d",
			id,
			objects.DeriveID("task-0042", "deadline"))
	}

	var pending = d.Pending()

	if len(pending) != 1 {
		t.Fatalf("Daemon has %d pending Notifications, want 1",
			len(pending))
	} else if pending[0].EntityID != "task-0042" {
		t.Errorf("Pending entry is for %q, want task-0042",
			pending[0].EntityID)
	}

	// Submitting the same pair again must not create a second entry.
	n.Title = "Essay due, really"

	if _, err = d.NotificationSubmit(n); err != nil {
		t.Fatalf("Cannot re-submit Notification: %s", err.Error())
	} else if pending = d.Pending(); len(pending) != 1 {
		t.Errorf("Daemon has %d pending Notifications after re-submit, want 1",
			len(pending))
	}
} // func TestSubmitScheduled(t *testing.T)

func TestSubmitInvalid(t *testing.T) {
	if d == nil {
		t.SkipNow()
	}

	var cases = []*objects.Notification{
		// No EntityID.
		&objects.Notification{
			Title: "Anonymous",
			Envelope: &objects.Envelope{
				Kind: objects.KindGeneric,
			},
		},
		// No Envelope.
		&objects.Notification{
			EntityID: "task-0042",
			Title:    "Empty-handed",
		},
		// A one-shot Schedule in the past.
		&objects.Notification{
			EntityID: "task-0042",
			Purpose:  "stale",
			Title:    "Too late",
			Schedule: objects.NewOnce(time.Now().Add(-time.Hour)),
			Envelope: &objects.Envelope{
				Kind:     objects.KindTaskDeadline,
				EntityID: "task-0042",
			},
		},
	}

	for idx, n := range cases {
		if _, err := d.NotificationSubmit(n); err == nil {
			t.Errorf("Case %d: submitting %s should have failed",
				idx,
				n)
		}
	}

	// The failed submissions must not have left anything behind.
	if pending := d.Pending(); len(pending) != 1 {
		t.Errorf("Daemon has %d pending Notifications, want 1",
			len(pending))
	}

	if _, err := d.NotificationSubmit(cases[2]); !errors.Is(err, objects.ErrPastTime) {
		t.Errorf("Submitting a past one-shot returned the wrong error: %v",
			err)
	}
} // func TestSubmitInvalid(t *testing.T)

func TestCancel(t *testing.T) {
	if d == nil {
		t.SkipNow()
	}

	var err error

	if err = d.NotificationCancel("task-0042", "deadline"); err != nil {
		t.Fatalf("Cannot cancel Notification: %s", err.Error())
	} else if pending := d.Pending(); len(pending) != 0 {
		t.Errorf("Daemon has %d pending Notifications after cancel, want 0",
			len(pending))
	}

	// Cancelling an absent pair is a no-op.
	if err = d.NotificationCancel("task-0042", "deadline"); err != nil {
		t.Errorf("Cancelling an absent pair should not fail: %s",
			err.Error())
	}
} // func TestCancel(t *testing.T)

func TestCancelEntity(t *testing.T) {
	if d == nil {
		t.SkipNow()
	}

	var err error

	for _, purpose := range []string{"before", "deadline"} {
		var n = &objects.Notification{
			EntityID: "task-0099",
			Purpose:  purpose,
			Title:    "Reminder",
			Schedule: objects.NewOnce(time.Now().Add(time.Hour)),
			Envelope: &objects.Envelope{
				Kind:     objects.KindTaskReminder,
				EntityID: "task-0099",
			},
		}

		if _, err = d.NotificationSubmit(n); err != nil {
			t.Fatalf("Cannot submit Notification: %s", err.Error())
		}
	}

	if err = d.NotificationCancelEntity("task-0099"); err != nil {
		t.Fatalf("Cannot cancel Notifications for task-0099: %s",
			err.Error())
	} else if pending := d.Pending(); len(pending) != 0 {
		t.Errorf("Daemon has %d pending Notifications after cancel, want 0",
			len(pending))
	}
} // func TestCancelEntity(t *testing.T)

func TestTapDispatch(t *testing.T) {
	if d == nil {
		t.SkipNow()
	}

	// A tap on a notification whose payload is garbage must not take
	// the Daemon down.
	d.OnTap("Ein Wiesel saß auf einem Kiesel")

	if !d.IsAlive() {
		t.Error("Daemon died from a garbage payload")
	}
} // func TestTapDispatch(t *testing.T)
