// /home/krylon/go/src/github.com/blicero/iris/objects/notification.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-03 22:44:51 krylon>

package objects

import (
	"fmt"
	"time"
)

//go:generate ffjson notification.go

// Notification bundles everything the backend needs to show or schedule
// one notification: what the tray displays (Title, Body), the Envelope the
// dispatcher will get back when the user activates it, the (entity,
// purpose) pair that makes it addressable, and - optionally - a Schedule.
// A Notification without a Schedule is shown right away.
type Notification struct {
	ID       int64
	EntityID string
	Purpose  string
	Title    string
	Body     string
	Envelope *Envelope
	Schedule *Schedule
	Changed  time.Time
}

// Identity returns the deterministic identifier the OS knows this
// Notification by.
func (n *Notification) Identity() int64 {
	return DeriveID(n.EntityID, n.Purpose)
} // func (n *Notification) Identity() int64

// Payload returns the Notification's Title and Body.
func (n *Notification) Payload() (string, string) {
	return n.Title, n.Body
} // func (n *Notification) Payload() (string, string)

func (n *Notification) String() string {
	return fmt.Sprintf("Notification{ EntityID: %q, Purpose: %q, Title: %q, Schedule: %s }",
		n.EntityID,
		n.Purpose,
		n.Title,
		n.Schedule)
} // func (n *Notification) String() string
