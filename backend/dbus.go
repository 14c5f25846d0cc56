// /home/krylon/go/src/github.com/blicero/iris/backend/dbus.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-05 22:10:34 krylon>

package backend

import (
	"fmt"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/objects"
	"github.com/godbus/dbus/v5"
)

const (
	notifyObj    = "org.freedesktop.Notifications"
	notifyIntf   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
	closeMethod  = "org.freedesktop.Notifications.CloseNotification"
	sigActivated = "org.freedesktop.Notifications.ActionInvoked"
	sigClosed    = "org.freedesktop.Notifications.NotificationClosed"
)

// notify displays a Notification on the desktop. The encoded Envelope is
// attached as the default action, so activating the notification hands the
// payload back to us via the ActionInvoked signal. Re-displaying a
// Notification with the same identity replaces the previous one rather
// than stacking up a second copy.
func (d *Daemon) notify(n *objects.Notification) error {
	var (
		err        error
		payload    string
		obj        = d.bus.Object(notifyObj, notifyPath)
		id         = n.Identity()
		replaces   uint32
		osID       uint32
		head, body = n.Payload()
	)

	if obj == nil {
		err = fmt.Errorf("Did not find object %s (%s) on session bus",
			notifyObj,
			notifyPath)
		d.log.Printf("[ERROR] %s\n", err.Error())
		return err
	}

	if payload, err = objects.EncodeEnvelope(n.Envelope); err != nil {
		d.log.Printf("[ERROR] Cannot encode Envelope for %q: %s\n",
			n.Title,
			err.Error())
		return err
	}

	d.stateLock.Lock()
	replaces = d.osIDs[id]
	d.stateLock.Unlock()

	var res = obj.Call(
		notifyMethod,
		0,
		common.AppName,
		replaces,
		"",
		head,
		body,
		[]string{"default", "Open"},
		map[string]dbus.Variant{},
		int32(-1),
	)

	if res.Err != nil {
		d.log.Printf("[ERROR] Cannot send Notification %q: %s\n",
			head,
			res.Err.Error())
		return res.Err
	} else if err = res.Store(&osID); err != nil {
		d.log.Printf("[ERROR] Cannot get notification ID from %s: %s\n",
			notifyMethod,
			err.Error())
		return err
	}

	d.stateLock.Lock()
	if replaces != 0 && replaces != osID {
		delete(d.taps, replaces)
	}
	d.osIDs[id] = osID
	d.taps[osID] = payload
	d.stateLock.Unlock()

	return nil
} // func (d *Daemon) notify(n *objects.Notification) error

// closeNotification asks the desktop to take down the notification with
// the given identity, if it is currently displayed.
func (d *Daemon) closeNotification(id int64) {
	d.stateLock.Lock()
	var osID, ok = d.osIDs[id]
	d.stateLock.Unlock()

	if !ok {
		return
	}

	var obj = d.bus.Object(notifyObj, notifyPath)

	if res := obj.Call(closeMethod, 0, osID); res.Err != nil {
		d.log.Printf("[ERROR] Cannot close notification #%d: %s\n",
			id,
			res.Err.Error())
	}
} // func (d *Daemon) closeNotification(id int64)

// initSignals subscribes to the notification service's signals, so we
// learn when the user activates or dismisses one of ours.
func (d *Daemon) initSignals() error {
	var err error

	if err = d.bus.AddMatchSignal(
		dbus.WithMatchObjectPath(notifyPath),
		dbus.WithMatchInterface(notifyIntf)); err != nil {
		d.log.Printf("[ERROR] Cannot subscribe to %s signals: %s\n",
			notifyIntf,
			err.Error())
		return err
	}

	var sigQ = make(chan *dbus.Signal, queueDepth)
	d.bus.Signal(sigQ)

	go d.signalLoop(sigQ)

	return nil
} // func (d *Daemon) initSignals() error

func (d *Daemon) signalLoop(sigQ <-chan *dbus.Signal) {
	defer d.log.Println("[TRACE] Quitting signalLoop")

	var tick = time.NewTicker(queueTimeout)
	defer tick.Stop()

	for d.IsAlive() {
		select {
		case <-tick.C:
			continue
		case sig, ok := <-sigQ:
			if !ok {
				return
			}

			d.handleSignal(sig)
		}
	}
} // func (d *Daemon) signalLoop(sigQ <-chan *dbus.Signal)

func (d *Daemon) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case sigActivated:
		if len(sig.Body) < 1 {
			return
		}

		var osID, ok = sig.Body[0].(uint32)

		if !ok {
			d.log.Printf("[CANTHAPPEN] Unexpected body in %s signal: %#v\n",
				sig.Name,
				sig.Body)
			return
		}

		d.stateLock.Lock()
		var payload, known = d.taps[osID]
		d.stateLock.Unlock()

		if !known {
			// Not one of ours.
			return
		}

		d.log.Printf("[DEBUG] Notification %d was activated\n",
			osID)

		d.OnTap(payload)
	case sigClosed:
		if len(sig.Body) < 1 {
			return
		}

		if osID, ok := sig.Body[0].(uint32); ok {
			d.stateLock.Lock()
			delete(d.taps, osID)
			d.stateLock.Unlock()
		}
	}
} // func (d *Daemon) handleSignal(sig *dbus.Signal)
