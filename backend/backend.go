// /home/krylon/go/src/github.com/blicero/iris/backend/backend.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-05 21:48:12 krylon>

// Package backend implements the daemon at the heart of the application:
// it owns the notification registry, the dispatch router, the connection
// to the desktop's notification service, and the journal, and it exposes
// an HTTP interface for clients to submit and cancel notifications.
package backend

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/database"
	"github.com/blicero/iris/dispatch"
	"github.com/blicero/iris/logdomain"
	"github.com/blicero/iris/objects"
	"github.com/blicero/iris/registry"
	"github.com/godbus/dbus/v5"
	"github.com/gorilla/mux"
	"github.com/grandcat/zeroconf"
)

const (
	queueDepth   = 5
	queueTimeout = time.Second * 2
)

// Daemon is the centerpiece of the backend, coordinating between the
// registry, the journal, the desktop notification service, and the clients.
type Daemon struct {
	log        *log.Logger
	pool       *database.Pool
	bus        *dbus.Conn
	reg        *registry.Registry
	dispatcher *dispatch.Router
	lock       sync.RWMutex
	active     bool
	web        http.Server
	router     *mux.Router
	listenAddr string
	hostname   string
	dnssd      *zeroconf.Server
	nav        dispatch.Navigator
	idLock     sync.Mutex
	idCnt      int64

	// All the mutable per-notification state below is keyed by the
	// derived identity and guarded by stateLock.
	stateLock sync.Mutex
	bundles   map[int64]*objects.Notification
	dueTimes  map[int64]time.Time
	osIDs     map[int64]uint32
	taps      map[uint32]string
}

// Summon summons a Daemon and returns it. No sacrifice or idolatry is required.
func Summon(addr string) (*Daemon, error) {
	var (
		err error
		d   = &Daemon{
			listenAddr: addr,
			active:     true,
			reg:        registry.New(),
			router:     mux.NewRouter(),
			bundles:    make(map[int64]*objects.Notification),
			dueTimes:   make(map[int64]time.Time),
			osIDs:      make(map[int64]uint32),
			taps:       make(map[uint32]string),
		}
	)

	if d.log, err = common.GetLogger(logdomain.Backend); err != nil {
		fmt.Printf("ERROR initializing Logger: %s\n",
			err.Error())
		return nil, err
	} else if d.pool, err = database.NewPool(4); err != nil {
		d.log.Printf("[ERROR] Cannot initialize database pool: %s\n",
			err.Error())
		return nil, err
	} else if d.bus, err = dbus.SessionBus(); err != nil {
		d.log.Printf("[ERROR] Failed to connect to DBus Session bus: %s\n",
			err.Error())
		return nil, err
	} else if d.dispatcher, err = dispatch.NewRouter(d.fallbackHandler); err != nil {
		d.log.Printf("[ERROR] Cannot create dispatch Router: %s\n",
			err.Error())
		return nil, err
	}

	for _, kind := range []string{
		objects.KindTaskDeadline,
		objects.KindTaskReminder,
		objects.KindNewNotice,
		objects.KindNewTask,
		objects.KindClassUpdate,
		objects.KindMessage,
	} {
		d.dispatcher.Register(kind, d.dispatcher.NavigationHandler(d))
	}

	d.web.Addr = addr
	d.web.ErrorLog = d.log
	d.web.Handler = d.router

	if err = d.initWebHandlers(); err != nil {
		d.log.Printf("[ERROR] Failed to initialize web server: %s\n",
			err.Error())
		return nil, err
	} else if err = d.initSignals(); err != nil {
		d.log.Printf("[ERROR] Failed to subscribe to DBus signals: %s\n",
			err.Error())
		return nil, err
	} else if err = d.rehydrate(); err != nil {
		d.log.Printf("[ERROR] Failed to rehydrate registry from journal: %s\n",
			err.Error())
		return nil, err
	}

	if d.hostname, err = os.Hostname(); err != nil {
		d.log.Printf("[ERROR] Cannot determine hostname: %s\n",
			err.Error())
		return nil, err
	}

	if err = d.initDNSSd(); err != nil {
		// Not fatal, clients can still be told the address.
		d.log.Printf("[WARN] Running without DNS-SD announcement: %s\n",
			err.Error())
	}

	go d.scheduleLoop()
	go d.serveHTTP()

	return d, nil
} // func Summon(addr string) (*Daemon, error)

// IsAlive returns true if the Daemon's active flag is set.
func (d *Daemon) IsAlive() bool {
	d.lock.RLock()
	var alive = d.active
	d.lock.RUnlock()

	return alive
} // func (d *Daemon) IsAlive() bool

// Banish clears the Daemon's active flag, telling components to shut down.
func (d *Daemon) Banish() error {
	var (
		err         error
		ctx, cancel = mkShutdownContext()
	)
	defer cancel()

	if d.dnssd != nil {
		d.dnssd.Shutdown()
	}

	if err = d.web.Shutdown(ctx); err != nil {
		d.log.Printf("[ERROR] Failed to shutdown web server: %s\n",
			err.Error())
	}

	if ctx.Err() != nil {
		err = ctx.Err()
		d.log.Printf("[ERROR] Failed to gracefully shut down web server: %s\n",
			ctx.Err().Error())
		d.web.Close() // nolint: errcheck
	}

	d.lock.Lock()
	d.active = false
	d.lock.Unlock()
	return err
} // func (d *Daemon) Banish() error

// SetNavigator installs the UI adapter activated notifications are routed
// to. Without one, the Daemon just logs where it would have navigated.
func (d *Daemon) SetNavigator(nav dispatch.Navigator) {
	d.lock.Lock()
	d.nav = nav
	d.lock.Unlock()
} // func (d *Daemon) SetNavigator(nav dispatch.Navigator)

// Navigate forwards a navigation request to the registered UI adapter.
// It makes the Daemon usable as the dispatch Router's Navigator.
func (d *Daemon) Navigate(route string, args map[string]string) error {
	d.lock.RLock()
	var nav = d.nav
	d.lock.RUnlock()

	if nav == nil {
		d.log.Printf("[INFO] Would navigate to %s (%d arguments), but no Navigator is registered\n",
			route,
			len(args))
		return nil
	}

	return nav.Navigate(route, args)
} // func (d *Daemon) Navigate(route string, args map[string]string) error

// OnTap is the single entry point for notification activation: the OS (or
// a client, for testing) hands in the raw payload string, the dispatcher
// does the rest. It never fails, whatever the payload looks like.
func (d *Daemon) OnTap(raw string) {
	d.dispatcher.Dispatch(raw)
} // func (d *Daemon) OnTap(raw string)

func (d *Daemon) fallbackHandler(env *objects.Envelope) {
	d.log.Printf("[INFO] Falling back to %s for Envelope %s\n",
		dispatch.RouteHome,
		env)

	var args = map[string]string{}

	if raw := env.Attribute("raw"); raw != "" {
		args["raw"] = raw
	}

	if err := d.Navigate(dispatch.RouteHome, args); err != nil {
		d.log.Printf("[ERROR] Cannot navigate to %s: %s\n",
			dispatch.RouteHome,
			err.Error())
	}
} // func (d *Daemon) fallbackHandler(env *objects.Envelope)

// NotificationSubmit accepts a Notification for display or scheduling.
// It journals and registers the Notification, then either shows it right
// away (no Schedule) or computes its next fire time. The returned value
// is the identity the OS will know the notification by.
//
// If anything after the registry update fails, the registry entry is
// removed again, so a failed submission leaves no trace.
func (d *Daemon) NotificationSubmit(n *objects.Notification) (int64, error) {
	var (
		err error
		due time.Time
	)

	if n.EntityID == "" {
		return 0, fmt.Errorf("%w: EntityID must not be empty", objects.ErrEncode)
	}

	if n.Purpose == "" {
		n.Purpose = "default"
	}

	if n.Envelope == nil {
		return 0, fmt.Errorf("%w: Notification carries no Envelope", objects.ErrEncode)
	}

	// A one-shot that is already in the past is refused before we touch
	// any state; the caller decides whether to re-submit it without a
	// Schedule to fire it immediately.
	if n.Schedule != nil {
		if due, err = n.Schedule.Next(time.Now()); err != nil {
			d.log.Printf("[INFO] Refusing to schedule Notification %q: %s\n",
				n.Title,
				err.Error())
			return 0, err
		}
	}

	var id = d.reg.Upsert(n.EntityID, n.Purpose, n.Schedule, n.Envelope)

	var db = d.pool.Get()
	defer d.pool.Put(db)

	if err = db.NotificationUpsert(n); err != nil {
		d.log.Printf("[ERROR] Cannot journal Notification %q, undoing registration: %s\n",
			n.Title,
			err.Error())
		d.reg.Remove(n.EntityID, n.Purpose)
		return 0, err
	}

	d.stateLock.Lock()
	d.bundles[id] = n
	if n.Schedule != nil {
		d.dueTimes[id] = due
	} else {
		delete(d.dueTimes, id)
	}
	d.stateLock.Unlock()

	if n.Schedule == nil {
		if err = d.notify(n); err != nil {
			d.log.Printf("[ERROR] Cannot display Notification %q, undoing registration: %s\n",
				n.Title,
				err.Error())
			d.reg.Remove(n.EntityID, n.Purpose)
			db.NotificationDeactivate(n.EntityID, n.Purpose) // nolint: errcheck
			d.forget(id)
			return 0, err
		}

		d.log.Printf("[DEBUG] Notification %q displayed as #%d\n",
			n.Title,
			id)
	} else {
		d.log.Printf("[DEBUG] Notification %q scheduled as #%d, next due %s\n",
			n.Title,
			id,
			due.Format(common.TimestampFormat))
	}

	return id, nil
} // func (d *Daemon) NotificationSubmit(n *objects.Notification) (int64, error)

// NotificationCancel cancels the outstanding notification for the given
// (entity, purpose) pair. Cancelling a pair that has nothing outstanding
// is not an error.
func (d *Daemon) NotificationCancel(entityID, purpose string) error {
	var entry = d.reg.Get(entityID, purpose)

	d.reg.Remove(entityID, purpose)

	var db = d.pool.Get()
	defer d.pool.Put(db)

	if err := db.NotificationDeactivate(entityID, purpose); err != nil {
		return err
	}

	if entry != nil {
		d.closeNotification(entry.Identity)
		d.forget(entry.Identity)
	}

	return nil
} // func (d *Daemon) NotificationCancel(entityID, purpose string) error

// NotificationCancelEntity cancels every outstanding notification for the
// given entity, e.g. when the entity itself was deleted.
func (d *Daemon) NotificationCancelEntity(entityID string) error {
	for _, entry := range d.reg.ListPending() {
		if entry.EntityID == entityID {
			d.closeNotification(entry.Identity)
			d.forget(entry.Identity)
		}
	}

	d.reg.RemoveAllForEntity(entityID)

	var db = d.pool.Get()
	defer d.pool.Put(db)

	return db.NotificationDeactivateEntity(entityID)
} // func (d *Daemon) NotificationCancelEntity(entityID string) error

// NotificationCancelAll cancels everything.
func (d *Daemon) NotificationCancelAll() error {
	for _, entry := range d.reg.ListPending() {
		d.closeNotification(entry.Identity)
	}

	d.reg.Clear()

	d.stateLock.Lock()
	d.bundles = make(map[int64]*objects.Notification)
	d.dueTimes = make(map[int64]time.Time)
	d.osIDs = make(map[int64]uint32)
	d.taps = make(map[uint32]string)
	d.stateLock.Unlock()

	var db = d.pool.Get()
	defer d.pool.Put(db)

	return db.NotificationDeactivateAll()
} // func (d *Daemon) NotificationCancelAll() error

// Pending returns a snapshot of the outstanding notifications, in the
// order they were submitted.
func (d *Daemon) Pending() []registry.Entry {
	return d.reg.ListPending()
} // func (d *Daemon) Pending() []registry.Entry

func (d *Daemon) scheduleLoop() {
	defer d.log.Println("[TRACE] Quitting scheduleLoop")

	var tick = time.NewTicker(queueTimeout)
	defer tick.Stop()

	for d.IsAlive() {
		<-tick.C
		d.fireDue(time.Now())
	}
} // func (d *Daemon) scheduleLoop()

// fireDue displays every scheduled notification whose fire time has
// arrived, then re-arms the recurring ones and retires the one-shots.
func (d *Daemon) fireDue(now time.Time) {
	for _, entry := range d.reg.ListPending() {
		if entry.Schedule == nil {
			continue
		}

		var (
			n   *objects.Notification
			due time.Time
			ok  bool
		)

		d.stateLock.Lock()
		due, ok = d.dueTimes[entry.Identity]
		n = d.bundles[entry.Identity]
		d.stateLock.Unlock()

		if !ok || n == nil || due.After(now) {
			continue
		}

		if err := d.notify(n); err != nil {
			d.log.Printf("[ERROR] Failed to display Notification %q: %s\n",
				n.Title,
				err.Error())
			continue
		}

		var next time.Time
		var err error

		if next, err = entry.Schedule.Next(now); err != nil {
			// A one-shot that just fired. Retire it.
			d.log.Printf("[DEBUG] Notification #%d (%q) has fired for good\n",
				entry.Identity,
				n.Title)

			d.reg.Remove(entry.EntityID, entry.Purpose)

			var db = d.pool.Get()
			if e2 := db.NotificationDeactivate(entry.EntityID, entry.Purpose); e2 != nil {
				d.log.Printf("[ERROR] Cannot retire Notification #%d in journal: %s\n",
					entry.Identity,
					e2.Error())
			}
			d.pool.Put(db)

			d.stateLock.Lock()
			delete(d.dueTimes, entry.Identity)
			delete(d.bundles, entry.Identity)
			d.stateLock.Unlock()
			continue
		}

		d.stateLock.Lock()
		d.dueTimes[entry.Identity] = next
		d.stateLock.Unlock()

		d.log.Printf("[DEBUG] Notification #%d (%q) re-armed for %s\n",
			entry.Identity,
			n.Title,
			next.Format(common.TimestampFormat))
	}
} // func (d *Daemon) fireDue(now time.Time)

// rehydrate rebuilds the in-memory registry from the journal. One-shots
// whose time has passed while the daemon was down are retired, not fired.
func (d *Daemon) rehydrate() error {
	var (
		err  error
		list []objects.Notification
		db   = d.pool.Get()
	)
	defer d.pool.Put(db)

	if list, err = db.NotificationGetActive(); err != nil {
		return err
	}

	var (
		now     = time.Now()
		entries = make([]registry.Entry, 0, len(list))
	)

	for idx := range list {
		var (
			n   = &list[idx]
			id  = n.Identity()
			due time.Time
		)

		if n.Schedule != nil {
			if due, err = n.Schedule.Next(now); err != nil {
				d.log.Printf("[INFO] Notification %q expired while we were away, retiring it\n",
					n.Title)
				if e2 := db.NotificationDeactivate(n.EntityID, n.Purpose); e2 != nil {
					d.log.Printf("[ERROR] Cannot retire Notification %q: %s\n",
						n.Title,
						e2.Error())
				}
				continue
			}
		}

		entries = append(entries, registry.Entry{
			EntityID: n.EntityID,
			Purpose:  n.Purpose,
			Identity: id,
			Schedule: n.Schedule,
			Envelope: n.Envelope,
		})

		d.stateLock.Lock()
		d.bundles[id] = n
		if n.Schedule != nil {
			d.dueTimes[id] = due
		}
		d.stateLock.Unlock()
	}

	d.reg.Rehydrate(entries)

	d.log.Printf("[INFO] Rehydrated %d Notification(s) from the journal\n",
		len(entries))

	return nil
} // func (d *Daemon) rehydrate()

// forget drops all per-identity state for the given identity.
func (d *Daemon) forget(id int64) {
	d.stateLock.Lock()
	if osID, ok := d.osIDs[id]; ok {
		delete(d.taps, osID)
	}
	delete(d.osIDs, id)
	delete(d.dueTimes, id)
	delete(d.bundles, id)
	d.stateLock.Unlock()
} // func (d *Daemon) forget(id int64)

func (d *Daemon) getID() int64 {
	d.idLock.Lock()
	d.idCnt++
	var id = d.idCnt
	d.idLock.Unlock()
	return id
} // func (d *Daemon) getID() int64
