// /home/krylon/go/src/github.com/blicero/iris/dispatch/dispatch.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-03 21:37:12 krylon>

// Package dispatch routes activated notifications to their handlers.
// The payload string the OS hands back on activation is decoded into an
// Envelope, and the Envelope's Kind picks the handler. Whatever the input
// looks like, exactly one handler runs; there is no way for a corrupted
// payload to make Dispatch blow up in the face of the OS callback.
package dispatch

import (
	"log"
	"sync"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/logdomain"
	"github.com/blicero/iris/objects"
)

// Handler processes one decoded Envelope.
type Handler func(env *objects.Envelope)

// Navigator is the Router's window into the UI: it takes the user to the
// named view, with string arguments describing what to display there.
type Navigator interface {
	Navigate(route string, args map[string]string) error
}

// RouteHome is where the user lands when we cannot make sense of a
// notification. The other routes are the per-kind defaults, used when an
// Envelope does not name a target route itself.
const (
	RouteHome   = "/home"
	RouteTask   = "/task"
	RouteNotice = "/notice"
	RouteClass  = "/class"
	RouteChat   = "/chat"
)

var defaultRoutes = map[string]string{
	objects.KindTaskDeadline: RouteTask,
	objects.KindTaskReminder: RouteTask,
	objects.KindNewTask:      RouteTask,
	objects.KindNewNotice:    RouteNotice,
	objects.KindClassUpdate:  RouteClass,
	objects.KindMessage:      RouteChat,
	objects.KindGeneric:      RouteHome,
}

// DefaultRoute returns the route an Envelope of the given Kind leads to
// when it does not name one itself.
func DefaultRoute(kind string) string {
	if route, ok := defaultRoutes[kind]; ok {
		return route
	}

	return RouteHome
} // func DefaultRoute(kind string) string

// Router maps notification kinds to Handlers.
type Router struct {
	log      *log.Logger
	lock     sync.RWMutex
	handlers map[string]Handler
	fallback Handler
}

// NewRouter creates a Router. The given Handler is the fallback, invoked
// for Envelopes no specific Handler was registered for and for payloads
// that could not be decoded at all.
func NewRouter(fallback Handler) (*Router, error) {
	var (
		err error
		r   = &Router{
			handlers: make(map[string]Handler),
			fallback: fallback,
		}
	)

	if r.log, err = common.GetLogger(logdomain.Dispatch); err != nil {
		return nil, err
	}

	return r, nil
} // func NewRouter(fallback Handler) (*Router, error)

// Register installs a Handler for the given kind. Registering a second
// Handler for the same kind silently replaces the first one - the last
// write wins. Callers that consider that a bug need to coordinate among
// themselves.
func (r *Router) Register(kind string, h Handler) {
	r.lock.Lock()
	r.handlers[kind] = h
	r.lock.Unlock()
} // func (r *Router) Register(kind string, h Handler)

// Dispatch decodes the given payload and invokes the Handler registered
// for its Kind, or the fallback if there is none or the payload could not
// be decoded. Dispatch always results in exactly one Handler invocation
// and never panics; it is safe to call straight from the OS callback.
func (r *Router) Dispatch(raw string) {
	var (
		err error
		env *objects.Envelope
	)

	if env, err = objects.DecodeEnvelope(raw); err != nil {
		r.log.Printf("[DEBUG] Undecodable payload (%s), falling back\n",
			err.Error())

		env = &objects.Envelope{
			Kind:       objects.KindGeneric,
			CreatedAt:  time.Now(),
			Attributes: map[string]string{"raw": raw},
		}

		r.invoke(r.fallback, env)
		return
	}

	r.lock.RLock()
	var h, ok = r.handlers[env.Kind]
	r.lock.RUnlock()

	if !ok {
		r.log.Printf("[DEBUG] No Handler for Kind %s, falling back\n",
			env.Kind)
		h = r.fallback
	}

	r.invoke(h, env)
} // func (r *Router) Dispatch(raw string)

func (r *Router) invoke(h Handler, env *objects.Envelope) {
	defer func() {
		if x := recover(); x != nil {
			r.log.Printf("[CANTHAPPEN] Handler for Kind %s panicked: %v\n",
				env.Kind,
				x)
		}
	}()

	h(env)
} // func (r *Router) invoke(h Handler, env *objects.Envelope)

// NavigationHandler returns a Handler that forwards its Envelope to the
// given Navigator, using the Envelope's target route, or the Kind's
// default route if the Envelope has none.
func (r *Router) NavigationHandler(nav Navigator) Handler {
	return func(env *objects.Envelope) {
		var route = env.TargetRoute

		if route == "" {
			route = DefaultRoute(env.Kind)
		}

		var args = make(map[string]string, len(env.Attributes)+2)

		for k, v := range env.Attributes {
			args[k] = v
		}

		if env.EntityID != "" {
			args["entity_id"] = env.EntityID
		}

		if env.SecondaryID != "" {
			args["secondary_id"] = env.SecondaryID
		}

		if err := nav.Navigate(route, args); err != nil {
			r.log.Printf("[ERROR] Cannot navigate to %s: %s\n",
				route,
				err.Error())
		}
	}
} // func (r *Router) NavigationHandler(nav Navigator) Handler
