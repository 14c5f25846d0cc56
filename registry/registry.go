// /home/krylon/go/src/github.com/blicero/iris/registry/registry.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-03 20:14:55 krylon>

// Package registry keeps track of which logical notifications are
// currently outstanding, i.e. scheduled or shown. It is bookkeeping in
// process memory only; the backend owns the one instance per process and
// rebuilds it from the journal on startup.
package registry

import (
	"sync"

	"github.com/blicero/iris/objects"
)

// Entry describes one outstanding logical notification, keyed by the
// subject entity and a short purpose tag.
type Entry struct {
	EntityID string
	Purpose  string
	Identity int64
	Schedule *objects.Schedule
	Envelope *objects.Envelope
}

type key struct {
	entity  string
	purpose string
}

// Registry is an insertion-ordered map of outstanding notifications.
// All methods are safe for concurrent use.
type Registry struct {
	lock    sync.RWMutex
	entries map[key]*Entry
	order   []key
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[key]*Entry),
	}
} // func New() *Registry

// Upsert stores an Entry for the given (entity, purpose) pair, computing
// its Identity, and returns that Identity for the caller to hand to the
// notification adapter. If the pair is present already, its Entry is
// replaced in place - one Entry per pair, the latest data wins, the
// original insertion position is kept.
func (r *Registry) Upsert(entityID, purpose string, sched *objects.Schedule, env *objects.Envelope) int64 {
	var (
		id = objects.DeriveID(entityID, purpose)
		k  = key{entity: entityID, purpose: purpose}
	)

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.entries[k]; !ok {
		r.order = append(r.order, k)
	}

	r.entries[k] = &Entry{
		EntityID: entityID,
		Purpose:  purpose,
		Identity: id,
		Schedule: sched,
		Envelope: env,
	}

	return id
} // func (r *Registry) Upsert(entityID, purpose string, sched *objects.Schedule, env *objects.Envelope) int64

// Get looks up the Entry for the given (entity, purpose) pair, returning
// nil if there is none.
func (r *Registry) Get(entityID, purpose string) *Entry {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.entries[key{entity: entityID, purpose: purpose}]
} // func (r *Registry) Get(entityID, purpose string) *Entry

// Remove removes the Entry for the given (entity, purpose) pair, if it is
// present. Removing an absent pair is not an error, so callers can use
// Remove as a compensating action after a failed adapter call without
// checking first.
func (r *Registry) Remove(entityID, purpose string) {
	var k = key{entity: entityID, purpose: purpose}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.removeLocked(k)
} // func (r *Registry) Remove(entityID, purpose string)

// RemoveAllForEntity removes every Entry whose EntityID matches, e.g. when
// the subject entity was deleted.
func (r *Registry) RemoveAllForEntity(entityID string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var victims []key

	for k := range r.entries {
		if k.entity == entityID {
			victims = append(victims, k)
		}
	}

	for _, k := range victims {
		r.removeLocked(k)
	}
} // func (r *Registry) RemoveAllForEntity(entityID string)

// Clear removes all Entries.
func (r *Registry) Clear() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.entries = make(map[key]*Entry)
	r.order = nil
} // func (r *Registry) Clear()

// Count returns the number of outstanding Entries.
func (r *Registry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.entries)
} // func (r *Registry) Count() int

// ListPending returns a snapshot of all Entries, in insertion order.
func (r *Registry) ListPending() []Entry {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var list = make([]Entry, 0, len(r.entries))

	for _, k := range r.order {
		list = append(list, *r.entries[k])
	}

	return list
} // func (r *Registry) ListPending() []Entry

// Rehydrate replaces the Registry's entire content with the given Entries,
// preserving their order. It is meant to be called once at startup, with
// whatever the journal (or the OS's own pending-notification list) still
// knows about.
func (r *Registry) Rehydrate(entries []Entry) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.entries = make(map[key]*Entry, len(entries))
	r.order = make([]key, 0, len(entries))

	for idx := range entries {
		var (
			e = entries[idx]
			k = key{entity: e.EntityID, purpose: e.Purpose}
		)

		if _, ok := r.entries[k]; !ok {
			r.order = append(r.order, k)
		}

		r.entries[k] = &e
	}
} // func (r *Registry) Rehydrate(entries []Entry)

func (r *Registry) removeLocked(k key) {
	if _, ok := r.entries[k]; !ok {
		return
	}

	delete(r.entries, k)

	for idx, o := range r.order {
		if o == k {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
} // func (r *Registry) removeLocked(k key)
