// /home/krylon/go/src/github.com/blicero/iris/registry/01_registry_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 20:31:27 krylon>

package registry

import (
	"fmt"
	"testing"
	"time"

	"github.com/blicero/iris/objects"
)

func mkEnvelope(entity string) *objects.Envelope {
	return &objects.Envelope{
		Kind:      objects.KindTaskDeadline,
		EntityID:  entity,
		CreatedAt: time.Now(),
	}
} // func mkEnvelope(entity string) *objects.Envelope

func TestRegistryUpsertIdempotent(t *testing.T) {
	var (
		reg    = New()
		sched1 = objects.NewOnce(time.Now().Add(time.Hour))
		sched2 = objects.NewOnce(time.Now().Add(time.Hour * 2))
		id1    = reg.Upsert("task-0042", "deadline", sched1, mkEnvelope("task-0042"))
		id2    = reg.Upsert("task-0042", "deadline", sched2, mkEnvelope("task-0042"))
	)

	if id1 != id2 {
		t.Errorf("Upserting the same pair twice yielded two identities: %d / %d",
			id1,
			id2)
	} else if cnt := reg.Count(); cnt != 1 {
		t.Errorf("Upserting the same pair twice left %d entries, want 1",
			cnt)
	}

	var e = reg.Get("task-0042", "deadline")

	if e == nil {
		t.Fatal("Get returned nil for a pair we just upserted")
	} else if e.Schedule != sched2 {
		t.Error("Second Upsert did not replace the Schedule")
	} else if e.Identity != id1 {
		t.Errorf("Entry carries Identity %d, want %d",
			e.Identity,
			id1)
	}
} // func TestRegistryUpsertIdempotent(t *testing.T)

func TestRegistryInsertionOrder(t *testing.T) {
	var reg = New()

	for i := 0; i < 8; i++ {
		var entity = fmt.Sprintf("task-%04d", i)
		reg.Upsert(entity, "deadline", nil, mkEnvelope(entity))
	}

	// Replacing an existing pair must keep its original position.
	reg.Upsert("task-0003", "deadline", nil, mkEnvelope("task-0003"))

	var list = reg.ListPending()

	if len(list) != 8 {
		t.Fatalf("ListPending returned %d entries, want 8",
			len(list))
	}

	for i, e := range list {
		var entity = fmt.Sprintf("task-%04d", i)

		if e.EntityID != entity {
			t.Errorf("Entry %d is %q, want %q",
				i,
				e.EntityID,
				entity)
		}
	}
} // func TestRegistryInsertionOrder(t *testing.T)

func TestRegistryRemove(t *testing.T) {
	var reg = New()

	reg.Upsert("task-0042", "deadline", nil, mkEnvelope("task-0042"))
	reg.Upsert("task-0042", "before", nil, mkEnvelope("task-0042"))
	reg.Upsert("notice-17", "default", nil, mkEnvelope("notice-17"))

	reg.Remove("task-0042", "deadline")

	if reg.Get("task-0042", "deadline") != nil {
		t.Error("Removed pair is still present")
	} else if reg.Get("task-0042", "before") == nil {
		t.Error("Remove took the wrong purpose with it")
	} else if cnt := reg.Count(); cnt != 2 {
		t.Errorf("Count is %d after Remove, want 2", cnt)
	}

	// Removing an absent pair is a no-op, not an error.
	reg.Remove("task-0042", "deadline")
	reg.Remove("no-such-entity", "whatever")

	if cnt := reg.Count(); cnt != 2 {
		t.Errorf("Count is %d after removing absent pairs, want 2", cnt)
	}
} // func TestRegistryRemove(t *testing.T)

func TestRegistryRemoveAllForEntity(t *testing.T) {
	var reg = New()

	reg.Upsert("task-0042", "deadline", nil, mkEnvelope("task-0042"))
	reg.Upsert("task-0042", "before", nil, mkEnvelope("task-0042"))
	reg.Upsert("notice-17", "default", nil, mkEnvelope("notice-17"))

	reg.RemoveAllForEntity("task-0042")

	if cnt := reg.Count(); cnt != 1 {
		t.Errorf("Count is %d after RemoveAllForEntity, want 1", cnt)
	} else if reg.Get("notice-17", "default") == nil {
		t.Error("RemoveAllForEntity took an unrelated entity with it")
	}
} // func TestRegistryRemoveAllForEntity(t *testing.T)

func TestRegistryClear(t *testing.T) {
	var reg = New()

	for i := 0; i < 4; i++ {
		var entity = fmt.Sprintf("task-%04d", i)
		reg.Upsert(entity, "deadline", nil, mkEnvelope(entity))
	}

	reg.Clear()

	if cnt := reg.Count(); cnt != 0 {
		t.Errorf("Count is %d after Clear, want 0", cnt)
	} else if list := reg.ListPending(); len(list) != 0 {
		t.Errorf("ListPending returned %d entries after Clear, want none",
			len(list))
	}
} // func TestRegistryClear(t *testing.T)

func TestRegistryRehydrate(t *testing.T) {
	var (
		reg     = New()
		entries = []Entry{
			Entry{
				EntityID: "task-0042",
				Purpose:  "deadline",
				Identity: objects.DeriveID("task-0042", "deadline"),
				Envelope: mkEnvelope("task-0042"),
			},
			Entry{
				EntityID: "notice-17",
				Purpose:  "default",
				Identity: objects.DeriveID("notice-17", "default"),
				Envelope: mkEnvelope("notice-17"),
			},
		}
	)

	// Pre-existing content must not survive a Rehydrate.
	reg.Upsert("stale-entity", "default", nil, mkEnvelope("stale-entity"))

	reg.Rehydrate(entries)

	if cnt := reg.Count(); cnt != 2 {
		t.Fatalf("Count is %d after Rehydrate, want 2", cnt)
	} else if reg.Get("stale-entity", "default") != nil {
		t.Error("Stale entry survived the Rehydrate")
	}

	var list = reg.ListPending()

	for i, e := range entries {
		if list[i].EntityID != e.EntityID || list[i].Purpose != e.Purpose {
			t.Errorf("Entry %d is (%q, %q), want (%q, %q)",
				i,
				list[i].EntityID,
				list[i].Purpose,
				e.EntityID,
				e.Purpose)
		}
	}
} // func TestRegistryRehydrate(t *testing.T)
