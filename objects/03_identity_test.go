// /home/krylon/go/src/github.com/blicero/iris/objects/03_identity_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 06. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 20:19:03 krylon>

package objects

import (
	"fmt"
	"testing"
)

func TestDeriveIDDeterministic(t *testing.T) {
	type testCase struct {
		entity, purpose string
	}

	var cases = []testCase{
		testCase{entity: "task-0042", purpose: "deadline"},
		testCase{entity: "task-0042", purpose: "before"},
		testCase{entity: "notice-17", purpose: "default"},
		testCase{entity: "", purpose: ""},
		testCase{entity: "Wölfe", purpose: "heulen"},
	}

	for _, c := range cases {
		var id1, id2 = DeriveID(c.entity, c.purpose), DeriveID(c.entity, c.purpose)

		if id1 != id2 {
			t.Errorf("DeriveID(%q, %q) is not deterministic: %d != %d",
				c.entity,
				c.purpose,
				id1,
				id2)
		} else if id1 == 0 {
			t.Errorf("DeriveID(%q, %q) returned the reserved value 0",
				c.entity,
				c.purpose)
		} else if id1 < 0 {
			t.Errorf("DeriveID(%q, %q) returned a negative value %d",
				c.entity,
				c.purpose,
				id1)
		}
	}
} // func TestDeriveIDDeterministic(t *testing.T)

// Different purposes for the same entity must address different
// notifications, and the separator must keep ("ab", "c") apart
// from ("a", "bc").
func TestDeriveIDDistinct(t *testing.T) {
	var (
		deadline = DeriveID("task-0042", "deadline")
		before   = DeriveID("task-0042", "before")
		other    = DeriveID("task-0043", "deadline")
	)

	if deadline == before {
		t.Errorf("Same entity, different purposes, same ID %d",
			deadline)
	} else if deadline == other {
		t.Errorf("Different entities, same purpose, same ID %d",
			deadline)
	}

	if DeriveID("ab", "c") == DeriveID("a", "bc") {
		t.Error("Concatenation without a separator: (\"ab\", \"c\") collides with (\"a\", \"bc\")")
	}
} // func TestDeriveIDDistinct(t *testing.T)

func TestDeriveIDNeverZero(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var (
			entity = fmt.Sprintf("entity-%04d", i)
			id     = DeriveID(entity, "default")
		)

		if id <= 0 {
			t.Errorf("DeriveID(%q, \"default\") = %d, want a positive value",
				entity,
				id)
		}
	}
} // func TestDeriveIDNeverZero(t *testing.T)
