// /home/krylon/go/src/github.com/blicero/iris/objects/identity.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-02-05 14:02:29 krylon>

package objects

import "hash/fnv"

const (
	idSeparator = "\x1f"
	idSalt      = "iris"
)

// DeriveID computes the numeric identifier used to address a specific
// notification instance at the OS, from the subject entity's ID and a short
// purpose tag (e.g. "before", "deadline", "default").
//
// The function is deterministic and free of any time- or random-based salt,
// so the same (entity, purpose) pair yields the same identifier across
// process restarts, which is what makes re-scheduling and cancellation work
// without any persistent bookkeeping of our own.
//
// It is a plain FNV-1a hash, NOT a cryptographic one, and it makes no
// promises about collisions between different entities. At the scale of a
// single notification tray that is an acceptable trade-off.
//
// DeriveID never returns 0, that value is reserved.
func DeriveID(entityID, purpose string) int64 {
	var id = hashString(entityID + idSeparator + purpose)

	if id == 0 {
		id = hashString(entityID + idSeparator + purpose + idSeparator + idSalt)
	}

	if id == 0 {
		// Two zero hashes in a row. Not going to happen, but the
		// reserved value must not escape.
		id = 1
	}

	return id
} // func DeriveID(entityID, purpose string) int64

func hashString(s string) int64 {
	var h = fnv.New64a()

	h.Write([]byte(s)) // nolint: errcheck

	return int64(h.Sum64() & 0x7fffffffffffffff)
} // func hashString(s string) int64
