// /home/krylon/go/src/github.com/blicero/iris/backend/99_backend_shutdown_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 25. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 21:44:10 krylon>

package backend

import (
	"testing"
)

func TestBanish(t *testing.T) {
	if d == nil {
		t.SkipNow()
	}

	if err := d.Banish(); err != nil {
		t.Fatalf("Cannot banish Daemon: %s",
			err.Error())
	} else if d.IsAlive() {
		t.Error("Banished Daemon claims to still be alive")
	}
} // func TestBanish(t *testing.T)
