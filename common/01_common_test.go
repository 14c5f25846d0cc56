// /home/krylon/go/src/github.com/blicero/iris/common/01_common_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-07 10:12:54 krylon>

package common

import (
	"os"
	"testing"
	"time"

	"github.com/blicero/iris/logdomain"
)

func init() {
	var baseDir = time.Now().Format("/tmp/iris_common_test_20060102_150405")

	if err := SetBaseDir(baseDir); err != nil {
		panic(err)
	}
} // func init()

// The first GetLogger creates the log file, the second one opens the
// existing file for appending. Both paths have to work.
func TestGetLogger(t *testing.T) {
	for _, dom := range logdomain.AllDomains() {
		var logger, err = GetLogger(dom)

		if err != nil {
			t.Fatalf("Cannot create Logger for %s: %s",
				dom,
				err.Error())
		} else if logger == nil {
			t.Fatalf("GetLogger(%s) returned no error and no Logger",
				dom)
		}

		logger.Printf("[DEBUG] Test message from %s\n", dom)
	}

	if _, err := os.Stat(LogPath()); err != nil {
		t.Errorf("Log file %s was not created: %s",
			LogPath(),
			err.Error())
	}
} // func TestGetLogger(t *testing.T)

func TestGetUUID(t *testing.T) {
	var seen = make(map[string]bool, 16)

	for i := 0; i < 16; i++ {
		var id = GetUUID()

		if len(id) != 36 {
			t.Errorf("UUID %q has unexpected length %d",
				id,
				len(id))
		} else if seen[id] {
			t.Errorf("UUID %q was generated twice", id)
		}

		seen[id] = true
	}
} // func TestGetUUID(t *testing.T)
