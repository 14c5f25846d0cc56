// /home/krylon/go/src/github.com/blicero/iris/database/01_database_init_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 21:02:33 krylon>

package database

import (
	"testing"
	"time"

	"github.com/blicero/iris/common"
)

var db *Database

func init() {
	var baseDir = time.Now().Format("/tmp/iris_db_test_20060102_150405")

	if err := common.SetBaseDir(baseDir); err != nil {
		panic(err)
	}
} // func init()

func TestCreateDatabase(t *testing.T) {
	var err error

	if db, err = Open(common.DbPath()); err != nil {
		db = nil
		t.Fatalf("Cannot open database at %s: %s",
			common.DbPath(),
			err.Error())
	}
} // func TestCreateDatabase(t *testing.T)

// We prepare each query once to make sure there are no syntax errors in the SQL.
func TestPrepareQueries(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	for id := range dbQueries {
		var err error
		if _, err = db.getQuery(id); err != nil {
			t.Errorf("Cannot prepare query %s: %s",
				id,
				err.Error())
		}
	}
} // func TestPrepareQueries(t *testing.T)
