// /home/krylon/go/src/github.com/blicero/iris/database/database.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-04 18:55:31 krylon>

// Package database is the journal of notifications the backend has
// scheduled or shown. The authoritative bookkeeping at runtime is the
// in-memory registry; the journal exists so the registry can be rebuilt
// when the daemon is restarted.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/database/query"
	"github.com/blicero/iris/logdomain"
	"github.com/blicero/iris/objects"
	"github.com/blicero/iris/objects/repeat"
	"github.com/blicero/krylib"
	_ "github.com/mattn/go-sqlite3" // Import the database driver
)

var openLock sync.Mutex

// ErrTxInProgress indicates that an attempt to initiate a transaction
// failed because there is already one in progress.
var ErrTxInProgress = errors.New("A Transaction is already in progress")

// ErrNoTxInProgress indicates that an attempt was made to finish a
// transaction when none was active.
var ErrNoTxInProgress = errors.New("There is no transaction in progress")

// If a query returns with this error, we wait a few milliseconds
// and try again.
var retryPat = regexp.MustCompile("(?i)database is (?:locked|busy)")

const retryDelay = time.Millisecond * 25

func worthARetry(e error) bool {
	return retryPat.MatchString(e.Error())
} // func worthARetry(e error) bool

// Database wraps the connection to the underlying data store along
// with its prepared statements.
type Database struct {
	id      int64
	db      *sql.DB
	tx      *sql.Tx
	log     *log.Logger
	path    string
	queries map[query.ID]*sql.Stmt
}

var (
	dbCntLock sync.Mutex
	dbCnt     int64
)

// Open opens a Database. If the database file does not exist, it is
// created and initialized.
func Open(path string) (*Database, error) {
	var (
		err      error
		dbExists bool
		db       = &Database{
			path:    path,
			queries: make(map[query.ID]*sql.Stmt, len(dbQueries)),
		}
	)

	openLock.Lock()
	defer openLock.Unlock()

	dbCntLock.Lock()
	dbCnt++
	db.id = dbCnt
	dbCntLock.Unlock()

	if db.log, err = common.GetLogger(logdomain.Database); err != nil {
		return nil, err
	}

	var connstring = fmt.Sprintf("%s?_locking=NORMAL&_journal=WAL&_fk=1&recursive_triggers=0",
		path)

	if dbExists, err = krylib.Fexists(path); err != nil {
		db.log.Printf("[ERROR] Failed to check if %s exists: %s\n",
			path,
			err.Error())
		return nil, err
	} else if db.db, err = sql.Open("sqlite3", connstring); err != nil {
		db.log.Printf("[ERROR] Failed to open %s: %s\n",
			path,
			err.Error())
		return nil, err
	}

	if !dbExists {
		if err = db.initialize(); err != nil {
			var e2 error
			if e2 = db.db.Close(); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to close database: %s\n",
					e2.Error())
				return nil, e2
			}

			return nil, err
		}

		db.log.Printf("[INFO] Database at %s has been initialized\n",
			path)
	}

	return db, nil
} // func Open(path string) (*Database, error)

func (db *Database) initialize() error {
	var err error
	var tx *sql.Tx

	if tx, err = db.db.Begin(); err != nil {
		db.log.Printf("[ERROR] Cannot begin transaction: %s\n",
			err.Error())
		return err
	}

	for _, q := range initQueries {
		if _, err = tx.Exec(q); err != nil {
			db.log.Printf("[ERROR] Cannot execute init query: %s\n%s\n",
				err.Error(),
				q)
			if rbErr := tx.Rollback(); rbErr != nil {
				db.log.Printf("[CANTHAPPEN] Cannot rollback failed initialization: %s\n",
					rbErr.Error())
				return rbErr
			}
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		db.log.Printf("[CANTHAPPEN] Failed to commit initialization: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) initialize() error

// Close closes the database connection.
func (db *Database) Close() error {
	if db.tx != nil {
		if err := db.tx.Rollback(); err != nil {
			db.log.Printf("[CRITICAL] Cannot roll back pending transaction: %s\n",
				err.Error())
			return err
		}
		db.tx = nil
	}

	for key, stmt := range db.queries {
		if err := stmt.Close(); err != nil {
			db.log.Printf("[CRITICAL] Cannot close statement handle %s: %s\n",
				key,
				err.Error())
			return err
		}
		delete(db.queries, key)
	}

	if err := db.db.Close(); err != nil {
		db.log.Printf("[CRITICAL] Cannot close database: %s\n",
			err.Error())
		return err
	}

	db.db = nil
	return nil
} // func (db *Database) Close() error

func (db *Database) getQuery(id query.ID) (*sql.Stmt, error) {
	var (
		stmt  *sql.Stmt
		found bool
		err   error
	)

	if stmt, found = db.queries[id]; found {
		return stmt, nil
	} else if _, found = dbQueries[id]; !found {
		return nil, fmt.Errorf("Unknown query %d",
			id)
	}

PREPARE_QUERY:
	if stmt, err = db.db.Prepare(dbQueries[id]); err != nil {
		if worthARetry(err) {
			time.Sleep(retryDelay)
			goto PREPARE_QUERY
		}

		db.log.Printf("[ERROR] Cannot parse query %s: %s\n%s\n",
			id,
			err.Error(),
			dbQueries[id])
		return nil, err
	}

	db.queries[id] = stmt
	return stmt, nil
} // func (db *Database) getQuery(query.ID) (*sql.Stmt, error)

// Begin begins an explicit database transaction.
// Only one transaction can be in progress at once, attempting to start one,
// while another transaction is already in progress will yield ErrTxInProgress.
func (db *Database) Begin() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Begin Transaction\n",
		db.id)

	if db.tx != nil {
		return ErrTxInProgress
	}

BEGIN_TX:
	for db.tx == nil {
		if db.tx, err = db.db.Begin(); err != nil {
			if worthARetry(err) {
				time.Sleep(retryDelay)
				continue BEGIN_TX
			}

			db.log.Printf("[ERROR] Failed to start transaction: %s\n",
				err.Error())
			return err
		}
	}

	return nil
} // func (db *Database) Begin() error

// queryTx returns a statement handle for the given query, bound to the
// active transaction if there is one.
func (db *Database) queryTx(id query.ID) (*sql.Stmt, error) {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(id); err != nil {
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	return stmt, nil
} // func (db *Database) queryTx(id query.ID) (*sql.Stmt, error)

// Rollback terminates a pending transaction, undoing any changes to the
// database made during that transaction.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Rollback() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Roll back Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Rollback(); err != nil {
		return fmt.Errorf("Cannot roll back database transaction: %s",
			err.Error())
	}

	db.tx = nil
	return nil
} // func (db *Database) Rollback() error

// Commit ends the active transaction, making any changes made during that
// transaction permanent and visible to other connections.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Commit() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Commit Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Commit(); err != nil {
		return fmt.Errorf("Cannot commit transaction: %s",
			err.Error())
	}

	db.tx = nil
	return nil
} // func (db *Database) Commit() error

// NotificationUpsert saves a Notification to the journal. If the journal
// already has a row for the Notification's (entity, purpose) pair, that
// row is overwritten and re-activated; the journal never holds more than
// one row per pair.
func (db *Database) NotificationUpsert(n *objects.Notification) error {
	var (
		err     error
		stmt    *sql.Stmt
		payload string
		rep     *int64
		fireAt  int64
		day     int
		hour    int
		minute  int
	)

	if payload, err = objects.EncodeEnvelope(n.Envelope); err != nil {
		db.log.Printf("[ERROR] Cannot encode Envelope for Notification %q: %s\n",
			n.Title,
			err.Error())
		return err
	}

	if n.Schedule != nil {
		var r = int64(n.Schedule.Repeat)
		rep = &r

		switch n.Schedule.Repeat {
		case repeat.Once:
			fireAt = n.Schedule.At.Unix()
		case repeat.Daily:
			hour = n.Schedule.Hour
			minute = n.Schedule.Minute
		case repeat.Weekly:
			day = int(n.Schedule.Day)
			hour = n.Schedule.Hour
			minute = n.Schedule.Minute
		}
	}

	if stmt, err = db.queryTx(query.NotificationUpsert); err != nil {
		return err
	}

	var now = time.Now()

EXEC_QUERY:
	var row = stmt.QueryRow(
		n.EntityID,
		n.Purpose,
		n.Identity(),
		n.Title,
		n.Body,
		payload,
		rep,
		fireAt,
		day,
		hour,
		minute,
		now.Unix())

	if err = row.Scan(&n.ID); err != nil {
		if worthARetry(err) {
			time.Sleep(retryDelay)
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot save Notification %q to journal: %s\n",
			n.Title,
			err.Error())
		return err
	}

	n.Changed = now
	return nil
} // func (db *Database) NotificationUpsert(n *objects.Notification) error

// NotificationDeactivate marks the journal row for the given (entity,
// purpose) pair as no longer outstanding. Deactivating a pair the journal
// does not know is not an error.
func (db *Database) NotificationDeactivate(entityID, purpose string) error {
	return db.deactivate(query.NotificationDeactivate, entityID, purpose)
} // func (db *Database) NotificationDeactivate(entityID, purpose string) error

// NotificationDeactivateEntity marks every journal row for the given
// entity as no longer outstanding.
func (db *Database) NotificationDeactivateEntity(entityID string) error {
	return db.deactivate(query.NotificationDeactivateEntity, entityID)
} // func (db *Database) NotificationDeactivateEntity(entityID string) error

// NotificationDeactivateAll marks every journal row as no longer
// outstanding.
func (db *Database) NotificationDeactivateAll() error {
	return db.deactivate(query.NotificationDeactivateAll)
} // func (db *Database) NotificationDeactivateAll() error

func (db *Database) deactivate(qid query.ID, keyArgs ...interface{}) error {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.queryTx(qid); err != nil {
		return err
	}

	var args = make([]interface{}, 0, len(keyArgs)+1)
	args = append(args, time.Now().Unix())
	args = append(args, keyArgs...)

EXEC_QUERY:
	if _, err = stmt.Exec(args...); err != nil {
		if worthARetry(err) {
			time.Sleep(retryDelay)
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot execute query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	return nil
} // func (db *Database) deactivate(qid query.ID, keyArgs ...interface{}) error

// NotificationGetActive loads all Notifications the journal considers
// outstanding, in the order they were first saved.
func (db *Database) NotificationGetActive() ([]objects.Notification, error) {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.queryTx(query.NotificationGetActive); err != nil {
		return nil, err
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(); err != nil {
		if worthARetry(err) {
			time.Sleep(retryDelay)
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot query active Notifications: %s\n",
			err.Error())
		return nil, err
	}

	defer rows.Close() // nolint: errcheck

	var list = make([]objects.Notification, 0, 16)

	for rows.Next() {
		var n objects.Notification

		if n, err = db.scanNotification(rows, false); err != nil {
			return nil, err
		}

		list = append(list, n)
	}

	return list, nil
} // func (db *Database) NotificationGetActive() ([]objects.Notification, error)

// NotificationGetAll loads the complete journal, outstanding or not,
// mainly for diagnostics.
func (db *Database) NotificationGetAll() ([]objects.Notification, error) {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.queryTx(query.NotificationGetAll); err != nil {
		return nil, err
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(); err != nil {
		if worthARetry(err) {
			time.Sleep(retryDelay)
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot query journal: %s\n",
			err.Error())
		return nil, err
	}

	defer rows.Close() // nolint: errcheck

	var list = make([]objects.Notification, 0, 16)

	for rows.Next() {
		var n objects.Notification

		if n, err = db.scanNotification(rows, true); err != nil {
			return nil, err
		}

		list = append(list, n)
	}

	return list, nil
} // func (db *Database) NotificationGetAll() ([]objects.Notification, error)

func (db *Database) scanNotification(rows *sql.Rows, withActive bool) (objects.Notification, error) {
	var (
		err     error
		n       objects.Notification
		payload string
		rep     sql.NullInt64
		fireAt  int64
		day     int
		hour    int
		minute  int
		active  bool
		changed int64
	)

	var dest = []interface{}{
		&n.ID,
		&n.EntityID,
		&n.Purpose,
		new(int64), // identity is derived, the stored copy is only for the OS side
		&n.Title,
		&n.Body,
		&payload,
		&rep,
		&fireAt,
		&day,
		&hour,
		&minute,
	}

	if withActive {
		dest = append(dest, &active)
	}

	dest = append(dest, &changed)

	if err = rows.Scan(dest...); err != nil {
		db.log.Printf("[ERROR] Cannot scan journal row: %s\n",
			err.Error())
		return n, err
	}

	if n.Envelope, err = objects.DecodeEnvelope(payload); err != nil {
		db.log.Printf("[ERROR] Journal row %d carries an undecodable payload: %s\n",
			n.ID,
			err.Error())
		return n, err
	}

	if rep.Valid {
		switch repeat.Repeat(rep.Int64) {
		case repeat.Once:
			n.Schedule = objects.NewOnce(time.Unix(fireAt, 0))
		case repeat.Daily:
			if n.Schedule, err = objects.NewDaily(hour, minute); err != nil {
				db.log.Printf("[CANTHAPPEN] Journal row %d has an invalid Daily schedule: %s\n",
					n.ID,
					err.Error())
				return n, err
			}
		case repeat.Weekly:
			if n.Schedule, err = objects.NewWeekly(time.Weekday(day), hour, minute); err != nil {
				db.log.Printf("[CANTHAPPEN] Journal row %d has an invalid Weekly schedule: %s\n",
					n.ID,
					err.Error())
				return n, err
			}
		}
	}

	n.Changed = time.Unix(changed, 0)

	return n, nil
} // func (db *Database) scanNotification(rows *sql.Rows, withActive bool) (objects.Notification, error)
