// /home/krylon/go/src/github.com/blicero/iris/database/pool.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-04 19:02:13 krylon>

package database

import (
	"sync"

	"github.com/blicero/iris/common"
)

// Pool is a pool of database connections.
type Pool struct {
	lock    sync.Mutex
	cond    *sync.Cond
	clients []*Database
}

// NewPool creates a Pool of database connections, all opened on the
// application's default database path.
func NewPool(cnt int) (*Pool, error) {
	var (
		err  error
		pool = &Pool{
			clients: make([]*Database, 0, cnt),
		}
	)

	pool.cond = sync.NewCond(&pool.lock)

	for i := 0; i < cnt; i++ {
		var db *Database

		if db, err = Open(common.DbPath()); err != nil {
			for _, c := range pool.clients {
				c.Close() // nolint: errcheck
			}
			return nil, err
		}

		pool.clients = append(pool.clients, db)
	}

	return pool, nil
} // func NewPool(cnt int) (*Pool, error)

// Get returns a database connection from the Pool, blocking until one
// becomes available if need be.
func (p *Pool) Get() *Database {
	p.lock.Lock()
	defer p.lock.Unlock()

	for len(p.clients) == 0 {
		p.cond.Wait()
	}

	var db = p.clients[len(p.clients)-1]
	p.clients = p.clients[:len(p.clients)-1]

	return db
} // func (p *Pool) Get() *Database

// Put returns a database connection to the Pool.
func (p *Pool) Put(db *Database) {
	p.lock.Lock()
	p.clients = append(p.clients, db)
	p.cond.Signal()
	p.lock.Unlock()
} // func (p *Pool) Put(db *Database)

// Close closes all database connections currently in the Pool.
func (p *Pool) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, db := range p.clients {
		if err := db.Close(); err != nil {
			return err
		}
	}

	p.clients = p.clients[:0]
	return nil
} // func (p *Pool) Close() error
