// /home/krylon/go/src/github.com/blicero/iris/database/initqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-03 22:19:44 krylon>

package database

var initQueries = []string{
	`
CREATE TABLE notification (
    id        INTEGER PRIMARY KEY,
    entity_id TEXT NOT NULL,
    purpose   TEXT NOT NULL,
    identity  INTEGER NOT NULL,
    title     TEXT NOT NULL,
    body      TEXT NOT NULL DEFAULT '',
    payload   TEXT NOT NULL,
    rep       INTEGER,
    fire_at   INTEGER NOT NULL DEFAULT 0,
    day       INTEGER NOT NULL DEFAULT 0,
    hour      INTEGER NOT NULL DEFAULT 0,
    minute    INTEGER NOT NULL DEFAULT 0,
    active    INTEGER NOT NULL DEFAULT 1,
    changed   INTEGER NOT NULL,
    UNIQUE (entity_id, purpose),
    CHECK (identity <> 0)
)
`,
	"CREATE INDEX notification_entity_idx ON notification (entity_id)",
	"CREATE INDEX notification_active_idx ON notification (active)",
}
