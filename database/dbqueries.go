// /home/krylon/go/src/github.com/blicero/iris/database/dbqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-03 22:31:08 krylon>

package database

import "github.com/blicero/iris/database/query"

var dbQueries = map[query.ID]string{
	query.NotificationUpsert: `
INSERT INTO notification (entity_id, purpose, identity, title, body, payload, rep, fire_at, day, hour, minute, active, changed)
VALUES                   (        ?,       ?,        ?,     ?,    ?,       ?,   ?,       ?,   ?,    ?,      ?,      1,       ?)
ON CONFLICT (entity_id, purpose) DO UPDATE SET
    identity = excluded.identity,
    title    = excluded.title,
    body     = excluded.body,
    payload  = excluded.payload,
    rep      = excluded.rep,
    fire_at  = excluded.fire_at,
    day      = excluded.day,
    hour     = excluded.hour,
    minute   = excluded.minute,
    active   = 1,
    changed  = excluded.changed
RETURNING id
`,
	query.NotificationDeactivate: `
UPDATE notification
SET active = 0, changed = ?
WHERE entity_id = ? AND purpose = ?
`,
	query.NotificationDeactivateEntity: `
UPDATE notification
SET active = 0, changed = ?
WHERE entity_id = ?
`,
	query.NotificationDeactivateAll: `
UPDATE notification
SET active = 0, changed = ?
WHERE active
`,
	query.NotificationGetActive: `
SELECT
    id,
    entity_id,
    purpose,
    identity,
    title,
    body,
    payload,
    rep,
    fire_at,
    day,
    hour,
    minute,
    changed
FROM notification
WHERE active
ORDER BY id
`,
	query.NotificationGetAll: `
SELECT
    id,
    entity_id,
    purpose,
    identity,
    title,
    body,
    payload,
    rep,
    fire_at,
    day,
    hour,
    minute,
    active,
    changed
FROM notification
ORDER BY id
`,
	query.NotificationSetChanged: `
UPDATE notification
SET changed = ?
WHERE id = ?
`,
}
