// /home/krylon/go/src/github.com/blicero/iris/database/query/query.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-03 22:08:19 krylon>

// Package query provides symbolic constants for identifying SQL queries.
package query

//go:generate stringer -type=ID

type ID uint8

const (
	NotificationUpsert ID = iota
	NotificationDeactivate
	NotificationDeactivateEntity
	NotificationDeactivateAll
	NotificationGetActive
	NotificationGetAll
	NotificationSetChanged
)
