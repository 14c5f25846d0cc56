// /home/krylon/go/src/github.com/blicero/iris/logdomain/logdomain.go
// -*- mode: go; coding: utf-8; -*-
// Created on 03. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-02-03 18:10:41 krylon>

// Package logdomain provides symbolic constants to identify the
// "areas" of the application that perform logging.
package logdomain

//go:generate stringer -type=ID

// ID represents an area of the application.
type ID uint8

// These constants identify the various parts of the application.
const (
	Common ID = iota
	Backend
	Client
	Database
	Dispatch
	DBus
)

// AllDomains returns a slice of all the known log sources.
func AllDomains() []ID {
	return []ID{
		Common,
		Backend,
		Client,
		Database,
		Dispatch,
		DBus,
	}
} // func AllDomains() []ID
