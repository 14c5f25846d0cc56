// /home/krylon/go/src/github.com/blicero/iris/objects/repeat/repeat.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-02-04 17:48:33 krylon>

//go:generate stringer -type=Repeat

// Package repeat contains symbolic constants to specify at what
// intervals a scheduled Notification should fire.
package repeat

// Repeat describes how a scheduled Notification recurs.
type Repeat uint8

// Once means the Notification fires a single time.
// Daily means it fires every day at the same time of day.
// Weekly means it fires once per week, on a fixed weekday.
const (
	Once Repeat = iota
	Daily
	Weekly
)
