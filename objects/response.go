// /home/krylon/go/src/github.com/blicero/iris/objects/response.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-02-05 14:44:19 krylon>

package objects

//go:generate ffjson response.go

// Response is what the backend sends to a client after processing a request.
type Response struct {
	ID      int64
	Status  bool
	Message string
}
