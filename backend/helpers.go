// /home/krylon/go/src/github.com/blicero/iris/backend/helpers.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-05 22:14:40 krylon>

package backend

import (
	"context"
	"time"
)

const shutdownGrace = time.Second * 3

func mkShutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownGrace)
} // func mkShutdownContext() (context.Context, context.CancelFunc)
