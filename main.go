// /home/krylon/go/src/github.com/blicero/iris/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 19:22:41 krylon>

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blicero/iris/backend"
	"github.com/blicero/iris/common"
)

func main() {
	fmt.Printf("%s %s (built %s)\n",
		common.AppName,
		common.Version,
		common.BuildStamp.Format(common.TimestampFormat))

	var (
		err          error
		daemon       *backend.Daemon
		appDir, addr string
	)

	flag.StringVar(
		&appDir,
		"appdir",
		common.BaseDir,
		"The directory where application-specific files live")

	flag.StringVar(
		&addr,
		"address",
		fmt.Sprintf("localhost:%d", common.DefaultPort),
		"Address to listen on",
	)

	flag.Parse()

	if appDir != common.BaseDir {
		if err = common.SetBaseDir(appDir); err != nil {
			fmt.Fprintf(
				os.Stderr,
				"Cannot set application directory to %s: %s\n",
				appDir,
				err.Error())
			os.Exit(1)
		}
	}

	if daemon, err = backend.Summon(addr); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Failed to initialize backend: %s\n",
			err.Error())
		os.Exit(1)
	}

	var sigQ = make(chan os.Signal, 1)
	var ticker = time.NewTicker(time.Second * 2)

	signal.Notify(sigQ, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	for daemon.IsAlive() {
		select {
		case sig := <-sigQ:
			fmt.Printf("Quitting on signal %s\n", sig)
			daemon.Banish() // nolint: errcheck
			os.Exit(0)
		case <-ticker.C:
			continue
		}
	}
}
