// /home/krylon/go/src/github.com/blicero/iris/backend/dnssd.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-05 22:26:31 krylon>

package backend

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/blicero/iris/common"
	"github.com/grandcat/zeroconf"
)

const (
	srvService = "_http._tcp"
	srvDomain  = "local."
)

var addrPat = regexp.MustCompile(`:(\d+)$`)

// initDNSSd announces the Daemon's HTTP interface via DNS-SD, so clients
// on the local network can find it without being handed an address.
func (d *Daemon) initDNSSd() error {
	var (
		err   error
		match []string
		port  int64
		srv   *zeroconf.Server
	)

	if match = addrPat.FindStringSubmatch(d.web.Addr); match == nil {
		err = fmt.Errorf("Cannot extract HTTP port from server address %q",
			d.web.Addr)
		d.log.Printf("[ERROR] %s\n", err.Error())
		return err
	} else if port, err = strconv.ParseInt(match[1], 10, 32); err != nil {
		d.log.Printf("[ERROR] Cannot parse HTTP port from server address %q: %s\n",
			d.web.Addr,
			err.Error())
		return err
	}

	var txt = []string{"txtv=0"}

	var instanceName = fmt.Sprintf("%s@%s",
		common.AppName,
		d.hostname)

	if srv, err = zeroconf.Register(instanceName, srvService, srvDomain, int(port), txt, nil); err != nil {
		d.log.Printf("[ERROR] Cannot register service with DNS-SD: %s\n",
			err.Error())
		return err
	}

	d.dnssd = srv
	return nil
} // func (d *Daemon) initDNSSd() error
