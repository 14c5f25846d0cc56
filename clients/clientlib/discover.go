// /home/krylon/go/src/github.com/blicero/iris/clients/clientlib/discover.go
// -*- mode: go; coding: utf-8; -*-
// Created on 26. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 18:52:17 krylon>

package clientlib

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/objects"
	"github.com/grandcat/zeroconf"
)

const (
	srvService  = "_http._tcp"
	srvDomain   = "local."
	browseDelay = time.Second * 5
)

var instancePat = regexp.MustCompile(fmt.Sprintf("^%s@(\\w+)", common.AppName))

// Discover browses the local network for running daemons, announced via
// DNS-SD, and returns the ones it found within a few seconds.
func Discover() ([]objects.Peer, error) {
	var (
		err      error
		resolver *zeroconf.Resolver
		entries  = make(chan *zeroconf.ServiceEntry)
		peers    []objects.Peer
		done     = make(chan struct{})
	)

	if resolver, err = zeroconf.NewResolver(nil); err != nil {
		return nil, err
	}

	go func() {
		defer close(done)

		for entry := range entries {
			if !instancePat.MatchString(entry.Instance) {
				continue
			}

			var p = objects.Peer{
				Instance: entry.Instance,
				Hostname: entry.HostName,
				Domain:   entry.Domain,
				Port:     entry.Port,
			}

			if len(entry.AddrIPv4) > 0 {
				p.IPv4 = entry.AddrIPv4[0].String()
			}

			peers = append(peers, p)
		}
	}()

	var ctx, cancel = context.WithTimeout(context.Background(), browseDelay)
	defer cancel()

	if err = resolver.Browse(ctx, srvService, srvDomain, entries); err != nil {
		return nil, err
	}

	<-ctx.Done()
	<-done

	return peers, nil
} // func Discover() ([]objects.Peer, error)
