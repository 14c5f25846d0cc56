// /home/krylon/go/src/github.com/blicero/iris/clients/notify/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 26. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 19:10:27 krylon>

// notify is a small command line client that submits a Notification to a
// running daemon. The daemon is either named explicitly or discovered via
// DNS-SD.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/blicero/iris/clients/clientlib"
	"github.com/blicero/iris/common"
	"github.com/blicero/iris/objects"
)

func main() {
	var (
		err                             error
		addr, kind, entity, purpose     string
		title, body, route, when, daily string
		client                          *clientlib.Client
		sched                           *objects.Schedule
	)

	flag.StringVar(&addr, "address", "", "Address of the daemon (empty = discover via DNS-SD)")
	flag.StringVar(&kind, "kind", objects.KindGeneric, "Kind of the notification")
	flag.StringVar(&entity, "entity", "", "ID of the subject entity")
	flag.StringVar(&purpose, "purpose", "default", "Purpose tag")
	flag.StringVar(&title, "title", "", "Title to display")
	flag.StringVar(&body, "body", "", "Body to display")
	flag.StringVar(&route, "route", "", "Target route (empty = per-kind default)")
	flag.StringVar(&when, "at", "", "Fire once at the given time (RFC3339; empty = show immediately)")
	flag.StringVar(&daily, "daily", "", "Fire daily at the given time of day (HH:MM)")

	flag.Parse()

	if title == "" {
		fmt.Fprintln(os.Stderr, "A title is required")
		os.Exit(1)
	}

	if when != "" {
		var at time.Time

		if at, err = time.Parse(time.RFC3339, when); err != nil {
			fmt.Fprintf(os.Stderr,
				"Cannot parse timestamp %q: %s\n",
				when,
				err.Error())
			os.Exit(1)
		}

		sched = objects.NewOnce(at)
	} else if daily != "" {
		var hour, minute int

		if _, err = fmt.Sscanf(daily, "%d:%d", &hour, &minute); err != nil {
			fmt.Fprintf(os.Stderr,
				"Cannot parse time of day %q: %s\n",
				daily,
				err.Error())
			os.Exit(1)
		} else if sched, err = objects.NewDaily(hour, minute); err != nil {
			fmt.Fprintf(os.Stderr,
				"Invalid time of day %q: %s\n",
				daily,
				err.Error())
			os.Exit(1)
		}
	}

	if addr == "" {
		var peers []objects.Peer

		if peers, err = clientlib.Discover(); err != nil {
			fmt.Fprintf(os.Stderr,
				"Cannot browse for daemons: %s\n",
				err.Error())
			os.Exit(1)
		} else if len(peers) == 0 {
			fmt.Fprintln(os.Stderr, "No daemon found on the local network")
			os.Exit(1)
		}

		addr = peers[0].Spec()
		fmt.Printf("Found %s\n", peers[0].String())
	}

	if client, err = clientlib.NewClient(addr); err != nil {
		fmt.Fprintf(os.Stderr,
			"Cannot create client: %s\n",
			err.Error())
		os.Exit(1)
	}

	var note = objects.Notification{
		EntityID: entity,
		Purpose:  purpose,
		Title:    title,
		Body:     body,
		Schedule: sched,
		Envelope: &objects.Envelope{
			Kind:        kind,
			EntityID:    entity,
			TargetRoute: route,
		},
	}

	var id int64

	if id, err = client.SubmitNotification(&note); err != nil {
		fmt.Fprintf(os.Stderr,
			"Cannot submit Notification: %s\n",
			err.Error())
		os.Exit(1)
	}

	fmt.Printf("%s %s: Notification submitted as #%d\n",
		common.AppName,
		common.Version,
		id)
}
