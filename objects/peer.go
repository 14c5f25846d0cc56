// /home/krylon/go/src/github.com/blicero/iris/objects/peer.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-02-12 17:21:48 krylon>

package objects

import "fmt"

//go:generate ffjson peer.go

// Peer represents an instance of the daemon announced on the local
// network, so clients can find it without being told an address.
type Peer struct {
	Instance string
	Hostname string
	IPv4     string
	Domain   string
	Port     int
}

// Spec returns a string representing the remote service suitable
// to pass as an address to net.Dial or http.Get/http.Post
func (p *Peer) Spec() string {
	return fmt.Sprintf("%s:%d",
		p.Hostname,
		p.Port)
} // func (p *Peer) Spec() string

func (p *Peer) String() string {
	return fmt.Sprintf("Peer{ Instance: %q, Hostname: %q, Domain: %q, Port: %d }",
		p.Instance,
		p.Hostname,
		p.Domain,
		p.Port)
} // func (p *Peer) String() string
