// /home/krylon/go/src/github.com/blicero/iris/clients/clientlib/lib.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 18:40:20 krylon>

// Package clientlib provides the basic framework for building clients
// that submit Notifications to the daemon.
package clientlib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/blicero/iris/common"
	"github.com/blicero/iris/logdomain"
	"github.com/blicero/iris/objects"
	"github.com/pquerna/ffjson/ffjson"
)

const (
	addPath       = "/notification/add"
	cancelPath    = "/notification/cancel"
	cancelAllPath = "/notification/cancel_all"
	tapPath       = "/notification/tap"
)

// Client is the basic implementation of an Iris client, it implements
// the fundamental communication with the daemon.
type Client struct {
	Server *url.URL
	Client http.Client
	log    *log.Logger
}

// NewClient creates a new Client talking to the daemon at the given address.
func NewClient(srv string) (*Client, error) {
	var (
		err error
		c   = &Client{
			Client: http.Client{
				Timeout: time.Second * 10,
			},
		}
	)

	if c.log, err = common.GetLogger(logdomain.Client); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create Logger: %s\n",
			err.Error())
		return nil, err
	} else if c.Server, err = url.Parse(srv); err != nil {
		c.log.Printf("[ERROR] Cannot parse URL %q: %s\n",
			srv,
			err.Error())
		return nil, err
	}

	c.Server.Scheme = "http"

	return c, nil
} // func NewClient(srv string) (*Client, error)

// GetLogger returns the Client's logger.
func (c *Client) GetLogger() *log.Logger {
	return c.log
} // func (c *Client) GetLogger() *log.Logger

// SubmitNotification hands a Notification to the daemon for display or
// scheduling, returning the identity the daemon assigned.
func (c *Client) SubmitNotification(n *objects.Notification) (int64, error) {
	var (
		err     error
		id      int64
		sendBuf []byte
		res     objects.Response
		values  = make(url.Values)
	)

	if sendBuf, err = ffjson.Marshal(n); err != nil {
		c.log.Printf("[ERROR] Cannot serialize Notification: %s\n",
			err.Error())
		return 0, err
	}

	defer ffjson.Pool(sendBuf)

	values["notification"] = []string{string(sendBuf)}

	if res, err = c.postForm(addPath, values); err != nil {
		return 0, err
	} else if id, err = strconv.ParseInt(res.Message, 10, 64); err != nil {
		c.log.Printf("[ERROR] Daemon returned unparsable identity %q: %s\n",
			res.Message,
			err.Error())
		return 0, err
	}

	return id, nil
} // func (c *Client) SubmitNotification(n *objects.Notification) (int64, error)

// CancelNotification cancels the outstanding notification for the given
// (entity, purpose) pair.
func (c *Client) CancelNotification(entityID, purpose string) error {
	var values = url.Values{
		"entity":  []string{entityID},
		"purpose": []string{purpose},
	}

	var _, err = c.postForm(cancelPath, values)
	return err
} // func (c *Client) CancelNotification(entityID, purpose string) error

// CancelAll cancels every outstanding notification.
func (c *Client) CancelAll() error {
	var _, err = c.postForm(cancelAllPath, make(url.Values))
	return err
} // func (c *Client) CancelAll() error

// Tap injects an activation payload into the daemon's dispatcher, as if
// the user had activated a notification carrying it.
func (c *Client) Tap(payload string) error {
	var values = url.Values{
		"payload": []string{payload},
	}

	var _, err = c.postForm(tapPath, values)
	return err
} // func (c *Client) Tap(payload string) error

func (c *Client) postForm(path string, values url.Values) (objects.Response, error) {
	var (
		err    error
		msg    string
		rcvBuf bytes.Buffer
		hres   *http.Response
		ores   objects.Response
	)

	var addr = *c.Server
	addr.Path = path

	if hres, err = c.Client.PostForm(addr.String(), values); err != nil {
		c.log.Printf("[ERROR] Failed to POST to %s: %s\n",
			addr.String(),
			err.Error())
		return ores, err
	}

	defer hres.Body.Close() // nolint: errcheck

	if hres.StatusCode != http.StatusOK {
		msg = fmt.Sprintf("Unexpected status from %s: %s",
			addr.String(),
			hres.Status)
		c.log.Printf("[ERROR] %s\n", msg)
		return ores, errors.New(msg)
	} else if _, err = io.Copy(&rcvBuf, hres.Body); err != nil {
		c.log.Printf("[ERROR] Failed to read Response body from %s: %s\n",
			addr.String(),
			err.Error())
		return ores, err
	} else if err = ffjson.Unmarshal(rcvBuf.Bytes(), &ores); err != nil {
		c.log.Printf("[ERROR] Cannot de-serialize Response from %s: %s\n",
			addr.String(),
			err.Error())
		return ores, err
	} else if !ores.Status {
		err = fmt.Errorf("Request to %s failed: %s",
			addr.String(),
			ores.Message)
		c.log.Printf("[ERROR] %s\n",
			err.Error())
		return ores, err
	}

	c.log.Printf("[DEBUG] Request to %s was successful: %s\n",
		addr.String(),
		ores.Message)

	return ores, nil
} // func (c *Client) postForm(path string, values url.Values) (objects.Response, error)
