// /home/krylon/go/src/github.com/blicero/iris/objects/envelope.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-02 18:33:40 krylon>

// Package objects provides the data types used by the application.
package objects

import (
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/ffjson/ffjson"
)

//go:generate ffjson envelope.go

// These constants are the notification kinds the application knows about.
// KindGeneric doubles as the fallback marking for payloads we could not
// make sense of.
const (
	KindTaskDeadline = "task_deadline"
	KindTaskReminder = "task_reminder"
	KindNewNotice    = "new_notice"
	KindNewTask      = "new_task"
	KindClassUpdate  = "class_update"
	KindMessage      = "message"
	KindGeneric      = "generic"
)

// ErrEncode indicates an Envelope could not be serialized.
// ErrDecode indicates a payload string could not be parsed into an Envelope.
var (
	ErrEncode = errors.New("cannot encode Envelope")
	ErrDecode = errors.New("cannot decode payload")
)

var knownKinds = map[string]bool{
	KindTaskDeadline: true,
	KindTaskReminder: true,
	KindNewNotice:    true,
	KindNewTask:      true,
	KindClassUpdate:  true,
	KindMessage:      true,
	KindGeneric:      true,
}

// KnownKind returns true if the given string is a notification kind
// the application knows how to handle.
func KnownKind(kind string) bool {
	return knownKinds[kind]
} // func KnownKind(kind string) bool

// Envelope is the payload attached to a notification. It is opaque to the
// OS, the application encodes one when posting a notification and decodes
// it again when the user activates the notification.
type Envelope struct {
	Kind        string            `json:"kind"`
	EntityID    string            `json:"entity_id,omitempty"`
	SecondaryID string            `json:"secondary_id,omitempty"`
	TargetRoute string            `json:"target_route,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (e *Envelope) String() string {
	return fmt.Sprintf("Envelope{ Kind: %q, EntityID: %q, Route: %q }",
		e.Kind,
		e.EntityID,
		e.TargetRoute)
} // func (e *Envelope) String() string

// Attribute looks up the given key in the Envelope's Attributes,
// returning an empty string if the key is absent.
func (e *Envelope) Attribute(key string) string {
	if e.Attributes == nil {
		return ""
	}

	return e.Attributes[key]
} // func (e *Envelope) Attribute(key string) string

// Equal compares two Envelopes field by field.
func (e *Envelope) Equal(other *Envelope) bool {
	if e.Kind != other.Kind ||
		e.EntityID != other.EntityID ||
		e.SecondaryID != other.SecondaryID ||
		e.TargetRoute != other.TargetRoute ||
		!e.CreatedAt.Equal(other.CreatedAt) ||
		len(e.Attributes) != len(other.Attributes) {
		return false
	}

	for k, v := range e.Attributes {
		if other.Attributes[k] != v {
			return false
		}
	}

	return true
} // func (e *Envelope) Equal(other *Envelope) bool

// EncodeEnvelope serializes an Envelope into a string that can be attached
// to a notification. The Envelope's Kind must not be empty, and every Kind
// except KindGeneric requires an EntityID. If the Envelope's CreatedAt is
// unset, it is set to the current time.
func EncodeEnvelope(e *Envelope) (string, error) {
	var (
		err error
		buf []byte
	)

	if e.Kind == "" {
		return "", fmt.Errorf("%w: Kind must not be empty", ErrEncode)
	} else if e.Kind != KindGeneric && e.EntityID == "" {
		return "", fmt.Errorf("%w: Kind %s requires an EntityID",
			ErrEncode,
			e.Kind)
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	if buf, err = ffjson.Marshal(e); err != nil {
		return "", fmt.Errorf("%w: %s", ErrEncode, err.Error())
	}

	defer ffjson.Pool(buf)

	return string(buf), nil
} // func EncodeEnvelope(e *Envelope) (string, error)

// DecodeEnvelope parses a payload string back into an Envelope.
// It returns an error (wrapping ErrDecode) if the string is empty, is not
// well-formed JSON, or is well-formed but does not carry a kind.
// A payload whose kind is merely unknown is NOT an error: the Envelope
// comes back marked KindGeneric, with the original string preserved in
// Attributes["raw"], so the dispatcher can still fall back gracefully.
func DecodeEnvelope(raw string) (*Envelope, error) {
	var (
		err error
		env Envelope
	)

	if raw == "" {
		return nil, fmt.Errorf("%w: payload is empty", ErrDecode)
	} else if err = ffjson.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err.Error())
	} else if env.Kind == "" {
		return nil, fmt.Errorf("%w: payload does not carry a kind", ErrDecode)
	}

	if !KnownKind(env.Kind) {
		env.Kind = KindGeneric

		if env.Attributes == nil {
			env.Attributes = make(map[string]string, 1)
		}

		env.Attributes["raw"] = raw
	}

	return &env, nil
} // func DecodeEnvelope(raw string) (*Envelope, error)
