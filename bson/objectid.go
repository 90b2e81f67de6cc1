// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// ErrInvalidHex indicates that a hex string cannot be converted to an ObjectID.
var ErrInvalidHex = errors.New("the provided hex string is not a valid ObjectID")

// ObjectID is a BSON ObjectID: a big-endian creation time in seconds, five
// bytes unique to the generating process and a three byte counter.
type ObjectID [12]byte

// NilObjectID is the zero ObjectID.
var NilObjectID ObjectID

var (
	_ Value                    = ObjectID{}
	_ encoding.TextMarshaler   = ObjectID{}
	_ encoding.TextUnmarshaler = (*ObjectID)(nil)
)

// NewObjectID generates an ObjectID stamped with the current time. IDs
// generated by one process are unique and increase within each second.
func NewObjectID() ObjectID {
	return ObjectID(primitive.NewObjectID())
}

// NewObjectIDFromTimestamp generates an ObjectID stamped with t, truncated to
// seconds.
func NewObjectIDFromTimestamp(t time.Time) ObjectID {
	return ObjectID(primitive.NewObjectIDFromTimestamp(t))
}

// ObjectIDFromHex parses the 24 character hex form of an ObjectID. Any other
// input returns ErrInvalidHex.
func ObjectIDFromHex(s string) (ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return NilObjectID, ErrInvalidHex
	}
	return ObjectID(oid), nil
}

// Timestamp returns the creation time stored in id, in UTC.
func (id ObjectID) Timestamp() time.Time {
	return primitive.ObjectID(id).Timestamp().UTC()
}

// Hex returns the 24 character hex form of id.
func (id ObjectID) Hex() string { return primitive.ObjectID(id).Hex() }

func (id ObjectID) String() string { return `ObjectID("` + id.Hex() + `")` }

// IsZero reports whether id is NilObjectID.
func (id ObjectID) IsZero() bool { return id == NilObjectID }

// MarshalText returns the hex form of id.
func (id ObjectID) MarshalText() ([]byte, error) { return []byte(id.Hex()), nil }

// UnmarshalText parses the hex form of an ObjectID. Empty text yields
// NilObjectID.
func (id *ObjectID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = NilObjectID
		return nil
	}
	oid, err := ObjectIDFromHex(string(text))
	if err != nil {
		return err
	}
	*id = oid
	return nil
}

// Type implements Value.
func (ObjectID) Type() Type { return TypeObjectID }

func (id ObjectID) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendObjectIDElement(dst, key, primitive.ObjectID(id)), nil
}
