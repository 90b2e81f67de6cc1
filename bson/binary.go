// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// BinarySubtype is the subtype byte of a BSON binary value.
type BinarySubtype byte

// BSON binary subtypes.
const (
	BinaryGeneric     BinarySubtype = 0x00
	BinaryFunction    BinarySubtype = 0x01
	BinaryOld         BinarySubtype = 0x02
	BinaryUUIDOld     BinarySubtype = 0x03
	BinaryUUID        BinarySubtype = 0x04
	BinaryMD5         BinarySubtype = 0x05
	BinaryUserDefined BinarySubtype = 0x80
)

// Binary is a BSON binary value.
type Binary struct {
	Subtype BinarySubtype
	Data    []byte
}

// NewUUIDBinary returns u as a binary value with the UUID subtype.
func NewUUIDBinary(u uuid.UUID) Binary {
	return Binary{Subtype: BinaryUUID, Data: append([]byte{}, u[:]...)}
}

// UUID interprets the binary value as a UUID. Both the current and the legacy
// UUID subtypes are accepted.
func (b Binary) UUID() (uuid.UUID, error) {
	if b.Subtype != BinaryUUID && b.Subtype != BinaryUUIDOld {
		return uuid.Nil, fmt.Errorf("binary subtype 0x%02X is not a UUID", byte(b.Subtype))
	}
	return uuid.FromBytes(b.Data)
}

// Equal reports whether b and other have the same subtype and data.
func (b Binary) Equal(other Binary) bool {
	return b.Subtype == other.Subtype && bytes.Equal(b.Data, other.Data)
}

// Type implements Value.
func (Binary) Type() Type { return TypeBinary }

func (b Binary) appendElement(dst []byte, key string) ([]byte, error) {
	if b.Subtype == BinaryUUID && len(b.Data) != 16 {
		return nil, ErrInvalidUUID
	}
	return bsoncore.AppendBinaryElement(dst, key, byte(b.Subtype), b.Data), nil
}
