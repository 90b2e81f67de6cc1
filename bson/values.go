// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Double is a BSON double.
type Double float64

// String is a BSON UTF-8 string.
type String string

// Boolean is a BSON boolean.
type Boolean bool

// DateTime is a BSON UTC datetime, counted in milliseconds since the Unix
// epoch.
type DateTime int64

// Null is the BSON null value.
type Null struct{}

// Int32 is a BSON 32-bit integer.
type Int32 int32

// Int64 is a BSON 64-bit integer.
type Int64 int64

// Timestamp is a BSON replication timestamp: seconds since the Unix epoch and
// an ordinal within that second.
type Timestamp struct {
	T uint32
	I uint32
}

// MinKey is the BSON value that compares lower than every other value.
type MinKey struct{}

// MaxKey is the BSON value that compares higher than every other value.
type MaxKey struct{}

// Code is BSON JavaScript code. When Scope is non-nil the value is encoded as
// code with scope.
type Code struct {
	Code  string
	Scope *Document
}

// Symbol is the legacy BSON symbol type. Symbols decode as String and cannot
// be encoded.
type Symbol string

// DBPointer is the legacy BSON DBPointer type. DBPointers decode as a
// {"$ref": Ref, "$id": ID} document and cannot be encoded.
type DBPointer struct {
	Ref string
	ID  ObjectID
}

// Type implements Value.
func (Double) Type() Type { return TypeDouble }

func (d Double) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendDoubleElement(dst, key, float64(d)), nil
}

// Type implements Value.
func (String) Type() Type { return TypeString }

func (s String) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendStringElement(dst, key, string(s)), nil
}

// Type implements Value.
func (Boolean) Type() Type { return TypeBoolean }

func (b Boolean) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendBooleanElement(dst, key, bool(b)), nil
}

// NewDateTimeFromTime converts t to a DateTime, truncating to milliseconds.
func NewDateTimeFromTime(t time.Time) DateTime {
	return DateTime(t.Unix()*1e3 + int64(t.Nanosecond())/1e6)
}

// Time returns the DateTime as a UTC time.Time.
func (dt DateTime) Time() time.Time {
	return time.Unix(int64(dt)/1e3, int64(dt)%1e3*1e6).UTC()
}

// Type implements Value.
func (DateTime) Type() Type { return TypeDateTime }

func (dt DateTime) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendDateTimeElement(dst, key, int64(dt)), nil
}

// Type implements Value.
func (Null) Type() Type { return TypeNull }

func (Null) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendNullElement(dst, key), nil
}

// Type implements Value.
func (Int32) Type() Type { return TypeInt32 }

func (i Int32) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendInt32Element(dst, key, int32(i)), nil
}

// Type implements Value.
func (Int64) Type() Type { return TypeInt64 }

func (i Int64) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendInt64Element(dst, key, int64(i)), nil
}

// Type implements Value.
func (Timestamp) Type() Type { return TypeTimestamp }

func (ts Timestamp) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendTimestampElement(dst, key, ts.T, ts.I), nil
}

// After reports whether ts is later than other.
func (ts Timestamp) After(other Timestamp) bool {
	return ts.T > other.T || (ts.T == other.T && ts.I > other.I)
}

// Type implements Value.
func (MinKey) Type() Type { return TypeMinKey }

func (MinKey) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendMinKeyElement(dst, key), nil
}

// Type implements Value.
func (MaxKey) Type() Type { return TypeMaxKey }

func (MaxKey) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendMaxKeyElement(dst, key), nil
}

// Type implements Value.
func (c Code) Type() Type {
	if c.Scope == nil {
		return TypeJavaScript
	}
	return TypeCodeWithScope
}

func (c Code) appendElement(dst []byte, key string) ([]byte, error) {
	if c.Scope == nil {
		return bsoncore.AppendJavaScriptElement(dst, key, c.Code), nil
	}
	return bsoncore.AppendCodeWithScopeElement(dst, key, c.Code, c.Scope.bytes()), nil
}

// Equal reports whether c and other hold the same code and byte-identical
// scopes.
func (c Code) Equal(other Code) bool {
	if c.Code != other.Code || (c.Scope == nil) != (other.Scope == nil) {
		return false
	}
	return c.Scope == nil || c.Scope.Equal(other.Scope)
}

func (c Code) String() string {
	if c.Scope == nil {
		return fmt.Sprintf("{%q}", c.Code)
	}
	return fmt.Sprintf("{%q %s}", c.Code, c.Scope)
}

// Type implements Value.
func (Symbol) Type() Type { return TypeSymbol }

func (Symbol) appendElement([]byte, string) ([]byte, error) {
	return nil, ErrDeprecatedType
}

// Type implements Value.
func (DBPointer) Type() Type { return TypeDBPointer }

func (DBPointer) appendElement([]byte, string) ([]byte, error) {
	return nil, ErrDeprecatedType
}
