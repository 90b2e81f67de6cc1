// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"reflect"
)

// Value is a single BSON value. The set of implementations is closed: there is
// one per BSON type that can be produced by decoding, and Symbol and DBPointer
// for the legacy types.
//
// Values are immutable. A Document stores values only in encoded form; every
// read decodes a fresh Value.
type Value interface {
	// Type returns the type tag this value is encoded with.
	Type() Type

	// appendElement appends the element key: value to dst. On error the
	// returned slice must be ignored.
	appendElement(dst []byte, key string) ([]byte, error)
}

// ValuesEqual reports whether a and b have the same type and the same encoded
// bytes. Documents and arrays are therefore compared byte for byte, and two
// NaN doubles with the same bits are equal.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	ab, aerr := a.appendElement(nil, "")
	bb, berr := b.appendElement(nil, "")
	if aerr != nil || berr != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ab, bb)
}
