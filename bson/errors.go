// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"fmt"
)

// ErrDeprecatedType is returned when a value of a legacy BSON type is encoded.
// Legacy types can only be produced by decoding existing documents.
var ErrDeprecatedType = errors.New("deprecated BSON type cannot be encoded")

// ErrIntegerOverflow indicates that an integer does not fit in any BSON integer
// type.
var ErrIntegerOverflow = errors.New("integer does not fit in a 64-bit signed integer")

// ErrInvalidDecimal indicates that a Decimal128 holds a string that is not a
// valid decimal.
var ErrInvalidDecimal = errors.New("invalid Decimal128 string")

// ErrInvalidUUID indicates that a binary value with a UUID subtype does not hold
// exactly 16 bytes.
var ErrInvalidUUID = errors.New("UUID binary values must be 16 bytes long")

// ErrUnsupportedValue indicates that a Go value has no BSON representation.
var ErrUnsupportedValue = errors.New("value has no BSON representation")

// ErrInvalidKey indicates that a key contains a null byte or is too long to be
// stored in a document.
var ErrInvalidKey = errors.New("invalid document key")

// ErrDocumentTooLarge indicates that an operation would make a document longer
// than a BSON length prefix can describe.
var ErrDocumentTooLarge = errors.New("document exceeds maximum BSON size")

// ErrInvalidLength indicates that a length in a binary representation of a BSON
// document is invalid.
var ErrInvalidLength = errors.New("document length is invalid")

// ErrMissingNull indicates that a document or array does not end with a null
// byte.
var ErrMissingNull = errors.New("document end is missing null byte")

// ErrInsufficientBytes indicates that an element is truncated.
var ErrInsufficientBytes = errors.New("too few bytes to read element")

// ErrMaxDepth indicates that documents are nested deeper than a reader accepts.
var ErrMaxDepth = errors.New("document nesting exceeds maximum depth")

// ErrIteratorInvalidated is the panic value raised when the document under an
// Iterator is mutated or released while the Iterator is in use.
var ErrIteratorInvalidated = errors.New("document was modified during iteration")

// EncodeError is returned when a value cannot be encoded into a document. The
// document is left unchanged.
type EncodeError struct {
	Value string
	Key   string
	Err   error
}

func newEncodeError(v interface{}, key string, err error) *EncodeError {
	return &EncodeError{Value: describe(v), Key: key, Err: err}
}

// Error implements the error interface.
func (ee *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode %s at key %q: %v", ee.Value, ee.Key, ee.Err)
}

// Unwrap returns the underlying cause.
func (ee *EncodeError) Unwrap() error { return ee.Err }

// Cause returns the underlying cause for github.com/pkg/errors.
func (ee *EncodeError) Cause() error { return ee.Err }

// UnknownTypeError is returned by validating readers when an element carries a
// tag that is not part of the BSON specification.
type UnknownTypeError struct {
	Type Type
	Key  string
}

// Error implements the error interface.
func (ute UnknownTypeError) Error() string {
	return fmt.Sprintf("element %q has unknown BSON type 0x%02X", ute.Key, byte(ute.Type))
}

// CorruptDocumentError is the panic value raised when a trusted buffer turns
// out to be malformed while decoding. Buffers built by this package never
// produce it; untrusted bytes must go through ReadDocument first.
type CorruptDocumentError struct {
	Type Type
	Key  string
}

// Error implements the error interface.
func (cde CorruptDocumentError) Error() string {
	return fmt.Sprintf("corrupt BSON: cannot read %s element %q", cde.Type, cde.Key)
}

func describe(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return "<nil>"
	case Value:
		return fmt.Sprintf("%s %v", tv.Type(), tv)
	default:
		return fmt.Sprintf("%T %v", v, v)
	}
}
