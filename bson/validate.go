// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// maxNestingDepth bounds how deep untrusted documents may nest.
const maxNestingDepth = 200

// validateDocument checks that b is exactly one well-formed document so that
// reading any part of it can never hit a CorruptDocumentError.
func validateDocument(b []byte) error {
	return validateNested(b, 0)
}

func validateNested(b []byte, depth int) error {
	if depth > maxNestingDepth {
		return ErrMaxDepth
	}
	if len(b) < 4 {
		return errors.Wrapf(ErrInsufficientBytes, "document needs 4 length bytes, have %d", len(b))
	}
	length := int(int32(binary.LittleEndian.Uint32(b)))
	if length < emptyDocumentLength || length != len(b) {
		return errors.Wrapf(ErrInvalidLength, "length prefix %d, have %d bytes", length, len(b))
	}
	if b[length-1] != 0x00 {
		return ErrMissingNull
	}

	rem := b[4 : length-1]
	for len(rem) > 0 {
		t := Type(rem[0])
		end := bytes.IndexByte(rem[1:], 0x00)
		if end < 0 {
			return errors.Wrap(ErrInsufficientBytes, "unterminated key")
		}
		key := string(rem[1 : end+1])
		rem = rem[end+2:]

		if !t.IsValid() {
			return UnknownTypeError{Type: t, Key: key}
		}
		n, err := validateValue(t, rem, depth)
		if err != nil {
			return errors.Wrapf(err, "element %q", key)
		}
		rem = rem[n:]
	}
	return nil
}

// validateValue checks the value of type t at the start of src and returns its
// length.
func validateValue(t Type, src []byte, depth int) (int, error) {
	var n int
	switch t {
	case TypeDouble, TypeDateTime, TypeInt64, TypeTimestamp:
		n = 8
	case TypeInt32:
		n = 4
	case TypeDecimal128:
		n = 16
	case TypeObjectID:
		n = 12
	case TypeBoolean:
		if len(src) >= 1 && src[0] > 0x01 {
			return 0, errors.Errorf("invalid boolean byte 0x%02X", src[0])
		}
		n = 1
	case TypeNull, TypeUndefined, TypeMinKey, TypeMaxKey:
		n = 0
	case TypeString, TypeJavaScript, TypeSymbol:
		return validateString(src)
	case TypeEmbeddedDocument, TypeArray:
		l, err := readLength(src, emptyDocumentLength)
		if err != nil {
			return 0, err
		}
		return l, validateNested(src[:l], depth+1)
	case TypeBinary:
		l, err := readLength(src, 0)
		if err != nil {
			return 0, err
		}
		n = 5 + l
		if len(src) < n {
			return 0, ErrInsufficientBytes
		}
		if BinarySubtype(src[4]) == BinaryOld {
			inner, err := readLength(src[5:n], 0)
			if err != nil || inner != l-4 {
				return 0, errors.Wrap(ErrInvalidLength, "old binary subtype inner length")
			}
		}
	case TypeRegex:
		for i := 0; i < 2; i++ {
			end := bytes.IndexByte(src[n:], 0x00)
			if end < 0 {
				return 0, errors.Wrap(ErrInsufficientBytes, "unterminated regex")
			}
			n += end + 1
		}
	case TypeDBPointer:
		l, err := validateString(src)
		if err != nil {
			return 0, err
		}
		n = l + 12
	case TypeCodeWithScope:
		total, err := readLength(src, 14)
		if err != nil {
			return 0, err
		}
		body := src[4:total]
		codeLen, err := validateString(body)
		if err != nil {
			return 0, err
		}
		if err := validateNested(body[codeLen:], depth+1); err != nil {
			return 0, errors.Wrap(err, "scope")
		}
		return total, nil
	}
	if len(src) < n {
		return 0, ErrInsufficientBytes
	}
	return n, nil
}

// validateString checks a length prefixed, null terminated string and returns
// its total length.
func validateString(src []byte) (int, error) {
	l, err := readLength(src, 1)
	if err != nil {
		return 0, err
	}
	n := 4 + l
	if len(src) < n {
		return 0, ErrInsufficientBytes
	}
	if src[n-1] != 0x00 {
		return 0, errors.Wrap(ErrMissingNull, "string")
	}
	return n, nil
}

// readLength reads a little-endian int32 length of at least least bytes that,
// for least > 0, fits within src.
func readLength(src []byte, least int) (int, error) {
	if len(src) < 4 {
		return 0, ErrInsufficientBytes
	}
	l := int(int32(binary.LittleEndian.Uint32(src)))
	if l < least {
		return 0, errors.Wrapf(ErrInvalidLength, "length %d below minimum %d", l, least)
	}
	if least > 0 && l > len(src) {
		return 0, errors.Wrapf(ErrInsufficientBytes, "length %d, have %d bytes", l, len(src))
	}
	return l, nil
}
