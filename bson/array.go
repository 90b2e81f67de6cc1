// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Array is a BSON array: a document whose keys are the decimal indexes "0",
// "1", ... in order. Arrays share storage on Copy the same way Documents do.
type Array struct {
	doc Document
}

// NewArray creates an Array holding values. Each value may be a Value or a Go
// value accepted by ValueOf.
func NewArray(values ...interface{}) (*Array, error) {
	a := &Array{}
	for i, v := range values {
		if err := a.doc.Append(strconv.Itoa(i), v); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Append adds v to the end of the array. The array is scanned to find the next
// index; build arrays with NewArray when the values are known up front.
func (a *Array) Append(v interface{}) error {
	return a.doc.Append(strconv.Itoa(a.Len()), v)
}

// Len returns the number of values in the array.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return a.doc.Len()
}

// Index returns the value at index. It panics if index is out of range.
func (a *Array) Index(index int) Value {
	v, ok := a.IndexOK(index)
	if !ok {
		panic(fmt.Errorf("bson: array index %d out of range [0:%d]", index, a.Len()))
	}
	return v
}

// IndexOK returns the value at index and false when index is out of range.
func (a *Array) IndexOK(index int) (Value, bool) {
	if a == nil || index < 0 {
		return nil, false
	}
	i := 0
	for it := a.doc.Iterator(); it.Next(); i++ {
		if i == index {
			return it.Value(), true
		}
	}
	return nil, false
}

// Values returns the decoded values in order.
func (a *Array) Values() []Value {
	if a == nil {
		return nil
	}
	return a.doc.Values()
}

// Copy returns an Array with the same values, sharing storage until either is
// modified.
func (a *Array) Copy() *Array {
	c := &Array{}
	if a != nil && a.doc.buf != nil {
		a.doc.buf.refs.IncRef()
		c.doc.buf = a.doc.buf
	}
	return c
}

// Release gives up a's hold on its storage. a is empty afterwards.
func (a *Array) Release() { a.doc.Release() }

// Equal compares the encoded bytes of a and other.
func (a *Array) Equal(other *Array) bool {
	return bytes.Equal(a.bytes(), other.bytes())
}

// Bytes returns a copy of the encoded array.
func (a *Array) Bytes() []byte { return append([]byte(nil), a.bytes()...) }

func (a *Array) bytes() []byte {
	if a == nil {
		return emptyDocumentBytes
	}
	return a.doc.bytes()
}

// String returns the array as canonical extended JSON.
func (a *Array) String() string {
	return bsoncore.Array(a.bytes()).String()
}

// Type implements Value.
func (a *Array) Type() Type { return TypeArray }

func (a *Array) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendArrayElement(dst, key, a.bytes()), nil
}
