// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Elem is a key and value pair used to build documents. Value may be any Value
// or a Go value accepted by Document.Set.
type Elem struct {
	Key   string
	Value interface{}
}

// noCopy trips go vet's copylocks check for types that must not be copied by
// assignment.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Document is an ordered BSON document stored in a single encoded buffer.
//
// Documents have value semantics through Copy: the returned Document shares
// the buffer until either side is modified, and the modified side first takes
// a private duplicate. A Document must not be copied by assignment; use Copy.
//
// The zero value is an empty document ready to use. A Document is not safe for
// concurrent use when any goroutine modifies it.
type Document struct {
	noCopy noCopy
	buf    *buffer
}

// NewDocument returns an empty Document.
func NewDocument() *Document { return &Document{} }

// newDocument copies b, which must be a complete trusted document.
func newDocument(b []byte) *Document { return &Document{buf: newBuffer(b)} }

// BuildDocument creates a Document holding elems in order. Keys are not
// checked for uniqueness.
func BuildDocument(elems ...Elem) (*Document, error) {
	d := NewDocument()
	for _, e := range elems {
		if err := d.Append(e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustBuildDocument is like BuildDocument but panics on error.
func MustBuildDocument(elems ...Elem) *Document {
	d, err := BuildDocument(elems...)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDocumentFromMap creates a Document from m with its keys in sorted order.
func NewDocumentFromMap(m map[string]interface{}) (*Document, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := NewDocument()
	for _, k := range keys {
		if err := d.Append(k, m[k]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ReadDocument creates a Document from a copy of b. This is the entry point for
// bytes that were not produced by this package: b is fully validated and any
// structural problem is returned as an error.
func ReadDocument(b []byte) (*Document, error) {
	if err := validateDocument(b); err != nil {
		return nil, err
	}
	return newDocument(b), nil
}

// NewDocumentFromTrustedBytes creates a Document from a copy of b without
// validating its elements. b must be a well-formed document produced by a BSON
// encoder; malformed elements cause a panic when they are read. Only the length
// prefix and terminator are checked here.
func NewDocumentFromTrustedBytes(b []byte) *Document {
	length, _, ok := bsoncore.ReadLength(b)
	if !ok || length < emptyDocumentLength || int(length) != len(b) || b[len(b)-1] != 0x00 {
		panic(CorruptDocumentError{Type: TypeEmbeddedDocument})
	}
	return newDocument(b)
}

func (d *Document) current() *buffer {
	if d == nil || d.buf == nil {
		return emptyBuffer
	}
	return d.buf
}

func (d *Document) bytes() []byte { return d.current().b }

// exclusive returns a buffer only d holds, duplicating the shared one first.
func (d *Document) exclusive() *buffer {
	if d.buf == nil {
		d.buf = newBuffer(emptyDocumentBytes)
		return d.buf
	}
	if d.buf.refs.Shared() {
		shared := d.buf
		d.buf = newBuffer(shared.b)
		shared.refs.DecRef()
	}
	return d.buf
}

// Copy returns a Document with the same contents as d. The two share storage
// until one of them is modified.
func (d *Document) Copy() *Document {
	if d == nil || d.buf == nil {
		return NewDocument()
	}
	d.buf.refs.IncRef()
	return &Document{buf: d.buf}
}

// Release gives up d's hold on its storage, freeing it when d was the last
// holder. d is empty afterwards. Releasing is optional.
func (d *Document) Release() {
	if d.buf == nil {
		return
	}
	buf := d.buf
	d.buf = nil
	buf.refs.DecRef()
}

// Set stores v under key. The first element with key is replaced in place and
// any later elements with the same key are removed; when key is absent the
// element is appended. A nil v stores a BSON null.
//
// v may be a Value or one of the Go types listed on ValueOf. On error the
// document is unchanged and an *EncodeError is returned.
func (d *Document) Set(key string, v interface{}) error {
	elem, err := encodeElement(key, v)
	if err != nil {
		return err
	}

	buf := d.exclusive()
	ranges := keyRanges(buf.b, key)
	if len(ranges) == 0 {
		if err := buf.insert(elem); err != nil {
			return newEncodeError(v, key, err)
		}
		return nil
	}

	b := make([]byte, 0, len(buf.b)+len(elem))
	b = append(b, buf.b[:ranges[0][0]]...)
	b = append(b, elem...)
	prev := ranges[0][1]
	for _, r := range ranges[1:] {
		b = append(b, buf.b[prev:r[0]]...)
		prev = r[1]
	}
	b = append(b, buf.b[prev:]...)
	if err := buf.replace(b); err != nil {
		return newEncodeError(v, key, err)
	}
	return nil
}

// Append adds v under key at the end of the document without looking for an
// existing element with the same key. Appending an existing key leaves both
// elements in the document; lookups return the first one.
func (d *Document) Append(key string, v interface{}) error {
	elem, err := encodeElement(key, v)
	if err != nil {
		return err
	}
	if err := d.exclusive().insert(elem); err != nil {
		return newEncodeError(v, key, err)
	}
	return nil
}

// Delete removes every element with key and reports whether any existed.
func (d *Document) Delete(key string) bool {
	if len(keyRanges(d.bytes(), key)) == 0 {
		return false
	}

	buf := d.exclusive()
	ranges := keyRanges(buf.b, key)
	b := make([]byte, 0, len(buf.b))
	prev := 0
	for _, r := range ranges {
		b = append(b, buf.b[prev:r[0]]...)
		prev = r[1]
	}
	b = append(b, buf.b[prev:]...)
	// Removing elements cannot exceed the size limit.
	_ = buf.replace(b)
	return true
}

// Merge appends the top-level elements of other to d in their order. Keys
// already present in d are not replaced. Merge fails without changing d when
// the result would be too large.
func (d *Document) Merge(other *Document) error {
	if len(other.current().elements()) == 0 {
		return nil
	}

	buf := d.exclusive()
	elems := other.current().elements()
	if other.current() == buf {
		elems = append([]byte(nil), elems...)
	}
	return buf.insert(elems)
}

// Lookup returns the value of the first element with key. The boolean is false
// when the key is absent. The value is nil when the element has an unknown
// type tag.
func (d *Document) Lookup(key string) (Value, bool) {
	it, ok := d.IteratorAt(key)
	if !ok {
		return nil, false
	}
	return it.Value(), true
}

// Get returns the value of the first element with key, or nil.
func (d *Document) Get(key string) Value {
	v, _ := d.Lookup(key)
	return v
}

// Has reports whether d contains an element with key.
func (d *Document) Has(key string) bool {
	_, ok := d.IteratorAt(key)
	return ok
}

// LookupPath follows keys through nested documents and arrays. Array elements
// are addressed by their decimal index.
func (d *Document) LookupPath(keys ...string) (Value, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	v, ok := d.Lookup(keys[0])
	for _, key := range keys[1:] {
		if !ok {
			return nil, false
		}
		switch tv := v.(type) {
		case *Document:
			v, ok = tv.Lookup(key)
		case *Array:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 {
				return nil, false
			}
			v, ok = tv.IndexOK(idx)
		default:
			return nil, false
		}
	}
	return v, ok
}

// Iterator returns an Iterator positioned before the first element of d.
func (d *Document) Iterator() *Iterator { return newIterator(d.current()) }

// IteratorAt returns an Iterator positioned at the first element with key. The
// boolean is false when the key is absent.
func (d *Document) IteratorAt(key string) (*Iterator, bool) {
	it := d.Iterator()
	for it.Next() {
		if it.key == key {
			return it, true
		}
	}
	return nil, false
}

// Len returns the number of top-level elements. The document is scanned on
// every call.
func (d *Document) Len() int {
	var n int
	scanElements(d.bytes(), func(rawElement) bool {
		n++
		return true
	})
	return n
}

// Keys returns the top-level keys in order.
func (d *Document) Keys() []string {
	var keys []string
	scanElements(d.bytes(), func(el rawElement) bool {
		keys = append(keys, el.key)
		return true
	})
	return keys
}

// Values returns the decoded top-level values in order.
func (d *Document) Values() []Value {
	var vals []Value
	for it := d.Iterator(); it.Next(); {
		vals = append(vals, it.Value())
	}
	return vals
}

// Elements returns the decoded top-level elements in order.
func (d *Document) Elements() []Elem {
	var elems []Elem
	for it := d.Iterator(); it.Next(); {
		elems = append(elems, it.Element())
	}
	return elems
}

// Equal compares the encoded bytes of d and other. Documents holding the same
// elements in a different order are not equal.
func (d *Document) Equal(other *Document) bool {
	return bytes.Equal(d.bytes(), other.bytes())
}

// Bytes returns a copy of the encoded document.
func (d *Document) Bytes() []byte {
	return append([]byte(nil), d.bytes()...)
}

// MarshalBSON implements the bson.Marshaler interface of the Go driver.
func (d *Document) MarshalBSON() ([]byte, error) { return d.Bytes(), nil }

// UnmarshalBSON replaces the contents of d with a validated copy of b.
func (d *Document) UnmarshalBSON(b []byte) error {
	if err := validateDocument(b); err != nil {
		return err
	}
	buf := newBuffer(b)
	d.Release()
	d.buf = buf
	return nil
}

// String returns d as relaxed extended JSON.
func (d *Document) String() string {
	b, err := d.MarshalExtJSON(false)
	if err != nil {
		return "<malformed>"
	}
	return string(b)
}

// Type implements Value.
func (d *Document) Type() Type { return TypeEmbeddedDocument }

func (d *Document) appendElement(dst []byte, key string) ([]byte, error) {
	return bsoncore.AppendDocumentElement(dst, key, d.bytes()), nil
}

// encodeElement converts v and encodes it as a complete element.
func encodeElement(key string, v interface{}) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, newEncodeError(v, key, err)
	}
	val, err := ValueOf(v)
	if err != nil {
		return nil, newEncodeError(v, key, err)
	}
	elem, err := val.appendElement(nil, key)
	if err != nil {
		return nil, newEncodeError(val, key, err)
	}
	return elem, nil
}

func validateKey(key string) error {
	if strings.IndexByte(key, 0x00) >= 0 {
		return errors.Wrap(ErrInvalidKey, "key contains a null byte")
	}
	if len(key) >= maxDocumentSize-emptyDocumentLength {
		return errors.Wrap(ErrInvalidKey, "key is too long")
	}
	return nil
}
