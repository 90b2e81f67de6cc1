// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

type iterState uint8

const (
	iterInitial iterState = iota
	iterPositioned
	iterExhausted
)

// Iterator is a forward-only cursor over the elements of a Document. A new
// Iterator is positioned before the first element; each call to Next moves it
// to the following element until the document is exhausted.
//
// An Iterator borrows the buffer of its Document. The Document must not be
// modified or released while the Iterator is in use; doing so makes the next
// call on the Iterator panic with ErrIteratorInvalidated. Copies of the
// Document made with Copy may be modified freely.
type Iterator struct {
	buf   *buffer
	gen   uint64
	state iterState

	// next is the offset of the element after the current one, or -1 when the
	// current element cannot be skipped.
	next int

	t    Type
	key  string
	data []byte
}

func newIterator(buf *buffer) *Iterator {
	return &Iterator{buf: buf, gen: buf.gen, next: 4}
}

// Next advances the Iterator and reports whether an element is available.
// Once Next returns false it always returns false.
func (it *Iterator) Next() bool {
	it.check()
	if it.state == iterExhausted {
		return false
	}

	b := it.buf.b
	if it.next < 0 || it.next >= len(b)-1 {
		it.state = iterExhausted
		it.key, it.data = "", nil
		return false
	}

	el := readElementAt(b, it.next)
	it.t, it.key, it.data, it.next = el.t, el.key, el.data, el.end
	it.state = iterPositioned
	return true
}

// Key returns the key of the current element. It panics if the Iterator is not
// positioned on an element.
func (it *Iterator) Key() string {
	it.positioned("Key")
	return it.key
}

// Type returns the type tag of the current element. It panics if the Iterator
// is not positioned on an element.
func (it *Iterator) Type() Type {
	it.positioned("Type")
	return it.t
}

// Value decodes the current element. It returns nil when the element's type
// tag is unknown. It panics if the Iterator is not positioned on an element.
func (it *Iterator) Value() Value {
	it.positioned("Value")
	return decodeValue(it.t, it.key, it.data)
}

// Element returns the key and decoded value of the current element.
func (it *Iterator) Element() Elem {
	it.positioned("Element")
	return Elem{Key: it.key, Value: decodeValue(it.t, it.key, it.data)}
}

func (it *Iterator) positioned(method string) {
	it.check()
	if it.state != iterPositioned {
		panic("bson: Iterator." + method + " called on an iterator that is not positioned on an element")
	}
}

func (it *Iterator) check() {
	if it.buf.gen != it.gen {
		panic(ErrIteratorInvalidated)
	}
}

type rawElement struct {
	t     Type
	key   string
	data  []byte
	start int
	end   int
}

// readElementAt reads the element starting at offset pos of the complete
// document b. An element with an unknown type tag extends to the terminator
// and has an end of -1. Malformed elements panic with a CorruptDocumentError.
func readElementAt(b []byte, pos int) rawElement {
	src := b[pos : len(b)-1]
	t, key, rem, ok := bsoncore.ReadHeader(src)
	if !ok {
		panic(CorruptDocumentError{Type: Type(src[0])})
	}
	el := rawElement{t: Type(t), key: key, start: pos}
	if !el.t.IsValid() {
		el.data, el.end = rem, -1
		return el
	}
	v, _, ok := bsoncore.ReadValue(rem, bsontype.Type(t))
	if !ok {
		panic(CorruptDocumentError{Type: el.t, Key: key})
	}
	el.data = v.Data
	el.end = len(b) - 1 - len(rem) + len(v.Data)
	return el
}

// scanElements calls fn for each top-level element of the complete document b
// until fn returns false.
func scanElements(b []byte, fn func(el rawElement) bool) {
	for pos := 4; pos >= 0 && pos < len(b)-1; {
		el := readElementAt(b, pos)
		if !fn(el) {
			return
		}
		pos = el.end
	}
}

// keyRanges returns the [start, end) offsets of every top-level element of b
// whose key is key. An element that cannot be skipped ends at the terminator.
func keyRanges(b []byte, key string) [][2]int {
	var ranges [][2]int
	scanElements(b, func(el rawElement) bool {
		if el.key == key {
			end := el.end
			if end < 0 {
				end = len(b) - 1
			}
			ranges = append(ranges, [2]int{el.start, end})
		}
		return true
	})
	return ranges
}
