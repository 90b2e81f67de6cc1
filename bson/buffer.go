// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"math"
	"sync"

	"github.com/ikmak/bsondoc/internal/refcnt"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// emptyDocumentLength is the length of a document with no elements.
const emptyDocumentLength = 5

// maxPooledBufferCap bounds the buffers kept for reuse.
const maxPooledBufferCap = 1 << 16

// maxDocumentSize is the largest document a length prefix can describe. It is
// a variable so tests can lower it.
var maxDocumentSize = math.MaxInt32

var emptyDocumentBytes = []byte{emptyDocumentLength, 0x00, 0x00, 0x00, 0x00}

// emptyBuffer backs zero value and released documents. It is never written.
var emptyBuffer = &buffer{b: emptyDocumentBytes, refs: refcnt.New(nil)}

var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

// buffer holds one complete encoded document. It is shared by every Document
// created with Copy until one of them writes, at which point the writer takes
// a private duplicate.
//
// The refs check and the write that follows it are not synchronized; a single
// buffer must not be written from two goroutines at once.
type buffer struct {
	b    []byte
	refs *refcnt.RefCounter
	// gen changes on every in-place write and when the buffer is freed.
	gen uint64
}

// newBuffer returns an unshared buffer holding a copy of src, which must be a
// complete document.
func newBuffer(src []byte) *buffer {
	bp := bufferPool.Get().(*[]byte)
	buf := &buffer{b: append((*bp)[:0], src...)}
	buf.refs = refcnt.New(buf.free)
	return buf
}

func (buf *buffer) free() {
	b := buf.b[:0]
	buf.b = nil
	buf.gen++
	if cap(b) <= maxPooledBufferCap {
		bufferPool.Put(&b)
	}
}

// elements returns the element bytes between the length prefix and the
// terminator.
func (buf *buffer) elements() []byte { return buf.b[4 : len(buf.b)-1] }

// insert appends an encoded element before the terminating null byte.
func (buf *buffer) insert(elem []byte) error {
	if len(buf.b)+len(elem) > maxDocumentSize {
		return ErrDocumentTooLarge
	}
	b := append(buf.b[:len(buf.b)-1], elem...)
	buf.b = append(b, 0x00)
	buf.written()
	return nil
}

// replace swaps in a rebuilt document.
func (buf *buffer) replace(b []byte) error {
	if len(b) > maxDocumentSize {
		return ErrDocumentTooLarge
	}
	buf.b = b
	buf.written()
	return nil
}

func (buf *buffer) written() {
	buf.b = bsoncore.UpdateLength(buf.b, 0, int32(len(buf.b)))
	buf.gen++
}
