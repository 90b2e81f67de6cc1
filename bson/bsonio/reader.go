// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonio

import (
	"encoding/binary"
	"io"

	"github.com/ikmak/bsondoc/bson"
	"github.com/pkg/errors"
)

// ErrTruncated indicates that a stream ended in the middle of a document.
var ErrTruncated = errors.New("stream ends inside a document")

// Reader reads a stream of concatenated BSON documents, such as a .bson dump
// file. Every document is validated before it is returned, so the stream may
// come from an untrusted source.
type Reader struct {
	r       io.Reader
	closer  io.Closer
	maxSize int32
	count   int
	err     error
}

// NewReader creates a Reader over r. The options must name the compressor the
// stream was written with.
func NewReader(r io.Reader, opts ...*StreamOptionsBuilder) (*Reader, error) {
	o, err := mergeOptions(opts...)
	if err != nil {
		return nil, err
	}
	dr, closer, err := decompressReader(r, o.Compressor)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %v stream", o.Compressor)
	}
	return &Reader{r: dr, closer: closer, maxSize: o.MaxDocumentSize}, nil
}

// ReadDocument returns the next document. It returns io.EOF when the stream
// ends cleanly between documents. After any other error the Reader keeps
// returning that error.
func (r *Reader) ReadDocument() (*bson.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	doc, err := r.readDocument()
	if err != nil {
		r.err = err
		return nil, err
	}
	r.count++
	return doc, nil
}

func (r *Reader) readDocument() (*bson.Document, error) {
	var lenBuf [4]byte
	_, err := io.ReadFull(r.r, lenBuf[:])
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		return nil, errors.Wrapf(ErrTruncated, "document %d length", r.count)
	case err != nil:
		return nil, errors.Wrapf(err, "reading document %d", r.count)
	}

	length := int32(binary.LittleEndian.Uint32(lenBuf[:]))
	if length < 5 {
		return nil, errors.Wrapf(bson.ErrInvalidLength, "document %d has length %d", r.count, length)
	}
	if length > r.maxSize {
		return nil, errors.Wrapf(bson.ErrDocumentTooLarge, "document %d has length %d, limit %d", r.count, length, r.maxSize)
	}

	b := make([]byte, length)
	copy(b, lenBuf[:])
	if _, err := io.ReadFull(r.r, b[4:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrTruncated, "document %d", r.count)
		}
		return nil, errors.Wrapf(err, "reading document %d", r.count)
	}

	doc, err := bson.ReadDocument(b)
	if err != nil {
		return nil, errors.Wrapf(err, "document %d", r.count)
	}
	return doc, nil
}

// Count returns the number of documents read so far.
func (r *Reader) Count() int { return r.count }

// ForEach calls fn with every remaining document until the stream ends or fn
// returns an error.
func (r *Reader) ForEach(fn func(*bson.Document) error) error {
	for {
		doc, err := r.ReadDocument()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

// Close releases decompressor resources. It does not close the underlying
// reader.
func (r *Reader) Close() error { return r.closer.Close() }
