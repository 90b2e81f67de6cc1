// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonio

import (
	"io"

	"github.com/ikmak/bsondoc/bson"
	"github.com/pkg/errors"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("writer is closed")

// Writer writes a stream of concatenated BSON documents.
type Writer struct {
	w       io.WriteCloser
	maxSize int32
	count   int
	closed  bool
}

// NewWriter creates a Writer that writes to w. Close must be called to flush
// compressed streams.
func NewWriter(w io.Writer, opts ...*StreamOptionsBuilder) (*Writer, error) {
	o, err := mergeOptions(opts...)
	if err != nil {
		return nil, err
	}
	cw, err := compressWriter(w, o)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %v writer", o.Compressor)
	}
	return &Writer{w: cw, maxSize: o.MaxDocumentSize}, nil
}

// WriteDocument appends doc to the stream.
func (w *Writer) WriteDocument(doc *bson.Document) error {
	if w.closed {
		return ErrClosed
	}
	b := doc.Bytes()
	if len(b) > int(w.maxSize) {
		return errors.Wrapf(bson.ErrDocumentTooLarge, "document %d has length %d, limit %d", w.count, len(b), w.maxSize)
	}
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrapf(err, "writing document %d", w.count)
	}
	w.count++
	return nil
}

// Count returns the number of documents written so far.
func (w *Writer) Count() int { return w.count }

// Close flushes the compressor. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Wrap(w.w.Close(), "closing stream")
}
