// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonio

import (
	"compress/zlib"

	"github.com/pkg/errors"
)

// DefaultMaxDocumentSize is the largest document a stream accepts unless
// configured otherwise. It matches the maximum BSON object size of a MongoDB
// server.
const DefaultMaxDocumentSize = 16 * 1024 * 1024

// StreamOptions represents arguments that can be used to configure a Reader or
// a Writer.
//
// See corresponding setter methods for documentation.
type StreamOptions struct {
	Compressor      Compressor
	ZlibLevel       int
	ZstdLevel       int
	MaxDocumentSize int32
}

// StreamOptionsBuilder contains options to configure document streams. Each
// option can be set through setter functions. See documentation for each
// setter function for an explanation of the option.
type StreamOptionsBuilder struct {
	Opts []func(*StreamOptions) error
}

// Stream creates a new StreamOptionsBuilder instance.
func Stream() *StreamOptionsBuilder {
	return &StreamOptionsBuilder{}
}

// ListSetters returns a list of StreamOptions setter functions.
func (so *StreamOptionsBuilder) ListSetters() []func(*StreamOptions) error {
	return so.Opts
}

// SetCompressor sets the value for the Compressor field. Readers and writers
// of the same stream must use the same compressor. The default is
// CompressorNone.
func (so *StreamOptionsBuilder) SetCompressor(c Compressor) *StreamOptionsBuilder {
	so.Opts = append(so.Opts, func(opts *StreamOptions) error {
		if c > CompressorZstd {
			return errors.Errorf("unknown compressor %v", c)
		}
		opts.Compressor = c

		return nil
	})

	return so
}

// SetZlibLevel sets the value for the ZlibLevel field. Valid levels are -1
// (the zlib default) through 9. The default is DefaultZlibLevel.
func (so *StreamOptionsBuilder) SetZlibLevel(level int) *StreamOptionsBuilder {
	so.Opts = append(so.Opts, func(opts *StreamOptions) error {
		if level < zlib.DefaultCompression || level > zlib.BestCompression {
			return errors.Errorf("invalid zlib level %d", level)
		}
		opts.ZlibLevel = level

		return nil
	})

	return so
}

// SetZstdLevel sets the value for the ZstdLevel field. Levels follow the zstd
// command line tool; the default is DefaultZstdLevel.
func (so *StreamOptionsBuilder) SetZstdLevel(level int) *StreamOptionsBuilder {
	so.Opts = append(so.Opts, func(opts *StreamOptions) error {
		if level < 1 || level > 22 {
			return errors.Errorf("invalid zstd level %d", level)
		}
		opts.ZstdLevel = level

		return nil
	})

	return so
}

// SetMaxDocumentSize sets the value for the MaxDocumentSize field. A Reader
// rejects any document whose length prefix exceeds it, and a Writer refuses to
// write one. The default is DefaultMaxDocumentSize.
func (so *StreamOptionsBuilder) SetMaxDocumentSize(size int32) *StreamOptionsBuilder {
	so.Opts = append(so.Opts, func(opts *StreamOptions) error {
		if size < 5 {
			return errors.Errorf("maximum document size %d is below the size of an empty document", size)
		}
		opts.MaxDocumentSize = size

		return nil
	})

	return so
}

// mergeOptions applies the setters of every builder in order over the
// defaults.
func mergeOptions(builders ...*StreamOptionsBuilder) (*StreamOptions, error) {
	opts := &StreamOptions{
		Compressor:      CompressorNone,
		ZlibLevel:       DefaultZlibLevel,
		ZstdLevel:       DefaultZstdLevel,
		MaxDocumentSize: DefaultMaxDocumentSize,
	}
	for _, b := range builders {
		if b == nil {
			continue
		}
		for _, setterFn := range b.ListSetters() {
			if setterFn == nil {
				continue
			}
			if err := setterFn(opts); err != nil {
				return nil, err
			}
		}
	}
	return opts, nil
}
