// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonio

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compressor identifies how a document stream is compressed as a whole.
type Compressor uint8

// Supported stream compressors.
const (
	CompressorNone Compressor = iota
	CompressorSnappy
	CompressorZlib
	CompressorZstd
)

// Default compression levels.
const (
	DefaultZlibLevel = 6
	DefaultZstdLevel = 6
)

func (c Compressor) String() string {
	switch c {
	case CompressorNone:
		return "none"
	case CompressorSnappy:
		return "snappy"
	case CompressorZlib:
		return "zlib"
	case CompressorZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compressor(%d)", uint8(c))
	}
}

// ParseCompressor returns the Compressor named s. The empty string means no
// compression.
func ParseCompressor(s string) (Compressor, error) {
	switch strings.ToLower(s) {
	case "", "none", "noop":
		return CompressorNone, nil
	case "snappy":
		return CompressorSnappy, nil
	case "zlib":
		return CompressorZlib, nil
	case "zstd":
		return CompressorZstd, nil
	default:
		return 0, errors.Errorf("unknown compressor %q", s)
	}
}

func calcZstdWindowSize(n int, l zstd.EncoderLevel) int {
	if n <= zstd.MinWindowSize {
		return zstd.MinWindowSize
	}
	windowSize := zstd.MinWindowSize
	// Map the window size with compression levels as the zstd package does.
	switch l {
	case zstd.SpeedFastest:
		windowSize = 4 << 20
	case zstd.SpeedDefault:
		windowSize = 8 << 20
	case zstd.SpeedBetterCompression:
		windowSize = 16 << 20
	case zstd.SpeedBestCompression:
		windowSize = 32 << 20
	}
	if windowSize > zstd.MaxWindowSize {
		windowSize = zstd.MaxWindowSize
	}
	// Shrink to the smallest power of 2 that still holds n.
	for windowSize/2 > n {
		windowSize /= 2
	}
	return windowSize
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// compressWriter wraps w so that everything written is compressed according
// to opts. Closing the returned writer flushes the compressor but does not
// close w.
func compressWriter(w io.Writer, opts *StreamOptions) (io.WriteCloser, error) {
	switch opts.Compressor {
	case CompressorNone:
		return nopWriteCloser{w}, nil
	case CompressorSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CompressorZlib:
		return zlib.NewWriterLevel(w, opts.ZlibLevel)
	case CompressorZstd:
		level := zstd.EncoderLevelFromZstd(opts.ZstdLevel)
		windowSize := calcZstdWindowSize(int(opts.MaxDocumentSize), level)
		return zstd.NewWriter(w, zstd.WithEncoderLevel(level), zstd.WithWindowSize(windowSize))
	default:
		return nil, errors.Errorf("unknown compressor %v", opts.Compressor)
	}
}

// decompressReader wraps r so that reads return the decompressed stream. The
// returned closer releases decompressor resources and does not close r.
func decompressReader(r io.Reader, c Compressor) (io.Reader, io.Closer, error) {
	switch c {
	case CompressorNone:
		return r, nopCloser{}, nil
	case CompressorSnappy:
		return snappy.NewReader(r), nopCloser{}, nil
	case CompressorZlib:
		zr, err := zlib.NewReader(r)
		if errors.Is(err, io.EOF) {
			// An empty input holds no zlib header and no documents.
			return bytes.NewReader(nil), nopCloser{}, nil
		}
		if err != nil {
			return nil, nil, err
		}
		return zr, zr, nil
	case CompressorZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		rc := zr.IOReadCloser()
		return rc, rc, nil
	default:
		return nil, nil, errors.Errorf("unknown compressor %v", c)
	}
}
