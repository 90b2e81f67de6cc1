// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonio

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/ikmak/bsondoc/bson"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocuments(t *testing.T, n int) []*bson.Document {
	t.Helper()

	docs := make([]*bson.Document, n)
	for i := range docs {
		doc, err := bson.BuildDocument(
			bson.Elem{Key: "_id", Value: bson.NewObjectID()},
			bson.Elem{Key: "n", Value: i},
			bson.Elem{Key: "text", Value: "Lorem ipsum dolor sit amet, consectetur adipiscing elit"},
		)
		require.NoError(t, err)
		docs[i] = doc
	}
	return docs
}

func TestStreamRoundTrip(t *testing.T) {
	t.Parallel()

	compressors := []Compressor{
		CompressorNone,
		CompressorSnappy,
		CompressorZlib,
		CompressorZstd,
	}

	for _, compressor := range compressors {
		compressor := compressor

		t.Run(compressor.String(), func(t *testing.T) {
			t.Parallel()

			docs := testDocuments(t, 25)
			var buf bytes.Buffer
			w, err := NewWriter(&buf, Stream().SetCompressor(compressor))
			require.NoError(t, err)
			for _, doc := range docs {
				require.NoError(t, w.WriteDocument(doc))
			}
			require.NoError(t, w.Close())
			assert.Equal(t, len(docs), w.Count())
			assert.ErrorIs(t, w.WriteDocument(docs[0]), ErrClosed)

			r, err := NewReader(&buf, Stream().SetCompressor(compressor))
			require.NoError(t, err)
			defer r.Close()

			var got []*bson.Document
			require.NoError(t, r.ForEach(func(doc *bson.Document) error {
				got = append(got, doc)
				return nil
			}))
			require.Len(t, got, len(docs))
			for i := range docs {
				assert.True(t, docs[i].Equal(got[i]), "document %d differs", i)
			}
			assert.Equal(t, len(docs), r.Count())

			_, err = r.ReadDocument()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestEmptyStream(t *testing.T) {
	t.Parallel()

	for _, compressor := range []Compressor{CompressorNone, CompressorSnappy, CompressorZlib, CompressorZstd} {
		r, err := NewReader(bytes.NewReader(nil), Stream().SetCompressor(compressor))
		require.NoError(t, err, compressor.String())
		_, err = r.ReadDocument()
		assert.Equal(t, io.EOF, err, compressor.String())
		assert.NoError(t, r.Close())
	}
}

func TestReaderErrors(t *testing.T) {
	t.Parallel()

	valid := bson.MustBuildDocument(bson.Elem{Key: "a", Value: 1}).Bytes()

	testCases := []struct {
		name  string
		input []byte
		opts  *StreamOptionsBuilder
		want  error
	}{
		{"partial length", valid[:2], nil, ErrTruncated},
		{"partial document", valid[:len(valid)-1], nil, ErrTruncated},
		{"length below minimum", []byte{0x04, 0x00, 0x00, 0x00}, nil, bson.ErrInvalidLength},
		{"negative length", []byte{0xFF, 0xFF, 0xFF, 0xFF}, nil, bson.ErrInvalidLength},
		{"too large", valid, Stream().SetMaxDocumentSize(8), bson.ErrDocumentTooLarge},
		{"missing terminator", append(append([]byte{}, valid[:len(valid)-1]...), 0x01), nil, bson.ErrMissingNull},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input := append(append([]byte{}, valid...), tc.input...)
			r, err := NewReader(bytes.NewReader(input), tc.opts)
			require.NoError(t, err)

			_, err = r.ReadDocument()
			if tc.name == "too large" {
				assert.True(t, errors.Is(err, tc.want), "got %v", err)
				return
			}
			require.NoError(t, err)

			_, err = r.ReadDocument()
			assert.True(t, errors.Is(err, tc.want), "got %v; want %v", err, tc.want)

			_, again := r.ReadDocument()
			assert.Equal(t, err, again, "errors must be sticky")
		})
	}
}

func TestWriterTooLarge(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, Stream().SetMaxDocumentSize(16))
	require.NoError(t, err)

	err = w.WriteDocument(bson.MustBuildDocument(bson.Elem{Key: "text", Value: "far too long for the limit"}))
	assert.True(t, errors.Is(err, bson.ErrDocumentTooLarge), "got %v", err)
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 0, w.Count())
}

func TestCompressedStreamIsSmaller(t *testing.T) {
	t.Parallel()

	docs := testDocuments(t, 100)
	sizes := make(map[Compressor]int)
	for _, compressor := range []Compressor{CompressorNone, CompressorSnappy, CompressorZlib, CompressorZstd} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, Stream().SetCompressor(compressor))
		require.NoError(t, err)
		for _, doc := range docs {
			require.NoError(t, w.WriteDocument(doc))
		}
		require.NoError(t, w.Close())
		sizes[compressor] = buf.Len()
	}
	for _, compressor := range []Compressor{CompressorSnappy, CompressorZlib, CompressorZstd} {
		assert.Less(t, sizes[compressor], sizes[CompressorNone], compressor.String())
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts, err := mergeOptions()
	require.NoError(t, err)
	assert.Equal(t, &StreamOptions{
		Compressor:      CompressorNone,
		ZlibLevel:       DefaultZlibLevel,
		ZstdLevel:       DefaultZstdLevel,
		MaxDocumentSize: DefaultMaxDocumentSize,
	}, opts)

	opts, err = mergeOptions(Stream().SetCompressor(CompressorZlib), nil, Stream().SetZlibLevel(9).SetZstdLevel(3))
	require.NoError(t, err)
	assert.Equal(t, CompressorZlib, opts.Compressor)
	assert.Equal(t, 9, opts.ZlibLevel)
	assert.Equal(t, 3, opts.ZstdLevel)

	for _, b := range []*StreamOptionsBuilder{
		Stream().SetCompressor(Compressor(9)),
		Stream().SetZlibLevel(10),
		Stream().SetZstdLevel(0),
		Stream().SetMaxDocumentSize(4),
	} {
		_, err := mergeOptions(b)
		assert.Error(t, err)

		_, err = NewReader(bytes.NewReader(nil), b)
		assert.Error(t, err)
		_, err = NewWriter(io.Discard, b)
		assert.Error(t, err)
	}
}

func TestParseCompressor(t *testing.T) {
	t.Parallel()

	for _, c := range []Compressor{CompressorNone, CompressorSnappy, CompressorZlib, CompressorZstd} {
		got, err := ParseCompressor(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCompressor("")
	require.NoError(t, err)
	assert.Equal(t, CompressorNone, got)

	_, err = ParseCompressor("lz4")
	assert.Error(t, err)
}

func TestZstdWindowSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		inputSize  int
		level      zstd.EncoderLevel
		windowSize int
	}{
		{512, zstd.EncoderLevelFromZstd(DefaultZstdLevel), 1024},
		{512000, zstd.EncoderLevelFromZstd(DefaultZstdLevel), 524288},
		{DefaultMaxDocumentSize, zstd.EncoderLevelFromZstd(DefaultZstdLevel), 16777216},
		{32000000, zstd.EncoderLevelFromZstd(DefaultZstdLevel), 16777216},
	}

	for _, test := range tests {
		test := test

		t.Run(strconv.Itoa(test.inputSize), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.windowSize, calcZstdWindowSize(test.inputSize, test.level))
		})
	}
}
