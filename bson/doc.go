// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bson is a typed object model for BSON documents.
//
// A Document is an ordered set of elements kept in one encoded buffer. Values
// are written by encoding them straight into that buffer and read by decoding
// a fresh Value from it; no decoded values are cached. Every BSON type has a
// Value implementation, including the legacy Symbol and DBPointer types which
// can be read but never written.
//
// Example:
//
//	doc := bson.NewDocument()
//	_ = doc.Set("name", "gopher")
//	_ = doc.Set("count", 42) // stored as a 32-bit integer
//	v := doc.Get("count")    // bson.Int32(42)
//
// Documents have value semantics through Copy. A copy shares the buffer until
// either side is modified:
//
//	a := bson.MustBuildDocument(bson.Elem{Key: "x", Value: 1})
//	b := a.Copy()
//	_ = b.Set("y", 2) // a still only has "x"
//
// Trust boundary: buffers built by this package are always well formed, and a
// malformed element discovered while decoding is treated as a fatal invariant
// violation (a panic with CorruptDocumentError). Bytes and JSON from outside
// must enter through ReadDocument, Document.UnmarshalBSON or ParseExtJSON,
// which validate their input and return errors instead.
package bson
