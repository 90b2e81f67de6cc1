// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// decoder builds a Value from the value bytes of an element. The bytes are
// trusted: a decoder panics with a CorruptDocumentError when they are
// malformed.
type decoder func(key string, data []byte) Value

var decoders map[Type]decoder

func init() {
	decoders = map[Type]decoder{
		TypeDouble:           decodeDouble,
		TypeString:           decodeString,
		TypeEmbeddedDocument: decodeDocument,
		TypeArray:            decodeArray,
		TypeBinary:           decodeBinary,
		TypeUndefined:        decodeNull,
		TypeObjectID:         decodeObjectID,
		TypeBoolean:          decodeBoolean,
		TypeDateTime:         decodeDateTime,
		TypeNull:             decodeNull,
		TypeRegex:            decodeRegex,
		TypeDBPointer:        decodeDBPointer,
		TypeJavaScript:       decodeJavaScript,
		TypeSymbol:           decodeSymbol,
		TypeCodeWithScope:    decodeCodeWithScope,
		TypeInt32:            decodeInt32,
		TypeTimestamp:        decodeTimestamp,
		TypeInt64:            decodeInt64,
		TypeDecimal128:       decodeDecimal128,
		TypeMinKey:           func(string, []byte) Value { return MinKey{} },
		TypeMaxKey:           func(string, []byte) Value { return MaxKey{} },
	}
}

// decodeValue selects the decoder for t. Unknown tags decode to nil.
func decodeValue(t Type, key string, data []byte) Value {
	dec, ok := decoders[t]
	if !ok {
		return nil
	}
	return dec(key, data)
}

func mustRead(ok bool, t Type, key string) {
	if !ok {
		panic(CorruptDocumentError{Type: t, Key: key})
	}
}

func decodeDouble(key string, data []byte) Value {
	f, _, ok := bsoncore.ReadDouble(data)
	mustRead(ok, TypeDouble, key)
	return Double(f)
}

func decodeString(key string, data []byte) Value {
	s, _, ok := bsoncore.ReadString(data)
	mustRead(ok, TypeString, key)
	return String(s)
}

func decodeDocument(key string, data []byte) Value {
	doc, _, ok := bsoncore.ReadDocument(data)
	mustRead(ok, TypeEmbeddedDocument, key)
	return newDocument(doc)
}

func decodeArray(key string, data []byte) Value {
	arr, _, ok := bsoncore.ReadArray(data)
	mustRead(ok, TypeArray, key)
	return &Array{doc: Document{buf: newBuffer(arr)}}
}

func decodeBinary(key string, data []byte) Value {
	subtype, bin, _, ok := bsoncore.ReadBinary(data)
	mustRead(ok, TypeBinary, key)
	return Binary{Subtype: BinarySubtype(subtype), Data: append([]byte{}, bin...)}
}

func decodeObjectID(key string, data []byte) Value {
	oid, _, ok := bsoncore.ReadObjectID(data)
	mustRead(ok, TypeObjectID, key)
	return ObjectID(oid)
}

func decodeBoolean(key string, data []byte) Value {
	b, _, ok := bsoncore.ReadBoolean(data)
	mustRead(ok, TypeBoolean, key)
	return Boolean(b)
}

func decodeDateTime(key string, data []byte) Value {
	dt, _, ok := bsoncore.ReadDateTime(data)
	mustRead(ok, TypeDateTime, key)
	return DateTime(dt)
}

func decodeNull(string, []byte) Value { return Null{} }

func decodeRegex(key string, data []byte) Value {
	pattern, options, _, ok := bsoncore.ReadRegex(data)
	mustRead(ok, TypeRegex, key)
	return NewRegex(pattern, options)
}

// decodeDBPointer returns the legacy pointer as a DBRef style document.
func decodeDBPointer(key string, data []byte) Value {
	ns, oid, _, ok := bsoncore.ReadDBPointer(data)
	mustRead(ok, TypeDBPointer, key)
	elems := bsoncore.AppendStringElement(nil, "$ref", ns)
	elems = bsoncore.AppendObjectIDElement(elems, "$id", oid)
	return newDocument(bsoncore.BuildDocument(nil, elems))
}

func decodeJavaScript(key string, data []byte) Value {
	js, _, ok := bsoncore.ReadJavaScript(data)
	mustRead(ok, TypeJavaScript, key)
	return Code{Code: js}
}

func decodeSymbol(key string, data []byte) Value {
	s, _, ok := bsoncore.ReadSymbol(data)
	mustRead(ok, TypeSymbol, key)
	return String(s)
}

func decodeCodeWithScope(key string, data []byte) Value {
	code, scope, _, ok := bsoncore.ReadCodeWithScope(data)
	mustRead(ok, TypeCodeWithScope, key)
	return Code{Code: code, Scope: newDocument(scope)}
}

func decodeInt32(key string, data []byte) Value {
	i32, _, ok := bsoncore.ReadInt32(data)
	mustRead(ok, TypeInt32, key)
	return Int32(i32)
}

func decodeTimestamp(key string, data []byte) Value {
	t, i, _, ok := bsoncore.ReadTimestamp(data)
	mustRead(ok, TypeTimestamp, key)
	return Timestamp{T: t, I: i}
}

func decodeInt64(key string, data []byte) Value {
	i64, _, ok := bsoncore.ReadInt64(data)
	mustRead(ok, TypeInt64, key)
	return Int64(i64)
}

func decodeDecimal128(key string, data []byte) Value {
	d, _, ok := bsoncore.ReadDecimal128(data)
	mustRead(ok, TypeDecimal128, key)
	return Decimal128(d.String())
}
