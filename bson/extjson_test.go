// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

func TestExtJSONCanonicalRoundTrip(t *testing.T) {
	t.Parallel()

	oid, err := ObjectIDFromHex("5ef7fdd91c19e3222b41b839")
	require.NoError(t, err)

	d := MustBuildDocument(
		Elem{"double", Double(3.25)},
		Elem{"double max", Double(math.MaxFloat64)},
		Elem{"string", "héllo"},
		Elem{"doc", MustBuildDocument(Elem{"nested", true})},
		Elem{"empty doc", NewDocument()},
		Elem{"array", []interface{}{1, "two", 3.5}},
		Elem{"binary", []byte{0x01, 0x02, 0x03}},
		Elem{"binary old", Binary{Subtype: BinaryOld, Data: []byte{0x0A}}},
		Elem{"uuid", uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")},
		Elem{"oid", oid},
		Elem{"bool", false},
		Elem{"date", DateTime(-62135596800000)},
		Elem{"null", nil},
		Elem{"regex", NewRegex("^a.*z$", "mi")},
		Elem{"js", Code{Code: "function() {}"}},
		Elem{"cws", Code{Code: "x + y", Scope: MustBuildDocument(Elem{"x", 1}, Elem{"y", 2})}},
		Elem{"int32 min", Int32(math.MinInt32)},
		Elem{"int64 max", Int64(math.MaxInt64)},
		Elem{"ts", Timestamp{T: math.MaxUint32, I: 1}},
		Elem{"decimal", Decimal128("-1.2345E+100")},
		Elem{"min", MinKey{}},
		Elem{"max", MaxKey{}},
	)

	out, err := d.MarshalExtJSON(true)
	require.NoError(t, err)
	got, err := ParseExtJSON(out)
	require.NoError(t, err)
	assert.True(t, d.Equal(got), "round trip changed the document:\n%s", out)
}

func TestExtJSONLegacyTypes(t *testing.T) {
	t.Parallel()

	raw := rawDoc(
		bsoncore.AppendSymbolElement(nil, "sym", "s"),
		bsoncore.AppendDBPointerElement(nil, "ptr", "db.coll", primitive.NewObjectID()),
		bsoncore.AppendUndefinedElement(nil, "undef"),
	)
	d, err := ReadDocument(raw)
	require.NoError(t, err)

	out, err := d.MarshalExtJSON(true)
	require.NoError(t, err)
	got, err := ParseExtJSON(out)
	require.NoError(t, err)
	assert.Equal(t, raw, got.Bytes())
}

func TestParseExtJSON(t *testing.T) {
	t.Parallel()

	t.Run("relaxed numbers", func(t *testing.T) {
		t.Parallel()

		d, err := ParseExtJSON([]byte(`{"a": 1, "b": 2147483648, "c": 1.5, "d": {"$numberLong": "2"}}`))
		require.NoError(t, err)
		assert.Equal(t, []Value{Int32(1), Int64(2147483648), Double(1.5), Int64(2)}, d.Values())
	})
	t.Run("keeps key order", func(t *testing.T) {
		t.Parallel()

		d, err := ParseExtJSON([]byte(`{"z": 1, "a": 2, "m": 3}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a", "m"}, d.Keys())
	})
	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{``, `{`, `{"a": }`, `[1, 2]`, `"str"`, `{"a": {"$numberInt": "x"}}`} {
			_, err := ParseExtJSON([]byte(in))
			assert.Error(t, err, "input %q", in)
		}
	})
}

func TestDocumentString(t *testing.T) {
	t.Parallel()

	d := MustBuildDocument(Elem{"a", 1}, Elem{"b", "x"})
	assert.Equal(t, `{"a":1,"b":"x"}`, d.String())
	assert.Equal(t, `{}`, NewDocument().String())
}

func TestDocumentJSON(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Doc *Document `json:"doc"`
	}

	in := wrapper{Doc: MustBuildDocument(Elem{"a", 1}, Elem{"b", []interface{}{true}})}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"doc": {"a": 1, "b": [true]}}`, string(b))

	var out wrapper
	require.NoError(t, json.Unmarshal(b, &out))
	require.NotNil(t, out.Doc)
	assert.True(t, in.Doc.Equal(out.Doc))
}
