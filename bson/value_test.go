// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// roundTrip stores v in a new document and decodes it again.
func roundTrip(t *testing.T, v Value) Value {
	t.Helper()

	doc := NewDocument()
	require.NoError(t, doc.Set("v", v))
	got, ok := doc.Lookup("v")
	require.True(t, ok, "value not found after Set")
	return got
}

func TestValueRoundTrip(t *testing.T) {
	t.Parallel()

	oid, err := ObjectIDFromHex("5ef7fdd91c19e3222b41b839")
	require.NoError(t, err)

	testCases := []struct {
		name string
		val  Value
		// deep is set for values whose Go representation can be compared
		// with assert.Equal.
		deep bool
	}{
		{"double", Double(3.14159), true},
		{"double zero", Double(0), true},
		{"double max", Double(math.MaxFloat64), true},
		{"double infinity", Double(math.Inf(-1)), true},
		{"string", String("hello, 世界"), true},
		{"empty string", String(""), true},
		{"empty document", NewDocument(), false},
		{"document", MustBuildDocument(Elem{"a", Int32(1)}, Elem{"b", String("two")}), false},
		{"empty array", mustArray(t), false},
		{"array", mustArray(t, Int32(1), String("two"), NewDocument()), false},
		{"binary empty", Binary{Subtype: BinaryGeneric, Data: []byte{}}, true},
		{"binary user defined", Binary{Subtype: BinaryUserDefined, Data: []byte{1, 2, 3}}, true},
		{"binary old", Binary{Subtype: BinaryOld, Data: []byte{0xDE, 0xAD}}, true},
		{"binary uuid", NewUUIDBinary(uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")), true},
		{"objectID", oid, true},
		{"boolean true", Boolean(true), true},
		{"boolean false", Boolean(false), true},
		{"datetime epoch", DateTime(0), true},
		{"datetime before epoch", DateTime(-1500), true},
		{"datetime", NewDateTimeFromTime(time.Date(2020, 6, 1, 12, 30, 0, 5e6, time.UTC)), true},
		{"null", Null{}, true},
		{"regex", NewRegex("^ab+c$", "xi"), true},
		{"javascript", Code{Code: "function() { return 1; }"}, true},
		{"code with scope", Code{Code: "x", Scope: MustBuildDocument(Elem{"x", Int32(1)})}, false},
		{"int32 min", Int32(math.MinInt32), true},
		{"int32 max", Int32(math.MaxInt32), true},
		{"int64 min", Int64(math.MinInt64), true},
		{"int64 max", Int64(math.MaxInt64), true},
		{"timestamp", Timestamp{T: 1592392153, I: 7}, true},
		{"decimal128", Decimal128("3.14159"), true},
		{"decimal128 NaN", Decimal128("NaN"), true},
		{"decimal128 negative zero", Decimal128("-0"), true},
		{"min key", MinKey{}, true},
		{"max key", MaxKey{}, true},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := roundTrip(t, tc.val)
			assert.Equal(t, tc.val.Type(), got.Type())
			assert.True(t, ValuesEqual(tc.val, got), "got %v; want %v", got, tc.val)
			if tc.deep {
				assert.Equal(t, tc.val, got)
			}
		})
	}
}

func mustArray(t *testing.T, values ...interface{}) *Array {
	t.Helper()

	arr, err := NewArray(values...)
	require.NoError(t, err)
	return arr
}

func TestIntegerWidth(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		val  interface{}
		want Type
	}{
		{"int max int32", 2147483647, TypeInt32},
		{"int above int32", 2147483648, TypeInt64},
		{"int min int32", -2147483648, TypeInt32},
		{"int below int32", -2147483649, TypeInt64},
		{"int8", int8(-3), TypeInt32},
		{"uint16", uint16(65535), TypeInt32},
		{"uint32 above int32", uint32(math.MaxUint32), TypeInt64},
		{"uint64 max int64", uint64(math.MaxInt64), TypeInt64},
		{"int64 small", int64(12), TypeInt32},
		{"big int", big.NewInt(1 << 40), TypeInt64},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := NewDocument()
			require.NoError(t, doc.Set("n", tc.val))
			it, ok := doc.IteratorAt("n")
			require.True(t, ok)
			assert.Equal(t, tc.want, it.Type())
		})
	}

	t.Run("too large", func(t *testing.T) {
		t.Parallel()

		tooBig := new(big.Int).Lsh(big.NewInt(1), 64)
		for _, v := range []interface{}{uint64(math.MaxUint64), uint64(math.MaxInt64) + 1, tooBig} {
			doc := NewDocument()
			err := doc.Set("n", v)
			assert.True(t, errors.Is(err, ErrIntegerOverflow), "got %v", err)
			assert.Equal(t, 0, doc.Len())
		}
	})
}

func TestDeprecatedTypes(t *testing.T) {
	t.Parallel()

	oid := NewObjectID()

	t.Run("encoding fails", func(t *testing.T) {
		t.Parallel()

		for _, v := range []Value{Symbol("sym"), DBPointer{Ref: "db.coll", ID: oid}} {
			doc := MustBuildDocument(Elem{"a", Int32(1)})
			before := doc.Bytes()

			err := doc.Set("legacy", v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDeprecatedType), "got %v", err)

			var ee *EncodeError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, "legacy", ee.Key)
			assert.Equal(t, before, doc.Bytes(), "document changed by a failed Set")
		}
	})
	t.Run("symbol decodes as string", func(t *testing.T) {
		t.Parallel()

		raw := bsoncore.BuildDocument(nil, bsoncore.AppendSymbolElement(nil, "s", "sym"))
		doc, err := ReadDocument(raw)
		require.NoError(t, err)

		it, ok := doc.IteratorAt("s")
		require.True(t, ok)
		assert.Equal(t, TypeSymbol, it.Type())
		assert.Equal(t, String("sym"), it.Value())
	})
	t.Run("dbpointer decodes as ref document", func(t *testing.T) {
		t.Parallel()

		raw := bsoncore.BuildDocument(nil,
			bsoncore.AppendDBPointerElement(nil, "p", "db.coll", primitive.ObjectID(oid)))
		doc, err := ReadDocument(raw)
		require.NoError(t, err)

		v := doc.Get("p")
		ref, ok := v.(*Document)
		require.True(t, ok, "got %T", v)
		assert.Equal(t, []string{"$ref", "$id"}, ref.Keys())
		assert.Equal(t, String("db.coll"), ref.Get("$ref"))
		assert.Equal(t, oid, ref.Get("$id"))
	})
	t.Run("undefined decodes as null", func(t *testing.T) {
		t.Parallel()

		raw := bsoncore.BuildDocument(nil, bsoncore.AppendUndefinedElement(nil, "u"))
		doc, err := ReadDocument(raw)
		require.NoError(t, err)
		assert.Equal(t, Null{}, doc.Get("u"))
	})
}

func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		key  string
		val  interface{}
		want error
	}{
		{"invalid decimal", "d", Decimal128("not a number"), ErrInvalidDecimal},
		{"short uuid", "u", Binary{Subtype: BinaryUUID, Data: []byte{1, 2}}, ErrInvalidUUID},
		{"null byte in key", "a\x00b", Int32(1), ErrInvalidKey},
		{"null byte in regex", "r", NewRegex("a\x00", ""), ErrInvalidRegex},
		{"unsupported Go type", "c", make(chan int), ErrUnsupportedValue},
		{"nested unsupported Go type", "m", map[string]interface{}{"c": struct{}{}}, ErrUnsupportedValue},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := MustBuildDocument(Elem{"x", Int32(1)})
			before := doc.Bytes()

			err := doc.Set(tc.key, tc.val)
			assert.True(t, errors.Is(err, tc.want), "got %v; want %v", err, tc.want)
			var ee *EncodeError
			assert.True(t, errors.As(err, &ee))
			assert.Equal(t, before, doc.Bytes())
		})
	}
}

func TestRegex(t *testing.T) {
	t.Parallel()

	t.Run("options are sorted", func(t *testing.T) {
		t.Parallel()

		for _, opts := range []string{"xi", "ix", "smix", "xsim", "misx"} {
			r := NewRegex("a", opts)
			assert.Equal(t, sortOptions(opts), r.Options())
		}
	})
	t.Run("options read back sorted", func(t *testing.T) {
		t.Parallel()

		r := NewRegex("a", "xi")
		assert.Equal(t, "a", r.Pattern())
		assert.Equal(t, "ix", r.Options())
		assert.Equal(t, "/a/ix", r.String())
		assert.True(t, ValuesEqual(r, NewRegex("a", "ix")))

		got := roundTrip(t, r)
		assert.Equal(t, "ix", got.(Regex).Options())
		assert.Equal(t, NewRegex("a", "ix"), got)
	})
	t.Run("zero value", func(t *testing.T) {
		t.Parallel()

		var r Regex
		assert.Equal(t, "", r.Pattern())
		assert.Equal(t, "", r.Options())
		assert.Equal(t, NewRegex("", ""), roundTrip(t, r))
	})
	t.Run("compile", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			regex Regex
			input string
			match bool
		}{
			{NewRegex("^hello$", "i"), "HELLO", true},
			{NewRegex("^hello$", ""), "HELLO", false},
			{NewRegex("^b$", "m"), "a\nb", true},
			{NewRegex("a.b", "s"), "a\nb", true},
			{NewRegex("a b c # comment", "x"), "abc", true},
			{NewRegex("^HELLO$", "il"), "hello", true},
		}
		for _, tc := range testCases {
			re, err := tc.regex.Compile()
			require.NoError(t, err)
			got, err := re.MatchString(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.match, got, "%v against %q", tc.regex, tc.input)
		}
	})
	t.Run("unknown option", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegex("a", "z").Compile()
		assert.Error(t, err)
	})
}

func TestValuesEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, ValuesEqual(nil, nil))
	assert.False(t, ValuesEqual(Int32(1), nil))
	assert.False(t, ValuesEqual(Int32(1), Int64(1)))
	assert.True(t, ValuesEqual(Double(math.NaN()), Double(math.NaN())))
	assert.True(t, ValuesEqual(Symbol("a"), Symbol("a")))
	assert.False(t, ValuesEqual(Symbol("a"), Symbol("b")))
	assert.True(t, ValuesEqual(
		MustBuildDocument(Elem{"a", 1}),
		MustBuildDocument(Elem{"a", Int32(1)}),
	))
}

func TestBinaryUUID(t *testing.T) {
	t.Parallel()

	u := uuid.New()
	got, err := NewUUIDBinary(u).UUID()
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = Binary{Subtype: BinaryGeneric, Data: u[:]}.UUID()
	assert.Error(t, err)
}

func TestDateTime(t *testing.T) {
	t.Parallel()

	tm := time.Date(2021, 3, 4, 5, 6, 7, 8e6, time.UTC)
	dt := NewDateTimeFromTime(tm)
	assert.Equal(t, DateTime(1614834367008), dt)
	assert.True(t, tm.Equal(dt.Time()))
	assert.True(t, time.Unix(0, 0).Equal(DateTime(0).Time()))
}

func TestDecimal128(t *testing.T) {
	t.Parallel()

	d, err := ParseDecimal128("1.50")
	require.NoError(t, err)
	assert.Equal(t, Decimal128("1.50"), d)

	_, err = ParseDecimal128("1.5.0")
	assert.True(t, errors.Is(err, ErrInvalidDecimal))
}
