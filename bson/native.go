// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValueOf converts a Go value to a Value. Values are returned unchanged. The
// accepted Go types are:
//
//	nil                                      Null
//	bool                                     Boolean
//	string                                   String
//	float32, float64                         Double
//	int, int8..int64, uint, uint8..uint64,   Int32 when the value fits in 32 bits,
//	*big.Int                                 else Int64, else ErrIntegerOverflow
//	time.Time                                DateTime
//	[]byte                                   Binary with the generic subtype
//	uuid.UUID                                Binary with the UUID subtype
//	primitive.ObjectID                       ObjectID
//	primitive.Decimal128                     Decimal128
//	map[string]interface{}                   *Document with sorted keys
//	[]interface{}                            *Array
func ValueOf(v interface{}) (Value, error) {
	switch tv := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return tv, nil
	case bool:
		return Boolean(tv), nil
	case string:
		return String(tv), nil
	case float32:
		return Double(tv), nil
	case float64:
		return Double(tv), nil
	case int:
		return intValue(int64(tv)), nil
	case int8:
		return Int32(tv), nil
	case int16:
		return Int32(tv), nil
	case int32:
		return Int32(tv), nil
	case int64:
		return intValue(tv), nil
	case uint:
		return uintValue(uint64(tv))
	case uint8:
		return Int32(tv), nil
	case uint16:
		return Int32(tv), nil
	case uint32:
		return uintValue(uint64(tv))
	case uint64:
		return uintValue(tv)
	case *big.Int:
		if tv == nil || !tv.IsInt64() {
			return nil, ErrIntegerOverflow
		}
		return intValue(tv.Int64()), nil
	case time.Time:
		return NewDateTimeFromTime(tv), nil
	case []byte:
		return Binary{Subtype: BinaryGeneric, Data: tv}, nil
	case uuid.UUID:
		return NewUUIDBinary(tv), nil
	case primitive.ObjectID:
		return ObjectID(tv), nil
	case primitive.Decimal128:
		return Decimal128(tv.String()), nil
	case map[string]interface{}:
		return NewDocumentFromMap(tv)
	case []interface{}:
		return NewArray(tv...)
	default:
		return nil, errors.Wrapf(ErrUnsupportedValue, "type %T", v)
	}
}

// intValue picks the narrowest BSON integer type that holds i.
func intValue(i int64) Value {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return Int32(i)
	}
	return Int64(i)
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, ErrIntegerOverflow
	}
	return intValue(int64(u)), nil
}

// Interface converts v to a plain Go value: documents become
// map[string]interface{}, arrays []interface{}, numbers and strings their Go
// counterparts, DateTime a time.Time, Null nil, and UUID binaries uuid.UUID.
// Other values are returned unchanged.
func Interface(v Value) interface{} {
	switch tv := v.(type) {
	case nil, Null:
		return nil
	case Double:
		return float64(tv)
	case String:
		return string(tv)
	case Boolean:
		return bool(tv)
	case Int32:
		return int32(tv)
	case Int64:
		return int64(tv)
	case DateTime:
		return tv.Time()
	case Binary:
		if tv.Subtype == BinaryUUID {
			if u, err := tv.UUID(); err == nil {
				return u
			}
		}
		if tv.Subtype == BinaryGeneric {
			return tv.Data
		}
		return tv
	case *Document:
		return tv.ToMap()
	case *Array:
		vals := tv.Values()
		out := make([]interface{}, len(vals))
		for i, val := range vals {
			out[i] = Interface(val)
		}
		return out
	default:
		return v
	}
}

// ToMap converts d to a map of plain Go values. When a key occurs more than
// once the first occurrence is kept, matching Lookup.
func (d *Document) ToMap() map[string]interface{} {
	m := make(map[string]interface{})
	for it := d.Iterator(); it.Next(); {
		if _, ok := m[it.Key()]; ok {
			continue
		}
		m[it.Key()] = Interface(it.Value())
	}
	return m
}

// Decode stores the contents of d in the struct or map pointed to by out.
// Struct fields are matched by their bson tag or, without one, by name.
func (d *Document) Decode(out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "bson",
		Result:     out,
		DecodeHook: objectIDHexHook,
	})
	if err != nil {
		return errors.Wrap(err, "creating decoder")
	}
	return errors.Wrap(dec.Decode(d.ToMap()), "decoding document")
}

// objectIDHexHook lets ObjectIDs fill string fields with their hex form.
func objectIDHexHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if oid, ok := data.(ObjectID); ok && to.Kind() == reflect.String {
		return oid.Hex(), nil
	}
	return data, nil
}
