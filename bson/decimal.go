// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Decimal128 is a BSON 128-bit decimal held in its string form. The string is
// only checked when the value is encoded; decoding always yields the
// canonical form.
type Decimal128 string

// ParseDecimal128 validates s and returns it in canonical form.
func ParseDecimal128(s string) (Decimal128, error) {
	d, err := primitive.ParseDecimal128(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDecimal, err)
	}
	return Decimal128(d.String()), nil
}

// Type implements Value.
func (Decimal128) Type() Type { return TypeDecimal128 }

func (d Decimal128) appendElement(dst []byte, key string) ([]byte, error) {
	d128, err := primitive.ParseDecimal128(string(d))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDecimal, err)
	}
	return bsoncore.AppendDecimal128Element(dst, key, d128), nil
}
