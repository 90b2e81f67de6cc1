// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"github.com/pkg/errors"
	driverbson "go.mongodb.org/mongo-driver/bson"
)

// ParseExtJSON creates a Document from extended JSON text. Both canonical and
// relaxed extended JSON are accepted. Malformed input is returned as an error.
func ParseExtJSON(data []byte) (*Document, error) {
	var raw driverbson.Raw
	if err := driverbson.UnmarshalExtJSON(data, false, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing extended JSON")
	}
	return ReadDocument(raw)
}

// MarshalExtJSON renders d as extended JSON. Canonical output preserves every
// type, so ParseExtJSON of it yields a Document equal to d; relaxed output uses
// native JSON numbers and dates where it can.
func (d *Document) MarshalExtJSON(canonical bool) ([]byte, error) {
	b, err := driverbson.MarshalExtJSON(driverbson.Raw(d.bytes()), canonical, false)
	if err != nil {
		return nil, errors.Wrap(err, "rendering extended JSON")
	}
	return b, nil
}

// UnmarshalJSON replaces the contents of d with the document described by the
// extended JSON in data.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseExtJSON(data)
	if err != nil {
		return err
	}
	d.Release()
	d.buf = parsed.buf
	return nil
}

// MarshalJSON renders d as relaxed extended JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.MarshalExtJSON(false)
}
