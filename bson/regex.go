// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// ErrInvalidRegex indicates that a regular expression pattern or its options
// contain a null byte.
var ErrInvalidRegex = errors.New("regex pattern and options must not contain null bytes")

// regexOptions maps BSON regex option characters to regexp2 options. The 'l'
// (locale dependent) option has no counterpart and is dropped.
var regexOptions = map[rune]regexp2.RegexOptions{
	'i': regexp2.IgnoreCase,
	'm': regexp2.Multiline,
	's': regexp2.Singleline,
	'u': regexp2.Unicode,
	'x': regexp2.IgnorePatternWhitespace,
	'l': regexp2.None,
}

// Regex is a BSON regular expression. Regexes are created with NewRegex,
// which sorts the options alphabetically; the zero value is an empty pattern
// without options.
type Regex struct {
	pattern string
	options string
}

// NewRegex returns a Regex with its options sorted.
func NewRegex(pattern, options string) Regex {
	return Regex{pattern: pattern, options: sortOptions(options)}
}

// Pattern returns the regular expression.
func (r Regex) Pattern() string { return r.pattern }

// Options returns the option characters in alphabetical order.
func (r Regex) Options() string { return r.options }

func (r Regex) String() string {
	return fmt.Sprintf("/%s/%s", r.pattern, r.options)
}

// Compile builds an executable regular expression. Unrecognized option
// characters are an error.
func (r Regex) Compile() (*regexp2.Regexp, error) {
	var opts regexp2.RegexOptions
	for _, c := range r.options {
		opt, ok := regexOptions[c]
		if !ok {
			return nil, fmt.Errorf("unsupported regex option %q", c)
		}
		opts |= opt
	}
	return regexp2.Compile(r.pattern, opts)
}

// Type implements Value.
func (Regex) Type() Type { return TypeRegex }

func (r Regex) appendElement(dst []byte, key string) ([]byte, error) {
	if strings.IndexByte(r.pattern, 0x00) >= 0 || strings.IndexByte(r.options, 0x00) >= 0 {
		return nil, ErrInvalidRegex
	}
	return bsoncore.AppendRegexElement(dst, key, r.pattern, r.options), nil
}

func sortOptions(options string) string {
	rs := []rune(options)
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return string(rs)
}
