// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/ikmak/bsondoc/bson"
	"github.com/ikmak/bsondoc/bson/bsonio"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
	"github.com/urfave/cli/v2"
)

// maxLineSize bounds a single line of extended JSON input.
const maxLineSize = 64 * 1024 * 1024

// toBSON reads extended JSON documents, one per line, and writes them as a
// BSON stream. Blank lines are skipped.
func toBSON(c *cli.Context, logger *logrus.Logger) error {
	opts, err := streamOptions(c)
	if err != nil {
		return err
	}
	in, name, err := openInput(c)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(c)
	if err != nil {
		return err
	}
	defer out.Close()

	w, err := bsonio.NewWriter(out, opts)
	if err != nil {
		return err
	}

	log := logger.WithField("file", name)
	lineNumber := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineNumber++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		doc, err := bson.ParseExtJSON(line)
		if err != nil {
			return errors.Wrapf(err, "error parsing line %d", lineNumber)
		}
		if err := w.WriteDocument(doc); err != nil {
			return errors.Wrapf(err, "error writing line %d", lineNumber)
		}
		log.WithFields(logrus.Fields{"line": lineNumber, "document": w.Count() - 1}).Debug("converted document")
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading input")
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.WithField("documents", w.Count()).Info("wrote BSON stream")
	return out.Close()
}

// toJSON reads a BSON stream and writes every document as extended JSON on its
// own line.
func toJSON(c *cli.Context, logger *logrus.Logger) error {
	r, name, closeInput, err := openStream(c)
	if err != nil {
		return err
	}
	defer closeInput()
	out, err := openOutput(c)
	if err != nil {
		return err
	}
	defer out.Close()

	canonical, indent := c.Bool("canonical"), c.Bool("pretty")
	bw := bufio.NewWriter(out)
	err = r.ForEach(func(doc *bson.Document) error {
		b, err := doc.MarshalExtJSON(canonical)
		if err != nil {
			return errors.Wrapf(err, "document %d", r.Count()-1)
		}
		if indent {
			b = pretty.Pretty(b)
		} else {
			b = append(b, '\n')
		}
		_, err = bw.Write(b)
		return err
	})
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"file": name, "documents": r.Count()}).Info("wrote extended JSON")
	return out.Close()
}

// inspect prints the size, keys and element types of every document in a BSON
// stream.
func inspect(c *cli.Context, logger *logrus.Logger) error {
	r, name, closeInput, err := openStream(c)
	if err != nil {
		return err
	}
	defer closeInput()

	bw := bufio.NewWriter(c.App.Writer)
	err = r.ForEach(func(doc *bson.Document) error {
		if err := describeDocument(bw, r.Count()-1, doc); err != nil {
			return err
		}
		doc.Release()
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"file": name, "documents": r.Count()}).Debug("inspected BSON stream")
	return bw.Flush()
}

func describeDocument(w io.Writer, index int, doc *bson.Document) error {
	if _, err := fmt.Fprintf(w, "document %d: %d elements, %d bytes\n", index, doc.Len(), len(doc.Bytes())); err != nil {
		return err
	}
	for it := doc.Iterator(); it.Next(); {
		t := it.Type()
		desc := t.String()
		if t.IsDeprecated() {
			desc += fmt.Sprintf(" (deprecated, read as %s)", t.DecodesTo())
		}
		if _, err := fmt.Fprintf(w, "  %s: %s\n", it.Key(), desc); err != nil {
			return err
		}
	}
	return nil
}

// openStream opens the input named by the first argument as a BSON stream.
func openStream(c *cli.Context) (*bsonio.Reader, string, func(), error) {
	opts, err := streamOptions(c)
	if err != nil {
		return nil, "", nil, err
	}
	in, name, err := openInput(c)
	if err != nil {
		return nil, "", nil, err
	}
	r, err := bsonio.NewReader(in, opts)
	if err != nil {
		in.Close()
		return nil, "", nil, err
	}
	return r, name, func() {
		_ = r.Close()
		_ = in.Close()
	}, nil
}
