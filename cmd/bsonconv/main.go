// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Command bsonconv converts between extended JSON lines and streams of BSON
// documents, and describes the documents in a stream.
package main

import (
	"io"
	"math"
	"os"
	"sort"

	"github.com/ikmak/bsondoc/bson/bsonio"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := logrus.StandardLogger()
	if err := loadEnv(".env"); err != nil {
		logger.WithError(err).Fatal("loading environment file")
	}

	app := newApp(os.Stdin, os.Stdout, logger)
	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("bsonconv failed")
	}
}

// loadEnv reads variables from path into the environment. A missing file is
// not an error.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return err
	}
	return nil
}

func newApp(stdin io.Reader, stdout io.Writer, logger *logrus.Logger) *cli.App {
	app := &cli.App{
		Name:      "bsonconv",
		Usage:     "convert between extended JSON and BSON document streams",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: logger.Out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   logrus.InfoLevel.String(),
				Usage:   "logging level: trace, debug, info, warn or error",
				EnvVars: []string{"BSONCONV_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "tobson",
				Usage:     "convert extended JSON, one document per line, to a BSON stream",
				ArgsUsage: "[file]",
				Flags:     []cli.Flag{compressFlag(), maxSizeFlag(), outputFlag()},
				Action: func(c *cli.Context) error {
					return toBSON(c, logger)
				},
			},
			{
				Name:      "tojson",
				Usage:     "convert a BSON stream to extended JSON, one document per line",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					compressFlag(),
					maxSizeFlag(),
					outputFlag(),
					&cli.BoolFlag{Name: "canonical", Usage: "write canonical instead of relaxed extended JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "indent the JSON output"},
				},
				Action: func(c *cli.Context) error {
					return toJSON(c, logger)
				},
			},
			{
				Name:      "inspect",
				Usage:     "list the keys and types of every document in a BSON stream",
				ArgsUsage: "[file]",
				Flags:     []cli.Flag{compressFlag(), maxSizeFlag()},
				Action: func(c *cli.Context) error {
					return inspect(c, logger)
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	return app
}

func compressFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "compress",
		Aliases: []string{"z"},
		Value:   bsonio.CompressorNone.String(),
		Usage:   "compression of the BSON stream: none, snappy, zlib or zstd",
		EnvVars: []string{"BSONCONV_COMPRESS"},
	}
}

func maxSizeFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "max-document-size",
		Value:   bsonio.DefaultMaxDocumentSize,
		Usage:   "largest document accepted in a BSON stream, in bytes",
		EnvVars: []string{"BSONCONV_MAX_DOCUMENT_SIZE"},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "-",
		Usage:   "output file, - for standard output",
	}
}

// streamOptions builds the bsonio options from the command's flags.
func streamOptions(c *cli.Context) (*bsonio.StreamOptionsBuilder, error) {
	compressor, err := bsonio.ParseCompressor(c.String("compress"))
	if err != nil {
		return nil, err
	}
	maxSize := c.Int("max-document-size")
	if maxSize < 0 || maxSize > math.MaxInt32 {
		return nil, errors.Errorf("max-document-size %d is out of range [0, %d]", maxSize, math.MaxInt32)
	}
	return bsonio.Stream().
		SetCompressor(compressor).
		SetMaxDocumentSize(int32(maxSize)), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// openInput opens the file named by the first argument, or standard input.
func openInput(c *cli.Context) (io.ReadCloser, string, error) {
	name := c.Args().First()
	if name == "" || name == "-" {
		return io.NopCloser(c.App.Reader), "-", nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, name, errors.Wrapf(err, "cannot open input %s", name)
	}
	return f, name, nil
}

// openOutput creates the file named by the output flag, or uses standard
// output.
func openOutput(c *cli.Context) (io.WriteCloser, error) {
	name := c.String("output")
	if name == "" || name == "-" {
		return nopWriteCloser{c.App.Writer}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create output %s", name)
	}
	return f, nil
}
