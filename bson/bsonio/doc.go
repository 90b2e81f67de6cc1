// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bsonio reads and writes streams of concatenated BSON documents, the
// format of mongodump .bson files. A stream may be compressed as a whole with
// snappy, zlib or zstd.
package bsonio
