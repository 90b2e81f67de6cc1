// Copyright (C) MongoDB, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package refcnt provides the holder count used by shared document buffers.
package refcnt

import (
	"fmt"
	"sync/atomic"
)

// OnZeroFn is called once the count of a RefCounter drops to zero.
type OnZeroFn func()

// RefCounter counts the holders of a shared resource. A new RefCounter starts
// with one holder.
type RefCounter struct {
	n      int32
	onZero OnZeroFn
}

// New creates a RefCounter with a count of one. fn may be nil.
func New(fn OnZeroFn) *RefCounter {
	return &RefCounter{n: 1, onZero: fn}
}

// IncRef adds a holder.
func (c *RefCounter) IncRef() {
	n := atomic.AddInt32(&c.n, 1)
	if n > 1 {
		return
	}
	panic(fmt.Errorf("invalid ref count %d", n))
}

// DecRef removes a holder and runs the on-zero callback when the last one is
// gone.
func (c *RefCounter) DecRef() {
	n := atomic.AddInt32(&c.n, -1)
	if n > 0 {
		return
	}
	if n == 0 {
		if c.onZero != nil {
			c.onZero()
		}
		return
	}
	panic(fmt.Errorf("invalid ref count %d", n))
}

// Count returns the current number of holders.
func (c *RefCounter) Count() int32 { return atomic.LoadInt32(&c.n) }

// Shared reports whether more than one holder exists.
func (c *RefCounter) Shared() bool { return c.Count() > 1 }
