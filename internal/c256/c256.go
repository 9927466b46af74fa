// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package c256 provides a checked 256-bit integer used by the
// limit-order predicate to compare CKB/UDT values without risking a
// silent wraparound: every operation traps instead of overflowing.
package c256

import (
	"fmt"

	"github.com/holiman/uint256"
)

// C256 wraps uint256.Int and only exposes checked operations.
type C256 struct {
	v uint256.Int
}

// FromUint64 builds a C256 from a uint64.
func FromUint64(x uint64) C256 {
	return C256{v: *uint256.NewInt(x)}
}

// FromBig128 builds a C256 from two uint64 halves representing a
// 128-bit unsigned value, hi being the most significant word.
func FromBig128(hi, lo uint64) C256 {
	var v uint256.Int
	v.SetUint64(hi)
	v.Lsh(&v, 64)
	var lov uint256.Int
	lov.SetUint64(lo)
	v.Add(&v, &lov)
	return C256{v: v}
}

// IsZero reports whether the value is zero.
func (c C256) IsZero() bool {
	return c.v.IsZero()
}

// Add returns c+other, panicking on overflow.
func (c C256) Add(other C256) C256 {
	var out uint256.Int
	_, overflow := out.AddOverflow(&c.v, &other.v)
	if overflow {
		panic("c256: overflow")
	}
	return C256{v: out}
}

// Sub returns c-other, panicking on overflow (i.e. on underflow).
func (c C256) Sub(other C256) C256 {
	var out uint256.Int
	_, overflow := out.SubOverflow(&c.v, &other.v)
	if overflow {
		panic("c256: overflow")
	}
	return C256{v: out}
}

// Mul returns c*other, panicking on overflow.
func (c C256) Mul(other C256) C256 {
	var out uint256.Int
	_, overflow := out.MulOverflow(&c.v, &other.v)
	if overflow {
		panic("c256: overflow")
	}
	return C256{v: out}
}

// Cmp returns -1, 0, or 1 as c is less than, equal to, or greater
// than other.
func (c C256) Cmp(other C256) int {
	return c.v.Cmp(&other.v)
}

// LessThan reports whether c < other.
func (c C256) LessThan(other C256) bool {
	return c.Cmp(other) < 0
}

func (c C256) String() string {
	return fmt.Sprintf("C256(%s)", c.v.Dec())
}
