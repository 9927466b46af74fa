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

package c256_test

import (
	"testing"

	"github.com/ickb-go/ickb-validator/internal/c256"
)

func TestAddSubRoundTrip(t *testing.T) {
	a := c256.FromUint64(100)
	b := c256.FromUint64(40)
	sum := a.Add(b)
	if sum.Cmp(c256.FromUint64(140)) != 0 {
		t.Errorf("100+40 should equal 140")
	}
	if sum.Sub(b).Cmp(a) != 0 {
		t.Errorf("(100+40)-40 should equal 100")
	}
}

func TestMulOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Mul should panic on overflow")
		}
	}()
	// 2^128 squared is 2^256, one past the largest 256-bit value.
	twoTo128 := c256.FromBig128(^uint64(0), ^uint64(0)).Add(c256.FromUint64(1))
	twoTo128.Mul(twoTo128)
}

func TestSubUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Sub should panic on underflow")
		}
	}()
	c256.FromUint64(1).Sub(c256.FromUint64(2))
}

func TestLessThan(t *testing.T) {
	if !c256.FromUint64(1).LessThan(c256.FromUint64(2)) {
		t.Errorf("1 should be less than 2")
	}
	if c256.FromUint64(2).LessThan(c256.FromUint64(1)) {
		t.Errorf("2 should not be less than 1")
	}
}

func TestFromBig128(t *testing.T) {
	v := c256.FromBig128(1, 0)
	if v.IsZero() {
		t.Errorf("FromBig128(1, 0) should not be zero")
	}
	if v.LessThan(c256.FromUint64(^uint64(0))) {
		t.Errorf("FromBig128(1, 0) should be greater than max uint64")
	}
}
