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

package common_test

import (
	"testing"

	"github.com/ickb-go/ickb-validator/internal/common"
)

func TestOutPointString(t *testing.T) {
	op := common.OutPoint{Index: 3}
	op.TxHash[0] = 0xab
	expected := "ab00000000000000000000000000000000000000000000000000000000000000:3"
	if op.String() != expected {
		t.Errorf("OutPoint.String() = %s, want %s", op.String(), expected)
	}
}

func TestInputMetaPointHasTxHash(t *testing.T) {
	op := common.OutPoint{Index: 1}
	op.TxHash[0] = 0x01
	mp := common.InputMetaPoint(op)
	if !mp.HasTxHash {
		t.Errorf("InputMetaPoint should have HasTxHash = true")
	}
	if mp.Index != 1 {
		t.Errorf("InputMetaPoint Index = %d, want 1", mp.Index)
	}
}

func TestOutputMetaPointHasNoTxHash(t *testing.T) {
	mp := common.OutputMetaPoint(5)
	if mp.HasTxHash {
		t.Errorf("OutputMetaPoint should have HasTxHash = false")
	}
	if mp.Index != 5 {
		t.Errorf("OutputMetaPoint Index = %d, want 5", mp.Index)
	}
}

func TestMetaPointOffset(t *testing.T) {
	mp := common.OutputMetaPoint(2)
	owner := mp.Offset(3)
	if owner.Index != 5 {
		t.Errorf("Offset(3) Index = %d, want 5", owner.Index)
	}
	if owner.HasTxHash != mp.HasTxHash {
		t.Errorf("Offset should preserve HasTxHash")
	}

	negative := mp.Offset(-1)
	if negative.Index != 1 {
		t.Errorf("Offset(-1) Index = %d, want 1", negative.Index)
	}
}

func TestMetaPointIsMapKey(t *testing.T) {
	m := make(map[common.MetaPoint]int)
	a := common.OutputMetaPoint(0)
	b := common.OutputMetaPoint(1)
	m[a] = 10
	m[b] = 20
	if m[a] != 10 || m[b] != 20 {
		t.Errorf("MetaPoint did not behave as a well-formed map key")
	}

	var op common.OutPoint
	op.TxHash[0] = 0x7f
	c := common.InputMetaPoint(op)
	d := common.InputMetaPoint(op)
	if c != d {
		t.Errorf("two MetaPoints built from the same OutPoint should be equal")
	}
}

func TestMetaPointLessOrdersOutputsBeforeInputs(t *testing.T) {
	output := common.OutputMetaPoint(100)
	var op common.OutPoint
	input := common.InputMetaPoint(op)
	if !output.Less(input) {
		t.Errorf("an output MetaPoint should sort before any input MetaPoint")
	}
	if input.Less(output) {
		t.Errorf("an input MetaPoint should not sort before an output MetaPoint")
	}
}

func TestScriptHasEmptyArgs(t *testing.T) {
	empty := common.Script{}
	if !empty.HasEmptyArgs() {
		t.Errorf("script with nil Args should have empty args")
	}

	nonEmpty := common.Script{Args: []byte{0x01}}
	if nonEmpty.HasEmptyArgs() {
		t.Errorf("script with non-nil Args should not have empty args")
	}
}
