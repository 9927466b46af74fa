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

// Package common holds the wire primitives shared by every predicate
// package: cell sources, outpoints, and the MetaPoint identity used by
// the owned/owner and limit-order pairings.
package common

import (
	"encoding/hex"
	"fmt"
)

// Source identifies which list of cells an index is relative to.
type Source int

const (
	SourceInput Source = iota
	SourceOutput
	SourceGroupInput
	SourceGroupOutput
)

func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceOutput:
		return "output"
	case SourceGroupInput:
		return "group_input"
	case SourceGroupOutput:
		return "group_output"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// OutPoint identifies an input cell's provenance.
type OutPoint struct {
	TxHash [32]byte
	Index  uint32
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", hex.EncodeToString(o.TxHash[:]), o.Index)
}

// MetaPoint generalizes OutPoint so that outputs of the current
// transaction can be named by position alone. HasTxHash is false for
// outputs (equivalent to a tx_hash of None); Index is signed to allow
// arithmetic offsets such as "the owner cell lives at my_index +
// distance". MetaPoint is a plain comparable struct so it can key a Go
// map directly, mirroring the derived Ord/Eq used for the same purpose
// in the original implementation.
type MetaPoint struct {
	HasTxHash bool
	TxHash    [32]byte
	Index     int64
}

// InputMetaPoint builds the MetaPoint for an input cell from its
// consumed OutPoint.
func InputMetaPoint(op OutPoint) MetaPoint {
	return MetaPoint{HasTxHash: true, TxHash: op.TxHash, Index: int64(op.Index)}
}

// OutputMetaPoint builds the MetaPoint for an output cell of the
// currently-executing transaction from its position.
func OutputMetaPoint(index int) MetaPoint {
	return MetaPoint{HasTxHash: false, Index: int64(index)}
}

// Offset returns the MetaPoint reached by moving distance positions
// relative to this one, keeping the same tx_hash (or absence of one).
func (m MetaPoint) Offset(distance int32) MetaPoint {
	return MetaPoint{
		HasTxHash: m.HasTxHash,
		TxHash:    m.TxHash,
		Index:     m.Index + int64(distance),
	}
}

// Less gives MetaPoint a total order: outputs (no tx_hash) sort before
// inputs, then by tx_hash, then by index.
func (m MetaPoint) Less(o MetaPoint) bool {
	if m.HasTxHash != o.HasTxHash {
		return !m.HasTxHash
	}
	if m.HasTxHash {
		for i := range m.TxHash {
			if m.TxHash[i] != o.TxHash[i] {
				return m.TxHash[i] < o.TxHash[i]
			}
		}
	}
	return m.Index < o.Index
}

func (m MetaPoint) String() string {
	if !m.HasTxHash {
		return fmt.Sprintf("output-local:%d", m.Index)
	}
	return fmt.Sprintf("%s:%d", hex.EncodeToString(m.TxHash[:]), m.Index)
}

// Script mirrors the minimum fields of a CKB script needed by the
// predicates; code_hash/hash_type/args are opaque here except for the
// empty-args check used to recognize owner lock scripts.
type Script struct {
	CodeHash [32]byte
	HashType byte
	Args     []byte
}

// HasEmptyArgs reports whether the script carries no args, the shape
// required of an owner lock script.
func (s Script) HasEmptyArgs() bool {
	return len(s.Args) == 0
}
