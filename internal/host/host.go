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

// Package host abstracts the CKB-VM syscalls the predicates read
// transaction data through, so the validator logic can run unchanged
// against either a real VM or an in-memory fixture.
package host

import (
	"errors"

	"github.com/ickb-go/ickb-validator/internal/common"
)

// ErrIndexOutOfBound is returned when a caller asks for a cell index
// past the end of the relevant source list.
var ErrIndexOutOfBound = errors.New("host: index out of bound")

// ErrItemMissing is returned when an optional field (such as a type
// script) is absent on the requested cell.
var ErrItemMissing = errors.New("host: item missing")

// Adapter is the subset of CKB-VM syscalls the predicates depend on.
// A real deployment backs this with load_cell_capacity,
// load_cell_lock_hash, and friends; tests back it with a fixture.
type Adapter interface {
	// CellCapacity returns the declared capacity of the cell at index
	// in source, in shannons.
	CellCapacity(index int, source common.Source) (uint64, error)

	// CellOccupiedCapacity returns the minimum capacity the cell's
	// lock/type scripts and data require it to carry.
	CellOccupiedCapacity(index int, source common.Source) (uint64, error)

	// CellLockHash returns the blake2b hash of the cell's lock script.
	CellLockHash(index int, source common.Source) (hashes32 [32]byte, err error)

	// CellLockScript returns the cell's full lock script.
	CellLockScript(index int, source common.Source) (common.Script, error)

	// CellTypeHash returns the hash of the cell's type script, or
	// ErrItemMissing if the cell carries none.
	CellTypeHash(index int, source common.Source) (hash32 [32]byte, err error)

	// CellData returns the raw data bytes stored in the cell.
	CellData(index int, source common.Source) ([]byte, error)

	// InputOutPoint returns the OutPoint an input cell consumes; only
	// valid for common.SourceInput / common.SourceGroupInput.
	InputOutPoint(index int, source common.Source) (common.OutPoint, error)

	// InputHeaderAccumulatedRate returns the DAO accumulated rate
	// carried by the header a deposit input's OutPoint was mined
	// under, used to value input deposits and receipts in iCKB.
	InputHeaderAccumulatedRate(index int, source common.Source) (uint64, error)

	// CellCount returns how many cells exist in source.
	CellCount(source common.Source) (int, error)

	// Script returns the script currently executing (the script whose
	// code_hash/hash_type identifies this predicate run).
	Script() (common.Script, error)
}

// HasEmptyArgs reports whether the currently executing script carries
// no args and no output cell's lock script reuses its code_hash/hash_type
// with a non-empty args (output type scripts are not checked), the shape
// every iCKB predicate requires of itself so
// a single deployed copy of the script cannot be reconfigured by args.
func HasEmptyArgs(adapter Adapter) (bool, error) {
	own, err := adapter.Script()
	if err != nil {
		return false, err
	}
	if !own.HasEmptyArgs() {
		return false, nil
	}

	n, err := adapter.CellCount(common.SourceOutput)
	if err != nil {
		return false, err
	}
	for i := 0; i < n; i++ {
		lock, err := adapter.CellLockScript(i, common.SourceOutput)
		if err != nil {
			return false, err
		}
		if lock.CodeHash == own.CodeHash && lock.HashType == own.HashType && !lock.HasEmptyArgs() {
			return false, nil
		}
	}
	return true, nil
}
