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

// Package ownedowner implements the owned/owner pairing predicate: it
// proves that every cell locked by this script (an "owned" cell, such
// as a limit order) is paired 1:1, within both the input set and the
// output set independently, with exactly one cell whose type script
// is this same script (its "owner" cell). The owner cell carries a
// small signed distance in its data and offsets its own MetaPoint by
// it to name the owned cell it pairs with.
package ownedowner

import (
	"encoding/binary"

	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/hashes"
	"github.com/ickb-go/ickb-validator/internal/host"
	"github.com/ickb-go/ickb-validator/internal/vmerror"
)

type accounting struct {
	owned uint64
	owner uint64
}

// Options configures variants of the owned/owner pairing beyond the
// base 1:1 cardinality check.
type Options struct {
	// RequireWithdrawalRequest additionally requires every owned cell
	// to carry the Nervos DAO type script with withdrawal-request
	// data (i.e. not the all-zero fresh-deposit sentinel), the shape
	// iCKB's own deployment of this predicate relies on.
	RequireWithdrawalRequest bool
}

// Validate runs the owned/owner pairing predicate against the
// currently executing script, with the base cardinality check only.
func Validate(adapter host.Adapter) error {
	return ValidateWithOptions(adapter, Options{})
}

// ValidateWithOptions runs the owned/owner pairing predicate with the
// given variant options applied.
func ValidateWithOptions(adapter host.Adapter, opts Options) error {
	own, err := adapter.Script()
	if err != nil {
		return err
	}
	emptyArgs, err := host.HasEmptyArgs(adapter)
	if err != nil {
		return err
	}
	if !emptyArgs {
		return vmerror.New(vmerror.NotEmptyArgs, "owned/owner script must carry empty args")
	}
	scriptHash, err := hashes.ScriptHash(own.CodeHash, hashes.ScriptHashType(own.HashType), own.Args)
	if err != nil {
		return err
	}
	daoHash, err := hashes.ScriptHash(hashes.DAOCodeHash, hashes.DAOHashType, nil)
	if err != nil {
		return err
	}

	for _, source := range []common.Source{common.SourceInput, common.SourceOutput} {
		if err := validateSource(adapter, source, [32]byte(scriptHash), [32]byte(daoHash), opts); err != nil {
			return err
		}
	}
	return nil
}

func validateSource(adapter host.Adapter, source common.Source, scriptHash, daoHash [32]byte, opts Options) error {
	byMetaPoint := make(map[common.MetaPoint]*accounting)

	n, err := adapter.CellCount(source)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		lockHash, err := adapter.CellLockHash(i, source)
		if err != nil {
			return err
		}
		typeHash, typeErr := adapter.CellTypeHash(i, source)
		hasOwnerType := typeErr == nil && typeHash == scriptHash

		isOwned := lockHash == scriptHash

		switch {
		case !isOwned && !hasOwnerType:
			continue

		case !isOwned && hasOwnerType:
			mp, err := extractOwnedMetaPoint(adapter, i, source)
			if err != nil {
				return err
			}
			entry(byMetaPoint, mp).owner++

		case isOwned && !hasOwnerType:
			if opts.RequireWithdrawalRequest {
				if err := checkWithdrawalRequest(adapter, i, source, daoHash); err != nil {
					return err
				}
			}
			mp, err := extractMetaPoint(adapter, i, source)
			if err != nil {
				return err
			}
			entry(byMetaPoint, mp).owned++

		default:
			return vmerror.New(vmerror.ScriptMisuse, "a cell cannot be both owned and owner")
		}
	}

	for _, a := range byMetaPoint {
		if a.owned != 1 || a.owner != 1 {
			return vmerror.New(vmerror.Mismatch, "owned and owner cells are not paired 1:1")
		}
	}
	return nil
}

// checkWithdrawalRequest enforces the withdrawal-receipt variant: an
// owned cell must carry the DAO type script with data other than the
// all-zero fresh-deposit sentinel.
func checkWithdrawalRequest(adapter host.Adapter, index int, source common.Source, daoHash [32]byte) error {
	typeHash, err := adapter.CellTypeHash(index, source)
	if err != nil {
		return vmerror.New(vmerror.NotWithdrawalRequest, "owned cell must carry the DAO type script")
	}
	if typeHash != daoHash {
		return vmerror.New(vmerror.NotWithdrawalRequest, "owned cell must carry the DAO type script")
	}
	data, err := adapter.CellData(index, source)
	if err != nil {
		return err
	}
	if len(data) != len(hashes.DAODepositData) {
		return vmerror.New(vmerror.NotWithdrawalRequest, "owned cell's DAO data is not header-number shaped")
	}
	if [8]byte(data) == hashes.DAODepositData {
		return vmerror.New(vmerror.NotWithdrawalRequest, "owned cell carries fresh-deposit data, not a withdrawal request")
	}
	return nil
}

func entry(m map[common.MetaPoint]*accounting, mp common.MetaPoint) *accounting {
	a, ok := m[mp]
	if !ok {
		a = &accounting{}
		m[mp] = a
	}
	return a
}

// extractMetaPoint derives a cell's own identity: its OutPoint if it
// is an input, or its position if it is an output.
func extractMetaPoint(adapter host.Adapter, index int, source common.Source) (common.MetaPoint, error) {
	if source == common.SourceOutput || source == common.SourceGroupOutput {
		return common.OutputMetaPoint(index), nil
	}
	op, err := adapter.InputOutPoint(index, source)
	if err != nil {
		return common.MetaPoint{}, err
	}
	return common.InputMetaPoint(op), nil
}

// extractOwnedMetaPoint reads the 4-byte little-endian signed distance
// stored in an owner cell's data and offsets the cell's own MetaPoint
// by it, yielding the MetaPoint its owned cell must be found at.
func extractOwnedMetaPoint(adapter host.Adapter, index int, source common.Source) (common.MetaPoint, error) {
	mp, err := extractMetaPoint(adapter, index, source)
	if err != nil {
		return common.MetaPoint{}, err
	}
	data, err := adapter.CellData(index, source)
	if err != nil {
		return common.MetaPoint{}, err
	}
	if len(data) != 4 {
		return common.MetaPoint{}, vmerror.New(vmerror.Encoding, "owner cell distance must be 4 bytes")
	}
	distance := int32(binary.LittleEndian.Uint32(data))
	return mp.Offset(distance), nil
}
