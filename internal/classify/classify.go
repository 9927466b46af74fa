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

// Package classify walks a transaction's cells and tags each one as a
// DAO deposit, an iCKB receipt, an iCKB UDT cell, or unknown, the same
// three-way split the iCKB logic predicate needs before it can check
// value conservation.
package classify

import (
	"errors"

	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/hashes"
	"github.com/ickb-go/ickb-validator/internal/host"
	"github.com/ickb-go/ickb-validator/internal/vmerror"
)

// CellType is the role a cell plays within the iCKB protocol.
type CellType int

const (
	Unknown CellType = iota
	Deposit
	Receipt
	UDT
)

func (c CellType) String() string {
	switch c {
	case Deposit:
		return "deposit"
	case Receipt:
		return "receipt"
	case UDT:
		return "udt"
	default:
		return "unknown"
	}
}

// Entry is one classified cell.
type Entry struct {
	Index  int
	Source common.Source
	Type   CellType
}

// scriptKind is the internal three-way split of well-known script
// hashes, mirroring the Rust classifier's private ScriptType enum.
type scriptKind int

const (
	kindNone scriptKind = iota
	kindUnknown
	kindDAODeposit
	kindICKBLogic
	kindICKBUDT
)

// Classifier lazily classifies the cells of one source, deriving the
// well-known DAO and iCKB-UDT script hashes once up front from the
// executing iCKB-logic script's own hash.
type Classifier struct {
	adapter       host.Adapter
	source        common.Source
	index         int
	ickbLogicHash [32]byte
	ickbUDTHash   [32]byte
	daoHash       [32]byte
}

// New derives the well-known hashes and returns a Classifier ready to
// walk source, given the hash of the currently executing iCKB-logic
// script (ickbLogicHash).
func New(adapter host.Adapter, source common.Source, ickbLogicHash [32]byte) (*Classifier, error) {
	udtArgs := make([]byte, 0, 32+4)
	udtArgs = append(udtArgs, ickbLogicHash[:]...)
	udtArgs = append(udtArgs, hashes.XUDTOwnerModeFlag[:]...)
	udtHash, err := hashes.ScriptHash(hashes.XUDTCodeHash, hashes.XUDTHashType, udtArgs)
	if err != nil {
		return nil, err
	}

	daoHash, err := hashes.ScriptHash(hashes.DAOCodeHash, hashes.DAOHashType, nil)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		adapter:       adapter,
		source:        source,
		ickbLogicHash: ickbLogicHash,
		ickbUDTHash:   [32]byte(udtHash),
		daoHash:       [32]byte(daoHash),
	}, nil
}

// Next returns the next classified cell, or (Entry{}, false, nil) once
// the source is exhausted. A non-nil error reports a protocol misuse
// the caller must reject the whole transaction for.
func (c *Classifier) Next() (Entry, bool, error) {
	lockHash, err := c.adapter.CellLockHash(c.index, c.source)
	if errors.Is(err, host.ErrIndexOutOfBound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	typeHash, typeErr := c.adapter.CellTypeHash(c.index, c.source)
	hasType := typeErr == nil
	if typeErr != nil && !errors.Is(typeErr, host.ErrItemMissing) {
		return Entry{}, false, typeErr
	}

	lockKind, err := c.scriptKind(lockHash)
	if err != nil {
		return Entry{}, false, err
	}
	typeKind := kindNone
	if hasType {
		typeKind, err = c.scriptKind(typeHash)
		if err != nil {
			return Entry{}, false, err
		}
	}

	index := c.index
	c.index++

	switch {
	case lockKind == kindDAODeposit, lockKind == kindICKBUDT, lockKind == kindNone:
		return Entry{}, false, vmerror.New(vmerror.ScriptMisuse, "unexpected cell in ickb-logic group")

	case lockKind == kindICKBLogic && typeKind == kindDAODeposit:
		return Entry{Index: index, Source: c.source, Type: Deposit}, true, nil

	case lockKind == kindICKBLogic:
		return Entry{}, false, vmerror.New(vmerror.ScriptMisuse, "ickb-logic lock without a deposit type script")

	case typeKind == kindICKBLogic:
		return Entry{Index: index, Source: c.source, Type: Receipt}, true, nil

	case typeKind == kindICKBUDT:
		return Entry{Index: index, Source: c.source, Type: UDT}, true, nil

	default:
		return Entry{Index: index, Source: c.source, Type: Unknown}, true, nil
	}
}

// scriptKind classifies a single hash, reducing a DAO-shaped hash to
// kindUnknown when the candidate cell is actually a withdrawal
// request or some other non-deposit DAO interaction.
func (c *Classifier) scriptKind(h [32]byte) (scriptKind, error) {
	if h == c.daoHash {
		isDeposit, err := isDepositCell(c.adapter, c.index, c.source)
		if err != nil {
			return kindUnknown, err
		}
		if isDeposit {
			return kindDAODeposit, nil
		}
		return kindUnknown, nil
	}
	if h == c.ickbUDTHash {
		return kindICKBUDT, nil
	}
	if h == c.ickbLogicHash {
		return kindICKBLogic, nil
	}
	return kindUnknown, nil
}

// isDepositCell reports whether the DAO cell at index/source carries
// the all-zero 8-byte deposit marker rather than a withdrawal
// request's block-number payload.
func isDepositCell(adapter host.Adapter, index int, source common.Source) (bool, error) {
	data, err := adapter.CellData(index, source)
	if err != nil {
		return false, err
	}
	if len(data) != len(hashes.DAODepositData) {
		return false, nil
	}
	for i, b := range data {
		if b != hashes.DAODepositData[i] {
			return false, nil
		}
	}
	return true, nil
}

// All drains the classifier and returns every entry, or the first
// error encountered.
func All(adapter host.Adapter, source common.Source, ickbLogicHash [32]byte) ([]Entry, error) {
	c, err := New(adapter, source, ickbLogicHash)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for {
		e, ok, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, e)
	}
}
