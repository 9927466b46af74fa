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

// Package ickblogic implements the iCKB logic predicate: it proves
// that every iCKB unit appearing in a transaction's outputs (as UDT
// balance or as a not-yet-converted deposit receipt) is backed by an
// equal amount consumed from the inputs, so iCKB can never be minted
// or burned outside of an actual DAO deposit/withdrawal.
package ickblogic

import (
	"encoding/binary"
	"math/big"

	"github.com/ickb-go/ickb-validator/internal/classify"
	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/deposit"
	"github.com/ickb-go/ickb-validator/internal/hashes"
	"github.com/ickb-go/ickb-validator/internal/host"
	"github.com/ickb-go/ickb-validator/internal/vmerror"
)

// receiptDataSize is the on-chain layout of an iCKB receipt cell's
// data: a 4-byte union discriminant (always zero in this version),
// a 4-byte deposit quantity, and an 8-byte per-deposit CKB amount.
const (
	unionIDSize         = 4
	depositQuantitySize = 4
	depositAmountSize   = 8
	receiptDataSize     = unionIDSize + depositQuantitySize + depositAmountSize
	udtDataSize         = 16
)

// maxU64 bounds a single output UDT cell's balance: the 16-byte data
// field can encode a full u128, but no legitimate iCKB balance can
// exceed what a u64 holds, so anything past it signals double-wide
// data corruption rather than a real quantity.
var maxU64 = new(big.Int).SetUint64(^uint64(0))

// Validate runs the iCKB logic predicate against the currently
// executing script, returning nil when the transaction conserves
// iCKB value and a *vmerror.Error otherwise.
func Validate(adapter host.Adapter) error {
	emptyArgs, err := host.HasEmptyArgs(adapter)
	if err != nil {
		return err
	}
	if !emptyArgs {
		return vmerror.New(vmerror.NotEmptyArgs, "ickb-logic script must carry empty args")
	}

	own, err := adapter.Script()
	if err != nil {
		return err
	}
	logicHash, err := hashes.ScriptHash(own.CodeHash, hashes.ScriptHashType(own.HashType), own.Args)
	if err != nil {
		return err
	}
	ickbLogicHash := [32]byte(logicHash)

	outUDT, err := checkOutput(adapter, ickbLogicHash)
	if err != nil {
		return err
	}
	inUDT, inReceipts, inDeposits, err := checkInput(adapter, ickbLogicHash)
	if err != nil {
		return err
	}

	lhs := new(big.Int).Add(inUDT, inReceipts)
	rhs := new(big.Int).Add(outUDT, inDeposits)
	if lhs.Cmp(rhs) != 0 {
		return vmerror.New(vmerror.AmountMismatch, "input and output iCKB value do not match")
	}
	return nil
}

func checkInput(adapter host.Adapter, ickbLogicHash [32]byte) (udt, receipts, deposits *big.Int, err error) {
	udt, receipts, deposits = new(big.Int), new(big.Int), new(big.Int)

	entries, err := classify.All(adapter, common.SourceInput, ickbLogicHash)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, e := range entries {
		switch e.Type {
		case classify.Deposit:
			amount, err := extractUnusedCapacity(adapter, e.Index, e.Source)
			if err != nil {
				return nil, nil, nil, err
			}
			arM, err := adapter.InputHeaderAccumulatedRate(e.Index, e.Source)
			if err != nil {
				return nil, nil, nil, err
			}
			deposits.Add(deposits, deposit.ToICKB(amount, arM))

		case classify.Receipt:
			quantity, amount, err := extractReceiptData(adapter, e.Index, e.Source)
			if err != nil {
				return nil, nil, nil, err
			}
			arM, err := adapter.InputHeaderAccumulatedRate(e.Index, e.Source)
			if err != nil {
				return nil, nil, nil, err
			}
			perDeposit := deposit.ToICKB(amount, arM)
			total := new(big.Int).Mul(perDeposit, new(big.Int).SetUint64(uint64(quantity)))
			receipts.Add(receipts, total)

		case classify.UDT:
			amount, err := extractUDTAmount(adapter, e.Index, e.Source)
			if err != nil {
				return nil, nil, nil, err
			}
			udt.Add(udt, amount)
		}
	}
	return udt, receipts, deposits, nil
}

type accounting struct {
	deposited *big.Int
	receipted *big.Int
}

func checkOutput(adapter host.Adapter, ickbLogicHash [32]byte) (*big.Int, error) {
	byAmount := make(map[uint64]*accounting)
	totalUDT := new(big.Int)

	entries, err := classify.All(adapter, common.SourceOutput, ickbLogicHash)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		switch e.Type {
		case classify.Deposit:
			amount, err := extractUnusedCapacity(adapter, e.Index, e.Source)
			if err != nil {
				return nil, err
			}
			if amount < hashes.CKBMinimumUnoccupiedCapacityPerDeposit {
				return nil, vmerror.New(vmerror.DepositTooSmall, "deposit capacity below minimum")
			}
			if amount > hashes.CKBMaximumUnoccupiedCapacityPerDeposit {
				return nil, vmerror.New(vmerror.DepositTooBig, "deposit capacity above maximum")
			}
			a := entry(byAmount, amount)
			a.deposited.Add(a.deposited, big.NewInt(1))

		case classify.Receipt:
			quantity, amount, err := extractReceiptData(adapter, e.Index, e.Source)
			if err != nil {
				return nil, err
			}
			if quantity == 0 {
				return nil, vmerror.New(vmerror.EmptyReceipt, "receipt with zero deposit quantity")
			}
			a := entry(byAmount, amount)
			a.receipted.Add(a.receipted, new(big.Int).SetUint64(uint64(quantity)))

		case classify.UDT:
			amount, err := extractUDTAmount(adapter, e.Index, e.Source)
			if err != nil {
				return nil, err
			}
			if amount.Cmp(maxU64) > 0 {
				return nil, vmerror.New(vmerror.AmountUnreasonablyBig, "output udt balance exceeds u64::MAX")
			}
			totalUDT.Add(totalUDT, amount)
		}
	}

	for _, a := range byAmount {
		if a.deposited.Cmp(a.receipted) != 0 {
			return nil, vmerror.New(vmerror.ReceiptMismatch, "deposit and receipt counts diverge for some deposit size")
		}
	}
	return totalUDT, nil
}

func entry(m map[uint64]*accounting, amount uint64) *accounting {
	a, ok := m[amount]
	if !ok {
		a = &accounting{deposited: new(big.Int), receipted: new(big.Int)}
		m[amount] = a
	}
	return a
}

func extractUnusedCapacity(adapter host.Adapter, index int, source common.Source) (uint64, error) {
	capacity, err := adapter.CellCapacity(index, source)
	if err != nil {
		return 0, err
	}
	occupied, err := adapter.CellOccupiedCapacity(index, source)
	if err != nil {
		return 0, err
	}
	if occupied > capacity {
		return 0, vmerror.New(vmerror.Encoding, "occupied capacity exceeds declared capacity")
	}
	return capacity - occupied, nil
}

// extractReceiptData reads a receipt cell's data: a 4-byte union
// discriminant (required to be zero), a little-endian u32 deposit
// quantity, and a little-endian u64 per-deposit CKB amount.
func extractReceiptData(adapter host.Adapter, index int, source common.Source) (quantity uint32, amount uint64, err error) {
	data, err := adapter.CellData(index, source)
	if err != nil {
		return 0, 0, err
	}
	if len(data) != receiptDataSize {
		return 0, 0, vmerror.New(vmerror.Encoding, "receipt cell data has the wrong size")
	}
	for _, b := range data[:unionIDSize] {
		if b != 0 {
			return 0, 0, vmerror.New(vmerror.Encoding, "receipt union id must be zero")
		}
	}
	quantity = binary.LittleEndian.Uint32(data[unionIDSize : unionIDSize+depositQuantitySize])
	amount = binary.LittleEndian.Uint64(data[unionIDSize+depositQuantitySize:])
	return quantity, amount, nil
}

func extractUDTAmount(adapter host.Adapter, index int, source common.Source) (*big.Int, error) {
	data, err := adapter.CellData(index, source)
	if err != nil {
		return nil, err
	}
	if len(data) < udtDataSize {
		return nil, vmerror.New(vmerror.Encoding, "udt cell data shorter than a u128")
	}
	le := make([]byte, udtDataSize)
	copy(le, data[:udtDataSize])
	// reverse to big-endian for big.Int.SetBytes
	for i, j := 0, len(le)-1; i < j; i, j = i+1, j-1 {
		le[i], le[j] = le[j], le[i]
	}
	return new(big.Int).SetBytes(le), nil
}
