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

package ickblogic_test

import (
	"encoding/binary"
	"testing"

	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/hashes"
	"github.com/ickb-go/ickb-validator/internal/host"
	"github.com/ickb-go/ickb-validator/internal/ickblogic"
)

var logicScript = common.Script{CodeHash: [32]byte{0xaa}, HashType: byte(hashes.HashTypeType)}

func udtData(amount uint64) []byte {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data[:8], amount)
	return data
}

func receiptData(quantity uint32, amount uint64) []byte {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[4:8], quantity)
	binary.LittleEndian.PutUint64(data[8:], amount)
	return data
}

func udtScriptFor(logicHash [32]byte) common.Script {
	args := append(append([]byte{}, logicHash[:]...), hashes.XUDTOwnerModeFlag[:]...)
	return common.Script{CodeHash: hashes.XUDTCodeHash, HashType: byte(hashes.XUDTHashType), Args: args}
}

func daoScript() common.Script {
	return common.Script{CodeHash: hashes.DAOCodeHash, HashType: byte(hashes.DAOHashType)}
}

func logicHashOf(t *testing.T, s common.Script) [32]byte {
	t.Helper()
	h, err := hashes.ScriptHash(s.CodeHash, hashes.ScriptHashType(s.HashType), s.Args)
	if err != nil {
		t.Fatalf("ScriptHash: %v", err)
	}
	return [32]byte(h)
}

func TestValidateFreshDepositWithMatchingReceipt(t *testing.T) {
	dao := daoScript()

	f := host.NewFixture(logicScript)
	amount := hashes.CKBMinimumUnoccupiedCapacityPerDeposit
	// Output: a brand new deposit plus the receipt that tracks it. No
	// inputs are needed: creating a deposit mints no iCKB value, it
	// only records a future claim.
	f.Add(common.SourceOutput, host.Cell{
		Lock:             logicScript,
		Type:             typePtr(dao),
		Data:             make([]byte, 8),
		Capacity:         amount,
		OccupiedCapacity: 0,
	})
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x01}},
		Type: typePtr(logicScript),
		Data: receiptData(1, amount),
	})

	if err := ickblogic.Validate(f); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsReceiptWithoutMatchingDeposit(t *testing.T) {
	f := host.NewFixture(logicScript)
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x01}},
		Type: typePtr(logicScript),
		Data: receiptData(1, hashes.CKBMinimumUnoccupiedCapacityPerDeposit),
	})

	if err := ickblogic.Validate(f); err == nil {
		t.Errorf("Validate() should reject a receipt with no backing deposit")
	}
}

func TestValidateRejectsValueMismatch(t *testing.T) {
	logicHash := logicHashOf(t, logicScript)
	udt := udtScriptFor(logicHash)

	f := host.NewFixture(logicScript)
	f.Add(common.SourceInput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x02}},
		Type: typePtr(udt),
		Data: udtData(100),
	})
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x02}},
		Type: typePtr(udt),
		Data: udtData(101),
	})

	if err := ickblogic.Validate(f); err == nil {
		t.Errorf("Validate() should reject a transaction that mints iCKB out of thin air")
	}
}

func TestValidateRejectsUnreasonablyBigUDTAmount(t *testing.T) {
	logicHash := logicHashOf(t, logicScript)
	udt := udtScriptFor(logicHash)

	// A u128 with a non-zero high 64 bits cannot be a real iCKB
	// balance and signals corrupted double-wide data.
	data := make([]byte, 16)
	data[8] = 1

	f := host.NewFixture(logicScript)
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x02}},
		Type: typePtr(udt),
		Data: data,
	})

	if err := ickblogic.Validate(f); err == nil {
		t.Errorf("Validate() should reject an output udt balance exceeding u64::MAX")
	}
}

func TestValidateRejectsNonEmptyArgs(t *testing.T) {
	script := common.Script{CodeHash: [32]byte{0xaa}, HashType: byte(hashes.HashTypeType), Args: []byte{0x01}}
	f := host.NewFixture(script)
	if err := ickblogic.Validate(f); err == nil {
		t.Errorf("Validate() should reject an ickb-logic script with non-empty args")
	}
}

func typePtr(s common.Script) *common.Script {
	return &s
}
