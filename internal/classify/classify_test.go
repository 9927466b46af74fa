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

package classify_test

import (
	"testing"

	"github.com/ickb-go/ickb-validator/internal/classify"
	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/hashes"
	"github.com/ickb-go/ickb-validator/internal/host"
)

var ickbLogicScript = common.Script{CodeHash: [32]byte{0xaa}, HashType: byte(hashes.HashTypeType)}

func mustHash(t *testing.T, s common.Script) [32]byte {
	t.Helper()
	h, err := hashes.ScriptHash(s.CodeHash, hashes.ScriptHashType(s.HashType), s.Args)
	if err != nil {
		t.Fatalf("ScriptHash: %v", err)
	}
	return [32]byte(h)
}

func TestClassifyDepositAndReceipt(t *testing.T) {
	logicHash := mustHash(t, ickbLogicScript)

	udtArgs := append(append([]byte{}, logicHash[:]...), hashes.XUDTOwnerModeFlag[:]...)
	udtScript := common.Script{CodeHash: hashes.XUDTCodeHash, HashType: byte(hashes.XUDTHashType), Args: udtArgs}
	daoScript := common.Script{CodeHash: hashes.DAOCodeHash, HashType: byte(hashes.DAOHashType)}

	f := host.NewFixture(ickbLogicScript)

	// A deposit: ickb-logic lock, DAO type, zeroed data.
	f.Add(common.SourceOutput, host.Cell{
		Lock: ickbLogicScript,
		Type: &daoScript,
		Data: make([]byte, 8),
	})
	// A receipt: some other lock, ickb-logic type.
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x01}},
		Type: &ickbLogicScript,
	})
	// A UDT cell.
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x02}},
		Type: &udtScript,
	})
	// An unrelated cell.
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x03}},
	})

	entries, err := classify.All(f, common.SourceOutput, logicHash)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	want := []classify.CellType{classify.Deposit, classify.Receipt, classify.UDT, classify.Unknown}
	for i, e := range entries {
		if e.Type != want[i] {
			t.Errorf("entry %d type = %s, want %s", i, e.Type, want[i])
		}
	}
}

func TestClassifyRejectsBareIckbUDTLock(t *testing.T) {
	logicHash := mustHash(t, ickbLogicScript)
	udtArgs := append(append([]byte{}, logicHash[:]...), hashes.XUDTOwnerModeFlag[:]...)
	udtScript := common.Script{CodeHash: hashes.XUDTCodeHash, HashType: byte(hashes.XUDTHashType), Args: udtArgs}

	f := host.NewFixture(ickbLogicScript)
	f.Add(common.SourceOutput, host.Cell{Lock: udtScript})

	if _, err := classify.All(f, common.SourceOutput, logicHash); err == nil {
		t.Errorf("expected an error when the iCKB UDT script appears as a lock script")
	}
}

func TestClassifyDepositWithoutIckbLogicLockIsUnknown(t *testing.T) {
	logicHash := mustHash(t, ickbLogicScript)
	daoScript := common.Script{CodeHash: hashes.DAOCodeHash, HashType: byte(hashes.DAOHashType)}

	f := host.NewFixture(ickbLogicScript)
	f.Add(common.SourceOutput, host.Cell{
		Lock: common.Script{CodeHash: [32]byte{0x99}},
		Type: &daoScript,
		Data: make([]byte, 8),
	})

	entries, err := classify.All(f, common.SourceOutput, logicHash)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != classify.Unknown {
		t.Errorf("a DAO deposit under a foreign lock should classify as unknown, got %+v", entries)
	}
}
