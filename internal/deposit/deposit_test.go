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

package deposit_test

import (
	"math/big"
	"testing"

	"github.com/ickb-go/ickb-validator/internal/deposit"
	"github.com/ickb-go/ickb-validator/internal/hashes"
)

func TestToICKBAtGenesisRateIsIdentity(t *testing.T) {
	amount := uint64(1_000 * 100_000_000)
	got := deposit.ToICKB(amount, hashes.GenesisAccumulatedRate)
	want := new(big.Int).SetUint64(amount)
	if got.Cmp(want) != 0 {
		t.Errorf("ToICKB at genesis rate = %s, want %s", got, want)
	}
}

func TestToICKBAppliesSoftCapHaircut(t *testing.T) {
	// A deposit worth exactly twice the soft cap at the genesis rate.
	amount := hashes.ICKBSoftCapPerDeposit * 2
	got := deposit.ToICKB(amount, hashes.GenesisAccumulatedRate)

	softCap := new(big.Int).SetUint64(hashes.ICKBSoftCapPerDeposit)
	excess := new(big.Int).Sub(new(big.Int).SetUint64(amount), softCap)
	haircut := new(big.Int).Quo(excess, big.NewInt(10))
	want := new(big.Int).Sub(new(big.Int).SetUint64(amount), haircut)

	if got.Cmp(want) != 0 {
		t.Errorf("ToICKB with haircut = %s, want %s", got, want)
	}
	if got.Cmp(new(big.Int).SetUint64(amount)) >= 0 {
		t.Errorf("a deposit above the soft cap should be worth less than its raw CKB amount")
	}
}

func TestToICKBHigherRateYieldsLessICKB(t *testing.T) {
	amount := uint64(1_000 * 100_000_000)
	atGenesis := deposit.ToICKB(amount, hashes.GenesisAccumulatedRate)
	atDoubled := deposit.ToICKB(amount, hashes.GenesisAccumulatedRate*2)
	if atDoubled.Cmp(atGenesis) >= 0 {
		t.Errorf("a higher accumulated rate should yield fewer iCKB for the same deposit")
	}
}
