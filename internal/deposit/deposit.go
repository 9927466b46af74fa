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

// Package deposit converts a DAO deposit's locked CKB into the iCKB
// amount it is worth, applying the soft-cap haircut that makes very
// large single deposits slightly less capital efficient than many
// smaller ones. The conversion multiplies two u64-range quantities
// together before dividing, which can exceed 64 bits of precision, so
// it is carried out in math/big the way AMM-style rate math is done
// elsewhere in this codebase.
package deposit

import (
	"math/big"

	"github.com/ickb-go/ickb-validator/internal/hashes"
)

// ToICKB converts amount shannons of unused deposit capacity, locked
// under a header whose DAO accumulated rate is arM, into its iCKB
// value, applying a 10% haircut to the portion exceeding the soft cap
// per deposit.
//
//	ickb = amount * AR0 / arM
//
// arM must be non-zero; a zero accumulated rate is a malformed header
// and the caller should reject the transaction before calling this.
func ToICKB(amount uint64, arM uint64) *big.Int {
	ar0 := new(big.Int).SetUint64(hashes.GenesisAccumulatedRate)
	amt := new(big.Int).SetUint64(amount)
	arm := new(big.Int).SetUint64(arM)

	ickb := new(big.Int).Mul(amt, ar0)
	ickb.Quo(ickb, arm)

	softCap := new(big.Int).SetUint64(hashes.ICKBSoftCapPerDeposit)
	if ickb.Cmp(softCap) <= 0 {
		return ickb
	}

	excess := new(big.Int).Sub(ickb, softCap)
	haircut := new(big.Int).Quo(excess, big.NewInt(10))
	return ickb.Sub(ickb, haircut)
}
