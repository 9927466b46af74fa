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

// Package hashes holds the well-known script identities and protocol
// constants a deployment needs to recognize DAO, xUDT, and iCKB cells,
// plus the blake2b derivation used to turn a lock/type script into the
// 32-byte hash CKB uses for cell classification.
package hashes

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ScriptHashType mirrors ckb_types::core::ScriptHashType.
type ScriptHashType uint8

const (
	HashTypeData  ScriptHashType = 0
	HashTypeType  ScriptHashType = 1
	HashTypeData1 ScriptHashType = 2
)

// hashPersonalization is CKB's fixed blake2b personalization string,
// used for every script/cell hash derived on-chain.
var hashPersonalization = []byte("ckb-default-hash")

// Hash256 is a 32-byte blake2b-256 digest.
type Hash256 [32]byte

func mustHex(s string) Hash256 {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		panic("hashes: invalid well-known hash literal: " + s)
	}
	var h Hash256
	copy(h[:], b)
	return h
}

// Well-known Nervos DAO script identity (mainnet and testnet share it).
var (
	DAOCodeHash = mustHex("82d76d1b75fe2fd9a27dfbaa65a039221a380d76c926f378d3f81cf3e7e13f2e")
	DAOHashType = HashTypeType
)

// Well-known xUDT script identity.
var (
	XUDTCodeHash = mustHex("50bd8d6680b8b9cf98b73f3c08faf8b2a21914311954118ad6609be6e78a1b95")
	XUDTHashType = HashTypeData1
)

// XUDTOwnerModeFlag marks the 4-byte suffix of an xUDT args blob that
// grants the owner-mode bypass, per RFC 0052.
var XUDTOwnerModeFlag = [4]byte{0, 0, 0, 0x80}

// Protocol-level constants from the DAO and iCKB deposit rules.
const (
	// GenesisAccumulatedRate is the DAO accumulated rate (AR) carried
	// by the genesis block header (AR0), the numerator deposit.ToICKB
	// normalizes every deposit's value against.
	GenesisAccumulatedRate uint64 = 10_000_000_000_000_000

	// CKBMinimumUnoccupiedCapacityPerDeposit is the smallest amount of
	// free (non-occupied) capacity a single DAO deposit may lock up.
	CKBMinimumUnoccupiedCapacityPerDeposit uint64 = 1_000 * 100_000_000

	// CKBMaximumUnoccupiedCapacityPerDeposit is the largest amount of
	// free capacity a single DAO deposit may lock up.
	CKBMaximumUnoccupiedCapacityPerDeposit uint64 = 1_000_000 * 100_000_000

	// ICKBSoftCapPerDeposit is the AR0-normalized deposit size above
	// which the 10% haircut in deposit.ToICKB applies.
	ICKBSoftCapPerDeposit uint64 = 100_000 * 100_000_000
)

// DAODepositData is the 8 zero bytes an output cell's data must equal
// to be recognized as a fresh DAO deposit rather than a withdrawal
// request (which instead stores the deposit header's block number).
var DAODepositData = [8]byte{}

// ScriptHash computes the blake2b-256 hash CKB uses to identify a
// script: blake2b over the molecule-packed Script table under CKB's
// fixed "ckb-default-hash" personalization.
func ScriptHash(codeHash [32]byte, hashType ScriptHashType, args []byte) (Hash256, error) {
	h, err := blake2b.New256WithPersonalization(hashPersonalization, nil)
	if err != nil {
		return Hash256{}, err
	}
	// Packed Script table: total size, the three field offsets, then
	// code_hash, hash_type, and args as a u32 length-prefixed byte
	// vector, all integers little-endian.
	le32 := func(v int) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)} }
	h.Write(le32(53 + len(args)))
	h.Write(le32(16))
	h.Write(le32(48))
	h.Write(le32(49))
	h.Write(codeHash[:])
	h.Write([]byte{byte(hashType)})
	h.Write(le32(len(args)))
	h.Write(args)
	var out Hash256
	copy(out[:], h.Sum(nil))
	return out, nil
}
