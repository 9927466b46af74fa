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

// Package limitorder implements the self-custodial limit-order
// predicate. A limit order cell always travels with a companion
// "master" cell (an owner cell under the owned/owner scheme) that
// carries the user's real lock; the predicate here only ensures each
// order transitions through one of three valid lifecycle steps: Mint
// (a fresh order appears, paired with its master), Melt (an order is
// closed back to its master), or Match (an order is partially or
// fully filled by a taker, without losing value to either side).
package limitorder

import (
	"encoding/binary"

	"github.com/ickb-go/ickb-validator/internal/c256"
	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/hashes"
	"github.com/ickb-go/ickb-validator/internal/host"
	"github.com/ickb-go/ickb-validator/internal/vmerror"
)

// action is the order cell's requested transition, read from the
// 4 bytes of its data that follow the 16-byte UDT amount.
type action uint32

const (
	actionMint action = iota
	actionMatch
)

const (
	udtSize            = 16
	actionSize         = 4
	txHashSize         = 32
	indexSize          = 4
	ckbMulSize         = 8
	udtMulSize         = 8
	ckbMinMatchLogSize = 1
	orderSize          = actionSize + txHashSize + indexSize + 2*(ckbMulSize+udtMulSize) + ckbMinMatchLogSize
	orderDataSize      = udtSize + orderSize
)

// Ratio is a conversion rate between CKB and UDT, expressed as the
// two multipliers a limit order's value check compares
// ckb*ckbMul + udt*udtMul against. Valid is false for a null ratio
// (both multipliers zero).
type Ratio struct {
	Valid  bool
	CKBMul c256.C256
	UDTMul c256.C256
}

// Info is the immutable configuration an order cell carries: which
// UDT it trades, the rate(s) it accepts in either direction, and the
// minimum CKB-equivalent size a single match must move.
type Info struct {
	UDTHash     [32]byte
	CKBToUDT    Ratio
	UDTToCKB    Ratio
	CKBMinMatch c256.C256
}

func (a Info) Equal(b Info) bool {
	return a.UDTHash == b.UDTHash &&
		ratioEqual(a.CKBToUDT, b.CKBToUDT) &&
		ratioEqual(a.UDTToCKB, b.UDTToCKB) &&
		a.CKBMinMatch.Cmp(b.CKBMinMatch) == 0
}

func ratioEqual(a, b Ratio) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.CKBMul.Cmp(b.CKBMul) == 0 && a.UDTMul.Cmp(b.UDTMul) == 0
}

// Data is a limit order cell's full decoded state.
type Data struct {
	CKB           c256.C256
	UDT           c256.C256
	CKBUnoccupied c256.C256
	Info          Info
}

type slot struct {
	data      *Data
	hasMaster bool
}

// Validate runs the limit-order predicate against the currently
// executing script.
func Validate(adapter host.Adapter) error {
	emptyArgs, err := host.HasEmptyArgs(adapter)
	if err != nil {
		return err
	}
	if !emptyArgs {
		return vmerror.New(vmerror.NotEmptyArgs, "limit-order script must carry empty args")
	}

	own, err := adapter.Script()
	if err != nil {
		return err
	}
	scriptHashFull, err := hashes.ScriptHash(own.CodeHash, hashes.ScriptHashType(own.HashType), own.Args)
	if err != nil {
		return err
	}
	scriptHash := [32]byte(scriptHashFull)

	byMetaPoint := make(map[common.MetaPoint][2]*slot)

	for sourceIdx, source := range []common.Source{common.SourceInput, common.SourceOutput} {
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
			isMaster := typeErr == nil && typeHash == scriptHash
			isOrder := lockHash == scriptHash

			switch {
			case !isOrder && !isMaster:
				continue

			case !isOrder && isMaster:
				mp, err := extractMetaPoint(adapter, i, source)
				if err != nil {
					return err
				}
				pair := pairFor(byMetaPoint, mp)
				if pair[sourceIdx].hasMaster {
					return vmerror.New(vmerror.DuplicatedMaster, "more than one master cell for the same order")
				}
				pair[sourceIdx].hasMaster = true

			case isOrder && !isMaster:
				mp, data, err := extractOrder(adapter, i, source)
				if err != nil {
					return err
				}
				pair := pairFor(byMetaPoint, mp)
				if pair[sourceIdx].data != nil {
					return vmerror.New(vmerror.SameMaster, "two order cells reference the same master")
				}
				pair[sourceIdx].data = &data

			default:
				return vmerror.New(vmerror.ScriptMisuse, "a cell cannot be both an order and its own master")
			}
		}
	}

	for _, pair := range byMetaPoint {
		in, out := pair[0], pair[1]
		switch {
		case in.data == nil && !in.hasMaster && out.data != nil && out.hasMaster:
			// Mint: a fresh order appears alongside its master.

		case in.data != nil && in.hasMaster && out.data == nil && !out.hasMaster:
			// Melt: an order is closed back into its master.

		case in.data != nil && !in.hasMaster && out.data != nil && !out.hasMaster:
			if err := validateMatch(*in.data, *out.data); err != nil {
				return err
			}

		default:
			return vmerror.New(vmerror.InvalidConfiguration, "order cell did not transition through a valid lifecycle step")
		}
	}

	return nil
}

func pairFor(m map[common.MetaPoint][2]*slot, mp common.MetaPoint) [2]*slot {
	pair, ok := m[mp]
	if !ok {
		pair = [2]*slot{{}, {}}
		m[mp] = pair
	}
	return pair
}

func validateMatch(in, out Data) error {
	if !in.Info.Equal(out.Info) {
		return vmerror.New(vmerror.DifferentInfo, "matched orders do not share the same configuration")
	}

	var isCKBToUDT bool
	var ratio Ratio
	switch {
	case in.Info.CKBToUDT.Valid && in.CKB.Cmp(out.CKB) > 0 && !(in.UDT.Cmp(out.UDT) > 0):
		isCKBToUDT = true
		ratio = in.Info.CKBToUDT
	case !(in.CKB.Cmp(out.CKB) > 0) && in.Info.UDTToCKB.Valid && in.UDT.Cmp(out.UDT) > 0:
		isCKBToUDT = false
		ratio = in.Info.UDTToCKB
	default:
		return vmerror.New(vmerror.InvalidMatch, "neither a ckb-to-udt nor a udt-to-ckb match shape")
	}

	inValue := in.CKB.Mul(ratio.CKBMul).Add(in.UDT.Mul(ratio.UDTMul))
	outValue := out.CKB.Mul(ratio.CKBMul).Add(out.UDT.Mul(ratio.UDTMul))
	if inValue.Cmp(outValue) > 0 {
		return vmerror.New(vmerror.DecreasingValue, "match decreased the order's total value")
	}

	if isCKBToUDT {
		if in.CKBUnoccupied.IsZero() {
			return vmerror.New(vmerror.AttemptToChangeFulfilled, "order is already fulfilled")
		}
		if !out.CKBUnoccupied.IsZero() && in.CKB.LessThan(out.CKB.Add(in.Info.CKBMinMatch)) {
			return vmerror.New(vmerror.InsufficientMatch, "partial match below the minimum match size")
		}
	} else {
		if in.UDT.IsZero() {
			return vmerror.New(vmerror.AttemptToChangeFulfilled, "order is already fulfilled")
		}
		minInCKBUnits := in.Info.CKBMinMatch.Mul(ratio.CKBMul)
		if !out.UDT.IsZero() && in.UDT.Mul(ratio.UDTMul).LessThan(out.UDT.Mul(ratio.UDTMul).Add(minInCKBUnits)) {
			return vmerror.New(vmerror.InsufficientMatch, "partial match below the minimum match size")
		}
	}

	return nil
}

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

func extractOrder(adapter host.Adapter, index int, source common.Source) (common.MetaPoint, Data, error) {
	raw, err := adapter.CellData(index, source)
	if err != nil {
		return common.MetaPoint{}, Data{}, err
	}
	if len(raw) != orderDataSize {
		return common.MetaPoint{}, Data{}, vmerror.New(vmerror.Encoding, "order cell data has the wrong size")
	}

	cursor := raw
	take := func(n int) []byte {
		field := cursor[:n]
		cursor = cursor[n:]
		return field
	}

	udtAmount := le128(take(udtSize))

	act := action(binary.LittleEndian.Uint32(take(actionSize)))
	if act != actionMint && act != actionMatch {
		return common.MetaPoint{}, Data{}, vmerror.New(vmerror.InvalidAction, "unknown order action")
	}

	rawTxHash := take(txHashSize)
	rawIndex := take(indexSize)

	var masterMetaPoint common.MetaPoint
	if act == actionMint {
		for _, b := range rawTxHash {
			if b != 0 {
				return common.MetaPoint{}, Data{}, vmerror.New(vmerror.NonZeroPadding, "mint action must zero-pad its outpoint field")
			}
		}
		distance := int32(binary.LittleEndian.Uint32(rawIndex))
		own, err := extractMetaPoint(adapter, index, source)
		if err != nil {
			return common.MetaPoint{}, Data{}, err
		}
		masterMetaPoint = own.Offset(distance)
	} else {
		var txHash [32]byte
		copy(txHash[:], rawTxHash)
		masterMetaPoint = common.MetaPoint{
			HasTxHash: true,
			TxHash:    txHash,
			Index:     int64(binary.LittleEndian.Uint32(rawIndex)),
		}
	}

	loadRatio := func() (Ratio, error) {
		ckbMul := c256.FromUint64(binary.LittleEndian.Uint64(take(ckbMulSize)))
		udtMul := c256.FromUint64(binary.LittleEndian.Uint64(take(udtMulSize)))
		switch {
		case !ckbMul.IsZero() && !udtMul.IsZero():
			return Ratio{Valid: true, CKBMul: ckbMul, UDTMul: udtMul}, nil
		case ckbMul.IsZero() && udtMul.IsZero():
			return Ratio{}, nil
		default:
			return Ratio{}, vmerror.New(vmerror.InvalidRatio, "ratio multipliers must be both zero or both non-zero")
		}
	}

	ckbToUDT, err := loadRatio()
	if err != nil {
		return common.MetaPoint{}, Data{}, err
	}
	udtToCKB, err := loadRatio()
	if err != nil {
		return common.MetaPoint{}, Data{}, err
	}

	logN := take(ckbMinMatchLogSize)[0]
	if logN > 64 {
		return common.MetaPoint{}, Data{}, vmerror.New(vmerror.InvalidCkbMinMatchLog, "ckb min match log exceeds 64")
	}
	ckbMinMatch := powerOfTwo(logN)

	switch {
	case ckbToUDT.Valid && udtToCKB.Valid:
		if ckbToUDT.CKBMul.Mul(udtToCKB.UDTMul).LessThan(ckbToUDT.UDTMul.Mul(udtToCKB.CKBMul)) {
			return common.MetaPoint{}, Data{}, vmerror.New(vmerror.ConcaveRatio, "round-tripping through both ratios would lose value")
		}
	case !ckbToUDT.Valid && !udtToCKB.Valid:
		return common.MetaPoint{}, Data{}, vmerror.New(vmerror.BothRatioNull, "an order must accept at least one trade direction")
	}

	capacity, err := adapter.CellCapacity(index, source)
	if err != nil {
		return common.MetaPoint{}, Data{}, err
	}
	occupied, err := adapter.CellOccupiedCapacity(index, source)
	if err != nil {
		return common.MetaPoint{}, Data{}, err
	}
	ckb := c256.FromUint64(capacity)
	ckbUnoccupied := ckb.Sub(c256.FromUint64(occupied))

	udtHash, err := adapter.CellTypeHash(index, source)
	if err != nil {
		return common.MetaPoint{}, Data{}, vmerror.New(vmerror.MissingUdtType, "order cell must carry a udt type script")
	}

	return masterMetaPoint, Data{
		CKB:           ckb,
		UDT:           udtAmount,
		CKBUnoccupied: ckbUnoccupied,
		Info: Info{
			UDTHash:     udtHash,
			CKBToUDT:    ckbToUDT,
			UDTToCKB:    udtToCKB,
			CKBMinMatch: ckbMinMatch,
		},
	}, nil
}

func le128(b []byte) c256.C256 {
	lo := binary.LittleEndian.Uint64(b[:8])
	hi := binary.LittleEndian.Uint64(b[8:])
	return c256.FromBig128(hi, lo)
}

func powerOfTwo(n byte) c256.C256 {
	if n == 64 {
		return c256.FromBig128(1, 0)
	}
	return c256.FromUint64(uint64(1) << n)
}
