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

// Package vmerror defines the numeric exit-code taxonomy the
// predicates report, mirroring the #[repr(i8)] Error enums of the
// on-chain scripts so fixture tests can assert on the same codes a
// deployed script would return.
package vmerror

// Code is a predicate exit code. Code 0 means success, matching a
// CKB-VM script's exit status convention.
type Code int8

// Sys-level codes, common to every predicate, mirroring
// ckb_std::error::SysError's conversion into the local Error enum.
const (
	Success Code = 0

	IndexOutOfBound Code = iota
	ItemMissing
	LengthNotEnough
	Encoding
)

// Script-shape, classification, and limit-order codes.
const (
	NotEmptyArgs Code = iota + 5
	DuplicatedMaster
	InvalidAction
	NonZeroPadding
	InvalidRatio
	InvalidCkbMinMatchLog
	ConcaveRatio
	BothRatioNull
	MissingUdtType
	SameMaster
	ScriptMisuse
	DifferentInfo
	InvalidMatch
	DecreasingValue
	AttemptToChangeFulfilled
	InsufficientMatch
	InvalidConfiguration
)

// Owned/owner-pairing-specific codes, numbered in their own range
// since the two predicates never run in the same error context.
const (
	NotWithdrawalRequest Code = iota + 25
	Mismatch
)

// iCKB-logic value-conservation codes.
const (
	AmountMismatch Code = iota + 30
	DepositTooSmall
	DepositTooBig
	EmptyReceipt
	ReceiptMismatch
	AmountUnreasonablyBig
)

// Error wraps a Code with a descriptive message, implementing the
// error interface so predicate functions can return ordinary Go
// errors while still letting callers recover the numeric code via
// errors.As.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an *Error for the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case IndexOutOfBound:
		return "index out of bound"
	case ItemMissing:
		return "item missing"
	case LengthNotEnough:
		return "length not enough"
	case Encoding:
		return "encoding"
	case NotEmptyArgs:
		return "not empty args"
	case DuplicatedMaster:
		return "duplicated master"
	case InvalidAction:
		return "invalid action"
	case NonZeroPadding:
		return "non zero padding"
	case InvalidRatio:
		return "invalid ratio"
	case InvalidCkbMinMatchLog:
		return "invalid ckb min match log"
	case ConcaveRatio:
		return "concave ratio"
	case BothRatioNull:
		return "both ratio null"
	case MissingUdtType:
		return "missing udt type"
	case SameMaster:
		return "same master"
	case ScriptMisuse:
		return "script misuse"
	case DifferentInfo:
		return "different info"
	case InvalidMatch:
		return "invalid match"
	case DecreasingValue:
		return "decreasing value"
	case AttemptToChangeFulfilled:
		return "attempt to change fulfilled"
	case InsufficientMatch:
		return "insufficient match"
	case InvalidConfiguration:
		return "invalid configuration"
	case NotWithdrawalRequest:
		return "not withdrawal request"
	case Mismatch:
		return "mismatch"
	case AmountMismatch:
		return "amount mismatch"
	case DepositTooSmall:
		return "deposit too small"
	case DepositTooBig:
		return "deposit too big"
	case EmptyReceipt:
		return "empty receipt"
	case ReceiptMismatch:
		return "receipt mismatch"
	case AmountUnreasonablyBig:
		return "amount unreasonably big"
	default:
		return "unknown error"
	}
}
