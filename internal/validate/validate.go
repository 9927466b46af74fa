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

// Package validate wires the three iCKB predicates into a single
// entry point that runs all of them that apply against a transaction
// fixture, the role the CKB-VM plays for a real deployed script: each
// predicate only runs once per distinct code hash present among the
// transaction's lock/type scripts.
package validate

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/config"
	"github.com/ickb-go/ickb-validator/internal/host"
	"github.com/ickb-go/ickb-validator/internal/ickblogic"
	"github.com/ickb-go/ickb-validator/internal/limitorder"
	"github.com/ickb-go/ickb-validator/internal/logging"
	"github.com/ickb-go/ickb-validator/internal/ownedowner"
)

// cellJSON is the on-disk shape of one fixture cell.
type cellJSON struct {
	Capacity         uint64      `json:"capacity"`
	OccupiedCapacity uint64      `json:"occupied_capacity"`
	Lock             scriptJSON  `json:"lock"`
	Type             *scriptJSON `json:"type,omitempty"`
	Data             string      `json:"data"`

	OutPointTxHash string `json:"out_point_tx_hash,omitempty"`
	OutPointIndex  uint32 `json:"out_point_index,omitempty"`
	HeaderAR       uint64 `json:"header_accumulated_rate,omitempty"`
}

type scriptJSON struct {
	CodeHash string `json:"code_hash"`
	HashType byte   `json:"hash_type"`
	Args     string `json:"args,omitempty"`
}

// txJSON is the fixture format the CLI accepts: a flat list of input
// and output cells. The scripts under test are not listed separately;
// Run finds them among the cells' lock and type scripts.
type txJSON struct {
	Inputs  []cellJSON `json:"inputs"`
	Outputs []cellJSON `json:"outputs"`
}

func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func decodeScript(s scriptJSON) (common.Script, error) {
	codeHash, err := decodeHex(s.CodeHash)
	if err != nil {
		return common.Script{}, fmt.Errorf("decoding code_hash: %w", err)
	}
	if len(codeHash) != 32 {
		return common.Script{}, fmt.Errorf("code_hash must be 32 bytes, got %d", len(codeHash))
	}
	args, err := decodeHex(s.Args)
	if err != nil {
		return common.Script{}, fmt.Errorf("decoding args: %w", err)
	}
	script := common.Script{HashType: s.HashType, Args: args}
	copy(script.CodeHash[:], codeHash)
	return script, nil
}

func decodeCell(c cellJSON) (host.Cell, error) {
	lock, err := decodeScript(c.Lock)
	if err != nil {
		return host.Cell{}, fmt.Errorf("decoding lock: %w", err)
	}
	cell := host.Cell{
		Capacity:         c.Capacity,
		OccupiedCapacity: c.OccupiedCapacity,
		Lock:             lock,
		HeaderAR:         c.HeaderAR,
	}
	if c.Type != nil {
		typeScript, err := decodeScript(*c.Type)
		if err != nil {
			return host.Cell{}, fmt.Errorf("decoding type: %w", err)
		}
		cell.Type = &typeScript
	}
	data, err := decodeHex(c.Data)
	if err != nil {
		return host.Cell{}, fmt.Errorf("decoding data: %w", err)
	}
	cell.Data = data
	if c.OutPointTxHash != "" {
		txHash, err := decodeHex(c.OutPointTxHash)
		if err != nil {
			return host.Cell{}, fmt.Errorf("decoding out_point_tx_hash: %w", err)
		}
		if len(txHash) != 32 {
			return host.Cell{}, fmt.Errorf("out_point_tx_hash must be 32 bytes, got %d", len(txHash))
		}
		copy(cell.OutPoint.TxHash[:], txHash)
		cell.OutPoint.Index = c.OutPointIndex
	}
	return cell, nil
}

// LoadFixture reads a JSON transaction fixture from path.
func LoadFixture(path string) (*txJSON, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var tx txJSON
	if err := json.Unmarshal(buf, &tx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &tx, nil
}

// buildFixture constructs a host.Fixture for one predicate run, scoped
// to the single script hash under test.
func buildFixture(tx *txJSON, script common.Script) (*host.Fixture, error) {
	f := host.NewFixture(script)
	for _, c := range tx.Inputs {
		cell, err := decodeCell(c)
		if err != nil {
			return nil, err
		}
		f.Add(common.SourceInput, cell)
	}
	for _, c := range tx.Outputs {
		cell, err := decodeCell(c)
		if err != nil {
			return nil, err
		}
		f.Add(common.SourceOutput, cell)
	}
	return f, nil
}

// collectScripts returns every distinct lock and type script present
// in the transaction, keyed by their code_hash so each predicate only
// runs once per deployment even if many cells share it.
func collectScripts(tx *txJSON) (map[[32]byte]common.Script, error) {
	seen := make(map[[32]byte]common.Script)
	add := func(s *scriptJSON) error {
		if s == nil {
			return nil
		}
		script, err := decodeScript(*s)
		if err != nil {
			return err
		}
		seen[script.CodeHash] = script
		return nil
	}
	for _, c := range tx.Inputs {
		if err := add(&c.Lock); err != nil {
			return nil, err
		}
		if err := add(c.Type); err != nil {
			return nil, err
		}
	}
	for _, c := range tx.Outputs {
		if err := add(&c.Lock); err != nil {
			return nil, err
		}
		if err := add(c.Type); err != nil {
			return nil, err
		}
	}
	return seen, nil
}

// Run executes every iCKB predicate whose code hash appears in the
// fixture's transaction, in the teacher's reference-CLI style: each
// predicate's own Validate is run exactly as a deployed copy of that
// script would see it, against the same transaction fixture. Which
// predicate a given script hash runs is decided by the active
// network's well-known deployment addresses, not by trial and error,
// matching how a real CKB-VM only ever loads the one binary a cell's
// code_hash names.
func Run(tx *txJSON) error {
	logger := logging.GetLogger()
	network, ok := config.GetNetwork()
	if !ok {
		return fmt.Errorf("no active network profile configured")
	}
	scripts, err := collectScripts(tx)
	if err != nil {
		return err
	}

	for _, script := range scripts {
		codeHash := hex.EncodeToString(script.CodeHash[:])
		var run func(host.Adapter) error
		var name string
		switch codeHash {
		case network.ICKBLogic.CodeHash:
			run, name = ickblogic.Validate, "iCKB logic"
		case network.OwnedOwner.CodeHash:
			run, name = func(a host.Adapter) error {
				return ownedowner.ValidateWithOptions(a, ownedowner.Options{RequireWithdrawalRequest: true})
			}, "owned/owner"
		case network.LimitOrder.CodeHash:
			run, name = limitorder.Validate, "limit order"
		default:
			// Not one of the iCKB predicates; nothing to validate.
			continue
		}

		f, err := buildFixture(tx, script)
		if err != nil {
			return err
		}
		logger.Debugf("validating %s script %s", name, codeHash)
		if err := run(f); err != nil {
			return fmt.Errorf("%s predicate rejected script %s: %w", name, codeHash, err)
		}
		logger.Infof("%s predicate satisfied for script %s", name, codeHash)
	}
	return nil
}
