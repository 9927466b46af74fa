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

package host

import (
	"github.com/ickb-go/ickb-validator/internal/common"
	"github.com/ickb-go/ickb-validator/internal/hashes"
)

// Cell is one in-memory cell used by Fixture, playing the role a real
// CKB-VM would serve from the transaction and its dep headers.
type Cell struct {
	Capacity         uint64
	OccupiedCapacity uint64
	Lock             common.Script
	Type             *common.Script
	Data             []byte

	// OutPoint and HeaderAR are only meaningful for input cells.
	OutPoint common.OutPoint
	HeaderAR uint64
}

// Fixture is an Adapter backed by plain Go slices, standing in for
// the real VM syscalls in tests and in the reference CLI that
// validates a transaction described by a JSON fixture file.
type Fixture struct {
	Cells     map[common.Source][]Cell
	ownScript common.Script
}

// NewFixture builds an empty Fixture ready to have cells appended.
func NewFixture(script common.Script) *Fixture {
	return &Fixture{
		Cells:     make(map[common.Source][]Cell),
		ownScript: script,
	}
}

// Add appends a cell to source and returns its index.
func (f *Fixture) Add(source common.Source, cell Cell) int {
	f.Cells[source] = append(f.Cells[source], cell)
	return len(f.Cells[source]) - 1
}

func (f *Fixture) cell(index int, source common.Source) (Cell, error) {
	cells := f.Cells[source]
	if index < 0 || index >= len(cells) {
		return Cell{}, ErrIndexOutOfBound
	}
	return cells[index], nil
}

func (f *Fixture) CellCapacity(index int, source common.Source) (uint64, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return 0, err
	}
	return c.Capacity, nil
}

func (f *Fixture) CellOccupiedCapacity(index int, source common.Source) (uint64, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return 0, err
	}
	return c.OccupiedCapacity, nil
}

func (f *Fixture) CellLockHash(index int, source common.Source) ([32]byte, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return [32]byte{}, err
	}
	h, err := hashes.ScriptHash(c.Lock.CodeHash, hashes.ScriptHashType(c.Lock.HashType), c.Lock.Args)
	if err != nil {
		return [32]byte{}, err
	}
	return [32]byte(h), nil
}

func (f *Fixture) CellLockScript(index int, source common.Source) (common.Script, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return common.Script{}, err
	}
	return c.Lock, nil
}

func (f *Fixture) CellTypeHash(index int, source common.Source) ([32]byte, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return [32]byte{}, err
	}
	if c.Type == nil {
		return [32]byte{}, ErrItemMissing
	}
	h, err := hashes.ScriptHash(c.Type.CodeHash, hashes.ScriptHashType(c.Type.HashType), c.Type.Args)
	if err != nil {
		return [32]byte{}, err
	}
	return [32]byte(h), nil
}

func (f *Fixture) CellData(index int, source common.Source) ([]byte, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return nil, err
	}
	return c.Data, nil
}

func (f *Fixture) InputOutPoint(index int, source common.Source) (common.OutPoint, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return common.OutPoint{}, err
	}
	return c.OutPoint, nil
}

func (f *Fixture) InputHeaderAccumulatedRate(index int, source common.Source) (uint64, error) {
	c, err := f.cell(index, source)
	if err != nil {
		return 0, err
	}
	return c.HeaderAR, nil
}

func (f *Fixture) CellCount(source common.Source) (int, error) {
	return len(f.Cells[source]), nil
}

func (f *Fixture) Script() (common.Script, error) {
	return f.ownScript, nil
}

var _ Adapter = (*Fixture)(nil)
