// Copyright 2023 Blink Labs Software
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

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ickb-go/ickb-validator/internal/config"
	"github.com/ickb-go/ickb-validator/internal/logging"
)

const (
	chainsyncCursorKey = "chainsync_cursor"
	headerRatePrefix   = "header_ar_"
)

// Storage persists the validator's only piece of durable state: a
// cache mapping a header's block number to its Nervos DAO accumulated
// rate. The validation path in internal/validate neither reads nor
// writes it.
type Storage struct {
	db *badger.DB
}

var globalStorage = &Storage{}

func (s *Storage) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.Storage.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	// TODO: setup automatic GC for Badger
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) UpdateCursor(blockNumber uint64, blockHash string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		val := fmt.Sprintf("%d,%s", blockNumber, blockHash)
		return txn.Set([]byte(chainsyncCursorKey), []byte(val))
	})
	return err
}

func headerRateKey(blockNumber uint64) []byte {
	key := make([]byte, len(headerRatePrefix)+8)
	copy(key, headerRatePrefix)
	binary.BigEndian.PutUint64(key[len(headerRatePrefix):], blockNumber)
	return key
}

// PutAccumulatedRate records the DAO accumulated rate carried by the
// header at blockNumber.
func (s *Storage) PutAccumulatedRate(blockNumber uint64, rate uint64) error {
	logger := logging.GetLogger()
	logger.Debugf("caching accumulated rate %d for block %d", rate, blockNumber)
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, rate)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(headerRateKey(blockNumber), val)
	})
}

// GetAccumulatedRate looks up a previously cached accumulated rate.
// The second return value is false if the block number has not been
// cached yet.
func (s *Storage) GetAccumulatedRate(blockNumber uint64) (uint64, bool, error) {
	var rate uint64
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(headerRateKey(blockNumber))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(v []byte) error {
			rate = binary.BigEndian.Uint64(v)
			return nil
		})
	})
	if err != nil {
		return 0, false, err
	}
	return rate, found, nil
}

func GetStorage() *Storage {
	return globalStorage
}

// BadgerLogger is a wrapper type to give our logger the expected interface
type BadgerLogger struct {
	logger interface {
		Debugf(string, ...any)
		Infof(string, ...any)
		Warnf(string, ...any)
		Errorf(string, ...any)
	}
}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{
		logger: logging.GetLogger(),
	}
}

func (b *BadgerLogger) Errorf(msg string, args ...any)   { b.logger.Errorf(msg, args...) }
func (b *BadgerLogger) Warningf(msg string, args ...any) { b.logger.Warnf(msg, args...) }
func (b *BadgerLogger) Infof(msg string, args ...any)    { b.logger.Infof(msg, args...) }
func (b *BadgerLogger) Debugf(msg string, args ...any)   { b.logger.Debugf(msg, args...) }
