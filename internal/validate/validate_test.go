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

package validate

import (
	"encoding/hex"
	"testing"

	"github.com/ickb-go/ickb-validator/internal/config"
)

func TestRunSkipsScriptsOutsideActiveNetwork(t *testing.T) {
	config.GetConfig().Network = "mainnet"

	tx := &txJSON{
		Outputs: []cellJSON{
			{
				Capacity:         1000,
				OccupiedCapacity: 100,
				Lock:             scriptJSON{CodeHash: hex.EncodeToString(make([]byte, 32)), HashType: 1},
			},
		},
	}

	if err := Run(tx); err != nil {
		t.Errorf("Run() = %v, want nil for a script outside the iCKB deployment", err)
	}
}

func TestDecodeCellRejectsShortCodeHash(t *testing.T) {
	_, err := decodeCell(cellJSON{Lock: scriptJSON{CodeHash: "abcd"}})
	if err == nil {
		t.Errorf("decodeCell() should reject a code_hash shorter than 32 bytes")
	}
}
