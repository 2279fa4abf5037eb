// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/quipuswap/farmland/tez"
)

func RandomHash() tez.Bytes32 {
	var b32 tez.Bytes32

	rand.Read(b32[:])
	return b32
}

// RandAddress returns a random implicit (tz1) address.
func RandAddress() tez.Address {
	var h [20]byte
	rand.Read(h[:])
	return tez.BytesToAddress(tez.PrefixTz1, h[:])
}

// RandContract returns a random originated (KT1) address.
func RandContract() tez.Address {
	var h [20]byte
	rand.Read(h[:])
	return tez.BytesToAddress(tez.PrefixKT1, h[:])
}
