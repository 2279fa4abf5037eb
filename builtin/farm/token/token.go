// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"encoding/binary"
	"fmt"

	"github.com/quipuswap/farmland/tez"
)

// Standard is the transfer standard of a token.
type Standard uint8

const (
	Native Standard = iota
	FA12
	FA2
)

func (s Standard) String() string {
	switch s {
	case Native:
		return "native"
	case FA12:
		return "fa12"
	case FA2:
		return "fa2"
	}
	return fmt.Sprintf("standard(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Standard) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Standard) UnmarshalText(text []byte) error {
	switch string(text) {
	case "native", "tez":
		*s = Native
	case "fa12", "fa1.2":
		*s = FA12
	case "fa2":
		*s = FA2
	default:
		return fmt.Errorf("unknown token standard %q", text)
	}
	return nil
}

// Token identifies an asset. Contract is unset for native tez, ID is only
// meaningful for FA2 tokens.
type Token struct {
	Standard Standard    `json:"standard" yaml:"standard"`
	Contract tez.Address `json:"contract,omitempty" yaml:"contract"`
	ID       uint64      `json:"id" yaml:"id"`
}

// Tez is the native token.
var Tez = Token{Standard: Native}

// Bytes implements solidity.Key.
func (t Token) Bytes() []byte {
	b := make([]byte, 0, 1+tez.AddressLength+8)
	b = append(b, byte(t.Standard))
	b = append(b, t.Contract[:]...)
	return binary.BigEndian.AppendUint64(b, t.ID)
}

func (t Token) String() string {
	switch t.Standard {
	case Native:
		return "tez"
	case FA12:
		return "fa12:" + t.Contract.String()
	default:
		return fmt.Sprintf("fa2:%s:%d", t.Contract, t.ID)
	}
}
