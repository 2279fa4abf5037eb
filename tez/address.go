// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tez

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	prefixLength   = 3
	hashLength     = 20
	checksumLength = 4

	// AddressLength length of the binary form: 3 prefix bytes followed by the 20 bytes hash.
	AddressLength = prefixLength + hashLength
)

// Address kinds, identified by the base58check prefix bytes.
var (
	PrefixTz1 = [prefixLength]byte{6, 161, 159}
	PrefixTz2 = [prefixLength]byte{6, 161, 161}
	PrefixTz3 = [prefixLength]byte{6, 161, 164}
	PrefixKT1 = [prefixLength]byte{2, 90, 121}
)

// ZeroAddress is the conventional burn address.
var ZeroAddress = MustParseAddress("tz1ZZZZZZZZZZZZZZZZZZZZZZZZZZZZNkiRg")

// Address is an implicit (tz1/tz2/tz3) or originated (KT1) account address.
// The zero value is not a valid address and is rendered as an empty string.
type Address [AddressLength]byte

var (
	_ json.Marshaler   = (*Address)(nil)
	_ json.Unmarshaler = (*Address)(nil)
)

// BytesToAddress builds an address from a prefix and a hash. Hashes longer than
// 20 bytes are cropped from the left, shorter ones are left padded.
func BytesToAddress(prefix [prefixLength]byte, hash []byte) Address {
	var a Address
	copy(a[:], prefix[:])
	if len(hash) > hashLength {
		hash = hash[len(hash)-hashLength:]
	}
	copy(a[AddressLength-len(hash):], hash)
	return a
}

// ParseAddress decodes a base58check encoded address.
func ParseAddress(s string) (Address, error) {
	raw := base58.Decode(s)
	if len(raw) != AddressLength+checksumLength {
		return Address{}, errors.New("invalid address length")
	}
	payload := raw[:AddressLength]
	if !bytes.Equal(checksum(payload), raw[AddressLength:]) {
		return Address{}, errors.New("invalid address checksum")
	}
	var a Address
	copy(a[:], payload)
	if !a.known() {
		return Address{}, errors.New("unknown address prefix")
	}
	return a, nil
}

// MustParseAddress parses the address and panics on failure.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLength]
}

func (a Address) prefix() [prefixLength]byte {
	var p [prefixLength]byte
	copy(p[:], a[:prefixLength])
	return p
}

func (a Address) known() bool {
	switch a.prefix() {
	case PrefixTz1, PrefixTz2, PrefixTz3, PrefixKT1:
		return true
	}
	return false
}

// IsZero returns whether the address is unset.
func (a Address) IsZero() bool {
	return a == Address{}
}

// IsContract returns whether the address is an originated (KT1) account.
func (a Address) IsContract() bool {
	return a.prefix() == PrefixKT1
}

// Bytes returns the binary form.
func (a Address) Bytes() []byte {
	return a[:]
}

// String implements stringer.
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	payload := a[:]
	return base58.Encode(append(append([]byte(nil), payload...), checksum(payload)...))
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a *Address) MarshalJSON() ([]byte, error) {
	if a == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}
