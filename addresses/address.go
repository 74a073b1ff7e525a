// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addresses implements FACT0RN address generation and parsing:
// base58check-encoded pay-to-pubkey-hash and pay-to-script-hash addresses,
// the two standard destination types a deadpool claim pays out to. There
// is no segwit/Taproot address
// form here — this chain's wire.MsgTx carries no witness data at all (see
// wire.MsgTx's doc comment), so a third witness-program address type would
// have no script template to build toward.
package addresses

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/txscript"
)

const (
	// AddressTypeP2PKH identifies a pay-to-pubkey-hash address.
	AddressTypeP2PKH = "p2pkh"

	// AddressTypeP2SH identifies a pay-to-script-hash address.
	AddressTypeP2SH = "p2sh"
)

var (
	// ErrInvalidAddress is returned when an address string fails to
	// decode or checksum.
	ErrInvalidAddress = errors.New("addresses: invalid address format")

	// ErrUnsupportedAddressType is returned for a recognized-but-unsupported
	// version byte.
	ErrUnsupportedAddressType = errors.New("addresses: unsupported address type")

	// ErrInvalidPublicKey is returned when a public key is nil or malformed.
	ErrInvalidPublicKey = errors.New("addresses: invalid public key")
)

// Address represents a parsed FACT0RN address: a 20-byte hash plus the
// network it was encoded for, tagged by which of the two address families
// it belongs to.
type Address interface {
	// String returns the base58check-encoded address.
	String() string

	// ScriptAddress returns the 20-byte pubkey-hash or script-hash payload.
	ScriptAddress() []byte

	// AddressType reports which family the address belongs to.
	AddressType() string

	// IsForNetwork reports whether the address was encoded for params.
	IsForNetwork(params *chaincfg.Params) bool
}

// addr is the shared representation backing both address families; only
// the version byte (and therefore the script template it builds) differs.
type addr struct {
	hash      [20]byte
	addrType  string
	versionID byte
	netParams *chaincfg.Params
}

// NewP2PKHAddress builds a pay-to-pubkey-hash address from a 20-byte
// HASH160 of a public key.
func NewP2PKHAddress(pubKeyHash []byte, params *chaincfg.Params) (Address, error) {
	return newAddr(pubKeyHash, AddressTypeP2PKH, params.PubKeyHashAddrID, params)
}

// NewP2SHAddress builds a pay-to-script-hash address from a 20-byte
// HASH160 of a redeem script.
func NewP2SHAddress(scriptHash []byte, params *chaincfg.Params) (Address, error) {
	return newAddr(scriptHash, AddressTypeP2SH, params.ScriptHashAddrID, params)
}

func newAddr(hash []byte, addrType string, versionID byte, params *chaincfg.Params) (Address, error) {
	if len(hash) != 20 {
		return nil, fmt.Errorf("addresses: hash must be 20 bytes, got %d", len(hash))
	}
	a := &addr{addrType: addrType, versionID: versionID, netParams: params}
	copy(a.hash[:], hash)
	return a, nil
}

// String returns the base58check encoding: versionID || hash || checksum.
func (a *addr) String() string {
	payload := make([]byte, 21)
	payload[0] = a.versionID
	copy(payload[1:], a.hash[:])

	checksum := chainhash.DoubleHashB(payload)[:4]
	full := append(payload, checksum...)
	return base58.Encode(full)
}

func (a *addr) ScriptAddress() []byte { return a.hash[:] }

func (a *addr) AddressType() string { return a.addrType }

func (a *addr) IsForNetwork(p *chaincfg.Params) bool {
	return a.netParams.Name == p.Name
}

// FromPublicKey derives a pay-to-pubkey-hash address from a secp256k1
// public key, the only address family a bare public key determines
// directly (a P2SH address commits to a redeem script, not a key).
func FromPublicKey(pubKey *btcec.PublicKey, params *chaincfg.Params) (Address, error) {
	if pubKey == nil {
		return nil, ErrInvalidPublicKey
	}
	hash := btcutil.Hash160(pubKey.SerializeCompressed())
	return NewP2PKHAddress(hash, params)
}

// Parse decodes a base58check address string into an Address, identifying
// its family from the version byte against params.
func Parse(address string, params *chaincfg.Params) (Address, error) {
	decoded := base58.Decode(address)
	if len(decoded) != 25 {
		return nil, ErrInvalidAddress
	}

	payload := decoded[:21]
	checksum := decoded[21:]
	want := chainhash.DoubleHashB(payload)[:4]
	for i := 0; i < 4; i++ {
		if checksum[i] != want[i] {
			return nil, ErrInvalidAddress
		}
	}

	version := payload[0]
	hash := payload[1:]

	switch version {
	case params.PubKeyHashAddrID:
		return NewP2PKHAddress(hash, params)
	case params.ScriptHashAddrID:
		return NewP2SHAddress(hash, params)
	default:
		return nil, ErrUnsupportedAddressType
	}
}

// Validate parses address and confirms it both decodes and was encoded for
// params's network. The network is recognized by the address version byte,
// so networks that share version bytes (mainnet and simnet) accept each
// other's addresses.
func Validate(address string, params *chaincfg.Params) error {
	a, err := Parse(address, params)
	if err != nil {
		return err
	}
	if !a.IsForNetwork(params) {
		return fmt.Errorf("addresses: address is not for network %s", params.Name)
	}
	return nil
}

// PayToAddrScript builds the scriptPubKey paying to addr: the standard
// P2PKH or P2SH template, matching txscript's own recognizer
// (isPubKeyHash/isScriptHash).
func PayToAddrScript(a Address) ([]byte, error) {
	switch a.AddressType() {
	case AddressTypeP2PKH:
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(a.ScriptAddress()).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()

	case AddressTypeP2SH:
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_HASH160).
			AddData(a.ScriptAddress()).
			AddOp(txscript.OP_EQUAL).
			Script()

	default:
		return nil, ErrUnsupportedAddressType
	}
}
