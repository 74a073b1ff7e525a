// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresses

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"

	"github.com/fact0rn/fact0rnd/chaincfg"
)

func TestFromPublicKeyRoundtrip(t *testing.T) {
	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pubKey := privKey.PubKey()

	params := &chaincfg.MainNetParams

	a, err := FromPublicKey(pubKey, params)
	require.NoError(t, err)
	require.Equal(t, AddressTypeP2PKH, a.AddressType())

	parsed, err := Parse(a.String(), params)
	require.NoError(t, err)
	require.Equal(t, a.ScriptAddress(), parsed.ScriptAddress())
	require.Equal(t, a.AddressType(), parsed.AddressType())
	require.True(t, parsed.IsForNetwork(params))
}

func TestP2SHRoundtrip(t *testing.T) {
	params := &chaincfg.MainNetParams
	scriptHash := make([]byte, 20)
	for i := range scriptHash {
		scriptHash[i] = byte(i)
	}

	a, err := NewP2SHAddress(scriptHash, params)
	require.NoError(t, err)
	require.Equal(t, AddressTypeP2SH, a.AddressType())

	parsed, err := Parse(a.String(), params)
	require.NoError(t, err)
	require.Equal(t, scriptHash, parsed.ScriptAddress())
	require.Equal(t, AddressTypeP2SH, parsed.AddressType())
}

func TestParseRejectsBadChecksum(t *testing.T) {
	params := &chaincfg.MainNetParams
	scriptHash := make([]byte, 20)
	a, err := NewP2PKHAddress(scriptHash, params)
	require.NoError(t, err)

	s := a.String()
	mangled := []byte(s)
	mangled[len(mangled)-1] ^= 1
	_, err = Parse(string(mangled), params)
	require.Error(t, err)
}

func TestParseRejectsWrongNetwork(t *testing.T) {
	mainParams := &chaincfg.MainNetParams
	testParams := &chaincfg.TestNetParams

	hash := make([]byte, 20)
	a, err := NewP2PKHAddress(hash, mainParams)
	require.NoError(t, err)

	err = Validate(a.String(), testParams)
	require.Error(t, err)
}

func TestPayToAddrScript(t *testing.T) {
	params := &chaincfg.MainNetParams
	hash := make([]byte, 20)
	for i := range hash {
		hash[i] = byte(i + 1)
	}

	p2pkh, err := NewP2PKHAddress(hash, params)
	require.NoError(t, err)
	script, err := PayToAddrScript(p2pkh)
	require.NoError(t, err)
	require.Len(t, script, 25)

	p2sh, err := NewP2SHAddress(hash, params)
	require.NoError(t, err)
	script, err = PayToAddrScript(p2sh)
	require.NoError(t, err)
	require.Len(t, script, 23)
}
