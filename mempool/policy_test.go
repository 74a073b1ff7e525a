// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/txscript"
)

func testPolicy() *Policy {
	return &Policy{ChainParams: &chaincfg.MainNetParams}
}

func validEntryN(t *testing.T) bigint.Int {
	t.Helper()
	// An N whose bit length sits comfortably inside MainNet's
	// [PowLimitBitsSize, MaxBits] window.
	return bigint.NewFromInt64(1).Lsh(uint(chaincfg.MainNetParams.PowLimitBitsSize) + 8)
}

func TestIsStandardDeadpoolScriptRecognizesEntry(t *testing.T) {
	n := validEntryN(t)
	entry := txscript.CEntry{N: n}
	script, err := entry.Script()
	require.NoError(t, err)

	recognized, standard := IsStandardDeadpoolScript(script, testPolicy())
	require.True(t, recognized)
	require.True(t, standard)
}

func TestIsStandardDeadpoolScriptRejectsUndersizedN(t *testing.T) {
	entry := txscript.CEntry{N: bigint.NewFromInt64(3)}
	script, err := entry.Script()
	require.NoError(t, err)

	recognized, standard := IsStandardDeadpoolScript(script, testPolicy())
	require.True(t, recognized)
	require.False(t, standard)
}

func TestIsStandardDeadpoolScriptRecognizesAnnounce(t *testing.T) {
	n := validEntryN(t)
	var claimHash [32]byte
	announce := txscript.CAnnounce{ClaimHash: claimHash, N: n}
	script, err := announce.Script()
	require.NoError(t, err)

	recognized, standard := IsStandardDeadpoolScript(script, testPolicy())
	require.True(t, recognized)
	require.True(t, standard)
}

func TestIsStandardDeadpoolScriptIgnoresOtherScripts(t *testing.T) {
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(make([]byte, 20)).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	recognized, standard := IsStandardDeadpoolScript(script, testPolicy())
	require.False(t, recognized)
	require.False(t, standard)
}

func TestIsStandardDeadpoolClaim(t *testing.T) {
	var claimHash [32]byte
	p := bigint.NewFromInt64(7)

	script, err := txscript.NewScriptBuilder().
		AddData(claimHash[:]).
		AddData(p.Bytes()).
		Script()
	require.NoError(t, err)
	require.True(t, IsStandardDeadpoolClaim(script))
}

func TestIsStandardDeadpoolClaimRejectsMalformed(t *testing.T) {
	script, err := txscript.NewScriptBuilder().AddData(make([]byte, 31)).Script()
	require.NoError(t, err)
	require.False(t, IsStandardDeadpoolClaim(script))
}
