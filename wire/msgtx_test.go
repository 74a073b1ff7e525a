// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestMsgTxSerializeRoundtrip(t *testing.T) {
	prevHash := chainhash.Hash{0xaa}
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(NewOutPoint(&prevHash, 1), []byte{0x51}))
	tx.AddTxOut(NewTxOut(5000, []byte{0x76, 0xa9}))
	tx.LockTime = 42

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	var got MsgTx
	require.NoError(t, got.Deserialize(&buf))

	require.Equal(t, tx.Version, got.Version)
	require.Len(t, got.TxIn, 1)
	require.Len(t, got.TxOut, 1)
	require.Equal(t, tx.TxIn[0].PreviousOutPoint, got.TxIn[0].PreviousOutPoint)
	require.Equal(t, tx.TxOut[0].Value, got.TxOut[0].Value)
	require.Equal(t, tx.LockTime, got.LockTime)
}

func TestOutPointString(t *testing.T) {
	h := chainhash.Hash{0x01}
	op := NewOutPoint(&h, 3)
	require.Contains(t, op.String(), ":3")
}
