// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deadpool

import (
	"testing"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenIndex(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func makeEntryTx(n int64) *wire.MsgTx {
	entry := txscript.CEntry{N: bigint.NewFromInt64(n)}
	script, err := entry.Script()
	if err != nil {
		panic(err)
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(0, script))
	return tx
}

func TestIndexConnectDisconnectRoundTrip(t *testing.T) {
	idx := newTestIndex(t)

	tx := makeEntryTx(15)
	deadpoolId := txscript.NHash(bigint.NewFromInt64(15).Bytes())

	blockHash := chainhash.Hash{0x01}
	require.NoError(t, idx.ConnectBlock(1, blockHash, []*wire.MsgTx{tx}))

	height, hash, err := idx.BestBlock()
	require.NoError(t, err)
	require.Equal(t, int32(1), height)
	require.Equal(t, blockHash, hash)

	entries, announcements, claims, err := idx.GetEntries(deadpoolId)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Empty(t, announcements)
	require.Len(t, claims, 1)
	require.True(t, claims[0].Unclaimed())

	require.NoError(t, idx.DisconnectBlock(1, chainhash.Hash{}, 0, []*wire.MsgTx{tx}))

	height, _, err = idx.BestBlock()
	require.NoError(t, err)
	require.Equal(t, int32(0), height)

	entries, announcements, claims, err = idx.GetEntries(deadpoolId)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Empty(t, announcements)
	require.Empty(t, claims)
}

func TestIndexRecordsClaimSpend(t *testing.T) {
	idx := newTestIndex(t)

	entryTx := makeEntryTx(15)
	deadpoolId := txscript.NHash(bigint.NewFromInt64(15).Bytes())
	require.NoError(t, idx.ConnectBlock(1, chainhash.Hash{0x01}, []*wire.MsgTx{entryTx}))

	entryOut := wire.OutPoint{Hash: entryTx.TxHash(), Index: 0}

	p := bigint.NewFromInt64(3)
	claimHash := txscript.ClaimHash(p.Bytes(), []byte{txscript.OP_RETURN})
	sigScript, err := txscript.NewScriptBuilder().
		AddData(claimHash[:]).
		AddData(p.Bytes()).
		Script()
	require.NoError(t, err)

	claimTx := wire.NewMsgTx(wire.TxVersion)
	claimTx.AddTxIn(&wire.TxIn{PreviousOutPoint: entryOut, SignatureScript: sigScript})

	require.NoError(t, idx.ConnectBlock(2, chainhash.Hash{0x02}, []*wire.MsgTx{claimTx}))

	_, _, claims, err := idx.GetEntries(deadpoolId)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	require.False(t, claims[0].Unclaimed())
	require.Equal(t, int32(2), claims[0].ClaimHeight)
	require.Equal(t, p.Bytes(), claims[0].SolutionBytes)

	require.NoError(t, idx.DisconnectBlock(2, chainhash.Hash{0x01}, 1, []*wire.MsgTx{claimTx}))

	_, _, claims, err = idx.GetEntries(deadpoolId)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	require.True(t, claims[0].Unclaimed())
}

func TestIndexListEntriesFiltersClaimedAndHeight(t *testing.T) {
	idx := newTestIndex(t)

	oldTx := makeEntryTx(15)
	require.NoError(t, idx.ConnectBlock(1, chainhash.Hash{0x01}, []*wire.MsgTx{oldTx}))

	newTx := makeEntryTx(31)
	require.NoError(t, idx.ConnectBlock(100, chainhash.Hash{0x02}, []*wire.MsgTx{newTx}))

	rows, err := idx.ListEntries(100, 0, 0, true, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = idx.ListEntries(100, 10, 0, true, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int32(100), rows[0].Entry.Height)

	entryOut := wire.OutPoint{Hash: newTx.TxHash(), Index: 0}
	p := bigint.NewFromInt64(31)
	claimHash := txscript.ClaimHash(p.Bytes(), []byte{txscript.OP_RETURN})
	sigScript, err := txscript.NewScriptBuilder().
		AddData(claimHash[:]).
		AddData(p.Bytes()).
		Script()
	require.NoError(t, err)
	claimTx := wire.NewMsgTx(wire.TxVersion)
	claimTx.AddTxIn(&wire.TxIn{PreviousOutPoint: entryOut, SignatureScript: sigScript})
	require.NoError(t, idx.ConnectBlock(101, chainhash.Hash{0x03}, []*wire.MsgTx{claimTx}))

	rows, err = idx.ListEntries(101, 0, 0, false, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int32(1), rows[0].Entry.Height)

	rows, err = idx.ListEntries(101, 0, 1, true, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
