// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fact0rn/fact0rnd/addresses"
	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/btcjson"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/deadpool"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	idx, err := deadpool.OpenIndex(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	ann, err := deadpool.OpenAnnouncementDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ann.Close() })

	ctx := &deadpool.Context{Params: &chaincfg.MainNetParams, Index: idx, Announcements: ann}
	return NewServer(ctx, func() int32 { return 500 })
}

func validN(t *testing.T) bigint.Int {
	t.Helper()
	return bigint.NewFromInt64(1).Lsh(uint(chaincfg.MainNetParams.PowLimitBitsSize) + 8)
}

func TestHandleGetDeadpoolID(t *testing.T) {
	s := testServer(t)
	n := validN(t)

	result, err := Dispatch(s, "getdeadpoolid", &btcjson.GetDeadpoolIDCmd{NDecimal: n.String()})
	require.NoError(t, err)

	want := txscript.NHash(n.Bytes())
	require.Equal(t, hex.EncodeToString(want[:]), result)
}

func TestHandleGetDeadpoolIDRejectsBadDecimal(t *testing.T) {
	s := testServer(t)
	_, err := Dispatch(s, "getdeadpoolid", &btcjson.GetDeadpoolIDCmd{NDecimal: "not-a-number"})
	require.Error(t, err)
}

func TestHandleCreateDeadpoolEntry(t *testing.T) {
	s := testServer(t)
	n := validN(t)

	result, err := Dispatch(s, "createdeadpoolentry", &btcjson.CreateDeadpoolEntryCmd{
		Amount: 100000, NDecimal: n.String(),
	})
	require.NoError(t, err)

	tmpl := result.(*btcjson.CreateTxTemplateResult)
	txBytes, err := hex.DecodeString(tmpl.HexTx)
	require.NoError(t, err)

	tx := wire.NewMsgTx(wire.TxVersion)
	require.NoError(t, tx.Deserialize(bytes.NewReader(txBytes)))
	require.Len(t, tx.TxOut, 1)
	require.True(t, txscript.IsDeadpoolEntry(tx.TxOut[0].PkScript))
}

func TestHandleGetDeadpoolEntryAfterConnect(t *testing.T) {
	s := testServer(t)
	n := validN(t)

	entry := txscript.CEntry{N: n}
	script, err := entry.Script()
	require.NoError(t, err)
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(5000, script))
	require.NoError(t, s.Ctx.Index.ConnectBlock(1, [32]byte{}, []*wire.MsgTx{tx}))

	id := txscript.NHash(n.Bytes())
	result, err := Dispatch(s, "getdeadpoolentry", &btcjson.GetDeadpoolEntryCmd{
		DeadpoolID: hex.EncodeToString(id[:]),
	})
	require.NoError(t, err)

	got := result.(*btcjson.GetDeadpoolEntryResult)
	require.Equal(t, n.String(), got.N)
	require.Equal(t, int64(5000), got.Bounty)
	require.Len(t, got.Entries, 1)
}

func TestHandleGetDeadpoolEntryNotFound(t *testing.T) {
	s := testServer(t)
	_, err := Dispatch(s, "getdeadpoolentry", &btcjson.GetDeadpoolEntryCmd{
		DeadpoolID: hex.EncodeToString(make([]byte, 32)),
	})
	require.Error(t, err)
}

func TestHandleClaimDeadpoolTxsEndToEnd(t *testing.T) {
	s := testServer(t)
	// 3 << 237 keeps the entry above the mainnet bit floor while staying
	// divisible by the revealed solution below.
	n := bigint.NewFromInt64(3).Lsh(237)

	entry := txscript.CEntry{N: n}
	script, err := entry.Script()
	require.NoError(t, err)
	entryTx := wire.NewMsgTx(wire.TxVersion)
	entryTx.AddTxOut(wire.NewTxOut(7000, script))
	require.NoError(t, s.Ctx.Index.ConnectBlock(1, [32]byte{}, []*wire.MsgTx{entryTx}))

	addr, err := addresses.NewP2PKHAddress(make([]byte, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)

	entryOutpoint := wire.OutPoint{Hash: entryTx.TxHash(), Index: 0}
	result, err := Dispatch(s, "claimdeadpooltxs", &btcjson.ClaimDeadpoolTxsCmd{
		Inputs:    []btcjson.DeadpoolClaimInput{{TxID: entryOutpoint.Hash.String(), Vout: 0}},
		ToAddress: addr.String(),
		Solution:  "3",
	})
	require.NoError(t, err)

	tmpl := result.(*btcjson.CreateTxTemplateResult)
	txBytes, err := hex.DecodeString(tmpl.HexTx)
	require.NoError(t, err)

	claimTx := wire.NewMsgTx(wire.TxVersion)
	require.NoError(t, claimTx.Deserialize(bytes.NewReader(txBytes)))
	require.Len(t, claimTx.TxIn, 1)
	require.Len(t, claimTx.TxOut, 1)
	require.Equal(t, int64(7000), claimTx.TxOut[0].Value)
}

func TestHandleClaimDeadpoolTxsRejectsWrongSolution(t *testing.T) {
	s := testServer(t)
	n := bigint.NewFromInt64(3).Lsh(237)

	entry := txscript.CEntry{N: n}
	script, err := entry.Script()
	require.NoError(t, err)
	entryTx := wire.NewMsgTx(wire.TxVersion)
	entryTx.AddTxOut(wire.NewTxOut(7000, script))
	require.NoError(t, s.Ctx.Index.ConnectBlock(1, [32]byte{}, []*wire.MsgTx{entryTx}))

	addr, err := addresses.NewP2PKHAddress(make([]byte, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)

	entryOutpoint := wire.OutPoint{Hash: entryTx.TxHash(), Index: 0}
	_, err = Dispatch(s, "claimdeadpooltxs", &btcjson.ClaimDeadpoolTxsCmd{
		Inputs:    []btcjson.DeadpoolClaimInput{{TxID: entryOutpoint.Hash.String(), Vout: 0}},
		ToAddress: addr.String(),
		Solution:  "7",
	})
	require.ErrorContains(t, err, "solution does not divide")
}

func TestHandleAnnounceRejectsInsufficientBurn(t *testing.T) {
	s := testServer(t)
	n := bigint.NewFromInt64(3).Lsh(237)

	addr, err := addresses.NewP2PKHAddress(make([]byte, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = Dispatch(s, "announcedeadpoolclaim", &btcjson.AnnounceDeadpoolClaimCmd{
		BurnAmount: 1,
		Address:    addr.String(),
		EntryN:     n.String(),
		Solution:   "3",
	})
	require.ErrorContains(t, err, "below minimum burn")
}

func TestHandleClaimDeadpoolTxsRejectsUnknownOutpoint(t *testing.T) {
	s := testServer(t)
	addr, err := addresses.NewP2PKHAddress(make([]byte, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = Dispatch(s, "claimdeadpooltxs", &btcjson.ClaimDeadpoolTxsCmd{
		Inputs:    []btcjson.DeadpoolClaimInput{{TxID: "00", Vout: 0}},
		ToAddress: addr.String(),
		Solution:  "3",
	})
	require.Error(t, err)
}
