// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/btcjson"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/deadpool"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
)

func TestActiveNetParams(t *testing.T) {
	require.Equal(t, &chaincfg.MainNetParams, activeNetParams(&config{}))
	require.Equal(t, &chaincfg.TestNetParams, activeNetParams(&config{TestNet: true}))

	got := activeNetParams(&config{SimNet: true, HashRounds: 3})
	require.Equal(t, chaincfg.SimNetParams.Net, got.Net)
	require.Equal(t, 3, got.HashRounds)

	// The override must not leak into the package-level SimNetParams.
	require.NotEqual(t, 3, chaincfg.SimNetParams.HashRounds)
}

func TestDecodeCmd(t *testing.T) {
	params, err := json.Marshal(btcjson.GetDeadpoolIDCmd{NDecimal: "12345"})
	require.NoError(t, err)

	cmd, err := decodeCmd("getdeadpoolid", params)
	require.NoError(t, err)
	require.Equal(t, "12345", cmd.(*btcjson.GetDeadpoolIDCmd).NDecimal)
}

func TestDecodeCmdUnknownMethod(t *testing.T) {
	_, err := decodeCmd("notamethod", nil)
	require.Error(t, err)
}

func TestIndexCoinViewResolvesKnownEntry(t *testing.T) {
	idx, err := deadpool.OpenIndex(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	n := bigint.NewFromInt64(1).Lsh(uint(chaincfg.MainNetParams.PowLimitBitsSize) + 8)
	script, err := (txscript.CEntry{N: n}).Script()
	require.NoError(t, err)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(1000, script))
	require.NoError(t, idx.ConnectBlock(1, [32]byte{}, []*wire.MsgTx{tx}))

	view := indexCoinView{idx: idx}
	op := wire.OutPoint{Hash: tx.TxHash(), Index: 0}

	got, ok := view.FetchPrevOutputScript(op)
	require.True(t, ok)
	require.Equal(t, script, got)

	_, ok = view.FetchPrevOutputScript(wire.OutPoint{Index: 0})
	require.False(t, ok)
}
