// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deadpool

import (
	"testing"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
	"github.com/stretchr/testify/require"
)

func newTestAnnouncementDB(t *testing.T) *AnnouncementDB {
	t.Helper()
	db, err := OpenAnnouncementDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAnnouncementDBConnectDisconnect(t *testing.T) {
	db := newTestAnnouncementDB(t)

	n := bigint.NewFromInt64(15)
	deadpoolId := txscript.NHash(n.Bytes())

	p := bigint.NewFromInt64(3)
	claimHash := txscript.ClaimHash(p.Bytes(), []byte{txscript.OP_RETURN})

	announce := txscript.CAnnounce{ClaimHash: claimHash, N: n}
	script, err := announce.Script()
	require.NoError(t, err)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(0, script))

	_, found := db.Lookup(deadpoolId, wire.OutPoint{})
	require.False(t, found)

	require.NoError(t, db.ConnectBlock(500, []*wire.MsgTx{tx}))

	rec, found := db.Lookup(deadpoolId, wire.OutPoint{})
	require.True(t, found)
	require.Equal(t, int32(500), rec.Height)
	require.Equal(t, claimHash, rec.ClaimHash)

	require.NoError(t, db.DisconnectBlock(500, []*wire.MsgTx{tx}))

	_, found = db.Lookup(deadpoolId, wire.OutPoint{})
	require.False(t, found)
}
