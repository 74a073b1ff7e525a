// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestBlockHeaderSerializeRoundtrip(t *testing.T) {
	var p1 bigint.Buf1024
	p1[0] = 0xb9
	p1[1] = 0x75

	hdr := &BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{0x01},
		MerkleRoot: chainhash.Hash{0x02},
		Timestamp:  time.Unix(1700000000, 0),
		Nonce:      424242,
		Bits:       230,
		WOffset:    -17,
		P1:         p1,
	}

	var buf bytes.Buffer
	require.NoError(t, hdr.Serialize(&buf))

	var got BlockHeader
	require.NoError(t, got.Deserialize(&buf))

	require.Equal(t, hdr.Version, got.Version)
	require.Equal(t, hdr.PrevBlock, got.PrevBlock)
	require.Equal(t, hdr.MerkleRoot, got.MerkleRoot)
	require.Equal(t, hdr.Timestamp.Unix(), got.Timestamp.Unix())
	require.Equal(t, hdr.Nonce, got.Nonce)
	require.Equal(t, hdr.Bits, got.Bits)
	require.Equal(t, hdr.WOffset, got.WOffset)
	require.Equal(t, hdr.P1, got.P1)
}

func TestBlockHashIsDeterministic(t *testing.T) {
	hdr := &BlockHeader{Version: 1, Timestamp: time.Unix(0, 0)}
	h1 := hdr.BlockHash()
	h2 := hdr.BlockHash()
	require.Equal(t, h1, h2)
}
