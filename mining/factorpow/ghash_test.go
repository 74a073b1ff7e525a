// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factorpow

import (
	"testing"
	"time"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/wire"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testHeader(bits uint16) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:   1,
		Timestamp: time.Unix(1700000000, 0),
		Nonce:     7,
		Bits:      bits,
	}
}

func TestGHashProducesExactBitLength(t *testing.T) {
	params := chaincfg.MainNetParams
	for _, bits := range []uint16{16, 64, 230, 511, 1024} {
		w := GHash(testHeader(bits), &params).ToBigInt()
		require.Equal(t, int(bits), w.BitLen(), "bits=%d", bits)
	}
}

func TestGHashIsDeterministic(t *testing.T) {
	params := chaincfg.MainNetParams
	h := testHeader(230)
	w1 := GHash(h, &params)
	w2 := GHash(h, &params)
	require.Equal(t, w1, w2)
}

func TestTruncateToBitsAlwaysExact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var buf bigint.Buf2048
		for i := range buf {
			buf[i] = rapid.Byte().Draw(rt, "b")
		}
		bits := uint16(rapid.IntRange(1, 2048).Draw(rt, "bits"))

		got := truncateToBits(buf, bits).ToBigInt()
		require.Equal(rt, int(bits), got.BitLen())
	})
}

func TestGHashDiffersOnNonceChange(t *testing.T) {
	params := chaincfg.MainNetParams
	h1 := testHeader(230)
	h2 := testHeader(230)
	h2.Nonce = 8
	require.NotEqual(t, GHash(h1, &params), GHash(h2, &params))
}
