// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bigint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestZeroEncodesEmpty(t *testing.T) {
	require.Nil(t, Zero().Bytes())

	n, valid := FromBytes(nil)
	require.True(t, valid)
	require.True(t, n.IsZero())
}

func TestNegativeZeroRejected(t *testing.T) {
	_, valid := FromBytes([]byte{0x80})
	require.False(t, valid)

	_, valid = FromBytes([]byte{0x00, 0x80})
	require.False(t, valid)
}

func TestNonEmptyZeroEncodingRejected(t *testing.T) {
	// Zero is canonically the empty byte string; an explicit zero byte is
	// a second encoding of the same value and must not decode.
	_, valid := FromBytes([]byte{0x00})
	require.False(t, valid)
}

func TestSignBitRequiresPaddingByte(t *testing.T) {
	// 0xff alone has its top bit set, so the encoder must append a zero
	// byte to host the sign bit rather than flip 0xff's own top bit.
	n := NewFromInt64(0xff)
	enc := n.Bytes()
	require.Equal(t, []byte{0xff, 0x00}, enc)

	got, valid := FromBytes(enc)
	require.True(t, valid)
	require.Equal(t, int64(0xff), got.Big().Int64())
}

func TestNegativeRoundtrip(t *testing.T) {
	n := NewFromInt64(-0xff)
	enc := n.Bytes()
	require.Equal(t, []byte{0xff, 0x80}, enc)

	got, valid := FromBytes(enc)
	require.True(t, valid)
	require.Equal(t, int64(-0xff), got.Big().Int64())
}

func TestSmallPositiveNoPadding(t *testing.T) {
	n := NewFromInt64(0x13f)
	enc := n.Bytes()
	// 0x13f little-endian is 3f 01; the top bit of the last byte (0x01)
	// is clear, so no extra padding byte is needed.
	require.Equal(t, []byte{0x3f, 0x01}, enc)

	got, valid := FromBytes(enc)
	require.True(t, valid)
	require.Equal(t, int64(0x13f), got.Big().Int64())
}

func TestNonCanonicalTrailingZeroRejected(t *testing.T) {
	// Top bit of the second-to-last byte is clear, so a trailing zero
	// byte could not have been hosting a sign bit: non-canonical.
	_, valid := FromBytes([]byte{0x3f, 0x01, 0x00})
	require.False(t, valid)
}

func TestModNonNegative(t *testing.T) {
	n := NewFromInt64(-7)
	m := NewFromInt64(3)
	require.Equal(t, int64(2), n.Mod(m).Big().Int64())
}

func TestDivTruncatesTowardZero(t *testing.T) {
	n := NewFromInt64(-7)
	m := NewFromInt64(2)
	require.Equal(t, int64(-3), n.Div(m).Big().Int64())
}

func TestProbablyPrime(t *testing.T) {
	require.True(t, NewFromInt64(2147483647).ProbablyPrime(20)) // 2^31-1, Mersenne prime
	require.False(t, NewFromInt64(2147483649).ProbablyPrime(20))
}

func TestBuf1024Roundtrip(t *testing.T) {
	n := NewFromInt64(0x013fb975)
	buf := FromBigIntBuf1024(n)
	require.Equal(t, n.Big().Int64(), buf.ToBigInt().Big().Int64())
}

func TestBuf2048Roundtrip(t *testing.T) {
	v, ok := new(big.Int).SetString("8975192638459127643857129387451928376451", 10)
	require.True(t, ok)
	n := NewFromBig(v)
	buf := FromBigIntBuf2048(n)
	require.Equal(t, 0, n.Cmp(buf.ToBigInt()))
}

func TestBuf1024OverflowPanics(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 1030)
	require.Panics(t, func() {
		FromBigIntBuf1024(NewFromBig(huge))
	})
}

func TestCanonicalEncodingRoundtripsForArbitraryValues(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.Int64().Draw(rt, "v")
		n := NewFromInt64(s)

		enc := n.Bytes()
		got, valid := FromBytes(enc)
		require.True(rt, valid)
		require.Equal(rt, 0, n.Cmp(got))
	})
}
