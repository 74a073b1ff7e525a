// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bigint

import "math/big"

// Buf1024 and Buf2048 are fixed-width, little-endian byte arrays used for
// wire-level factor and gHash scratch storage. Unlike Int's variable-length
// canonical encoding, these are unsigned, zero-padded to their full width,
// and carry no sign bit — the values they hold (a prime factor, a gHash
// scratch half) are always non-negative by construction.
//
// Both are plain value types: copied on assignment, no shared backing
// array across calls, matching the move/clone semantics the rest of the
// codebase expects from an owned opaque object.

const (
	// Buf1024Size is the width, in bytes, of a Buf1024.
	Buf1024Size = 128
	// Buf2048Size is the width, in bytes, of a Buf2048.
	Buf2048Size = 256

	buf1024Size = Buf1024Size
	buf2048Size = Buf2048Size
)

// Buf1024 holds up to a 1024-bit unsigned integer, little-endian.
type Buf1024 [buf1024Size]byte

// Buf2048 holds up to a 2048-bit unsigned integer, little-endian.
type Buf2048 [buf2048Size]byte

// ToBigInt interprets b as an unsigned little-endian magnitude.
func (b Buf1024) ToBigInt() Int {
	return bufToBigInt(b[:])
}

// FromBigIntBuf1024 zero-pads n's unsigned magnitude into a
// Buf1024. It panics if n does not fit in 1024 bits; callers are expected
// to validate bit length before calling this, since silent truncation of a
// factor would be a consensus bug, not a recoverable error.
func FromBigIntBuf1024(n Int) Buf1024 {
	var out Buf1024
	bigIntToBuf(n, out[:])
	return out
}

// ToBigInt interprets b as an unsigned little-endian magnitude.
func (b Buf2048) ToBigInt() Int {
	return bufToBigInt(b[:])
}

// FromBigIntBuf2048 zero-pads n's unsigned magnitude into a
// Buf2048. See FromBigIntBuf1024 for the overflow behavior.
func FromBigIntBuf2048(n Int) Buf2048 {
	var out Buf2048
	bigIntToBuf(n, out[:])
	return out
}

func bufToBigInt(le []byte) Int {
	be := reverse(le)
	return NewFromBig(new(big.Int).SetBytes(be))
}

func bigIntToBuf(n Int, dst []byte) {
	mag := n.Abs().ensure().Bytes() // big-endian, no leading zero
	if len(mag) > len(dst) {
		panic("bigint: value overflows fixed-width buffer")
	}
	le := reverse(mag)
	copy(dst, le) // remaining bytes stay zero (little-endian layout, so
	// the high-order bytes beyond the value's length are the padding)
}
