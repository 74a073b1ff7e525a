// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bigint

import "math/big"

// Canonical encoding: sign-magnitude, little-endian
// magnitude bytes, sign bit in the top bit of the last byte. A byte-aligned
// magnitude (one whose most-significant bit is already set) needs one extra
// zero byte to host the sign bit without corrupting the magnitude. Zero is
// the empty byte string.

const signBit = 0x80

// Bytes returns the canonical little-endian encoding of n.
func (n Int) Bytes() []byte {
	if n.IsZero() {
		return nil
	}

	mag := n.ensure().Bytes() // big-endian magnitude, no leading zero byte
	le := reverse(mag)

	if len(le) > 0 && le[len(le)-1]&signBit != 0 {
		le = append(le, 0)
	}

	if n.Sign() < 0 {
		le[len(le)-1] |= signBit
	}

	return le
}

// FromBytes decodes a canonical little-endian encoding. It returns
// valid=false, with no error, for any encoding that is not in canonical
// form — notably a negative-zero encoding (sign bit set, zero magnitude).
// Callers must check valid before using the result.
func FromBytes(e []byte) (n Int, valid bool) {
	if len(e) == 0 {
		return Zero(), true
	}

	le := make([]byte, len(e))
	copy(le, e)

	negative := le[len(le)-1]&signBit != 0
	le[len(le)-1] &^= signBit

	// Trim a trailing (most-significant) zero byte that existed only to
	// host the sign bit; a magnitude with no set top bit must not carry
	// one, or the encoding is non-canonical.
	if len(le) >= 2 && le[len(le)-1] == 0 {
		if le[len(le)-2]&signBit == 0 {
			return Int{}, false
		}
		le = le[:len(le)-1]
	}

	be := reverse(le)
	mag := new(big.Int).SetBytes(be)

	if mag.Sign() == 0 {
		// Zero encodes as the empty byte string only: a non-empty
		// encoding of zero (with or without the sign bit) is
		// non-canonical.
		return Int{}, false
	}

	v := mag
	if negative {
		v = v.Neg(v)
	}
	return Int{v: v}, true
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
