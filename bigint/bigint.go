// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bigint implements the signed arbitrary-precision integer type
// used by the factorization proof-of-work and the deadpool protocol, along
// with its canonical little-endian wire encoding.
package bigint

import (
	"math/big"
)

// Int is a sign-magnitude arbitrary-precision integer. The zero value is a
// valid representation of zero.
type Int struct {
	v *big.Int
}

// Zero returns the additive identity.
func Zero() Int {
	return Int{v: new(big.Int)}
}

// NewFromInt64 builds an Int from a signed 64-bit integer.
func NewFromInt64(n int64) Int {
	return Int{v: big.NewInt(n)}
}

// NewFromString parses a base-10 string, optionally signed.
func NewFromString(s string) (Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, errInvalidDecimal(s)
	}
	return Int{v: v}, nil
}

// NewFromBig wraps an existing *big.Int, taking ownership of it. Callers
// must not mutate n after passing it in.
func NewFromBig(n *big.Int) Int {
	if n == nil {
		return Zero()
	}
	return Int{v: n}
}

// Big returns a defensive copy of the underlying *big.Int, so callers can
// never mutate an Int's internal state through the returned pointer.
func (n Int) Big() *big.Int {
	if n.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(n.v)
}

func (n Int) ensure() *big.Int {
	if n.v == nil {
		return new(big.Int)
	}
	return n.v
}

// Sign returns -1, 0, or 1 depending on whether n is negative, zero, or
// positive.
func (n Int) Sign() int {
	return n.ensure().Sign()
}

// BitLen returns the length of the absolute value of n in bits. BitLen(0) ==
// 0.
func (n Int) BitLen() int {
	return n.ensure().BitLen()
}

// Cmp compares n and m, treating sign correctly (a negative value always
// compares less than a non-negative one).
func (n Int) Cmp(m Int) int {
	return n.ensure().Cmp(m.ensure())
}

// IsZero reports whether n is exactly zero.
func (n Int) IsZero() bool {
	return n.Sign() == 0
}

// Add returns n + m.
func (n Int) Add(m Int) Int {
	return Int{v: new(big.Int).Add(n.ensure(), m.ensure())}
}

// Sub returns n - m.
func (n Int) Sub(m Int) Int {
	return Int{v: new(big.Int).Sub(n.ensure(), m.ensure())}
}

// Mul returns n * m.
func (n Int) Mul(m Int) Int {
	return Int{v: new(big.Int).Mul(n.ensure(), m.ensure())}
}

// Div returns the truncated quotient n / m (toward zero), the division
// used to recover the cofactor nP2 = N / nP1.
func (n Int) Div(m Int) Int {
	return Int{v: new(big.Int).Quo(n.ensure(), m.ensure())}
}

// Mod returns n modulo m, non-negative for a positive m, following the same
// convention as GMP's mpz_mod and math/big.Int.Mod.
func (n Int) Mod(m Int) Int {
	return Int{v: new(big.Int).Mod(n.ensure(), m.ensure())}
}

// Lsh returns n shifted left by bits bits.
func (n Int) Lsh(bits uint) Int {
	return Int{v: new(big.Int).Lsh(n.ensure(), bits)}
}

// Neg returns -n.
func (n Int) Neg() Int {
	return Int{v: new(big.Int).Neg(n.ensure())}
}

// Abs returns the absolute value of n.
func (n Int) Abs() Int {
	return Int{v: new(big.Int).Abs(n.ensure())}
}

// String renders n in base 10.
func (n Int) String() string {
	return n.ensure().String()
}

func errInvalidDecimal(s string) error {
	return &decimalError{s: s}
}

type decimalError struct {
	s string
}

func (e *decimalError) Error() string {
	return "bigint: invalid decimal string " + e.s
}
