// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factorpow

import (
	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/wire"
)

// RuleError identifies a proof-of-work consensus rule violation. It carries
// a stable, machine-checkable reason string so tests and RPC callers can
// match on it without parsing prose.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string {
	return "factorpow: " + e.Reason
}

func ruleErrorf(reason string) error {
	return &RuleError{Reason: reason}
}

// CheckProofOfWork validates that header's claimed semiprime N = W ±
// wOffset factors as nP1 * nP2 with both factors prime and correctly
// sized. It is pure and stateless beyond params: a single
// call allocates its own scratch bignums and returns, with no suspension
// points, so it is safe to call concurrently from independent validation
// goroutines.
func CheckProofOfWork(header *wire.BlockHeader, params *chaincfg.Params) error {
	// Bound the declared difficulty before doing any work: nBits below
	// the network floor or above the hard ceiling is invalid no matter
	// what factorization accompanies it, and rejecting here also keeps
	// gHash from being fed an absurd width.
	if header.Bits < params.PowLimitBitsSize || header.Bits > params.MaxBits {
		return ruleErrorf("bad-bits-range")
	}

	w := GHash(header, params).ToBigInt()

	maxOffset := bigint.NewFromInt64(16).Mul(bigint.NewFromInt64(int64(header.Bits)))
	offset := bigint.NewFromInt64(header.WOffset)
	if offset.Abs().Cmp(maxOffset) > 0 {
		return ruleErrorf("bad-offset-range")
	}

	n := w.Add(offset)
	if n.BitLen() != int(header.Bits) {
		return ruleErrorf("bad-bits-mismatch")
	}

	p1 := header.P1.ToBigInt()
	if p1.IsZero() {
		return ruleErrorf("bad-bigint-zero")
	}

	p2 := n.Div(p1)
	if p1.Mul(p2).Cmp(n) != 0 {
		return ruleErrorf("bad-factorization")
	}

	wantP1Bits := (int(header.Bits) + 1) / 2
	if p1.BitLen() != wantP1Bits {
		return ruleErrorf("bad-factor-size")
	}

	if p1.Cmp(p2) > 0 {
		return ruleErrorf("bad-factor-order")
	}

	rounds := params.MillerRabinRounds
	if rounds <= 0 {
		rounds = 50
	}
	if !p1.ProbablyPrime(rounds) || !p2.ProbablyPrime(rounds) {
		return ruleErrorf("bad-factor-not-prime")
	}

	return nil
}
