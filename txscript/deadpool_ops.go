// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/wire"
)

// ChainView is the slice of chain state the deadpool opcodes need: only
// the tip height, so OP_ANNOUNCEVERIFY can evaluate the maturity/validity
// window. It is satisfied trivially in tests without standing up a chain.
type ChainView interface {
	TipHeight() int32
}

// AnnouncementRecord is what the announcement database returns for a
// committed announcement.
type AnnouncementRecord struct {
	Height    int32
	ClaimHash [32]byte
}

// AnnouncementReader is the slice of the announcement database
// OP_ANNOUNCEVERIFY consults. The record returned for a given outpoint
// must reflect the state *before* the block containing the spend is
// applied, or a block could satisfy its own claims.
type AnnouncementReader interface {
	Lookup(deadpoolId [32]byte, announcement wire.OutPoint) (AnnouncementRecord, bool)
}

// ExecContext carries everything a deadpool opcode's step function needs
// beyond the stack: the entry being spent (identified by outpoint and its
// own N, already known to the caller since it owns the coin being spent),
// the spending transaction's destination output script, the chain tip,
// the announcement reader, and consensus parameters, so the opcodes are
// testable without a running chain.
type ExecContext struct {
	EntryOutpoint wire.OutPoint

	// DestScript is the pkScript of the claim transaction's single
	// non-fee output. OP_ANNOUNCEVERIFY recomputes the claim commitment
	// over it, binding the matured announcement to the destination the
	// claim actually pays.
	DestScript []byte

	Tip           ChainView
	Announcements AnnouncementReader
	Params        *chaincfg.Params
}

// DeadpoolOpcode models the new opcodes as a sum type: each is a variant
// with its own Step method, rather than a byte value dispatched through a
// shared jump table. Its two variants (below) each
// take the exact operands the entry/claim templates make available to
// them — N and p for OP_CHECKDIVVERIFY, the claim commitment for
// OP_ANNOUNCEVERIFY — rather than a shared literal data stack: the two
// opcodes consume disjoint pieces of the claim's revealed data, and
// threading them through one stack buys nothing but bookkeeping.
type DeadpoolOpcode interface {
	Step(ctx *ExecContext) error
}

// checkDivVerifyOp implements OP_CHECKDIVVERIFY: verifies p is a valid
// small factor of N in canonical order (1 < p ≤ N/p, N mod p == 0).
type checkDivVerifyOp struct {
	nBytes []byte
	pBytes []byte
}

// CheckDivVerify returns the OP_CHECKDIVVERIFY variant for the given N
// and p encodings.
func CheckDivVerify(nBytes, pBytes []byte) DeadpoolOpcode {
	return checkDivVerifyOp{nBytes: nBytes, pBytes: pBytes}
}

func (op checkDivVerifyOp) Step(ctx *ExecContext) error {
	n, valid := bigint.FromBytes(op.nBytes)
	if !valid {
		return ruleErrorf("bad-bigint-non-canonical")
	}
	p, valid := bigint.FromBytes(op.pBytes)
	if !valid {
		return ruleErrorf("bad-bigint-non-canonical")
	}

	if p.IsZero() {
		return ruleErrorf("checkdivverify-zero-factor")
	}
	if p.Sign() < 0 || n.Sign() < 0 {
		return ruleErrorf("checkdivverify-negative")
	}

	rem := n.Mod(p)
	if !rem.IsZero() {
		return ruleErrorf("bad-factorization")
	}

	q := n.Div(p)
	if p.Cmp(bigint.NewFromInt64(1)) <= 0 || p.Cmp(q) > 0 {
		return ruleErrorf("checkdivverify-bad-order")
	}

	return nil
}

// announceVerifyOp implements OP_ANNOUNCEVERIFY: verifies that a matured,
// unexpired announcement for this entry's deadpool id committed to exactly
// the (destination, p) pair the spending transaction now reveals.
type announceVerifyOp struct {
	entryNBytes []byte
	claimHash   [32]byte
	pBytes      []byte
}

// AnnounceVerify returns the OP_ANNOUNCEVERIFY variant for an entry whose
// N serializes to entryNBytes (read directly from the entry script being
// executed), the claim commitment h revealed by the spending transaction's
// scriptSig, and the revealed factor p. The destination half of the
// commitment comes from ExecContext.DestScript at Step time.
func AnnounceVerify(entryNBytes []byte, claimHash [32]byte, pBytes []byte) DeadpoolOpcode {
	return announceVerifyOp{entryNBytes: entryNBytes, claimHash: claimHash, pBytes: pBytes}
}

func (op announceVerifyOp) Step(ctx *ExecContext) error {
	deadpoolId := NHash(op.entryNBytes)

	rec, found := ctx.Announcements.Lookup(deadpoolId, ctx.EntryOutpoint)
	if !found {
		return ruleErrorf("claim-without-announcement")
	}

	// The commitment is recomputed from the revealed factor and the
	// destination the claim transaction actually pays, never taken from
	// the scriptSig on faith: a pushed hash copied verbatim from the
	// on-chain announcement would otherwise let anyone who learns p
	// redirect the bounty to their own output.
	want := ClaimHash(op.pBytes, ctx.DestScript)
	if rec.ClaimHash != want {
		return ruleErrorf("claim-commitment-mismatch")
	}
	if op.claimHash != want {
		return ruleErrorf("claim-commitment-mismatch")
	}

	age := ctx.Tip.TipHeight() - rec.Height
	if age < int32(ctx.Params.DeadpoolAnnounceMaturity) {
		return ruleErrorf("claim-before-maturity")
	}
	if age > int32(ctx.Params.DeadpoolAnnounceValidity) {
		return ruleErrorf("claim-after-validity")
	}

	return nil
}
