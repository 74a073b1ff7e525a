// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/sha256"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
)

// CEntry builds and parses the deadpool entry template:
//
//	<N_bytes> OP_CHECKDIVVERIFY OP_DROP OP_ANNOUNCEVERIFY OP_DROP OP_DROP OP_TRUE
//
// The output is spendable exactly once, by a transaction input whose
// scriptSig reveals a factor p of N together with a matured, unexpired
// announcement committing to it.
type CEntry struct {
	N bigint.Int
}

// Script returns the entry's pkScript, encoding N with its canonical
// byte representation.
func (e CEntry) Script() ([]byte, error) {
	return NewScriptBuilder().
		AddData(e.N.Bytes()).
		AddOp(OP_CHECKDIVVERIFY).
		AddOp(OP_DROP).
		AddOp(OP_ANNOUNCEVERIFY).
		AddOp(OP_DROP).
		AddOp(OP_DROP).
		AddOp(OP_TRUE).
		Script()
}

// ParseCEntry recognizes script as a deadpool entry and decodes its N, or
// reports ok=false if script does not match the template.
func ParseCEntry(script []byte) (entry CEntry, ok bool) {
	tok := MakeScriptTokenizer(script)

	if !tok.Next() || tok.Data() == nil {
		return CEntry{}, false
	}
	nBytes := tok.Data()

	wantOps := []byte{
		OP_CHECKDIVVERIFY, OP_DROP, OP_ANNOUNCEVERIFY, OP_DROP, OP_DROP, OP_TRUE,
	}
	for _, want := range wantOps {
		if !tok.Next() || tok.Data() != nil || tok.Opcode() != want {
			return CEntry{}, false
		}
	}
	if !tok.Done() {
		return CEntry{}, false
	}

	n, valid := bigint.FromBytes(nBytes)
	if !valid {
		return CEntry{}, false
	}
	return CEntry{N: n}, true
}

// IsDeadpoolEntry reports whether script matches the deadpool entry
// template, independent of whether N passes CheckDeadpoolInteger's size
// bounds. An N pushed in a non-canonical encoding does not match.
func IsDeadpoolEntry(script []byte) bool {
	_, ok := ParseCEntry(script)
	return ok
}

// ExtractDeadpoolEntryIds returns the deadpool id NHash(N) for script if it
// is a deadpool entry, as a single-element slice so callers scanning many
// outputs can flatten the results of repeated calls into a set.
func ExtractDeadpoolEntryIds(script []byte) [][32]byte {
	entry, ok := ParseCEntry(script)
	if !ok {
		return nil
	}
	return [][32]byte{NHash(entry.N.Bytes())}
}

// CAnnounce builds and parses the deadpool announcement template:
//
//	OP_ANNOUNCE <claimHash32> <N_bytes>
//
// The output is unconditionally unspendable; only its presence (and the
// announcement database record block connection derives from it) matters.
type CAnnounce struct {
	ClaimHash [32]byte
	N         bigint.Int
}

// Script returns the announcement's pkScript.
func (a CAnnounce) Script() ([]byte, error) {
	return NewScriptBuilder().
		AddOp(OP_ANNOUNCE).
		AddData(a.ClaimHash[:]).
		AddData(a.N.Bytes()).
		Script()
}

// ParseCAnnounce recognizes script as a deadpool announcement, or reports
// ok=false if script does not match the template.
func ParseCAnnounce(script []byte) (announce CAnnounce, ok bool) {
	tok := MakeScriptTokenizer(script)

	if !tok.Next() || tok.Data() != nil || tok.Opcode() != OP_ANNOUNCE {
		return CAnnounce{}, false
	}
	if !tok.Next() || len(tok.Data()) != 32 {
		return CAnnounce{}, false
	}
	var claimHash [32]byte
	copy(claimHash[:], tok.Data())

	if !tok.Next() || tok.Data() == nil {
		return CAnnounce{}, false
	}
	n, valid := bigint.FromBytes(tok.Data())
	if !valid {
		return CAnnounce{}, false
	}
	if !tok.Done() {
		return CAnnounce{}, false
	}

	return CAnnounce{ClaimHash: claimHash, N: n}, true
}

// IsDeadpoolAnnounce reports whether script matches the deadpool
// announcement template.
func IsDeadpoolAnnounce(script []byte) bool {
	_, ok := ParseCAnnounce(script)
	return ok
}

// ReadN returns the announcement's N bytes as carried on-chain.
func (a CAnnounce) ReadN() []byte {
	return a.N.Bytes()
}

// NHash returns the deadpool id for a canonical N encoding:
// SHA256(N_bytes).
func NHash(nBytes []byte) [32]byte {
	return sha256.Sum256(nBytes)
}

// ClaimHash commits an announcement to the pair (destination, p):
// SHA256(SHA256(p_bytes) || SHA256(destScriptPubKey)).
func ClaimHash(pBytes, destScriptPubKey []byte) [32]byte {
	hp := sha256.Sum256(pBytes)
	hd := sha256.Sum256(destScriptPubKey)
	combined := make([]byte, 0, 64)
	combined = append(combined, hp[:]...)
	combined = append(combined, hd[:]...)
	return sha256.Sum256(combined)
}

// CheckDeadpoolInteger validates a deadpool entry's N encoding against the
// consensus bounds in params, returning a stable reason string on
// rejection and nil on acceptance. bigint.FromBytes enforces canonical
// form; a rejected encoding that would decode fine at a shorter length
// (zero-padded beyond the minimal width) reports the distinct
// "bad-bigint-non-canonical-size" reason, while every other malformation
// reports "bad-bigint-non-canonical".
func CheckDeadpoolInteger(nBytes []byte, params *chaincfg.Params) error {
	n, valid := bigint.FromBytes(nBytes)
	if !valid {
		return ruleErrorf(nonCanonicalReason(nBytes))
	}
	if n.IsZero() {
		return ruleErrorf("bad-bigint-zero")
	}
	if n.Sign() < 0 {
		return ruleErrorf("bad-bigint-negative")
	}

	bits := n.BitLen()
	if bits < int(params.PowLimitBitsSize) {
		return ruleErrorf("bad-bigint-too-small")
	}
	if bits > int(params.MaxBits) {
		return ruleErrorf("bad-bigint-too-large")
	}

	return nil
}

// nonCanonicalReason classifies a rejected encoding: one that decodes
// once its trailing zero padding is stripped violated only the minimal-
// width rule, everything else is malformed outright.
func nonCanonicalReason(e []byte) string {
	trimmed := e
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == 0 {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if len(trimmed) == len(e) {
		return "bad-bigint-non-canonical"
	}
	if _, valid := bigint.FromBytes(trimmed); valid {
		return "bad-bigint-non-canonical-size"
	}
	return "bad-bigint-non-canonical"
}
