// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// ParseClaimScriptSig decodes a deadpool claim's scriptSig, which is
// exactly two pushes: the claim commitment h, then the revealed factor p.
func ParseClaimScriptSig(sigScript []byte) (claimHash [32]byte, pBytes []byte, ok bool) {
	tok := MakeScriptTokenizer(sigScript)

	if !tok.Next() || len(tok.Data()) != 32 {
		return claimHash, nil, false
	}
	copy(claimHash[:], tok.Data())

	if !tok.Next() || tok.Data() == nil {
		return claimHash, nil, false
	}
	pBytes = tok.Data()

	if !tok.Done() {
		return claimHash, nil, false
	}
	return claimHash, pBytes, true
}

// ExecuteDeadpoolClaim validates a spend of a deadpool entry output. It is
// the node's plug-in point for the two new opcodes: it does not implement
// a general script interpreter (that remains the surrounding node's
// concern), only the fixed entry/claim template this chain adds.
//
// sigScript is the spending input's signature script; pkScript is the
// entry output being spent; ctx supplies the claim's destination output
// script plus the chain tip and announcement reader the opcodes consult.
func ExecuteDeadpoolClaim(sigScript, pkScript []byte, ctx *ExecContext) error {
	entry, ok := ParseCEntry(pkScript)
	if !ok {
		log.Tracef("claim rejected: output is not a deadpool entry script")
		return ruleErrorf("not-a-deadpool-entry")
	}

	claimHash, pBytes, ok := ParseClaimScriptSig(sigScript)
	if !ok {
		return ruleErrorf("malformed-claim-scriptsig")
	}

	nBytes := entry.N.Bytes()

	if err := CheckDivVerify(nBytes, pBytes).Step(ctx); err != nil {
		return err
	}
	if err := AnnounceVerify(nBytes, claimHash, pBytes).Step(ctx); err != nil {
		return err
	}

	return nil
}
