// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool implements relay standardness policy for the deadpool
// script templates. There is no
// transaction pool, fee estimator, or orphan cache here, only the one
// predicate a node needs to decide whether to relay/mine a deadpool
// entry or announcement output it did not itself create.
package mempool

import (
	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/txscript"
)

// Policy carries the one consensus-adjacent knob standardness checking
// needs: the chain parameters a deadpool script's N is checked against.
type Policy struct {
	ChainParams *chaincfg.Params
}

// IsStandardDeadpoolScript reports whether pkScript is a relay-standard
// deadpool entry or announcement output. A script can match one of the
// two deadpool templates structurally (txscript.GetScriptClass) yet still
// be non-standard if its N fails the same canonical-encoding and
// magnitude bounds consensus enforces post-activation
// (txscript.CheckDeadpoolInteger) — nodes apply the bound as a relay
// policy before the deployment activates, and it becomes a consensus rule
// after, so this function does not itself need to know whether deadpool
// has activated. Any other script class is left to the surrounding node's
// own standardness rules and is reported not-recognized here.
func IsStandardDeadpoolScript(pkScript []byte, policy *Policy) (recognized bool, standard bool) {
	var nBytes []byte

	switch txscript.GetScriptClass(pkScript) {
	case txscript.DeadpoolEntryTy:
		entry, ok := txscript.ParseCEntry(pkScript)
		if !ok {
			return false, false
		}
		nBytes = entry.N.Bytes()

	case txscript.DeadpoolAnnounceTy:
		announce, ok := txscript.ParseCAnnounce(pkScript)
		if !ok {
			return false, false
		}
		nBytes = announce.ReadN()

	default:
		return false, false
	}

	standard = txscript.CheckDeadpoolInteger(nBytes, policy.ChainParams) == nil
	if !standard {
		log.Debugf("rejecting non-standard deadpool script: N fails canonical bounds")
	}
	return true, standard
}

// IsStandardDeadpoolClaim reports whether a deadpool claim's scriptSig is
// well-formed enough to relay: exactly the two pushes
// (ParseClaimScriptSig) the entry template expects, with the revealed
// factor itself canonically encoded. It does not re-verify the
// factorization or the announcement — that is consensus's job
// (blockchain.ChainState.ConnectBlock), not relay policy's.
func IsStandardDeadpoolClaim(sigScript []byte) bool {
	_, pBytes, ok := txscript.ParseClaimScriptSig(sigScript)
	if !ok {
		return false
	}
	_, valid := bigint.FromBytes(pBytes)
	return valid
}
