// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/mining/factorpow"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
)

// CheckBlockSanity performs the context-free checks on a block that do not
// require chain state: it has transactions, every transaction has inputs,
// no transaction hash repeats, the merkle root commits to the transaction
// set, and the proof of work is valid.
func CheckBlockSanity(block *wire.MsgBlock, params *chaincfg.Params) error {
	if len(block.Transactions) == 0 {
		return ruleError(ErrNoTransactions, "block has no transactions")
	}

	seen := make(map[string]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		if len(tx.TxIn) == 0 {
			return ruleError(ErrNoTxInputs, "transaction has no inputs")
		}
		hash := tx.TxHash()
		key := string(hash[:])
		if _, dup := seen[key]; dup {
			return ruleError(ErrDuplicateTx, "duplicate transaction in block")
		}
		seen[key] = struct{}{}
	}

	calculated := CalcMerkleRoot(block.Transactions)
	if calculated != block.Header.MerkleRoot {
		return ruleError(ErrBadMerkleRoot, "merkle root does not match transaction set")
	}

	if err := factorpow.CheckProofOfWork(&block.Header, params); err != nil {
		return translatePoWError(err)
	}

	return nil
}

// CheckCoinbaseValue rejects a coinbase output value that exceeds the
// subsidy plus collected fees, or that is negative, or that overflows
// params.MaxMoney.
func CheckCoinbaseValue(coinbaseValue int64, subsidyPlusFees int64, params *chaincfg.Params) error {
	if coinbaseValue < 0 || coinbaseValue > params.MaxMoney {
		return ruleError(ErrBadCoinbaseValue, "coinbase value outside money range")
	}
	if coinbaseValue > subsidyPlusFees {
		return ruleError(ErrBadCoinbaseValue, "coinbase value exceeds subsidy plus fees")
	}
	return nil
}

// translatePoWError maps a factorpow.RuleError's stable reason string onto
// this package's ErrorCode taxonomy, so callers that only
// handle blockchain.RuleError see a single consistent error shape
// regardless of which subsystem rejected the block.
func translatePoWError(err error) error {
	powErr, ok := err.(*factorpow.RuleError)
	if !ok {
		return ruleError(ErrBadFactorization, err.Error())
	}

	switch powErr.Reason {
	case "bad-offset-range":
		return ruleError(ErrBadWOffset, powErr.Reason)
	case "bad-bits-range", "bad-bits-mismatch":
		return ruleError(ErrBadBits, powErr.Reason)
	case "bad-factorization":
		return ruleError(ErrBadFactorization, powErr.Reason)
	case "bad-factor-size":
		return ruleError(ErrMisSizedFactor, powErr.Reason)
	case "bad-factor-order":
		return ruleError(ErrBadFactorization, powErr.Reason)
	case "bad-factor-not-prime":
		return ruleError(ErrNonPrimeFactor, powErr.Reason)
	case "bad-bigint-zero":
		return ruleError(ErrBadBigIntZero, powErr.Reason)
	default:
		return ruleError(ErrBadFactorization, powErr.Reason)
	}
}

// translateScriptError maps a txscript.RuleError's stable reason string
// onto this package's ErrorCode taxonomy for the deadpool claim protocol.
func translateScriptError(err error) error {
	scriptErr, ok := err.(*txscript.RuleError)
	if !ok {
		return ruleError(ErrClaimWithoutAnnouncement, err.Error())
	}

	switch scriptErr.Reason {
	case "claim-without-announcement", "claim-commitment-mismatch":
		return ruleError(ErrClaimWithoutAnnouncement, scriptErr.Reason)
	case "claim-before-maturity":
		return ruleError(ErrClaimBeforeMaturity, scriptErr.Reason)
	case "claim-after-validity":
		return ruleError(ErrClaimAfterValidity, scriptErr.Reason)
	case "bad-factorization", "checkdivverify-bad-order":
		return ruleError(ErrBadFactorization, scriptErr.Reason)
	case "checkdivverify-zero-factor":
		return ruleError(ErrBadBigIntZero, scriptErr.Reason)
	case "checkdivverify-negative":
		return ruleError(ErrBadBigIntNegative, scriptErr.Reason)
	case "bad-bigint-non-canonical":
		return ruleError(ErrBadBigIntNonCanonical, scriptErr.Reason)
	default:
		return ruleError(ErrBadFactorization, scriptErr.Reason)
	}
}
