// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"time"

	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/mining/factorpow"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
)

// CoinView is the slice of the UTXO set block connection needs: given an
// outpoint, the scriptPubKey it last held. The surrounding node's UTXO
// set implementation satisfies it; this package consumes it, never owns
// it.
type CoinView interface {
	FetchPrevOutputScript(op wire.OutPoint) ([]byte, bool)
}

// DifficultyView is the slice of header-chain state the nBits schedule
// check needs: the previous block's declared difficulty and the actual
// timespan of the retarget window ending at the previous block. Like
// median time, it is supplied by the caller, which owns the header chain
// this package deliberately does not track.
type DifficultyView interface {
	PrevBits() uint16
	WindowTimespan() time.Duration
}

// DeadpoolIndexer is the slice of deadpool.Index that block connection
// drives. Declared here, rather than importing the deadpool package
// directly into this interface, so blockchain has no import-cycle risk
// and can be unit tested against a fake.
type DeadpoolIndexer interface {
	ConnectBlock(height int32, blockHash chainhash.Hash, txs []*wire.MsgTx) error
	DisconnectBlock(height int32, prevHash chainhash.Hash, prevHeight int32, txs []*wire.MsgTx) error
}

// AnnouncementIndexer is the slice of deadpool.AnnouncementDB that block
// connection drives, kept separate from txscript.AnnouncementReader (the
// read-only interface OP_ANNOUNCEVERIFY consults) since only this package
// ever writes to it.
type AnnouncementIndexer interface {
	txscript.AnnouncementReader
	ConnectBlock(height int32, txs []*wire.MsgTx) error
	DisconnectBlock(height int32, txs []*wire.MsgTx) error
}

// tipHeight adapts a plain int32 to txscript.ChainView, the minimal
// interface the deadpool opcodes need to evaluate their maturity/validity
// window.
type tipHeight int32

func (t tipHeight) TipHeight() int32 { return int32(t) }

// ChainState is the composition root's validation context: the consensus
// parameters plus the two deadpool-facing stores, threaded explicitly
// rather than reached for as package-level globals.
type ChainState struct {
	Params        *chaincfg.Params
	Index         DeadpoolIndexer
	Announcements AnnouncementIndexer
}

// ConnectBlock validates block at height (whose previous block hash is
// already known to be the current tip) against every rule this package
// owns, then commits its deadpool-relevant effects to both stores.
//
// Script verification of each deadpool claim happens first, against the
// announcement database's pre-block state: a claim cannot be satisfied by
// an announcement made in the same block, because
// AnnouncementIndexer.ConnectBlock for this block has not run yet when
// verifyDeadpoolSpends is called below.
func (cs *ChainState) ConnectBlock(block *wire.MsgBlock, height int32, medianTime chaincfg.MedianTimeSource, diff DifficultyView, coins CoinView) error {
	log.Debugf("Connecting block at height %d with %d transactions", height, len(block.Transactions))

	if err := CheckBlockSanity(block, cs.Params); err != nil {
		return err
	}

	if err := cs.checkDeclaredBits(&block.Header, height, diff); err != nil {
		return err
	}

	if err := cs.verifyDeadpoolOutputs(block, height, medianTime); err != nil {
		return err
	}

	if err := cs.verifyDeadpoolSpends(block, height, coins); err != nil {
		return err
	}

	blockHash := block.Header.BlockHash()

	if err := cs.Announcements.ConnectBlock(height, block.Transactions); err != nil {
		return indexError(ErrIndexInconsistent, "announcement db connect failed: "+err.Error())
	}
	if err := cs.Index.ConnectBlock(height, blockHash, block.Transactions); err != nil {
		return indexError(ErrIndexInconsistent, "deadpool index connect failed: "+err.Error())
	}
	return nil
}

// DisconnectBlock inverts ConnectBlock's effects on the two deadpool
// stores for the block at height, restoring prevHeight/prevHash as the
// new best block each store records.
func (cs *ChainState) DisconnectBlock(block *wire.MsgBlock, height int32, prevHash chainhash.Hash) error {
	log.Debugf("Disconnecting block at height %d", height)

	if err := cs.Announcements.DisconnectBlock(height, block.Transactions); err != nil {
		return indexError(ErrIndexInconsistent, "announcement db disconnect failed: "+err.Error())
	}
	if err := cs.Index.DisconnectBlock(height, prevHash, height-1, block.Transactions); err != nil {
		return indexError(ErrIndexInconsistent, "deadpool index disconnect failed: "+err.Error())
	}
	return nil
}

// checkDeclaredBits verifies the header's declared difficulty against the
// chain's retarget schedule: off a retarget boundary nBits must equal the
// previous block's, and on one it must equal CalcNextRequiredBits over the
// window that just closed. CheckBlockSanity has already bounded Bits to
// [PowLimitBitsSize, MaxBits] through CheckProofOfWork.
func (cs *ChainState) checkDeclaredBits(header *wire.BlockHeader, height int32, diff DifficultyView) error {
	want := diff.PrevBits()
	if factorpow.IsRetargetHeight(height, cs.Params) {
		want = factorpow.CalcNextRequiredBits(diff.PrevBits(), diff.WindowTimespan(), cs.Params)
	}
	if header.Bits != want {
		return ruleError(ErrBadBits, "declared nBits does not match the required difficulty")
	}
	return nil
}

// verifyDeadpoolOutputs rejects any newly created entry or announcement
// output whose N fails CheckDeadpoolInteger. Rejection is ConsensusInvalid
// once the deadpool softfork (chaincfg.DeploymentDeadpool) has activated at
// height/medianTime, and PolicyInvalid beforehand.
func (cs *ChainState) verifyDeadpoolOutputs(block *wire.MsgBlock, height int32, medianTime chaincfg.MedianTimeSource) error {
	active := IsDeadpoolActive(cs.Params, height, medianTime)

	for _, tx := range block.Transactions {
		for _, out := range tx.TxOut {
			var nBytes []byte
			switch txscript.GetScriptClass(out.PkScript) {
			case txscript.DeadpoolEntryTy:
				entry, ok := txscript.ParseCEntry(out.PkScript)
				if !ok {
					continue
				}
				nBytes = entry.N.Bytes()
			case txscript.DeadpoolAnnounceTy:
				announce, ok := txscript.ParseCAnnounce(out.PkScript)
				if !ok {
					continue
				}
				nBytes = announce.ReadN()
				if out.Value < cs.Params.DeadpoolAnnounceMinBurn {
					return cs.deadpoolError(active, ErrBadCoinbaseValue, "announce-below-min-burn")
				}
			default:
				continue
			}

			if err := txscript.CheckDeadpoolInteger(nBytes, cs.Params); err != nil {
				reasonErr := err.(*txscript.RuleError)
				code := mapBigIntErrorCode(reasonErr.Reason)
				return cs.deadpoolError(active, code, reasonErr.Reason)
			}
		}
	}
	return nil
}

// verifyDeadpoolSpends checks every transaction input that spends a
// deadpool entry output against the claim protocol (OP_CHECKDIVVERIFY,
// OP_ANNOUNCEVERIFY), consulting coins for the entry's own pkScript.
func (cs *ChainState) verifyDeadpoolSpends(block *wire.MsgBlock, height int32, coins CoinView) error {
	if coins == nil {
		return nil
	}

	tip := tipHeight(height)
	for _, tx := range block.Transactions {
		for _, in := range tx.TxIn {
			pkScript, ok := coins.FetchPrevOutputScript(in.PreviousOutPoint)
			if !ok || !txscript.IsDeadpoolEntry(pkScript) {
				continue
			}

			// A claim transaction pays its whole bounty to a single
			// output; that output is the destination half of the
			// announcement commitment OP_ANNOUNCEVERIFY recomputes.
			if len(tx.TxOut) != 1 {
				return ruleError(ErrClaimWithoutAnnouncement, "claim transaction must have exactly one output")
			}

			ctx := &txscript.ExecContext{
				EntryOutpoint: in.PreviousOutPoint,
				DestScript:    tx.TxOut[0].PkScript,
				Tip:           tip,
				Announcements: cs.Announcements,
				Params:        cs.Params,
			}
			if err := txscript.ExecuteDeadpoolClaim(in.SignatureScript, pkScript, ctx); err != nil {
				return translateScriptError(err)
			}
		}
	}
	return nil
}

func (cs *ChainState) deadpoolError(active bool, code ErrorCode, reason string) error {
	if active {
		return ruleError(code, reason)
	}
	return policyError(code, reason)
}

func mapBigIntErrorCode(reason string) ErrorCode {
	switch reason {
	case "bad-bigint-zero":
		return ErrBadBigIntZero
	case "bad-bigint-negative":
		return ErrBadBigIntNegative
	case "bad-bigint-too-small":
		return ErrBadBigIntTooSmall
	case "bad-bigint-too-large":
		return ErrBadBigIntTooLarge
	case "bad-bigint-non-canonical-size":
		return ErrBadBigIntNonCanonicalSize
	case "bad-bigint-non-canonical":
		return ErrBadBigIntNonCanonical
	default:
		return ErrBadBigIntNonCanonical
	}
}
