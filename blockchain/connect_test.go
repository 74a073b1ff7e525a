// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"math/bits"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/deadpool"
	"github.com/fact0rn/fact0rnd/mining/factorpow"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
)

type fixedTime time.Time

func (f fixedTime) MedianTime() time.Time { return time.Time(f) }

type staticDiff uint16

func (d staticDiff) PrevBits() uint16 { return uint16(d) }

func (d staticDiff) WindowTimespan() time.Duration { return 0 }

type mapCoinView map[wire.OutPoint][]byte

func (m mapCoinView) FetchPrevOutputScript(op wire.OutPoint) ([]byte, bool) {
	script, ok := m[op]
	return script, ok
}

// smallestPrimeFactor trial-divides n and returns its least prime factor,
// or 0 if n is prime (or < 4).
func smallestPrimeFactor(n int64) int64 {
	if n < 4 {
		return 0
	}
	if n%2 == 0 {
		return 2
	}
	for d := int64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return d
		}
	}
	return 0
}

// mineTestBlock searches nonces and offsets until it finds a valid
// factorization proof for the simnet difficulty floor. At 32 bits the
// search space is small enough that a handful of gHash evaluations
// suffices.
func mineTestBlock(t *testing.T, params *chaincfg.Params, prev chainhash.Hash, txs []*wire.MsgTx) *wire.MsgBlock {
	t.Helper()

	header := wire.BlockHeader{
		Version:    1,
		PrevBlock:  prev,
		MerkleRoot: CalcMerkleRoot(txs),
		Timestamp:  time.Unix(1700000000, 0),
		Bits:       params.PowLimitBitsSize,
	}
	wantP1Bits := (int(header.Bits) + 1) / 2
	maxOffset := int64(16) * int64(header.Bits)

	for nonce := uint64(0); nonce < 1000; nonce++ {
		header.Nonce = nonce
		w := factorpow.GHash(&header, params).ToBigInt().Big().Int64()

		for off := -maxOffset; off <= maxOffset; off++ {
			n := w + off
			if n <= 0 || bits.Len64(uint64(n)) != int(header.Bits) {
				continue
			}
			p := smallestPrimeFactor(n)
			if p == 0 {
				continue
			}
			q := n / p
			if p > q || bits.Len64(uint64(p)) != wantP1Bits {
				continue
			}
			if !big.NewInt(q).ProbablyPrime(20) {
				continue
			}

			header.WOffset = off
			header.P1 = bigint.FromBigIntBuf1024(bigint.NewFromInt64(p))
			block := &wire.MsgBlock{Header: header, Transactions: txs}
			require.NoError(t, factorpow.CheckProofOfWork(&block.Header, params))
			return block
		}
	}

	t.Fatal("no valid factorization found in search window")
	return nil
}

func newTestChainState(t *testing.T) (*ChainState, *deadpool.Index, *deadpool.AnnouncementDB) {
	t.Helper()

	idx, err := deadpool.OpenIndex(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	ann, err := deadpool.OpenAnnouncementDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ann.Close() })

	cs := &ChainState{
		Params:        &chaincfg.SimNetParams,
		Index:         idx,
		Announcements: ann,
	}
	return cs, idx, ann
}

func testCoinbaseTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
		SignatureScript:  []byte{0x01, 0x01},
		Sequence:         0xffffffff,
	})
	tx.AddTxOut(wire.NewTxOut(0, []byte{txscript.OP_RETURN}))
	return tx
}

func TestConnectBlockIndexesEntryAndDisconnects(t *testing.T) {
	cs, idx, _ := newTestChainState(t)
	mt := fixedTime(time.Unix(1700000000, 0))

	n := bigint.NewFromInt64(3).Lsh(39)
	entryScript, err := (txscript.CEntry{N: n}).Script()
	require.NoError(t, err)

	entryTx := testCoinbaseTx()
	entryTx.AddTxOut(wire.NewTxOut(5000, entryScript))

	block := mineTestBlock(t, cs.Params, chainhash.Hash{}, []*wire.MsgTx{entryTx})
	require.NoError(t, cs.ConnectBlock(block, 1, mt, staticDiff(cs.Params.PowLimitBitsSize), nil))

	deadpoolId := txscript.NHash(n.Bytes())
	entries, _, claims, err := idx.GetEntries(deadpoolId)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, claims, 1)
	require.True(t, claims[0].Unclaimed())

	require.NoError(t, cs.DisconnectBlock(block, 1, chainhash.Hash{}))
	entries, _, claims, err = idx.GetEntries(deadpoolId)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Empty(t, claims)
}

func TestConnectBlockEnforcesClaimProtocol(t *testing.T) {
	cs, idx, _ := newTestChainState(t)
	mt := fixedTime(time.Unix(1700000000, 0))

	n := bigint.NewFromInt64(3).Lsh(39)
	p := bigint.NewFromInt64(3)
	dest := []byte{txscript.OP_RETURN}
	claimHash := txscript.ClaimHash(p.Bytes(), dest)

	entryScript, err := (txscript.CEntry{N: n}).Script()
	require.NoError(t, err)
	entryTx := testCoinbaseTx()
	entryTx.AddTxOut(wire.NewTxOut(5000, entryScript))
	entryBlock := mineTestBlock(t, cs.Params, chainhash.Hash{}, []*wire.MsgTx{entryTx})
	require.NoError(t, cs.ConnectBlock(entryBlock, 1, mt, staticDiff(cs.Params.PowLimitBitsSize), nil))

	announceScript, err := (txscript.CAnnounce{ClaimHash: claimHash, N: n}).Script()
	require.NoError(t, err)
	announceTx := testCoinbaseTx()
	announceTx.AddTxOut(wire.NewTxOut(cs.Params.DeadpoolAnnounceMinBurn, announceScript))
	announceBlock := mineTestBlock(t, cs.Params, entryBlock.BlockHash(), []*wire.MsgTx{announceTx})
	require.NoError(t, cs.ConnectBlock(announceBlock, 2, mt, staticDiff(cs.Params.PowLimitBitsSize), nil))

	entryOut := wire.OutPoint{Hash: entryTx.TxHash(), Index: 1}
	coins := mapCoinView{entryOut: entryScript}

	sigScript, err := txscript.NewScriptBuilder().
		AddData(claimHash[:]).
		AddData(p.Bytes()).
		Script()
	require.NoError(t, err)
	claimTx := wire.NewMsgTx(wire.TxVersion)
	claimTx.AddTxIn(&wire.TxIn{PreviousOutPoint: entryOut, SignatureScript: sigScript})
	claimTx.AddTxOut(wire.NewTxOut(5000, dest))
	claimBlock := mineTestBlock(t, cs.Params, announceBlock.BlockHash(), []*wire.MsgTx{claimTx})

	// One block short of the announcement maturing.
	maturity := int32(cs.Params.DeadpoolAnnounceMaturity)
	err = cs.ConnectBlock(claimBlock, 2+maturity-1, mt, staticDiff(cs.Params.PowLimitBitsSize), coins)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, ErrClaimBeforeMaturity, ruleErr.ErrorCode)

	require.NoError(t, cs.ConnectBlock(claimBlock, 2+maturity, mt, staticDiff(cs.Params.PowLimitBitsSize), coins))

	deadpoolId := txscript.NHash(n.Bytes())
	_, _, claims, err := idx.GetEntries(deadpoolId)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	require.False(t, claims[0].Unclaimed())
	require.Equal(t, p.Bytes(), claims[0].SolutionBytes)
}

func TestConnectBlockRejectsOffScheduleBits(t *testing.T) {
	cs, _, _ := newTestChainState(t)
	mt := fixedTime(time.Unix(1700000000, 0))

	block := mineTestBlock(t, cs.Params, chainhash.Hash{}, []*wire.MsgTx{testCoinbaseTx()})

	// The block's own proof is valid at the floor difficulty, but the
	// chain context says the previous block declared one bit more, so the
	// header is off the retarget schedule.
	err := cs.ConnectBlock(block, 1, mt, staticDiff(cs.Params.PowLimitBitsSize+1), nil)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, ErrBadBits, ruleErr.ErrorCode)
}

func TestConnectBlockRejectsRedirectedClaim(t *testing.T) {
	cs, _, _ := newTestChainState(t)
	mt := fixedTime(time.Unix(1700000000, 0))

	n := bigint.NewFromInt64(3).Lsh(39)
	p := bigint.NewFromInt64(3)
	dest := []byte{txscript.OP_RETURN}
	claimHash := txscript.ClaimHash(p.Bytes(), dest)

	entryScript, err := (txscript.CEntry{N: n}).Script()
	require.NoError(t, err)
	entryTx := testCoinbaseTx()
	entryTx.AddTxOut(wire.NewTxOut(5000, entryScript))
	entryBlock := mineTestBlock(t, cs.Params, chainhash.Hash{}, []*wire.MsgTx{entryTx})
	require.NoError(t, cs.ConnectBlock(entryBlock, 1, mt, staticDiff(cs.Params.PowLimitBitsSize), nil))

	announceScript, err := (txscript.CAnnounce{ClaimHash: claimHash, N: n}).Script()
	require.NoError(t, err)
	announceTx := testCoinbaseTx()
	announceTx.AddTxOut(wire.NewTxOut(cs.Params.DeadpoolAnnounceMinBurn, announceScript))
	announceBlock := mineTestBlock(t, cs.Params, entryBlock.BlockHash(), []*wire.MsgTx{announceTx})
	require.NoError(t, cs.ConnectBlock(announceBlock, 2, mt, staticDiff(cs.Params.PowLimitBitsSize), nil))

	entryOut := wire.OutPoint{Hash: entryTx.TxHash(), Index: 1}
	coins := mapCoinView{entryOut: entryScript}

	// An attacker who learned p replays the legitimate announcement's
	// claim hash verbatim but pays a different destination. The
	// recomputed commitment over the actual output must not match.
	sigScript, err := txscript.NewScriptBuilder().
		AddData(claimHash[:]).
		AddData(p.Bytes()).
		Script()
	require.NoError(t, err)
	stolenTx := wire.NewMsgTx(wire.TxVersion)
	stolenTx.AddTxIn(&wire.TxIn{PreviousOutPoint: entryOut, SignatureScript: sigScript})
	stolenTx.AddTxOut(wire.NewTxOut(5000, []byte{txscript.OP_RETURN, 0x01, 0xff}))
	stolenBlock := mineTestBlock(t, cs.Params, announceBlock.BlockHash(), []*wire.MsgTx{stolenTx})

	maturity := int32(cs.Params.DeadpoolAnnounceMaturity)
	err = cs.ConnectBlock(stolenBlock, 2+maturity, mt, staticDiff(cs.Params.PowLimitBitsSize), coins)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, ErrClaimWithoutAnnouncement, ruleErr.ErrorCode)
	require.Contains(t, err.Error(), "claim-commitment-mismatch")
}
