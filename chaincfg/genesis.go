// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"crypto/sha256"
	"time"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/wire"
)

// fact0rnConstitutionText commits the genesis block to a short statement of
// the network's launch principles, in the same spirit as a legacy chain's
// genesis-coinbase headline but verifiable by its hash rather than its
// literal bytes.
const fact0rnConstitutionText = `
FACT0RN Launch Principles (Immutable)

1. Proof of work is integer factorization, not hash preimage search.
2. No premine, no privileged parties, pure fair launch.
3. Consensus is mathematics: if two honest nodes disagree on a claimed
   factorization, one of them has a bug.

Launch Commitment: fair-launch genesis, zero premine.
`

// fact0rnGenesisCoinbaseTx is the coinbase transaction for the FACT0RN
// genesis block. Its single output is zero-value and OP_RETURN-scripted,
// making it permanently unspendable — there is no premine to claim.
var fact0rnGenesisCoinbaseTx = wire.MsgTx{
	Version: 1,
	TxIn: []*wire.TxIn{
		{
			PreviousOutPoint: wire.OutPoint{
				Hash:  chainhash.Hash{},
				Index: 0xffffffff,
			},
			SignatureScript: genesisCoinbaseScript(),
			Sequence:        0xffffffff,
		},
	},
	TxOut: []*wire.TxOut{
		{
			Value:    0,
			PkScript: []byte{0x6a}, // OP_RETURN, unspendable
		},
	},
	LockTime: 0,
}

// genesisCoinbaseScript builds the genesis coinbase's signature script: a
// human-readable launch message followed by the SHA-256 commitment to
// fact0rnConstitutionText, so the constitution's content is verifiable
// on-chain without being carried in full.
func genesisCoinbaseScript() []byte {
	constitutionHash := sha256.Sum256([]byte(fact0rnConstitutionText))

	msg := []byte("FACT0RN Genesis: proof of work is factorization, not hashing")
	msg = append(msg, constitutionHash[:]...)
	return msg
}

// fact0rnGenesisP1 fills the genesis header's factor field. Genesis is
// exempt from the factorization check — a block with no predecessor has
// no retargeted nBits to satisfy — but the header still carries a
// well-formed P1/WOffset pair so downstream code that blindly factors
// nP1/N never special-cases height zero.
var fact0rnGenesisP1 = bigint.FromBigIntBuf1024(bigint.NewFromInt64(3))

// fact0rnGenesisBlock defines the genesis block for the FACT0RN main
// network.
var fact0rnGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: fact0rnGenesisCoinbaseTx.TxHash(),
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Bits:       230,
		WOffset:    0,
		P1:         fact0rnGenesisP1,
		Nonce:      0,
	},
	Transactions: []*wire.MsgTx{&fact0rnGenesisCoinbaseTx},
}

// fact0rnGenesisHash is the hash of the first block in the FACT0RN chain.
var fact0rnGenesisHash = fact0rnGenesisBlock.Header.BlockHash()
