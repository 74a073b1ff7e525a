// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package deadpool implements the bounty/claim protocol's persistent
// state: the RPC-facing index of entries, announcements and claims, and
// the separate consensus-critical announcement database that
// OP_ANNOUNCEVERIFY consults during script execution.
package deadpool

import (
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/wire"
)

// IndexEntry records one deadpool entry or announcement output: which
// deadpool it belongs to, where it lives in the UTXO set, the height it
// was confirmed at, and the output itself.
type IndexEntry struct {
	DeadpoolId [32]byte
	Locator    wire.OutPoint
	Height     int32
	TxOut      wire.TxOut
}

// ClaimRecord tracks the spend lifecycle of one deadpool entry.
// ClaimHeight == 0 means the entry is still unclaimed.
type ClaimRecord struct {
	EntryLocator   wire.OutPoint
	DeadpoolId     [32]byte
	ClaimHeight    int32
	ClaimBlockHash chainhash.Hash
	ClaimTxHash    chainhash.Hash
	SolutionBytes  []byte
}

// Unclaimed reports whether the record has not yet been spent by a claim
// transaction.
func (c ClaimRecord) Unclaimed() bool {
	return c.ClaimHeight == 0
}

// ListedEntry is one row of a listdeadpoolentries scan: the entry itself,
// its current claim status, and whether it has a pending or matured
// announcement against it.
type ListedEntry struct {
	Entry     IndexEntry
	Claim     ClaimRecord
	Announced bool
}
