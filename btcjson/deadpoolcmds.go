// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

// Deadpool RPC Commands
// These commands expose the bounty/claim protocol over
// JSON-RPC: creating entries and announcements, listing and inspecting
// deadpool state, and building (never broadcasting) the transaction
// templates a claimant signs and sends themselves.

// GetDeadpoolIDCmd defines the getdeadpoolid JSON-RPC command. It returns
// the 32-byte deadpool id for a bounty target N, without requiring N to
// already exist as an on-chain entry.
type GetDeadpoolIDCmd struct {
	NDecimal string `json:"n_decimal"`
}

// GetDeadpoolEntryCmd defines the getdeadpoolentry JSON-RPC command.
type GetDeadpoolEntryCmd struct {
	DeadpoolID string `json:"deadpoolid"`
}

// GetDeadpoolEntryResult contains the result of getdeadpoolentry.
type GetDeadpoolEntryResult struct {
	N             string                  `json:"n"`
	Bits          int                     `json:"bits"`
	DeadpoolID    string                  `json:"deadpoolid"`
	Bounty        int64                   `json:"bounty"`
	Entries       []DeadpoolLocatorResult `json:"entries"`
	Announcements []DeadpoolLocatorResult `json:"announcements"`
}

// DeadpoolLocatorResult identifies one entry or announcement output by
// its confirming height and outpoint.
type DeadpoolLocatorResult struct {
	Height int32  `json:"height"`
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  int64  `json:"value"`
}

// ListDeadpoolEntriesCmd defines the listdeadpoolentries JSON-RPC
// command. NumBlocks and Limit default to 1000; IncludeClaimed defaults
// to false and IncludeAnnounced defaults to true.
type ListDeadpoolEntriesCmd struct {
	NumBlocks        *int32 `json:"num_blocks,omitempty" jsonrpcdefault:"1000"`
	Limit            *int   `json:"limit,omitempty" jsonrpcdefault:"1000"`
	IncludeClaimed   *bool  `json:"include_claimed,omitempty" jsonrpcdefault:"false"`
	IncludeAnnounced *bool  `json:"include_announced,omitempty" jsonrpcdefault:"true"`
}

// ListDeadpoolEntriesResultItem is one row of a listdeadpoolentries scan.
type ListDeadpoolEntriesResultItem struct {
	DeadpoolID string `json:"deadpoolid"`
	Height     int32  `json:"height"`
	TxID       string `json:"txid"`
	Vout       uint32 `json:"vout"`
	Value      int64  `json:"value"`
	Claimed    bool   `json:"claimed"`
	Announced  bool   `json:"announced"`
}

// CreateDeadpoolEntryCmd defines the createdeadpoolentry JSON-RPC
// command: builds (but does not broadcast) a transaction with a single
// deadpool entry output.
type CreateDeadpoolEntryCmd struct {
	Amount   int64  `json:"amount"`
	NDecimal string `json:"n_decimal"`
}

// AnnounceDeadpoolClaimCmd defines the announcedeadpoolclaim JSON-RPC
// command: builds an unspendable announcement output committing to a
// destination address and a revealed factor, without yet spending the
// entry.
type AnnounceDeadpoolClaimCmd struct {
	BurnAmount int64  `json:"burn_amount"`
	Address    string `json:"address"`
	EntryN     string `json:"entry_n"`
	Solution   string `json:"solution"`
}

// ClaimDeadpoolTxsCmd defines the claimdeadpooltxs JSON-RPC command:
// builds a transaction spending one or more matured, announced deadpool
// entries to ToAddress, revealing Solution in each input's scriptSig.
type ClaimDeadpoolTxsCmd struct {
	Inputs    []DeadpoolClaimInput `json:"inputs"`
	ToAddress string               `json:"to_address"`
	Solution  string               `json:"solution"`
}

// DeadpoolClaimInput identifies one entry output a claim transaction
// spends.
type DeadpoolClaimInput struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

// ClaimDeadpoolIDCmd defines the claimdeadpoolid JSON-RPC command: a
// convenience wrapper over claimdeadpooltxs that looks up every
// unclaimed, matured, announced entry for a deadpool id instead of
// requiring the caller to enumerate outpoints.
type ClaimDeadpoolIDCmd struct {
	DeadpoolID string `json:"deadpoolid"`
	ToAddress  string `json:"to_address"`
	Solution   string `json:"solution"`
}

// CreateTxTemplateResult wraps the unsigned, hex-encoded transaction
// template common to every deadpool tx-building command's result.
type CreateTxTemplateResult struct {
	HexTx string `json:"hex_tx"`
}

func init() {
	flags := UsageFlag(0)

	MustRegisterCmd("getdeadpoolid", (*GetDeadpoolIDCmd)(nil), flags)
	MustRegisterCmd("getdeadpoolentry", (*GetDeadpoolEntryCmd)(nil), flags)
	MustRegisterCmd("listdeadpoolentries", (*ListDeadpoolEntriesCmd)(nil), flags)
	MustRegisterCmd("createdeadpoolentry", (*CreateDeadpoolEntryCmd)(nil), flags)
	MustRegisterCmd("announcedeadpoolclaim", (*AnnounceDeadpoolClaimCmd)(nil), flags)
	MustRegisterCmd("claimdeadpooltxs", (*ClaimDeadpoolTxsCmd)(nil), flags)
	MustRegisterCmd("claimdeadpoolid", (*ClaimDeadpoolIDCmd)(nil), flags)
}
