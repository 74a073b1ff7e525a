// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/hex"
	"fmt"

	"github.com/fact0rn/fact0rnd/addresses"
	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/btcjson"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/deadpool"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
)

func invalidParam(format string, args ...interface{}) error {
	return btcjson.NewRPCError(btcjson.ErrRPCInvalidParameter, fmt.Sprintf(format, args...))
}

func parseDeadpoolID(s string) ([32]byte, error) {
	var id [32]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return id, invalidParam("deadpoolid must be a 32-byte hex string")
	}
	copy(id[:], b)
	return id, nil
}

// handleGetDeadpoolID implements getdeadpoolid: SHA256 of N's canonical
// encoding, computable without N ever having been posted as an entry.
func handleGetDeadpoolID(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.GetDeadpoolIDCmd)

	n, err := bigint.NewFromString(c.NDecimal)
	if err != nil {
		return nil, invalidParam("n_decimal: %v", err)
	}

	id := txscript.NHash(n.Bytes())
	return hex.EncodeToString(id[:]), nil
}

// handleGetDeadpoolEntry implements getdeadpoolentry.
func handleGetDeadpoolEntry(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.GetDeadpoolEntryCmd)

	id, err := parseDeadpoolID(c.DeadpoolID)
	if err != nil {
		return nil, err
	}

	entryRows, announceRows, claimRows, err := s.Ctx.Index.GetEntries(id)
	if err != nil {
		return nil, fmt.Errorf("rpc: getdeadpoolentry: %w", err)
	}
	if len(entryRows) == 0 {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCDeadpoolNotFound, "no entries for deadpool id")
	}

	entry, ok := txscript.ParseCEntry(entryRows[0].TxOut.PkScript)
	if !ok {
		return nil, fmt.Errorf("rpc: getdeadpoolentry: index entry is not a valid deadpool entry script")
	}

	var bounty int64
	for i, e := range entryRows {
		if claimRows[i].Unclaimed() {
			bounty += e.TxOut.Value
		}
	}

	result := &btcjson.GetDeadpoolEntryResult{
		N:             entry.N.String(),
		Bits:          entry.N.BitLen(),
		DeadpoolID:    c.DeadpoolID,
		Bounty:        bounty,
		Entries:       toLocatorResults(entryRows),
		Announcements: toLocatorResults(announceRows),
	}
	return result, nil
}

func toLocatorResults(rows []deadpool.IndexEntry) []btcjson.DeadpoolLocatorResult {
	out := make([]btcjson.DeadpoolLocatorResult, len(rows))
	for i, r := range rows {
		out[i] = btcjson.DeadpoolLocatorResult{
			Height: r.Height,
			TxID:   r.Locator.Hash.String(),
			Vout:   r.Locator.Index,
			Value:  r.TxOut.Value,
		}
	}
	return out
}

func intOrDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func int32OrDefault(p *int32, def int32) int32 {
	if p == nil {
		return def
	}
	return *p
}

func boolOrDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// handleListDeadpoolEntries implements listdeadpoolentries.
func handleListDeadpoolEntries(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.ListDeadpoolEntriesCmd)

	numBlocks := int32OrDefault(c.NumBlocks, 1000)
	limit := intOrDefault(c.Limit, 1000)
	includeClaimed := boolOrDefault(c.IncludeClaimed, false)
	includeAnnounced := boolOrDefault(c.IncludeAnnounced, true)

	rows, err := s.Ctx.Index.ListEntries(s.TipHeight(), numBlocks, limit, includeClaimed, includeAnnounced)
	if err != nil {
		return nil, fmt.Errorf("rpc: listdeadpoolentries: %w", err)
	}

	result := make([]btcjson.ListDeadpoolEntriesResultItem, len(rows))
	for i, row := range rows {
		result[i] = btcjson.ListDeadpoolEntriesResultItem{
			DeadpoolID: hex.EncodeToString(row.Entry.DeadpoolId[:]),
			Height:     row.Entry.Height,
			TxID:       row.Entry.Locator.Hash.String(),
			Vout:       row.Entry.Locator.Index,
			Value:      row.Entry.TxOut.Value,
			Claimed:    !row.Claim.Unclaimed(),
			Announced:  row.Announced,
		}
	}
	return result, nil
}

// handleCreateDeadpoolEntry implements createdeadpoolentry: a single
// deadpool entry output, unsigned and unbroadcast.
func handleCreateDeadpoolEntry(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.CreateDeadpoolEntryCmd)

	n, err := bigint.NewFromString(c.NDecimal)
	if err != nil {
		return nil, invalidParam("n_decimal: %v", err)
	}
	if err := txscript.CheckDeadpoolInteger(n.Bytes(), s.Ctx.Params); err != nil {
		return nil, invalidParam("n_decimal: %v", err)
	}

	script, err := (txscript.CEntry{N: n}).Script()
	if err != nil {
		return nil, fmt.Errorf("rpc: createdeadpoolentry: %w", err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(c.Amount, script))
	return encodeTxTemplate(tx)
}

// handleAnnounceDeadpoolClaim implements announcedeadpoolclaim: an
// unspendable announcement output committing to (solution, address)
// without revealing the solution on-chain.
func handleAnnounceDeadpoolClaim(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.AnnounceDeadpoolClaimCmd)

	n, err := bigint.NewFromString(c.EntryN)
	if err != nil {
		return nil, invalidParam("entry_n: %v", err)
	}
	p, err := bigint.NewFromString(c.Solution)
	if err != nil {
		return nil, invalidParam("solution: %v", err)
	}
	if err := checkSolution(n, p); err != nil {
		return nil, err
	}
	if c.BurnAmount < s.Ctx.Params.DeadpoolAnnounceMinBurn {
		return nil, invalidParam("burn_amount %d below minimum burn %d",
			c.BurnAmount, s.Ctx.Params.DeadpoolAnnounceMinBurn)
	}

	destAddr, err := addresses.Parse(c.Address, s.Ctx.Params)
	if err != nil {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCInvalidAddressOrKey, err.Error())
	}
	destScript, err := addresses.PayToAddrScript(destAddr)
	if err != nil {
		return nil, fmt.Errorf("rpc: announcedeadpoolclaim: %w", err)
	}

	claimHash := txscript.ClaimHash(p.Bytes(), destScript)
	script, err := (txscript.CAnnounce{ClaimHash: claimHash, N: n}).Script()
	if err != nil {
		return nil, fmt.Errorf("rpc: announcedeadpoolclaim: %w", err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(c.BurnAmount, script))
	return encodeTxTemplate(tx)
}

// handleClaimDeadpoolTxs implements claimdeadpooltxs: spends the given
// entry outpoints to to_address, revealing solution in each scriptSig.
func handleClaimDeadpoolTxs(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.ClaimDeadpoolTxsCmd)

	if len(c.Inputs) == 0 {
		return nil, invalidParam("inputs must not be empty")
	}

	outpoints := make([]wire.OutPoint, len(c.Inputs))
	for i, in := range c.Inputs {
		h, err := chainhash.NewHashFromStr(in.TxID)
		if err != nil {
			return nil, invalidParam("inputs[%d].txid: %v", i, err)
		}
		outpoints[i] = wire.OutPoint{Hash: *h, Index: in.Vout}
	}

	return buildClaimTx(s, outpoints, c.ToAddress, c.Solution)
}

// handleClaimDeadpoolID implements claimdeadpoolid: claims every
// currently unclaimed entry sharing deadpoolId in a single transaction.
func handleClaimDeadpoolID(s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*btcjson.ClaimDeadpoolIDCmd)

	id, err := parseDeadpoolID(c.DeadpoolID)
	if err != nil {
		return nil, err
	}

	entryRows, _, claimRows, err := s.Ctx.Index.GetEntries(id)
	if err != nil {
		return nil, fmt.Errorf("rpc: claimdeadpoolid: %w", err)
	}

	var outpoints []wire.OutPoint
	for i, e := range entryRows {
		if claimRows[i].Unclaimed() {
			outpoints = append(outpoints, e.Locator)
		}
	}
	if len(outpoints) == 0 {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCDeadpoolNotFound, "no unclaimed entries for deadpool id")
	}

	return buildClaimTx(s, outpoints, c.ToAddress, c.Solution)
}

// buildClaimTx builds the shared claim-transaction shape: one input per
// outpoint (each revealing the same claim commitment), one output paying
// the full sum of the spent entries' values to toAddress. The fee the
// eventual broadcaster chooses is left for them to deduct — this is a
// template, not a finished transaction.
func buildClaimTx(s *Server, outpoints []wire.OutPoint, toAddress, solutionDecimal string) (interface{}, error) {
	p, err := bigint.NewFromString(solutionDecimal)
	if err != nil {
		return nil, invalidParam("solution: %v", err)
	}

	destAddr, err := addresses.Parse(toAddress, s.Ctx.Params)
	if err != nil {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCInvalidAddressOrKey, err.Error())
	}
	destScript, err := addresses.PayToAddrScript(destAddr)
	if err != nil {
		return nil, fmt.Errorf("rpc: buildClaimTx: %w", err)
	}

	claimHash := txscript.ClaimHash(p.Bytes(), destScript)
	sigScript, err := txscript.NewScriptBuilder().
		AddData(claimHash[:]).
		AddData(p.Bytes()).
		Script()
	if err != nil {
		return nil, fmt.Errorf("rpc: buildClaimTx: %w", err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	var total int64
	for _, op := range outpoints {
		entry, claim, found, err := s.Ctx.Index.LookupEntryByOutpoint(op)
		if err != nil {
			return nil, fmt.Errorf("rpc: buildClaimTx: %w", err)
		}
		if !found {
			return nil, invalidParam("outpoint %s:%d is not a known deadpool entry", op.Hash.String(), op.Index)
		}
		if !claim.Unclaimed() {
			return nil, invalidParam("outpoint %s:%d is already claimed", op.Hash.String(), op.Index)
		}
		if parsed, ok := txscript.ParseCEntry(entry.TxOut.PkScript); ok {
			if err := checkSolution(parsed.N, p); err != nil {
				return nil, err
			}
		}
		tx.AddTxIn(&wire.TxIn{PreviousOutPoint: op, SignatureScript: sigScript})
		total += entry.TxOut.Value
	}
	tx.AddTxOut(wire.NewTxOut(total, destScript))

	return encodeTxTemplate(tx)
}

// checkSolution rejects a solution that does not actually factor n, so a
// typo'd p fails at template-build time instead of at script validation.
func checkSolution(n, p bigint.Int) error {
	if p.Cmp(bigint.NewFromInt64(1)) <= 0 {
		return invalidParam("solution must be greater than 1")
	}
	if !n.Mod(p).IsZero() {
		return invalidParam("solution does not divide n")
	}
	if p.Cmp(n.Div(p)) > 0 {
		return invalidParam("solution must be the smaller factor of n")
	}
	return nil
}

func encodeTxTemplate(tx *wire.MsgTx) (interface{}, error) {
	b, err := tx.Bytes()
	if err != nil {
		return nil, fmt.Errorf("rpc: serialize tx template: %w", err)
	}
	return &btcjson.CreateTxTemplateResult{HexTx: hex.EncodeToString(b)}, nil
}
