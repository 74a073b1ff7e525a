// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deadpool

import (
	"encoding/binary"
	"fmt"

	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Index is the durable, rebuildable RPC-facing view of deadpool state:
// every entry and announcement ever seen, and the claim status
// of each entry. It lives under indexes/deadpool/ and may always be
// thrown away and rebuilt by replaying blocks from genesis.
type Index struct {
	db *leveldb.DB
}

// OpenIndex opens (creating if necessary) the deadpool index at path.
func OpenIndex(path string) (*Index, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("deadpool: open index: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// BestBlock returns the height and hash of the last block the index has
// processed, or height -1 if the index is empty (not yet synced past
// genesis).
func (idx *Index) BestBlock() (height int32, hash chainhash.Hash, err error) {
	val, err := idx.db.Get([]byte{tagBestBlock}, nil)
	if err == leveldb.ErrNotFound {
		return -1, chainhash.Hash{}, nil
	}
	if err != nil {
		return 0, chainhash.Hash{}, err
	}
	height = int32(binary.LittleEndian.Uint32(val[:4]))
	copy(hash[:], val[4:36])
	return height, hash, nil
}

// ConnectBlock records the deadpool-relevant effects of connecting a
// block at height with hash blockHash: new entries and announcements for
// every matching output, a fresh unclaimed claim record per entry, and
// claim-record updates for every input that spends a tracked entry.
//
// All writes land in a single batch committed atomically, so a crash
// mid-block leaves the index exactly as it was before ConnectBlock was
// called — replaying the same block again is always safe.
func (idx *Index) ConnectBlock(height int32, blockHash chainhash.Hash, txs []*wire.MsgTx) error {
	log.Debugf("Indexing deadpool entries for block %d (%s)", height, blockHash)

	batch := new(leveldb.Batch)

	for _, tx := range txs {
		txHash := tx.TxHash()

		for voutIdx, out := range tx.TxOut {
			op := wire.OutPoint{Hash: txHash, Index: uint32(voutIdx)}

			switch txscript.GetScriptClass(out.PkScript) {
			case txscript.DeadpoolEntryTy:
				entry, ok := txscript.ParseCEntry(out.PkScript)
				if !ok {
					continue
				}
				deadpoolId := txscript.NHash(entry.N.Bytes())
				putIndexRow(batch, entryKey(deadpoolId, op), height, out)
				putClaimRow(batch, claimKey(op, deadpoolId), ClaimRecord{
					EntryLocator: op,
					DeadpoolId:   deadpoolId,
				})

			case txscript.DeadpoolAnnounceTy:
				announce, ok := txscript.ParseCAnnounce(out.PkScript)
				if !ok {
					continue
				}
				deadpoolId := txscript.NHash(announce.ReadN())
				putIndexRow(batch, announceKey(deadpoolId, op), height, out)
			}
		}

		for _, in := range tx.TxIn {
			idx.recordClaimSpend(batch, in.PreviousOutPoint, height, blockHash, txHash, in.SignatureScript)
		}
	}

	putBestBlock(batch, height, blockHash)
	return idx.db.Write(batch, nil)
}

// recordClaimSpend updates the claim record for prevOut, if one exists,
// to reflect that it was spent in txHash at height. It is a no-op for
// inputs that do not spend a tracked deadpool entry.
func (idx *Index) recordClaimSpend(batch *leveldb.Batch, prevOut wire.OutPoint, height int32, blockHash, txHash chainhash.Hash, sigScript []byte) {
	prefix := claimPrefix(prevOut)
	iter := idx.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		rec := decodeClaimRow(iter.Value())
		rec.EntryLocator = prevOut

		_, solution, ok := txscript.ParseClaimScriptSig(sigScript)
		if ok {
			rec.SolutionBytes = solution
		}
		rec.ClaimHeight = height
		rec.ClaimBlockHash = blockHash
		rec.ClaimTxHash = txHash

		putClaimRow(batch, key, rec)
	}
}

// DisconnectBlock inverts every write ConnectBlock made for height,
// restoring the index to its state immediately before that block was
// connected: entries and announcements created at height are deleted,
// and claim records spent at height revert to unclaimed.
func (idx *Index) DisconnectBlock(height int32, prevHash chainhash.Hash, prevHeight int32, txs []*wire.MsgTx) error {
	batch := new(leveldb.Batch)

	for _, tx := range txs {
		txHash := tx.TxHash()

		for voutIdx, out := range tx.TxOut {
			op := wire.OutPoint{Hash: txHash, Index: uint32(voutIdx)}

			switch txscript.GetScriptClass(out.PkScript) {
			case txscript.DeadpoolEntryTy:
				entry, ok := txscript.ParseCEntry(out.PkScript)
				if !ok {
					continue
				}
				deadpoolId := txscript.NHash(entry.N.Bytes())
				batch.Delete(entryKey(deadpoolId, op))
				batch.Delete(claimKey(op, deadpoolId))

			case txscript.DeadpoolAnnounceTy:
				announce, ok := txscript.ParseCAnnounce(out.PkScript)
				if !ok {
					continue
				}
				deadpoolId := txscript.NHash(announce.ReadN())
				batch.Delete(announceKey(deadpoolId, op))
			}
		}

		for _, in := range tx.TxIn {
			idx.revertClaimSpend(batch, in.PreviousOutPoint, height)
		}
	}

	putBestBlock(batch, prevHeight, prevHash)
	return idx.db.Write(batch, nil)
}

// revertClaimSpend resets the claim record for prevOut back to unclaimed
// if it was spent at exactly height — a claim recorded at an earlier
// height belongs to a block that is not being disconnected and must be
// left alone.
func (idx *Index) revertClaimSpend(batch *leveldb.Batch, prevOut wire.OutPoint, height int32) {
	prefix := claimPrefix(prevOut)
	iter := idx.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		rec := decodeClaimRow(iter.Value())
		if rec.ClaimHeight != height {
			continue
		}
		rec.ClaimHeight = 0
		rec.ClaimBlockHash = chainhash.Hash{}
		rec.ClaimTxHash = chainhash.Hash{}
		rec.SolutionBytes = nil
		putClaimRow(batch, key, rec)
	}
}

// GetEntries returns every entry and announcement row known for
// deadpoolId, alongside the claim record for each entry.
func (idx *Index) GetEntries(deadpoolId [32]byte) (entries, announcements []IndexEntry, claims []ClaimRecord, err error) {
	entries, err = idx.scanIndexRows(entryPrefix(deadpoolId), deadpoolId)
	if err != nil {
		return nil, nil, nil, err
	}
	announcements, err = idx.scanIndexRows(announcePrefix(deadpoolId), deadpoolId)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, e := range entries {
		rec, err := idx.getClaimRow(e.Locator, deadpoolId)
		if err != nil {
			return nil, nil, nil, err
		}
		claims = append(claims, rec)
	}
	return entries, announcements, claims, nil
}

// ListEntries scans every entry row known to the index, restricted to the
// last numBlocks blocks before tipHeight and capped at limit rows. Rows
// come back in key order, which groups by deadpool id rather than by
// height. Entries
// already claimed are omitted unless includeClaimed is set. When
// includeAnnounced is set, each returned row's Announced field reports
// whether any announcement row exists for its deadpool id; when it is
// not set, Announced is left false and the extra lookup is skipped.
func (idx *Index) ListEntries(tipHeight, numBlocks int32, limit int, includeClaimed, includeAnnounced bool) ([]ListedEntry, error) {
	minHeight := int32(0)
	if numBlocks > 0 && tipHeight-numBlocks+1 > 0 {
		minHeight = tipHeight - numBlocks + 1
	}

	iter := idx.db.NewIterator(util.BytesPrefix([]byte{tagEntry}), nil)
	defer iter.Release()

	var rows []ListedEntry
	for iter.Next() {
		if limit > 0 && len(rows) >= limit {
			break
		}

		key := iter.Key()
		var deadpoolId [32]byte
		copy(deadpoolId[:], key[1:33])
		opBytes := key[33:]

		height, out := decodeIndexRow(iter.Value())
		if height < minHeight {
			continue
		}

		entry := IndexEntry{
			DeadpoolId: deadpoolId,
			Locator:    parseOutpoint(opBytes),
			Height:     height,
			TxOut:      out,
		}

		claim, err := idx.getClaimRow(entry.Locator, deadpoolId)
		if err != nil {
			return nil, err
		}
		if !includeClaimed && !claim.Unclaimed() {
			continue
		}

		row := ListedEntry{Entry: entry, Claim: claim}
		if includeAnnounced {
			annIter := idx.db.NewIterator(util.BytesPrefix(announcePrefix(deadpoolId)), nil)
			row.Announced = annIter.Next()
			annIter.Release()
		}
		rows = append(rows, row)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (idx *Index) scanIndexRows(prefix []byte, deadpoolId [32]byte) ([]IndexEntry, error) {
	iter := idx.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var rows []IndexEntry
	for iter.Next() {
		opBytes := iter.Key()[len(prefix):]
		height, out := decodeIndexRow(iter.Value())
		rows = append(rows, IndexEntry{
			DeadpoolId: deadpoolId,
			Locator:    parseOutpoint(opBytes),
			Height:     height,
			TxOut:      out,
		})
	}
	return rows, iter.Error()
}

// LookupEntryByOutpoint finds the entry row and claim record for op,
// without requiring the caller to already know its deadpool id — the RPC
// claim-template builders only have outpoints from the user, not ids.
func (idx *Index) LookupEntryByOutpoint(op wire.OutPoint) (entry IndexEntry, claim ClaimRecord, found bool, err error) {
	prefix := claimPrefix(op)
	iter := idx.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	if !iter.Next() {
		return IndexEntry{}, ClaimRecord{}, false, iter.Error()
	}

	var deadpoolId [32]byte
	copy(deadpoolId[:], iter.Key()[len(prefix):])
	claim = decodeClaimRow(iter.Value())
	claim.EntryLocator = op
	claim.DeadpoolId = deadpoolId

	val, err := idx.db.Get(entryKey(deadpoolId, op), nil)
	if err == leveldb.ErrNotFound {
		return IndexEntry{}, ClaimRecord{}, false, nil
	}
	if err != nil {
		return IndexEntry{}, ClaimRecord{}, false, err
	}
	height, out := decodeIndexRow(val)
	entry = IndexEntry{DeadpoolId: deadpoolId, Locator: op, Height: height, TxOut: out}
	return entry, claim, true, nil
}

func (idx *Index) getClaimRow(op wire.OutPoint, deadpoolId [32]byte) (ClaimRecord, error) {
	val, err := idx.db.Get(claimKey(op, deadpoolId), nil)
	if err == leveldb.ErrNotFound {
		return ClaimRecord{EntryLocator: op, DeadpoolId: deadpoolId}, nil
	}
	if err != nil {
		return ClaimRecord{}, err
	}
	rec := decodeClaimRow(val)
	rec.EntryLocator = op
	rec.DeadpoolId = deadpoolId
	return rec, nil
}

func putIndexRow(batch *leveldb.Batch, key []byte, height int32, out *wire.TxOut) {
	batch.Put(key, encodeIndexRow(height, out))
}

func encodeIndexRow(height int32, out *wire.TxOut) []byte {
	buf := make([]byte, 4, 4+8+4+len(out.PkScript))
	binary.LittleEndian.PutUint32(buf, uint32(height))
	var valBuf [8]byte
	binary.LittleEndian.PutUint64(valBuf[:], uint64(out.Value))
	buf = append(buf, valBuf[:]...)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(out.PkScript)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, out.PkScript...)
	return buf
}

func decodeIndexRow(val []byte) (int32, wire.TxOut) {
	height := int32(binary.LittleEndian.Uint32(val[:4]))
	value := int64(binary.LittleEndian.Uint64(val[4:12]))
	scriptLen := binary.LittleEndian.Uint32(val[12:16])
	script := append([]byte(nil), val[16:16+scriptLen]...)
	return height, wire.TxOut{Value: value, PkScript: script}
}

func putClaimRow(batch *leveldb.Batch, key []byte, rec ClaimRecord) {
	batch.Put(key, encodeClaimRow(rec))
}

func encodeClaimRow(rec ClaimRecord) []byte {
	buf := make([]byte, 4, 4+32+32+4+len(rec.SolutionBytes))
	binary.LittleEndian.PutUint32(buf, uint32(rec.ClaimHeight))
	buf = append(buf, rec.ClaimBlockHash[:]...)
	buf = append(buf, rec.ClaimTxHash[:]...)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(rec.SolutionBytes)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, rec.SolutionBytes...)
	return buf
}

func decodeClaimRow(val []byte) ClaimRecord {
	var rec ClaimRecord
	rec.ClaimHeight = int32(binary.LittleEndian.Uint32(val[:4]))
	copy(rec.ClaimBlockHash[:], val[4:36])
	copy(rec.ClaimTxHash[:], val[36:68])
	solLen := binary.LittleEndian.Uint32(val[68:72])
	rec.SolutionBytes = append([]byte(nil), val[72:72+solLen]...)
	return rec
}

func putBestBlock(batch *leveldb.Batch, height int32, hash chainhash.Hash) {
	buf := make([]byte, 36)
	binary.LittleEndian.PutUint32(buf[:4], uint32(height))
	copy(buf[4:], hash[:])
	batch.Put([]byte{tagBestBlock}, buf)
}
