// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deadpool

import (
	"encoding/binary"
	"fmt"

	"github.com/decred/dcrd/lru"
	"github.com/fact0rn/fact0rnd/txscript"
	"github.com/fact0rn/fact0rnd/wire"
	"github.com/syndtr/goleveldb/leveldb"
)

// hotCacheSize bounds the announcement hot cache. The cache only records
// the keys of recently connected or looked-up announcements; Lookup
// always reads the record from the database and never answers from the
// cache.
const hotCacheSize = 5000

// AnnouncementDB is the separate, consensus-critical store
// OP_ANNOUNCEVERIFY consults synchronously during script execution.
// Unlike Index, it is not safely rebuildable from blocks alone
// if lost mid-reorg window: while the (deadpoolId, outpoint, claimHash,
// height) tuple is recoverable by rescanning announcement outputs, a
// node that loses this database while also missing recent blocks has
// no way to reconstruct validity without re-downloading those blocks.
type AnnouncementDB struct {
	db  *leveldb.DB
	hot lru.Cache
}

// OpenAnnouncementDB opens (creating if necessary) the announcement
// database at path.
func OpenAnnouncementDB(path string) (*AnnouncementDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("deadpool: open announcement db: %w", err)
	}
	return &AnnouncementDB{
		db:  db,
		hot: lru.NewCache(hotCacheSize),
	}, nil
}

// Close releases the underlying database handle.
func (a *AnnouncementDB) Close() error {
	return a.db.Close()
}

// Lookup implements txscript.AnnouncementReader. It is consulted by
// OP_ANNOUNCEVERIFY and must only ever answer with announcements
// already confirmed strictly below the block currently being
// validated: callers connecting block H must populate this database
// with block H's own announcements only after every transaction in H
// has been checked against it, never before, so a claim cannot be
// satisfied by an announcement made in the same block.
func (a *AnnouncementDB) Lookup(deadpoolId [32]byte, _ wire.OutPoint) (txscript.AnnouncementRecord, bool) {
	key := announceRecordKey(deadpoolId)
	cacheKey := string(key)

	val, err := a.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return txscript.AnnouncementRecord{}, false
	}
	if err != nil {
		return txscript.AnnouncementRecord{}, false
	}

	a.hot.Add(cacheKey)
	return decodeAnnouncementRecord(val), true
}

// ConnectBlock records every announcement output confirmed at height so
// future claim validation can see it. It must be called only after all
// of height's own transactions have already been checked against the
// database's pre-block state (see Lookup's doc comment).
func (a *AnnouncementDB) ConnectBlock(height int32, txs []*wire.MsgTx) error {
	batch := new(leveldb.Batch)

	for _, tx := range txs {
		for _, out := range tx.TxOut {
			announce, ok := txscript.ParseCAnnounce(out.PkScript)
			if !ok {
				continue
			}
			deadpoolId := txscript.NHash(announce.ReadN())
			key := announceRecordKey(deadpoolId)
			rec := txscript.AnnouncementRecord{Height: height, ClaimHash: announce.ClaimHash}
			batch.Put(key, encodeAnnouncementRecord(rec))
			a.hot.Add(string(key))
		}
	}

	return a.db.Write(batch, nil)
}

// DisconnectBlock removes the announcement record of every announcement
// output in txs, the inverse of ConnectBlock. Records are deleted by
// deadpool id; the stored height is not checked.
func (a *AnnouncementDB) DisconnectBlock(height int32, txs []*wire.MsgTx) error {
	batch := new(leveldb.Batch)

	for _, tx := range txs {
		for _, out := range tx.TxOut {
			announce, ok := txscript.ParseCAnnounce(out.PkScript)
			if !ok {
				continue
			}
			deadpoolId := txscript.NHash(announce.ReadN())
			key := announceRecordKey(deadpoolId)
			batch.Delete(key)
			a.hot.Delete(string(key))
		}
	}

	return a.db.Write(batch, nil)
}

// announceRecordKey is keyed by deadpool id alone: an announcement
// commits to N and a claim hash, not to any particular entry outpoint,
// so every open entry sharing that N accepts the same announcement.
func announceRecordKey(deadpoolId [32]byte) []byte {
	return concatKey(tagAnnounce, deadpoolId[:])
}

func encodeAnnouncementRecord(rec txscript.AnnouncementRecord) []byte {
	buf := make([]byte, 4+32)
	binary.LittleEndian.PutUint32(buf[:4], uint32(rec.Height))
	copy(buf[4:], rec.ClaimHash[:])
	return buf
}

func decodeAnnouncementRecord(val []byte) txscript.AnnouncementRecord {
	var rec txscript.AnnouncementRecord
	rec.Height = int32(binary.LittleEndian.Uint32(val[:4]))
	copy(rec.ClaimHash[:], val[4:36])
	return rec
}
