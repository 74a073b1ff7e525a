// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deadpool

import (
	"encoding/binary"

	"github.com/fact0rn/fact0rnd/wire"
)

// Key-space tags for the index's single LevelDB instance: one byte
// distinguishes the entry, announcement and claim tables so they can
// share a database without colliding, and so a range scan over one
// table's prefix never touches another's rows.
const (
	tagEntry     byte = 'd'
	tagAnnounce  byte = 'a'
	tagClaim     byte = 'c'
	tagBestBlock byte = 'b'
)

// outpointBytes serializes an outpoint as its 32-byte hash followed by
// its 4-byte little-endian index, the fixed-width encoding every index
// key below builds on.
func outpointBytes(op wire.OutPoint) []byte {
	buf := make([]byte, 36)
	copy(buf[:32], op.Hash[:])
	binary.LittleEndian.PutUint32(buf[32:], op.Index)
	return buf
}

func parseOutpoint(b []byte) wire.OutPoint {
	var op wire.OutPoint
	copy(op.Hash[:], b[:32])
	op.Index = binary.LittleEndian.Uint32(b[32:36])
	return op
}

// entryKey returns the `d|deadpoolId|outpoint` key for an entry row.
func entryKey(deadpoolId [32]byte, op wire.OutPoint) []byte {
	return concatKey(tagEntry, deadpoolId[:], outpointBytes(op))
}

// entryPrefix returns the prefix covering every entry row for a deadpool
// id, for range scans.
func entryPrefix(deadpoolId [32]byte) []byte {
	return concatKey(tagEntry, deadpoolId[:])
}

// announceKey returns the `a|deadpoolId|outpoint` key for an announcement
// row.
func announceKey(deadpoolId [32]byte, op wire.OutPoint) []byte {
	return concatKey(tagAnnounce, deadpoolId[:], outpointBytes(op))
}

func announcePrefix(deadpoolId [32]byte) []byte {
	return concatKey(tagAnnounce, deadpoolId[:])
}

// claimKey returns the `c|outpoint|deadpoolId` key for a claim row.
func claimKey(op wire.OutPoint, deadpoolId [32]byte) []byte {
	return concatKey(tagClaim, outpointBytes(op), deadpoolId[:])
}

func claimPrefix(op wire.OutPoint) []byte {
	return concatKey(tagClaim, outpointBytes(op))
}

func concatKey(tag byte, parts ...[]byte) []byte {
	n := 1
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 1, n)
	out[0] = tag
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// prefixRangeEnd returns the exclusive upper bound of a range scan over
// every key beginning with prefix, by incrementing its last byte (the
// prefixes used here never end in 0xff).
func prefixRangeEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	end[len(end)-1]++
	return end
}
