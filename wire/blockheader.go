// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
)

// BlockHeaderLen is the number of bytes in a serialized FACT0RN block
// header: the usual Bitcoin-family fields plus the factorization
// proof-of-work fields (Bits, WOffset, P1) that replace the legacy
// hash-preimage nBits/nNonce pair's semantics.
const BlockHeaderLen = 4 + chainhash.HashSize*2 + 4 + 2 + 8 + 8 + bigint.Buf1024Size

// BlockHeader defines information about a block and is used in the FACT0RN
// block (MsgBlock) and headers (MsgHeaders) messages.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// Hash of the previous block in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created, truncated to 32-bit Unix time on the
	// wire.
	Timestamp time.Time

	// Nonce used to generate the block, searched by miners varying W
	// through gHash.
	Nonce uint64

	// Bits is the declared bit-length of the semiprime N being claimed;
	// it plays the role of the legacy difficulty target but is a direct
	// bit-size bound rather than a compact target encoding.
	Bits uint16

	// WOffset is the signed displacement of the claimed semiprime N from
	// the gHash-derived seed W: N = W + WOffset.
	WOffset int64

	// P1 is one of N's two prime factors, little-endian, fixed-width.
	// The second factor is not carried on the wire; it is derived by
	// validators as N / P1 when checking proof of work.
	P1 bigint.Buf1024
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf, err := h.Bytes()
	if err != nil {
		panic(err)
	}
	return chainhash.DoubleHashH(buf)
}

// Bytes returns the canonical serialized form of the header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	var buf writeBuf
	if err := h.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serialize encodes the header to w in the field order nVersion,
// hashPrevBlock, hashMerkleRoot, nTime, nBits, nNonce, wOffset, nP1.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(h.Timestamp.Unix())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Bits); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Nonce); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.WOffset); err != nil {
		return err
	}
	_, err := w.Write(h.P1[:])
	return err
}

// Deserialize decodes a header from r into h.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &h.Version); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}

	var ts uint32
	if err := binary.Read(r, binary.LittleEndian, &ts); err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(ts), 0)

	if err := binary.Read(r, binary.LittleEndian, &h.Bits); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Nonce); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &h.WOffset); err != nil {
		return err
	}
	_, err := io.ReadFull(r, h.P1[:])
	return err
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root hash, PoW fields, and timestamp.
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash,
	bits uint16, wOffset int64, p1 bigint.Buf1024, nonce uint64) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		WOffset:    wOffset,
		P1:         p1,
		Nonce:      nonce,
	}
}
