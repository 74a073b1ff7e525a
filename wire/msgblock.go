// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
)

// MsgBlock implements a FACT0RN block message.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// NewMsgBlock returns a new FACT0RN block message that conforms to the
// MsgBlock interface using the passed parameters and defaults for the
// remaining fields.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *header,
		Transactions: make([]*MsgTx, 0, 1),
	}
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// BlockHash computes the block identifier hash for the block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Serialize encodes the block to w: header followed by a var-int
// transaction count and each transaction.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := writeVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r into msg.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}
	count, err := readVarInt(r)
	if err != nil {
		return err
	}
	msg.Transactions = make([]*MsgTx, count)
	for i := range msg.Transactions {
		tx := &MsgTx{}
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		msg.Transactions[i] = tx
	}
	return nil
}
