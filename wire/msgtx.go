// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
)

// TxVersion is the current latest supported transaction version.
const TxVersion int32 = 1

// MaxTxInSequenceNum is the maximum sequence number a tx input can have,
// disabling the relative-locktime/replace-by-fee semantics for that input.
const MaxTxInSequenceNum uint32 = 0xffffffff

// OutPoint defines a FACT0RN data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new FACT0RN transaction outpoint point with the
// provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// String returns the canonical string representation of the outpoint as
// "hash:index".
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

// TxIn defines a FACT0RN transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a new FACT0RN transaction input with the provided
// previous outpoint and signature script.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a FACT0RN transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new FACT0RN transaction output with the provided
// transaction value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// MsgTx implements a FACT0RN transaction message. It is used to deliver
// coins and, for the deadpool protocol, to host the entry/announce/claim
// scripts carried in TxOut.PkScript. There is deliberately no witness
// field: deadpool scripts run entirely in PkScript/SignatureScript.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new FACT0RN tx message with the given version.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, 1),
		TxOut:   make([]*TxOut, 0, 1),
	}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the hash for the transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf, err := msg.Bytes()
	if err != nil {
		// Serialization of a well-formed MsgTx never fails; a failure
		// here means a caller built an invalid message.
		panic(err)
	}
	return chainhash.DoubleHashH(buf)
}

// Bytes returns the canonical serialized form of the transaction.
func (msg *MsgTx) Bytes() ([]byte, error) {
	var buf writeBuf
	if err := msg.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serialize encodes the transaction to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, msg.Version); err != nil {
		return err
	}
	if err := writeVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, to); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, msg.LockTime)
}

// Deserialize decodes a transaction from r into msg.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &msg.Version); err != nil {
		return err
	}

	inCount, err := readVarInt(r)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, inCount)
	for i := range msg.TxIn {
		ti := &TxIn{}
		if err := readTxIn(r, ti); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	outCount, err := readVarInt(r)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, outCount)
	for i := range msg.TxOut {
		to := &TxOut{}
		if err := readTxOut(r, to); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	return binary.Read(r, binary.LittleEndian, &msg.LockTime)
}

func writeTxIn(w io.Writer, ti *TxIn) error {
	if _, err := w.Write(ti.PreviousOutPoint.Hash[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ti.PreviousOutPoint.Index); err != nil {
		return err
	}
	if err := writeVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, ti.Sequence)
}

func readTxIn(r io.Reader, ti *TxIn) error {
	if _, err := io.ReadFull(r, ti.PreviousOutPoint.Hash[:]); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &ti.PreviousOutPoint.Index); err != nil {
		return err
	}
	script, err := readVarBytes(r)
	if err != nil {
		return err
	}
	ti.SignatureScript = script
	return binary.Read(r, binary.LittleEndian, &ti.Sequence)
}

func writeTxOut(w io.Writer, to *TxOut) error {
	if err := binary.Write(w, binary.LittleEndian, to.Value); err != nil {
		return err
	}
	return writeVarBytes(w, to.PkScript)
}

func readTxOut(r io.Reader, to *TxOut) error {
	if err := binary.Read(r, binary.LittleEndian, &to.Value); err != nil {
		return err
	}
	script, err := readVarBytes(r)
	if err != nil {
		return err
	}
	to.PkScript = script
	return nil
}
