// Copyright (c) 2014-2024 The btcsuite developers
// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxScriptSize is the maximum allowed length of a raw script.
const MaxScriptSize = 10000

// ErrScriptTooLong is returned when a built script exceeds MaxScriptSize.
var ErrScriptTooLong = errors.New("txscript: script too long")

// ScriptBuilder provides a facility for building custom scripts. It allows
// the clients to push opcodes, ints, and data while respecting canonical
// encoding rules (smallest possible push for the data at hand), matching
// the ancestor chain's builder so deadpool templates disassemble the same
// way standard templates do.
type ScriptBuilder struct {
	script []byte
	err    error
}

// NewScriptBuilder returns a new instance of a script builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{script: make([]byte, 0, 32)}
}

// AddOp pushes the passed opcode to the end of the script.
func (b *ScriptBuilder) AddOp(op byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if len(b.script)+1 > MaxScriptSize {
		b.err = ErrScriptTooLong
		return b
	}
	b.script = append(b.script, op)
	return b
}

// AddData pushes the passed data to the end of the script, choosing the
// smallest canonical opcode sequence capable of encoding it.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	dataLen := len(data)
	var extra int
	switch {
	case dataLen < OP_PUSHDATA1:
		extra = 1
	case dataLen <= 0xff:
		extra = 2
	case dataLen <= 0xffff:
		extra = 3
	default:
		extra = 5
	}
	if len(b.script)+extra+dataLen > MaxScriptSize {
		b.err = ErrScriptTooLong
		return b
	}

	switch {
	case dataLen == 0:
		b.script = append(b.script, OP_0)
	case dataLen < OP_PUSHDATA1:
		b.script = append(b.script, byte(dataLen))
	case dataLen <= 0xff:
		b.script = append(b.script, OP_PUSHDATA1, byte(dataLen))
	case dataLen <= 0xffff:
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(dataLen))
		b.script = append(b.script, OP_PUSHDATA2)
		b.script = append(b.script, lenBuf[:]...)
	default:
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(dataLen))
		b.script = append(b.script, OP_PUSHDATA4)
		b.script = append(b.script, lenBuf[:]...)
	}

	b.script = append(b.script, data...)
	return b
}

// AddInt64 pushes the passed integer using the smallest possible encoding,
// preferring the small-int opcodes (OP_0, OP_1-OP_16) when they apply.
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if val == 0 {
		return b.AddOp(OP_0)
	}
	if val == -1 || (val >= 1 && val <= 16) {
		if val == -1 {
			return b.AddOp(OP_1NEGATE)
		}
		return b.AddOp(byte(OP_1 - 1 + val))
	}
	return b.AddData(scriptNum(val).bytes())
}

// Script returns the script built so far. Any error encountered while
// building (such as an oversized script) is returned instead.
func (b *ScriptBuilder) Script() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.script, nil
}

// Reset clears the builder for reuse.
func (b *ScriptBuilder) Reset() *ScriptBuilder {
	b.script = b.script[:0]
	b.err = nil
	return b
}

// scriptNum is a minimal little-endian-with-sign-bit encoding used only by
// AddInt64 for values outside the small-int range (deadpool scripts never
// need this path today, but it keeps the builder general-purpose the way
// the ancestor chain's does).
type scriptNum int64

func (n scriptNum) bytes() []byte {
	if n == 0 {
		return nil
	}

	neg := n < 0
	abs := uint64(n)
	if neg {
		abs = uint64(-n)
	}

	var result []byte
	for abs > 0 {
		result = append(result, byte(abs&0xff))
		abs >>= 8
	}

	if result[len(result)-1]&0x80 != 0 {
		if neg {
			result = append(result, 0x80)
		} else {
			result = append(result, 0x00)
		}
	} else if neg {
		result[len(result)-1] |= 0x80
	}
	return result
}

// disasm renders script as a human readable opcode sequence, used for
// error messages and debugging.
func disasm(script []byte) string {
	var out string
	tok := MakeScriptTokenizer(script)
	for tok.Next() {
		if out != "" {
			out += " "
		}
		if tok.Data() != nil {
			out += fmt.Sprintf("%x", tok.Data())
			continue
		}
		out += opcodeName(tok.Opcode())
	}
	return out
}
