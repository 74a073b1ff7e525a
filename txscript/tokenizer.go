// Copyright (c) 2019-2024 The btcsuite developers
// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"fmt"
)

// ScriptTokenizer provides a forward-only, allocation-free way to iterate
// through the opcodes and any associated data pushes in a script. It does
// not execute the script; the deadpool templates and solver below use it
// purely for recognition and extraction.
type ScriptTokenizer struct {
	script []byte
	offset int

	op   byte
	data []byte
	err  error
}

// MakeScriptTokenizer returns a new tokenizer for script.
func MakeScriptTokenizer(script []byte) ScriptTokenizer {
	return ScriptTokenizer{script: script}
}

// Done returns true when either all opcodes have been exhausted or a parse
// error was encountered.
func (t *ScriptTokenizer) Done() bool {
	return t.err != nil || t.offset >= len(t.script)
}

// Err returns any error encountered during tokenization.
func (t *ScriptTokenizer) Err() error {
	return t.err
}

// Opcode returns the current opcode. It is only valid to call after a
// successful call to Next.
func (t *ScriptTokenizer) Opcode() byte {
	return t.op
}

// Data returns the data, if any, associated with the current opcode. It is
// only valid to call after a successful call to Next.
func (t *ScriptTokenizer) Data() []byte {
	return t.data
}

// ByteIndex returns the offset, in script bytes, just past the opcode
// (and any data push) Next most recently decoded.
func (t *ScriptTokenizer) ByteIndex() int {
	return t.offset
}

// Next attempts to parse the next opcode and returns whether it succeeded.
// It sets Err when the script is malformed (truncated push, invalid
// PUSHDATA length).
func (t *ScriptTokenizer) Next() bool {
	if t.Done() {
		return false
	}

	op := t.script[t.offset]
	switch {
	case op == OP_0, op > OP_DATA_75 && op != OP_PUSHDATA1 && op != OP_PUSHDATA2 && op != OP_PUSHDATA4:
		t.op = op
		t.data = nil
		t.offset++
		return true

	case op >= OP_DATA_1 && op <= OP_DATA_75:
		if t.offset+1+int(op) > len(t.script) {
			t.err = fmt.Errorf("opcode %s pushes past end of script", opcodeName(op))
			return false
		}
		t.op = op
		t.data = t.script[t.offset+1 : t.offset+1+int(op)]
		t.offset += 1 + int(op)
		return true

	case op == OP_PUSHDATA1:
		return t.nextPushData(op, 1)
	case op == OP_PUSHDATA2:
		return t.nextPushData(op, 2)
	case op == OP_PUSHDATA4:
		return t.nextPushData(op, 4)
	}

	t.op = op
	t.data = nil
	t.offset++
	return true
}

// nextPushData handles OP_PUSHDATA1/2/4, whose data length is itself
// encoded in 1/2/4 little-endian bytes following the opcode.
func (t *ScriptTokenizer) nextPushData(op byte, lenBytes int) bool {
	start := t.offset + 1
	if start+lenBytes > len(t.script) {
		t.err = fmt.Errorf("opcode %s missing length bytes", opcodeName(op))
		return false
	}

	var dataLen int
	switch lenBytes {
	case 1:
		dataLen = int(t.script[start])
	case 2:
		dataLen = int(binary.LittleEndian.Uint16(t.script[start : start+2]))
	case 4:
		dataLen = int(binary.LittleEndian.Uint32(t.script[start : start+4]))
	}

	dataStart := start + lenBytes
	if dataStart+dataLen > len(t.script) {
		t.err = fmt.Errorf("opcode %s pushes past end of script", opcodeName(op))
		return false
	}

	t.op = op
	t.data = t.script[dataStart : dataStart+dataLen]
	t.offset = dataStart + dataLen
	return true
}
