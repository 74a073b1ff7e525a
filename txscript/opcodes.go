// Copyright (c) 2013-2024 The btcsuite developers
// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript implements the FACT0RN transaction script language: the
// standard pay-to-pubkey-hash/pay-to-script-hash templates inherited from
// the ancestor chain, plus the two deadpool templates and three opcodes
// this chain adds on top of them.
package txscript

// Opcode bytes. The numbering matches the ancestor chain's script
// language so legacy templates (P2PKH, P2SH, bare multisig, OP_RETURN)
// decode unchanged. OP_ANNOUNCEVERIFY and OP_CHECKDIVVERIFY occupy what
// used to be reserved NOP slots, the same mechanism the ancestor chain itself used
// to introduce CHECKLOCKTIMEVERIFY and CHECKSEQUENCEVERIFY: a pre-softfork
// node treats them as a no-op, so scripts using them parse (and top-level
// non-DROP'd results evaluate as before) under old rules, while a
// post-activation node enforces the new semantics.
const (
	OP_0     = 0x00
	OP_FALSE = OP_0

	// OP_DATA_1 through OP_DATA_75 push between 1 and 75 bytes of data
	// onto the stack; the opcode value itself is the push length.
	OP_DATA_1  = 0x01
	OP_DATA_20 = 0x14
	OP_DATA_32 = 0x20
	OP_DATA_33 = 0x21
	OP_DATA_65 = 0x41
	OP_DATA_75 = 0x4b

	OP_PUSHDATA1 = 0x4c
	OP_PUSHDATA2 = 0x4d
	OP_PUSHDATA4 = 0x4e
	OP_1NEGATE   = 0x4f
	OP_RESERVED  = 0x50

	OP_1    = 0x51
	OP_TRUE = OP_1
	OP_2    = 0x52
	OP_16   = 0x60

	OP_NOP    = 0x61
	OP_IF     = 0x63
	OP_NOTIF  = 0x64
	OP_ELSE   = 0x67
	OP_ENDIF  = 0x68
	OP_VERIFY = 0x69
	OP_RETURN = 0x6a

	OP_DROP        = 0x75
	OP_DUP         = 0x76
	OP_EQUAL       = 0x87
	OP_EQUALVERIFY = 0x88

	OP_HASH160 = 0xa9
	OP_HASH256 = 0xaa

	OP_CHECKSIG            = 0xac
	OP_CHECKSIGVERIFY      = 0xad
	OP_CHECKMULTISIG       = 0xae
	OP_CHECKMULTISIGVERIFY = 0xaf

	OP_NOP1                = 0xb0
	OP_CHECKLOCKTIMEVERIFY = 0xb1
	OP_CHECKSEQUENCEVERIFY = 0xb2
	OP_NOP4                = 0xb3
	OP_NOP5                = 0xb4
	OP_NOP6                = 0xb5
	OP_NOP7                = 0xb6
	OP_NOP8                = 0xb7

	// OP_NOP9 is repurposed, post-activation, as OP_ANNOUNCEVERIFY.
	OP_NOP9           = 0xb8
	OP_ANNOUNCEVERIFY = OP_NOP9

	// OP_NOP10 is repurposed, post-activation, as OP_CHECKDIVVERIFY.
	OP_NOP10          = 0xb9
	OP_CHECKDIVVERIFY = OP_NOP10

	// OP_ANNOUNCE has no pre-softfork meaning at all: it is the first
	// byte of a brand new output template, not a repurposed NOP, so it
	// is unconditionally unspendable (an unrecognized opcode halts
	// script execution) both before and after activation.
	OP_ANNOUNCE = 0xba
)

// opcodeNames maps the opcodes this package understands to a human
// readable name, used for error messages and script disassembly. Bytes
// with no entry here disassemble as OP_UNKNOWN<n>.
var opcodeNames = map[byte]string{
	OP_0:                   "OP_0",
	OP_PUSHDATA1:           "OP_PUSHDATA1",
	OP_PUSHDATA2:           "OP_PUSHDATA2",
	OP_PUSHDATA4:           "OP_PUSHDATA4",
	OP_1NEGATE:             "OP_1NEGATE",
	OP_RESERVED:            "OP_RESERVED",
	OP_1:                   "OP_1",
	OP_NOP:                 "OP_NOP",
	OP_IF:                  "OP_IF",
	OP_NOTIF:               "OP_NOTIF",
	OP_ELSE:                "OP_ELSE",
	OP_ENDIF:               "OP_ENDIF",
	OP_VERIFY:              "OP_VERIFY",
	OP_RETURN:              "OP_RETURN",
	OP_DROP:                "OP_DROP",
	OP_DUP:                 "OP_DUP",
	OP_EQUAL:               "OP_EQUAL",
	OP_EQUALVERIFY:         "OP_EQUALVERIFY",
	OP_HASH160:             "OP_HASH160",
	OP_HASH256:             "OP_HASH256",
	OP_CHECKSIG:            "OP_CHECKSIG",
	OP_CHECKSIGVERIFY:      "OP_CHECKSIGVERIFY",
	OP_CHECKMULTISIG:       "OP_CHECKMULTISIG",
	OP_CHECKMULTISIGVERIFY: "OP_CHECKMULTISIGVERIFY",
	OP_CHECKLOCKTIMEVERIFY: "OP_CHECKLOCKTIMEVERIFY",
	OP_CHECKSEQUENCEVERIFY: "OP_CHECKSEQUENCEVERIFY",
	OP_ANNOUNCEVERIFY:      "OP_ANNOUNCEVERIFY",
	OP_CHECKDIVVERIFY:      "OP_CHECKDIVVERIFY",
	OP_ANNOUNCE:            "OP_ANNOUNCE",
}

// opcodeName returns a human readable name for op, falling back to a
// numbered placeholder for anything not in opcodeNames (including every
// OP_DATA_n push opcode, which is named by its length instead).
func opcodeName(op byte) string {
	if op >= OP_DATA_1 && op <= OP_DATA_75 {
		return "OP_DATA_" + itoa(int(op))
	}
	if op >= OP_1 && op <= OP_16 {
		return "OP_" + itoa(int(op)-OP_1+1)
	}
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN" + itoa(int(op))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// IsSmallInt returns whether op pushes a small integer (OP_0 or
// OP_1-OP_16) directly, without a following data push.
func IsSmallInt(op byte) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// AsSmallInt returns the integer value of a small-integer opcode. The
// caller must have already verified IsSmallInt(op).
func AsSmallInt(op byte) int {
	if op == OP_0 {
		return 0
	}
	return int(op - OP_1 + 1)
}
