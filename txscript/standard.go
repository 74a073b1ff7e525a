// Copyright (c) 2013-2024 The btcsuite developers
// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// TxoutType is a convenience type used to classify the type of a
// transaction output's script.
type TxoutType byte

const (
	// NonStandardTy covers anything the solver below does not recognize.
	NonStandardTy TxoutType = iota

	// PubKeyHashTy is a standard pay-to-pubkey-hash script.
	PubKeyHashTy

	// ScriptHashTy is a standard pay-to-script-hash script.
	ScriptHashTy

	// NullDataTy is a provably unspendable OP_RETURN script carrying
	// arbitrary data.
	NullDataTy

	// DeadpoolEntryTy is the `<N> OP_CHECKDIVVERIFY OP_DROP
	// OP_ANNOUNCEVERIFY OP_DROP OP_DROP OP_TRUE` bounty-entry template.
	DeadpoolEntryTy

	// DeadpoolAnnounceTy is the `OP_ANNOUNCE <claimHash32> <N>`
	// unspendable announcement template.
	DeadpoolAnnounceTy
)

// String returns a human readable name for the TxoutType.
func (t TxoutType) String() string {
	switch t {
	case PubKeyHashTy:
		return "pubkeyhash"
	case ScriptHashTy:
		return "scripthash"
	case NullDataTy:
		return "nulldata"
	case DeadpoolEntryTy:
		return "deadpoolentry"
	case DeadpoolAnnounceTy:
		return "deadpoolannounce"
	default:
		return "nonstandard"
	}
}

// GetScriptClass returns the class of the script passed, recognizing the
// standard legacy templates plus the two deadpool templates. Deadpool
// recognition does not depend on softfork activation state — callers that
// need activation-gated behavior (rejecting the opcodes pre-activation)
// consult the deployment state separately, exactly as the ancestor chain
// keeps script recognition and consensus gating as separate concerns.
func GetScriptClass(script []byte) TxoutType {
	if IsDeadpoolEntry(script) {
		return DeadpoolEntryTy
	}
	if IsDeadpoolAnnounce(script) {
		return DeadpoolAnnounceTy
	}
	if isPubKeyHash(script) {
		return PubKeyHashTy
	}
	if isScriptHash(script) {
		return ScriptHashTy
	}
	if isNullData(script) {
		return NullDataTy
	}
	return NonStandardTy
}

// isPubKeyHash reports whether script is a standard
// `OP_DUP OP_HASH160 <20-byte-hash> OP_EQUALVERIFY OP_CHECKSIG` script.
func isPubKeyHash(script []byte) bool {
	return len(script) == 25 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG
}

// ExtractPubKeyHash returns the 20-byte hash from a pay-to-pubkey-hash
// script, or nil if script is not one.
func ExtractPubKeyHash(script []byte) []byte {
	if !isPubKeyHash(script) {
		return nil
	}
	return script[3:23]
}

// isScriptHash reports whether script is a standard
// `OP_HASH160 <20-byte-hash> OP_EQUAL` script.
func isScriptHash(script []byte) bool {
	return len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

// ExtractScriptHash returns the 20-byte hash from a pay-to-script-hash
// script, or nil if script is not one.
func ExtractScriptHash(script []byte) []byte {
	if !isScriptHash(script) {
		return nil
	}
	return script[2:22]
}

// isNullData reports whether script is a provably unspendable
// `OP_RETURN [data]` script.
func isNullData(script []byte) bool {
	return len(script) > 0 && script[0] == OP_RETURN
}

// IsUnspendable reports whether script can never be spent by any
// transaction, regardless of signature: `OP_RETURN ...`, the deadpool
// announcement template (marked unspendable by construction), or a
// script the tokenizer cannot even parse.
func IsUnspendable(script []byte) bool {
	if len(script) == 0 {
		return false
	}
	if script[0] == OP_RETURN {
		return true
	}
	if IsDeadpoolAnnounce(script) {
		return true
	}

	tok := MakeScriptTokenizer(script)
	for tok.Next() {
	}
	return tok.Err() != nil
}
