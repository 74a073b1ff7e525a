// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a specific consensus or policy rule a RuleError
// reports. Numeric values are not stable across versions and must not be
// relied on by callers outside this package.
type ErrorCode int

const (
	// Proof-of-work errors, mirrored from mining/factorpow.
	ErrBadBits ErrorCode = iota
	ErrBadWOffset
	ErrBadFactorization
	ErrNonPrimeFactor
	ErrMisSizedFactor

	// Canonical bigint encoding errors, shared with the deadpool entry
	// and claim templates.
	ErrBadBigIntZero
	ErrBadBigIntNegative
	ErrBadBigIntTooSmall
	ErrBadBigIntTooLarge
	ErrBadBigIntNonCanonicalSize
	ErrBadBigIntNonCanonical

	// Deadpool claim protocol errors.
	ErrClaimWithoutAnnouncement
	ErrClaimBeforeMaturity
	ErrClaimAfterValidity

	// Block structure errors.
	ErrNoTransactions
	ErrNoTxInputs
	ErrDuplicateTx
	ErrBadMerkleRoot
	ErrBadCoinbaseValue

	// Internal index failures (never attacker-controlled input).
	ErrIndexInconsistent

	numErrorCodes
)

var errorCodeStrings = map[ErrorCode]string{
	ErrBadBits:                   "ErrBadBits",
	ErrBadWOffset:                "ErrBadWOffset",
	ErrBadFactorization:          "ErrBadFactorization",
	ErrNonPrimeFactor:            "ErrNonPrimeFactor",
	ErrMisSizedFactor:            "ErrMisSizedFactor",
	ErrBadBigIntZero:             "ErrBadBigIntZero",
	ErrBadBigIntNegative:         "ErrBadBigIntNegative",
	ErrBadBigIntTooSmall:         "ErrBadBigIntTooSmall",
	ErrBadBigIntTooLarge:         "ErrBadBigIntTooLarge",
	ErrBadBigIntNonCanonicalSize: "ErrBadBigIntNonCanonicalSize",
	ErrBadBigIntNonCanonical:     "ErrBadBigIntNonCanonical",
	ErrClaimWithoutAnnouncement:  "ErrClaimWithoutAnnouncement",
	ErrClaimBeforeMaturity:       "ErrClaimBeforeMaturity",
	ErrClaimAfterValidity:        "ErrClaimAfterValidity",
	ErrNoTransactions:            "ErrNoTransactions",
	ErrNoTxInputs:                "ErrNoTxInputs",
	ErrDuplicateTx:               "ErrDuplicateTx",
	ErrBadMerkleRoot:             "ErrBadMerkleRoot",
	ErrBadCoinbaseValue:          "ErrBadCoinbaseValue",
	ErrIndexInconsistent:         "ErrIndexInconsistent",
}

// String returns the ErrorCode's constant name, matching the idiom
// btcsuite-family RuleError implementations use for their String method.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// Kind classifies how severely a rule violation should be treated.
// ConsensusInvalid rejections apply unconditionally; PolicyInvalid
// rejections apply only while the relevant softfork deployment has not
// yet activated.
type Kind int

const (
	ConsensusInvalid Kind = iota
	PolicyInvalid
	IndexInconsistent
	UserInput
)

func (k Kind) String() string {
	switch k {
	case ConsensusInvalid:
		return "ConsensusInvalid"
	case PolicyInvalid:
		return "PolicyInvalid"
	case IndexInconsistent:
		return "IndexInconsistent"
	case UserInput:
		return "UserInput"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RuleError identifies a rule violation. It carries a Kind alongside the
// ErrorCode so callers can distinguish a hard consensus failure from a
// still-activating policy rule.
type RuleError struct {
	ErrorCode   ErrorCode
	Kind        Kind
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Kind: ConsensusInvalid, Description: desc}
}

// policyError creates a RuleError whose Kind is PolicyInvalid: a rule that
// only binds once the governing softfork deployment is active.
func policyError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Kind: PolicyInvalid, Description: desc}
}

// indexError creates a RuleError whose Kind is IndexInconsistent: an
// internal invariant violation in a rebuildable index rather than a
// rejection of attacker-controlled input.
func indexError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Kind: IndexInconsistent, Description: desc}
}

// userError creates a RuleError whose Kind is UserInput: a malformed
// request from an RPC caller rather than a chain-data violation.
func userError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Kind: UserInput, Description: desc}
}
