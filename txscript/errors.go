// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// RuleError identifies a script-level consensus or policy rule violation.
// It carries a stable, machine-checkable reason string so tests and RPC
// callers can match on it without parsing prose, mirroring the pattern
// used by the factorpow and blockchain packages.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string {
	return "txscript: " + e.Reason
}

func ruleErrorf(reason string) error {
	return &RuleError{Reason: reason}
}
