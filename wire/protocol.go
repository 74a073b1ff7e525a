// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// BitcoinNet represents which FACT0RN network a message belongs to. The
// name is kept for consistency with the rest of this package's
// btcsuite-derived encoding helpers; it identifies a FACT0RN network, not
// Bitcoin's.
type BitcoinNet uint32

// Constants used to identify a FACT0RN network. Network magic only guards
// against cross-network message confusion; this package does not implement
// a P2P wire protocol, so no protocol-version or service-flag negotiation
// lives here.
const (
	// MainNet represents the main FACT0RN network.
	MainNet BitcoinNet = 0x4643304e // "FC0N" in ASCII (FACT0RN MainNet)

	// TestNet represents the FACT0RN test network.
	TestNet BitcoinNet = 0x46433054 // "FC0T" in ASCII

	// SimNet represents the FACT0RN simulation test network.
	SimNet BitcoinNet = 0x46433053 // "FC0S" in ASCII
)

// bnStrings is a map of FACT0RN networks back to their constant names for
// pretty printing.
var bnStrings = map[BitcoinNet]string{
	MainNet: "MainNet",
	TestNet: "TestNet",
	SimNet:  "SimNet",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown BitcoinNet (%d)", uint32(n))
}
