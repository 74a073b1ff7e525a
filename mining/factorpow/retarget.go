// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factorpow

import (
	"time"

	"github.com/fact0rn/fact0rnd/chaincfg"
)

// CalcNextRequiredBits implements the discrete retarget rule: nBits
// steps by ±1 every MinerConfirmationWindow blocks depending on how far
// actualTimespan strayed from targetTimespan, floored at
// params.PowLimitBitsSize and capped at params.MaxBits.
//
// IsRetargetHeight tells the caller whether height sits on a retarget
// boundary; CalcNextRequiredBits itself doesn't inspect height, matching
// the pure-function shape the rest of this package uses.
func CalcNextRequiredBits(prevBits uint16, actualTimespan time.Duration, params *chaincfg.Params) uint16 {
	if params.PoWNoRetargeting {
		return prevBits
	}

	target := params.TargetTimespan
	ratio := float64(actualTimespan) / float64(target)

	next := prevBits
	switch {
	case ratio > params.RetargetUpPercent:
		if next > params.PowLimitBitsSize {
			next--
		}
	case ratio < params.RetargetDownPercent:
		if next < params.MaxBits {
			next++
		}
	}

	if next < params.PowLimitBitsSize {
		next = params.PowLimitBitsSize
	}
	if next > params.MaxBits {
		next = params.MaxBits
	}
	if next != prevBits {
		log.Debugf("Retarget: nBits %d -> %d (timespan ratio %.4f)", prevBits, next, ratio)
	}
	return next
}

// IsRetargetHeight reports whether height is a block at which difficulty
// is recalculated, i.e. a multiple of the miner confirmation window.
func IsRetargetHeight(height int32, params *chaincfg.Params) bool {
	window := int32(params.MinerConfirmationWindow)
	if window <= 0 {
		return false
	}
	return height%window == 0
}

// ReduceMinDifficultyBits implements the testnet-only "allow min
// difficulty after 2x spacing" rule: if the gap since the previous block
// exceeds twice the target spacing, the next block may be mined at the
// network's floor difficulty.
func ReduceMinDifficultyBits(sinceLastBlock time.Duration, params *chaincfg.Params) (uint16, bool) {
	if !params.ReduceMinDifficulty {
		return 0, false
	}
	if sinceLastBlock > params.TargetSpacing*2 {
		return params.PowLimitBitsSize, true
	}
	return 0, false
}
