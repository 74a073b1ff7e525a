// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factorpow

import (
	"testing"
	"time"

	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/stretchr/testify/require"
)

func TestCalcNextRequiredBitsStepsByOne(t *testing.T) {
	params := chaincfg.MainNetParams
	params.PoWNoRetargeting = false
	prevBits := uint16(300)

	slow := time.Duration(float64(params.TargetTimespan) * 1.05)
	require.Equal(t, prevBits-1, CalcNextRequiredBits(prevBits, slow, &params))

	fast := time.Duration(float64(params.TargetTimespan) * 0.85)
	require.Equal(t, prevBits+1, CalcNextRequiredBits(prevBits, fast, &params))

	onTarget := params.TargetTimespan
	require.Equal(t, prevBits, CalcNextRequiredBits(prevBits, onTarget, &params))
}

func TestCalcNextRequiredBitsFloorsAtPowLimit(t *testing.T) {
	params := chaincfg.MainNetParams
	got := CalcNextRequiredBits(params.PowLimitBitsSize, params.TargetTimespan*2, &params)
	require.Equal(t, params.PowLimitBitsSize, got)
}

func TestCalcNextRequiredBitsCapsAtMaxBits(t *testing.T) {
	params := chaincfg.MainNetParams
	got := CalcNextRequiredBits(params.MaxBits, 0, &params)
	require.Equal(t, params.MaxBits, got)
}
