// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMainNetParamsSane(t *testing.T) {
	require.Equal(t, "mainnet", MainNetParams.Name)
	require.Equal(t, uint16(230), MainNetParams.PowLimitBitsSize)
	require.LessOrEqual(t, MainNetParams.PowLimitBitsSize, MainNetParams.MaxBits)
	require.NotNil(t, MainNetParams.GenesisBlock)
	require.Equal(t, MainNetParams.GenesisBlock.Header.BlockHash(), *MainNetParams.GenesisHash)
}

func TestDeadpoolDeploymentActivatesByMinHeight(t *testing.T) {
	d := MainNetParams.Deployments[DeploymentDeadpool]
	require.Equal(t, uint8(27), d.BitNumber)
	require.Equal(t, uint32(155000), d.MinActivationHeight)
}

func TestTestNetAlwaysActivatesDeadpool(t *testing.T) {
	d := TestNetParams.Deployments[DeploymentDeadpool]
	require.Equal(t, uint32(1), d.AlwaysActiveHeight)
	require.Equal(t, uint32(1), d.EffectiveAlwaysActiveHeight())

	// Mainnet must not force activation; it goes through the timed
	// deployment window instead.
	m := MainNetParams.Deployments[DeploymentDeadpool]
	require.Equal(t, uint32(math.MaxUint32), m.EffectiveAlwaysActiveHeight())
}

func TestIsPubKeyHashAddrIDKnowsMainNet(t *testing.T) {
	require.True(t, IsPubKeyHashAddrID(MainNetParams.PubKeyHashAddrID))
	require.False(t, IsPubKeyHashAddrID(0xff))
}
