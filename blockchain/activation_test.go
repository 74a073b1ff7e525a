// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"

	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/stretchr/testify/require"
)

type fixedMedianTime time.Time

func (f fixedMedianTime) MedianTime() time.Time { return time.Time(f) }

func TestDeploymentStateLifecycle(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	dep := &chaincfg.ConsensusDeployment{
		BitNumber:           27,
		MinActivationHeight: 1000,
		DeploymentStarter:   chaincfg.NewMedianTimeDeploymentStarter(start),
		DeploymentEnder:     chaincfg.NewMedianTimeDeploymentEnder(end),
	}

	before := fixedMedianTime(start.Add(-time.Hour))
	require.Equal(t, ThresholdDefined, DeploymentState(dep, 500, before))

	startedNotYetActive := fixedMedianTime(start.Add(time.Hour))
	require.Equal(t, ThresholdStarted, DeploymentState(dep, 500, startedNotYetActive))

	require.Equal(t, ThresholdActive, DeploymentState(dep, 1000, startedNotYetActive))

	afterEnd := fixedMedianTime(end.Add(time.Hour))
	require.Equal(t, ThresholdFailed, DeploymentState(dep, 500, afterEnd))
}

func TestIsDeadpoolActive(t *testing.T) {
	params := chaincfg.MainNetParams
	pastEnd := fixedMedianTime(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	require.True(t, IsDeadpoolActive(&params, 155000, pastEnd))
	require.False(t, IsDeadpoolActive(&params, 100, pastEnd))
}
