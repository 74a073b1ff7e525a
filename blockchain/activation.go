// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/fact0rn/fact0rnd/chaincfg"
)

// ThresholdState is a simplified replacement for full BIP9 miner-signaling
// states. This node does not implement mining policy or P2P block
// propagation, so there is no version-bit signaling
// window to count votes over; activation instead depends only on a
// deployment's start/end time and its MinActivationHeight floor.
type ThresholdState int

const (
	// ThresholdDefined means the deployment's start time has not yet been
	// reached.
	ThresholdDefined ThresholdState = iota

	// ThresholdStarted means the deployment's start time has been
	// reached but its MinActivationHeight has not yet.
	ThresholdStarted

	// ThresholdActive means the deployment's rules are in full effect.
	ThresholdActive

	// ThresholdFailed means the deployment's end time was reached before
	// it activated.
	ThresholdFailed
)

func (s ThresholdState) String() string {
	switch s {
	case ThresholdDefined:
		return "defined"
	case ThresholdStarted:
		return "started"
	case ThresholdActive:
		return "active"
	case ThresholdFailed:
		return "failed"
	default:
		return fmt.Sprintf("ThresholdState(%d)", int(s))
	}
}

// DeploymentState computes the current threshold state of dep at the given
// height and median time.
func DeploymentState(dep *chaincfg.ConsensusDeployment, height int32, medianTime chaincfg.MedianTimeSource) ThresholdState {
	if height >= 0 && uint32(height) >= dep.EffectiveAlwaysActiveHeight() {
		return ThresholdActive
	}

	started := dep.DeploymentStarter == nil || dep.DeploymentStarter.HasStarted(medianTime)
	ended := dep.DeploymentEnder != nil && dep.DeploymentEnder.HasEnded(medianTime)

	if !started {
		if ended {
			return ThresholdFailed
		}
		return ThresholdDefined
	}

	// Once started, reaching MinActivationHeight locks activation in for
	// good: the end time only gates failure for a deployment that never
	// reached its activation height, not one that already has.
	if dep.MinActivationHeight != 0 && uint32(height) < dep.MinActivationHeight {
		if ended {
			return ThresholdFailed
		}
		return ThresholdStarted
	}

	return ThresholdActive
}

// IsDeploymentActive reports whether the named deployment's rules are in
// effect at the given height and median time.
func IsDeploymentActive(params *chaincfg.Params, deploymentID int, height int32, medianTime chaincfg.MedianTimeSource) bool {
	if deploymentID < 0 || deploymentID >= len(params.Deployments) {
		return false
	}
	dep := &params.Deployments[deploymentID]
	return DeploymentState(dep, height, medianTime) == ThresholdActive
}

// IsDeadpoolActive reports whether the deadpool opcodes are consensus
// rules at the given height and median time, per params.Deployments
// [chaincfg.DeploymentDeadpool].
func IsDeadpoolActive(params *chaincfg.Params, height int32, medianTime chaincfg.MedianTimeSource) bool {
	return IsDeploymentActive(params, chaincfg.DeploymentDeadpool, height, medianTime)
}
