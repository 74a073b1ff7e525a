// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeadpoolCommandsRegistered(t *testing.T) {
	methods := []string{
		"getdeadpoolid",
		"getdeadpoolentry",
		"listdeadpoolentries",
		"createdeadpoolentry",
		"announcedeadpoolclaim",
		"claimdeadpooltxs",
		"claimdeadpoolid",
	}
	for _, m := range methods {
		require.True(t, IsRegistered(m), "expected %q to be registered", m)
	}
}

func TestCmdMethodRoundtrip(t *testing.T) {
	method, err := CmdMethod((*GetDeadpoolIDCmd)(nil))
	require.NoError(t, err)
	require.Equal(t, "getdeadpoolid", method)
}

func TestRegisterCmdRejectsDuplicate(t *testing.T) {
	err := RegisterCmd("getdeadpoolid", (*GetDeadpoolIDCmd)(nil), 0)
	require.Error(t, err)
}

func TestRegisterCmdRejectsNonStructPointer(t *testing.T) {
	var notAStruct int
	err := RegisterCmd("bogus", &notAStruct, 0)
	require.Error(t, err)

	var alsoBad string
	err = RegisterCmd("bogus2", alsoBad, 0)
	require.Error(t, err)
}
