// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashStringRoundtrip(t *testing.T) {
	h := DoubleHashH([]byte("fact0rn"))

	s := h.String()
	parsed, err := NewHashFromStr(s)
	require.NoError(t, err)
	require.True(t, h.IsEqual(parsed))
}

func TestHashSetBytesRejectsWrongLength(t *testing.T) {
	var h Hash
	require.Error(t, h.SetBytes([]byte{1, 2, 3}))
}

func TestNewHashFromStrRejectsOversizedInput(t *testing.T) {
	_, err := NewHashFromStr(string(make([]byte, MaxHashStringSize+1)))
	require.ErrorIs(t, err, ErrHashStrSize)
}
