// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factorpow

import (
	"math"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/wire"
)

// GetBlockProof returns the additive work contribution of a single block,
// approximating ECM factoring cost e^√(2·log p · log log p) without the
// multiplicative blowup direct exponentiation would cause. Blocks whose
// factor is narrower than 16 bits contribute no work.
func GetBlockProof(header *wire.BlockHeader) bigint.Int {
	b := header.P1.ToBigInt().BitLen()
	if b < 16 {
		return bigint.Zero()
	}

	a := math.Sqrt(2 * float64(b) * math.Log2(float64(b)))
	aInt := int(a)
	aFrac := a - float64(aInt)

	work := bigint.NewFromInt64(1).Lsh(uint(aInt))

	fracTerm := bigint.NewFromInt64(int64(math.Floor(1024 * aFrac)))
	shift := aInt - 11
	if shift > 0 {
		fracTerm = fracTerm.Lsh(uint(shift))
	} else if shift < 0 {
		fracTerm = fracTerm.Div(bigint.NewFromInt64(1).Lsh(uint(-shift)))
	}

	return work.Add(fracTerm)
}
