// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bigint

// ProbablyPrime reports whether n passes rounds of the Miller-Rabin
// primality test (plus a Baillie-PSW check, via math/big.Int.ProbablyPrime).
// This is strictly stronger than GMP's mpz_probab_prime_p for the same
// round count, which is acceptable: the consensus rule only requires that
// every honest node agree, not that the test match a specific library.
func (n Int) ProbablyPrime(rounds int) bool {
	return n.ensure().ProbablyPrime(rounds)
}
