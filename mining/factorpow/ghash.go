// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factorpow

import (
	"encoding/binary"
	"math/big"
	"math/bits"

	"github.com/fact0rn/fact0rnd/bigint"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/wire"
	"github.com/jzelinskie/whirlpool"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"
)

// scrypt cost parameters for the gHash memory-hard step: N=2^12, r=2, p=1,
// producing 256 bytes (2048 bits).
const (
	scryptN      = 1 << 12
	scryptR      = 2
	scryptP      = 1
	scryptKeyLen = bigint.Buf2048Size
)

// GHash derives the 2048-bit proof-of-work seed W from a block header,
// truncated and masked to exactly header.Bits bits with the top bit forced
// set, so bitlength(W) == header.Bits always holds.
//
// The hash "cocktail" in step 3 below reproduces a documented upstream
// ambiguity byte-for-byte: each popcount-selected digest is 64 bytes
// written into a 128-byte buffer half, leaving the half's trailing 64
// bytes untouched from the previous round. This is not a bug in this
// package — it is consensus-critical behavior and must never be "fixed".
func GHash(header *wire.BlockHeader, params *chaincfg.Params) bigint.Buf2048 {
	buf := initialBuffer(header)

	rounds := params.HashRounds
	if rounds <= 0 {
		rounds = 1
	}

	for r := 0; r < rounds; r++ {
		buf = rederiveBuffer(buf)
		buf = updateHalves(buf)
		buf = xorModInverse(buf)
		buf = cocktailUpdate(buf)
	}

	return truncateToBits(buf, header.Bits)
}

// initialBuffer assembles the scrypt password (prevHash‖merkleRoot‖nonce,
// 72 bytes) and salt (version‖nBits‖time, 10 bytes) and derives the
// initial 2048-bit buffer.
func initialBuffer(header *wire.BlockHeader) bigint.Buf2048 {
	password := make([]byte, 0, 72)
	password = append(password, header.PrevBlock[:]...)
	password = append(password, header.MerkleRoot[:]...)
	password = binary.LittleEndian.AppendUint64(password, header.Nonce)

	salt := make([]byte, 0, 10)
	salt = binary.LittleEndian.AppendUint32(salt, uint32(header.Version))
	salt = binary.LittleEndian.AppendUint16(salt, header.Bits)
	salt = binary.LittleEndian.AppendUint32(salt, uint32(header.Timestamp.Unix()))

	return scryptDerive(password, salt)
}

func scryptDerive(password, salt []byte) bigint.Buf2048 {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		// scrypt only errors on invalid parameters, which are fixed
		// constants above; a failure here means the package was
		// miscompiled, not a runtime condition callers can recover
		// from.
		panic(err)
	}
	var buf bigint.Buf2048
	copy(buf[:], key)
	return buf
}

// rederiveBuffer re-derives the buffer with scrypt using the current
// buffer as its own password and salt.
func rederiveBuffer(buf bigint.Buf2048) bigint.Buf2048 {
	return scryptDerive(buf[:], buf[:])
}

// updateHalves splits buf into two 1024-bit halves; for each, an even
// popcount selects BLAKE2b, odd selects SHA3-512, written into the half's
// first 64 bytes.
func updateHalves(buf bigint.Buf2048) bigint.Buf2048 {
	for _, half := range [2][2]int{{0, bigint.Buf1024Size}, {bigint.Buf1024Size, bigint.Buf2048Size}} {
		start, end := half[0], half[1]
		segment := buf[start:end]

		if popcount(segment)%2 == 0 {
			digest := blake2b.Sum512(segment)
			copy(segment[:64], digest[:])
		} else {
			digest := sha3.Sum512(segment)
			copy(segment[:64], digest[:])
		}
	}
	return buf
}

// xorModInverse interprets buf as an integer M, computes a = isqrt(M),
// p = nextprime(isqrt(a)), aInv = a⁻¹ mod p, and XORs aInv's bytes into
// buf.
func xorModInverse(buf bigint.Buf2048) bigint.Buf2048 {
	m := new(big.Int).SetBytes(buf[:])

	a := isqrt(m)
	p := nextPrime(isqrt(a))
	aInv := modInverse(a, p)

	xorInto(buf[:], aInv.Bytes())
	return buf
}

// cocktailUpdate performs the final i-round XOR/selector update of a
// round: i = popcount(aInv bytes) & 0x7f; loop i times computing
// aInv = aInv^i mod p, XOR into buf; then pick SHA3-512, BLAKE2b, or
// Whirlpool by popcount(buf) mod 3 to refresh a slice of buf.
func cocktailUpdate(buf bigint.Buf2048) bigint.Buf2048 {
	m := new(big.Int).SetBytes(buf[:])
	a := isqrt(m)
	p := nextPrime(isqrt(a))
	aInv := modInverse(a, p)

	i := popcount(aInv.Bytes()) & 0x7f
	for n := 0; n < i; n++ {
		aInv = new(big.Int).Exp(aInv, big.NewInt(int64(i)), p)
		xorInto(buf[:], aInv.Bytes())
	}

	switch popcount(buf[:]) % 3 {
	case 0:
		digest := sha3.Sum512(buf[:])
		copy(buf[:64], digest[:])
	case 1:
		digest := blake2b.Sum512(buf[:])
		copy(buf[:64], digest[:])
	default:
		w := whirlpool.New()
		w.Write(buf[:])
		digest := w.Sum(nil)
		copy(buf[:64], digest)
	}
	return buf
}

// truncateToBits zeroes buf above the last byte needed for n bits, masks
// the top byte, and forces bit n-1 to 1 so bitlength(result) == n exactly.
func truncateToBits(buf bigint.Buf2048, n uint16) bigint.Buf2048 {
	if n == 0 {
		return bigint.Buf2048{}
	}

	fullBytes := int(n) / 8
	extraBits := int(n) % 8

	lastByte := fullBytes
	if extraBits == 0 {
		lastByte = fullBytes - 1
	}

	var out bigint.Buf2048
	copy(out[:lastByte+1], buf[:lastByte+1])

	if extraBits != 0 {
		mask := byte(1<<extraBits) - 1
		out[lastByte] &= mask
		out[lastByte] |= 1 << (extraBits - 1)
	} else {
		out[lastByte] |= 0x80
	}

	return out
}

func popcount(b []byte) int {
	count := 0
	for _, c := range b {
		count += bits.OnesCount8(c)
	}
	return count
}

func xorInto(dst []byte, src []byte) {
	n := len(src)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
}

// isqrt returns floor(sqrt(n)) for a non-negative n.
func isqrt(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Sqrt(n)
}

// nextPrime returns the smallest odd prime greater than or equal to n (2
// when n is below 2), using the bignum library's probable-prime test.
func nextPrime(n *big.Int) *big.Int {
	candidate := new(big.Int).Set(n)
	if candidate.Cmp(big.NewInt(2)) < 0 {
		return big.NewInt(2)
	}
	if candidate.Bit(0) == 0 {
		candidate.Add(candidate, big.NewInt(1))
	}
	for !candidate.ProbablyPrime(20) {
		candidate.Add(candidate, big.NewInt(2))
	}
	return candidate
}

// modInverse computes a⁻¹ mod p, falling back to 1 if a has no inverse
// (p not prime relative to a, which should not happen given nextPrime's
// construction but is guarded defensively since this feeds consensus
// hashing, not validation).
func modInverse(a, p *big.Int) *big.Int {
	inv := new(big.Int).ModInverse(a, p)
	if inv == nil {
		return big.NewInt(1)
	}
	return inv
}
