// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"math"
	"math/big"
	"time"

	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/wire"
)

// These variables hold the legacy PowLimit value for each default network.
// The consensus bounds on a declared bit-length are Params.PowLimitBitsSize
// (the minimum) and Params.MaxBits (the maximum); math/big is only used
// here to fill the PowLimit field, which no code in this module reads.
var (
	bigOne = big.NewInt(1)

	// mainPowLimit bounds the theoretical search space for mainnet: no
	// semiprime wider than 1024 bits is ever accepted.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 1024), bigOne)
)

// Checkpoint identifies a known good point in the block chain. Using
// checkpoints allows a few optimizations for old blocks during initial
// download and also prevents forks from old blocks.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// EffectiveAlwaysActiveHeight returns the effective activation height for
// the deployment. If AlwaysActiveHeight is unset (i.e. zero), it returns
// the maximum uint32 value to indicate that it does not force activation.
func (d *ConsensusDeployment) EffectiveAlwaysActiveHeight() uint32 {
	if d.AlwaysActiveHeight == 0 {
		return math.MaxUint32
	}
	return d.AlwaysActiveHeight
}

// ConsensusDeployment defines details related to a specific consensus rule
// change that is voted in. This is part of BIP0009's versionbits scheme,
// reused here to activate the deadpool opcodes as a soft fork.
type ConsensusDeployment struct {
	// BitNumber defines the specific bit number within the block version
	// this particular soft-fork deployment refers to.
	BitNumber uint8

	// MinActivationHeight is an optional field that when set (default
	// value being zero), modifies the traditional BIP 9 state machine by
	// only transitioning from Started to Active once the block height
	// is greater than (or equal to) the specified height.
	MinActivationHeight uint32

	// CustomActivationThreshold if set (non-zero), overrides the
	// existing RuleChangeActivationThreshold value set at the
	// network/chain level.
	CustomActivationThreshold uint32

	// AlwaysActiveHeight defines an optional block threshold at which
	// the deployment is forced to be active. If unset (0), it defaults
	// to math.MaxUint32, meaning the deployment does not force
	// activation.
	AlwaysActiveHeight uint32

	// DeploymentStarter determines if the deployment has started.
	DeploymentStarter ConsensusDeploymentStarter

	// DeploymentEnder determines if the deployment has ended.
	DeploymentEnder ConsensusDeploymentEnder
}

// Constants that define the deployment offset in the deployments field of
// the parameters for each deployment. This is useful to be able to get the
// details of a specific deployment by name.
const (
	// DeploymentTestDummy defines the rule change deployment ID for
	// testing purposes.
	DeploymentTestDummy = iota

	// DeploymentDeadpool defines the rule change deployment ID for the
	// deadpool bounty/claim opcodes (OP_CHECKDIVVERIFY, OP_ANNOUNCE,
	// OP_ANNOUNCEVERIFY).
	DeploymentDeadpool

	// NOTE: DefinedDeployments must always come last since it is used
	// to determine how many defined deployments there currently are.

	// DefinedDeployments is the number of currently defined deployments.
	DefinedDeployments
)

// Params defines a FACT0RN network by its parameters. These parameters may
// be used by FACT0RN applications to differentiate networks as well as
// addresses and keys for one network from those intended for use on
// another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.BitcoinNet

	// DefaultPort defines the default peer-to-peer port for the
	// network. Carried for RPC/config compatibility even though this
	// module does not implement a P2P layer.
	DefaultPort string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// PowLimit is a legacy uint256-style ceiling kept for tooling that
	// expects a target value; no code in this module reads it. The real
	// consensus bounds are PowLimitBitsSize and MaxBits.
	PowLimit *big.Int

	// PowLimitBitsSize is the minimum declared bit-length (nBits) a
	// claimed semiprime N may carry — the mainnet factorization-PoW
	// floor, analogous to a legacy chain's minimum difficulty.
	PowLimitBitsSize uint16

	// MaxBits is the hard ceiling on nBits: no block may ever declare a
	// semiprime wider than this, regardless of retargeting.
	MaxBits uint16

	// MillerRabinRounds is the number of Miller-Rabin rounds
	// CheckProofOfWork runs (via bigint.Int.ProbablyPrime) when
	// verifying that the two claimed factors are prime.
	MillerRabinRounds int

	// HashRounds is the number of gHash cocktail rounds applied when
	// deriving W from the block header.
	HashRounds int

	// PoWNoRetargeting disables difficulty retargeting. Only ever set
	// for regtest-style networks.
	PoWNoRetargeting bool

	// MaxMoney is the maximum number of satoshi-equivalent units that
	// will ever exist, used to bound amount validation.
	MaxMoney int64

	// CoinbaseMaturity is the number of blocks required before newly
	// mined coins (coinbase transactions) can be spent.
	CoinbaseMaturity uint16

	// SubsidyReductionInterval is the interval of blocks before the
	// subsidy is reduced (halving).
	SubsidyReductionInterval int32

	// TargetTimespan is the desired amount of time that should elapse
	// before the block difficulty requirement is examined to determine
	// how it should be changed in order to maintain the desired block
	// generation rate.
	TargetTimespan time.Duration

	// TargetSpacing is the desired amount of time to generate each
	// block.
	TargetSpacing time.Duration

	// RetargetUpPercent / RetargetDownPercent are thresholds on the
	// ratio actualTimespan/targetTimespan: above RetargetUpPercent nBits
	// steps down by one, below RetargetDownPercent it steps up by one,
	// and in between it is unchanged.
	RetargetUpPercent   float64
	RetargetDownPercent float64

	// DeadpoolAnnounceMaturity is the number of blocks a claim
	// announcement must sit in the chain before it can be spent by a
	// claim transaction.
	DeadpoolAnnounceMaturity uint32

	// DeadpoolAnnounceValidity is the largest number of blocks, counted
	// from the announcement's confirmation height (the same starting
	// point as DeadpoolAnnounceMaturity), at which a claim may still use
	// the announcement before it expires.
	DeadpoolAnnounceValidity uint32

	// DeadpoolAnnounceMinBurn is the minimum value, in satoshi-
	// equivalent units, an announce output must burn to be considered
	// standard.
	DeadpoolAnnounceMinBurn int64

	// ReduceMinDifficulty defines whether the network should reduce the
	// minimum required difficulty after a long enough period of time
	// has passed without finding a block. Only useful for test
	// networks.
	ReduceMinDifficulty bool

	// MinDiffReductionTime is the amount of time after which the
	// minimum required difficulty should be reduced when a block hasn't
	// been found. Only applies if ReduceMinDifficulty is true.
	MinDiffReductionTime time.Duration

	// GenerateSupported specifies whether CPU mining is allowed.
	GenerateSupported bool

	// Checkpoints ordered from oldest to newest.
	Checkpoints []Checkpoint

	// RuleChangeActivationThreshold is the number of blocks in a
	// threshold state retarget window for which a positive vote for a
	// rule change must be cast in order to lock in a rule change.
	//
	// MinerConfirmationWindow is the number of blocks in each threshold
	// state retarget window.
	//
	// Deployments define the specific consensus rule changes to be
	// voted on.
	RuleChangeActivationThreshold uint32
	MinerConfirmationWindow       uint32
	Deployments                   [DefinedDeployments]ConsensusDeployment

	// RelayNonStdTxs controls whether non-standard transactions are
	// relayed and accepted into the mempool.
	RelayNonStdTxs bool

	// Address encoding magics.
	PubKeyHashAddrID byte // First byte of a P2PKH address
	ScriptHashAddrID byte // First byte of a P2SH address
	PrivateKeyID     byte // First byte of a WIF private key

	// BIP32 hierarchical deterministic extended key magics.
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte

	// HDCoinType is the BIP44 coin type used in the hierarchical
	// deterministic path for address generation.
	HDCoinType uint32
}

// MainNetParams defines the network parameters for the main FACT0RN
// network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         wire.MainNet,
	DefaultPort: "13622",

	GenesisBlock: &fact0rnGenesisBlock,
	GenesisHash:  &fact0rnGenesisHash,

	PowLimit:          mainPowLimit,
	PowLimitBitsSize:  230,
	MaxBits:           1024,
	MillerRabinRounds: 50,
	HashRounds:        1,
	PoWNoRetargeting:  false,

	MaxMoney:                 46116860184 * 1e8,
	CoinbaseMaturity:         100,
	SubsidyReductionInterval: 2100000,

	TargetTimespan:      time.Hour * 24 * 14,
	TargetSpacing:       time.Minute * 30,
	RetargetUpPercent:   1.0333,
	RetargetDownPercent: 0.90,

	DeadpoolAnnounceMaturity: 100,
	DeadpoolAnnounceValidity: 672,
	DeadpoolAnnounceMinBurn:  1000000, // 0.01 COIN at 1e8 satoshi-equivalent

	ReduceMinDifficulty:  false,
	MinDiffReductionTime: 0,
	GenerateSupported:    true,

	Checkpoints: []Checkpoint{},

	// Consensus rule change deployments.
	//
	// The miner confirmation window is defined as:
	//   target proof of work timespan / target proof of work spacing
	RuleChangeActivationThreshold: 643, // about 95.7% of MinerConfirmationWindow
	MinerConfirmationWindow:       672, // TargetTimespan / TargetSpacing
	Deployments: [DefinedDeployments]ConsensusDeployment{
		DeploymentTestDummy: {
			BitNumber: 28,
			DeploymentStarter: NewMedianTimeDeploymentStarter(
				time.Time{},
			),
			DeploymentEnder: NewMedianTimeDeploymentEnder(
				time.Time{},
			),
		},
		DeploymentDeadpool: {
			BitNumber:           27,
			MinActivationHeight: 155000,
			DeploymentStarter: NewMedianTimeDeploymentStarter(
				time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			),
			DeploymentEnder: NewMedianTimeDeploymentEnder(
				time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			),
		},
	},

	RelayNonStdTxs: false,

	PubKeyHashAddrID: 0x32, // starts with 'F'
	ScriptHashAddrID: 0x3f,
	PrivateKeyID:     0xb2,

	HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4},
	HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e},

	HDCoinType: 2199,
}

// TestNetParams defines the network parameters for the FACT0RN test
// network. It relaxes retargeting and activates the deadpool deployment
// immediately via AlwaysActiveHeight.
var TestNetParams = func() Params {
	p := MainNetParams
	p.Name = "testnet"
	p.Net = wire.TestNet
	p.DefaultPort = "23622"
	p.PubKeyHashAddrID = 0x6f
	p.ScriptHashAddrID = 0xc4
	p.PowLimitBitsSize = 160
	p.ReduceMinDifficulty = true
	p.MinDiffReductionTime = time.Minute * 60
	d := p.Deployments[DeploymentDeadpool]
	d.AlwaysActiveHeight = 1
	d.MinActivationHeight = 0
	p.Deployments[DeploymentDeadpool] = d
	return p
}()

// SimNetParams defines the network parameters for the FACT0RN simulation
// test network, used by regtest-style local chains.
var SimNetParams = func() Params {
	p := MainNetParams
	p.Name = "simnet"
	p.Net = wire.SimNet
	p.DefaultPort = "33622"
	p.PowLimitBitsSize = 32
	p.PoWNoRetargeting = true
	p.MinerConfirmationWindow = 8
	p.RuleChangeActivationThreshold = 6
	d := p.Deployments[DeploymentDeadpool]
	d.AlwaysActiveHeight = 1
	d.MinActivationHeight = 0
	p.Deployments[DeploymentDeadpool] = d
	return p
}()

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// FACT0RN network could not be set due to the network already being
	// a standard network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate FACT0RN network")

	// ErrUnknownHDKeyID describes an error where the provided id which
	// is intended to identify the network for a hierarchical
	// deterministic private extended key is not registered.
	ErrUnknownHDKeyID = errors.New("unknown hd private extended key bytes")

	// ErrInvalidHDKeyID describes an error where the provided
	// hierarchical deterministic version bytes, or hd key id, is
	// malformed.
	ErrInvalidHDKeyID = errors.New("invalid hd extended key version bytes")
)

var (
	registeredNets    = make(map[wire.BitcoinNet]struct{})
	pubKeyHashAddrIDs = make(map[byte]struct{})
	scriptHashAddrIDs = make(map[byte]struct{})
	hdPrivToPubKeyIDs = make(map[[4]byte][]byte)
)

// Register registers the network parameters for a FACT0RN network. This
// may error with ErrDuplicateNet if the network is already registered
// (either due to a previous Register call, or the network being one of the
// default networks).
//
// Network parameters should be registered into this package by a main
// package as early as possible. Then, library packages may lookup networks
// or network parameters based on inputs and work regardless of the network
// being standard or not.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}
	pubKeyHashAddrIDs[params.PubKeyHashAddrID] = struct{}{}
	scriptHashAddrIDs[params.ScriptHashAddrID] = struct{}{}

	return RegisterHDKeyID(params.HDPublicKeyID[:], params.HDPrivateKeyID[:])
}

// mustRegister performs the same function as Register except it panics if
// there is an error. This should only be called from package init
// functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// IsPubKeyHashAddrID returns whether the id is an identifier known to
// prefix a pay-to-pubkey-hash address on any default or registered
// network.
func IsPubKeyHashAddrID(id byte) bool {
	_, ok := pubKeyHashAddrIDs[id]
	return ok
}

// IsScriptHashAddrID returns whether the id is an identifier known to
// prefix a pay-to-script-hash address on any default or registered
// network.
func IsScriptHashAddrID(id byte) bool {
	_, ok := scriptHashAddrIDs[id]
	return ok
}

// RegisterHDKeyID registers a public and private hierarchical
// deterministic extended key ID pair.
func RegisterHDKeyID(hdPublicKeyID []byte, hdPrivateKeyID []byte) error {
	if len(hdPublicKeyID) != 4 || len(hdPrivateKeyID) != 4 {
		return ErrInvalidHDKeyID
	}

	var keyID [4]byte
	copy(keyID[:], hdPrivateKeyID)
	hdPrivToPubKeyIDs[keyID] = hdPublicKeyID

	return nil
}

// HDPrivateKeyToPublicKeyID accepts a private hierarchical deterministic
// extended key id and returns the associated public key id. When the
// provided id is not registered, the ErrUnknownHDKeyID error will be
// returned.
func HDPrivateKeyToPublicKeyID(id []byte) ([]byte, error) {
	if len(id) != 4 {
		return nil, ErrUnknownHDKeyID
	}

	var key [4]byte
	copy(key[:], id)
	pubBytes, ok := hdPrivToPubKeyIDs[key]
	if !ok {
		return nil, ErrUnknownHDKeyID
	}

	return pubBytes, nil
}

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash. It only differs from the one available in chainhash in
// that it panics on an error since it will only (and must only) be called
// with hard-coded, and therefore known good, hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}
	return hash
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&SimNetParams)
}
