// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultDataDirname = "data"
	defaultLogFilename = "fact0rnd.log"
	defaultRPCListen   = "127.0.0.1:8334"
)

// config holds the composition root's flag-derived settings. Only the
// deadpool/RPC surface is configurable here — this is not a full node
// daemon, so the usual peer/mining/wallet flag groups have no home.
type config struct {
	DataDir   string `long:"datadir" description:"Directory to store deadpool indexes and log file"`
	LogDir    string `long:"logdir" description:"Directory to log output (defaults inside datadir)"`
	RPCListen string `long:"rpclisten" description:"Address to listen for JSON-RPC connections"`
	TestNet   bool   `long:"testnet" description:"Use the test network"`
	SimNet    bool   `long:"simnet" description:"Use the simulation test network"`
	NoLogFile bool   `long:"nologfile" description:"Write logs to stdout only, not to a rotated log file"`

	// HashRounds overrides chaincfg.Params.HashRounds when set. It exists
	// for simnet: gHash's cocktail of scrypt/BLAKE2b/SHA3-512 rounds is
	// deliberately expensive on mainnet, and a regtest-style network
	// needs cheap proof-of-work to be useful as a test harness.
	HashRounds int `long:"hashrounds" description:"Override gHash round count (simnet only)"`
}

// loadConfig parses command-line flags.
func loadConfig() (*config, error) {
	cfg := config{
		DataDir:   defaultDataDir(),
		RPCListen: defaultRPCListen,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.TestNet && cfg.SimNet {
		return nil, fmt.Errorf("config: testnet and simnet cannot both be specified")
	}
	if cfg.HashRounds != 0 && !cfg.SimNet {
		return nil, fmt.Errorf("config: hashrounds override is only valid with simnet")
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs")
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("config: create datadir: %w", err)
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, fmt.Errorf("config: create logdir: %w", err)
	}

	return &cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDataDirname
	}
	return filepath.Join(home, ".fact0rnd", defaultDataDirname)
}
