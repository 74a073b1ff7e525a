// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/fact0rn/fact0rnd/blockchain"
	"github.com/fact0rn/fact0rnd/deadpool"
	"github.com/fact0rn/fact0rnd/mempool"
	"github.com/fact0rn/fact0rnd/mining/factorpow"
	"github.com/fact0rn/fact0rnd/rpc"
	"github.com/fact0rn/fact0rnd/txscript"
)

// logRotator is the rotating log writer every subsystem backend writes
// through. It is nil when logging to stdout only (nologfile).
var logRotator *rotator.Rotator

// log is the composition root's own subsystem logger, covering startup
// and the HTTP layer — everything below it logs through its own
// package's logger instead.
var log btclog.Logger = btclog.Disabled

// initLogRotator opens a rotating log file at logFile, 10MB per roll with
// up to 3 old rolls kept.
func initLogRotator(logFile string) (*rotator.Rotator, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return nil, fmt.Errorf("log: create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return nil, fmt.Errorf("log: initialize rotator: %w", err)
	}
	return r, nil
}

// initLogging wires a btclog backend writing to both stdout and (unless
// disabled) a rotated log file, then hands each package its own
// subsystem logger via that package's UseLogger, instead of leaving
// each at its zero-value Disabled logger.
func initLogging(cfg *config) error {
	var w io.Writer = os.Stdout
	if !cfg.NoLogFile {
		r, err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
		if err != nil {
			return err
		}
		logRotator = r
		w = io.MultiWriter(os.Stdout, r)
	}

	backend := btclog.NewBackend(w)

	log = backend.Logger("FACD")
	blockchain.UseLogger(backend.Logger("CHAN"))
	deadpool.UseLogger(backend.Logger("DPOL"))
	factorpow.UseLogger(backend.Logger("MINR"))
	txscript.UseLogger(backend.Logger("SCRT"))
	mempool.UseLogger(backend.Logger("MEMP"))
	rpc.UseLogger(backend.Logger("RPCS"))

	return nil
}
