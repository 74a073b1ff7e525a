// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command fact0rnd is the composition root for the deadpool subsystem: it
// opens the persistent indexes, wires them into a blockchain.ChainState
// and an rpc.Server, and exposes the deadpool RPC surface over HTTP.
//
// It is deliberately not a full node daemon. P2P networking, mining and
// wallet functionality live elsewhere — this binary assumes something
// else feeds it connected/disconnected blocks (e.g. over the same RPC
// surface a real node would expose) and only owns deadpool indexing,
// validation and the command set built on top of it.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fact0rn/fact0rnd/blockchain"
	"github.com/fact0rn/fact0rnd/btcjson"
	"github.com/fact0rn/fact0rnd/chaincfg"
	"github.com/fact0rn/fact0rnd/chaincfg/chainhash"
	"github.com/fact0rn/fact0rnd/deadpool"
	"github.com/fact0rn/fact0rnd/mining/factorpow"
	"github.com/fact0rn/fact0rnd/rpc"
	"github.com/fact0rn/fact0rnd/wire"
)

// decodeCmd allocates the btcjson command struct registered for method
// and unmarshals params into it.
func decodeCmd(method string, params json.RawMessage) (interface{}, error) {
	cmd, err := btcjson.NewCmd(method)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return cmd, nil
	}
	if err := json.Unmarshal(params, cmd); err != nil {
		return nil, fmt.Errorf("fact0rnd: decode params for %s: %w", method, err)
	}
	return cmd, nil
}

func activeNetParams(cfg *config) *chaincfg.Params {
	switch {
	case cfg.TestNet:
		return &chaincfg.TestNetParams
	case cfg.SimNet:
		params := chaincfg.SimNetParams
		if cfg.HashRounds != 0 {
			params.HashRounds = cfg.HashRounds
		}
		return &params
	default:
		return &chaincfg.MainNetParams
	}
}

// node bundles the long-lived state the HTTP handlers close over: the
// deadpool context and the chain state built on top of it.
type node struct {
	ctx   *deadpool.Context
	chain *blockchain.ChainState
}

func (n *node) tipHeight() int32 {
	height, _, err := n.ctx.Index.BestBlock()
	if err != nil {
		return 0
	}
	return height
}

// indexCoinView adapts deadpool.Index to blockchain.CoinView. It only
// ever resolves outpoints that are themselves known deadpool entries —
// the only previous outputs ChainState.ConnectBlock's deadpool-spend
// check cares about — since this binary keeps no general UTXO set.
type indexCoinView struct {
	idx *deadpool.Index
}

func (v indexCoinView) FetchPrevOutputScript(op wire.OutPoint) ([]byte, bool) {
	entry, _, found, err := v.idx.LookupEntryByOutpoint(op)
	if err != nil || !found {
		return nil, false
	}
	return entry.TxOut.PkScript, true
}

// connectBlockRequest is the body POST /connectblock expects: a block and
// the height/median-time/difficulty context its validation needs. That
// context comes from the caller rather than being computed here, since
// this binary tracks no header chain of its own to derive it from:
// prev_bits is the previous block's declared nBits, and window_seconds is
// the actual timespan of the retarget window ending at the previous block
// (only consulted on retarget heights).
type connectBlockRequest struct {
	BlockHex      string `json:"block_hex"`
	Height        int32  `json:"height"`
	MedianTime    int64  `json:"median_time"`
	PrevBits      uint16 `json:"prev_bits"`
	WindowSeconds int64  `json:"window_seconds"`
}

type staticMedianTime int64

func (t staticMedianTime) MedianTime() time.Time { return time.Unix(int64(t), 0) }

// staticDifficulty adapts the request-supplied difficulty context to
// blockchain.DifficultyView.
type staticDifficulty struct {
	bits    uint16
	seconds int64
}

func (d staticDifficulty) PrevBits() uint16 { return d.bits }

func (d staticDifficulty) WindowTimespan() time.Duration {
	return time.Duration(d.seconds) * time.Second
}

func connectBlockHandler(n *node) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req connectBlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRPCError(w, fmt.Errorf("malformed request: %w", err))
			return
		}

		raw, err := hex.DecodeString(req.BlockHex)
		if err != nil {
			writeRPCError(w, fmt.Errorf("block_hex: %w", err))
			return
		}
		var block wire.MsgBlock
		if err := block.Deserialize(bytes.NewReader(raw)); err != nil {
			writeRPCError(w, fmt.Errorf("block_hex: %w", err))
			return
		}

		coins := indexCoinView{idx: n.ctx.Index}
		medianTime := staticMedianTime(req.MedianTime)
		diff := staticDifficulty{bits: req.PrevBits, seconds: req.WindowSeconds}
		if err := n.chain.ConnectBlock(&block, req.Height, medianTime, diff, coins); err != nil {
			writeRPCError(w, err)
			return
		}

		work := factorpow.GetBlockProof(&block.Header)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rpcResponse{Result: connectBlockResult{
			Status:    "ok",
			BlockWork: work.String(),
		}})
	}
}

// connectBlockResult reports the connected block's additive work
// contribution alongside the acknowledgement, so the caller can maintain
// its cumulative chain-work tally without recomputing the proof.
type connectBlockResult struct {
	Status    string `json:"status"`
	BlockWork string `json:"blockwork"`
}

// disconnectBlockRequest is the body POST /disconnectblock expects: the
// block being rolled back plus the hash of the block that becomes the
// new tip once it is gone.
type disconnectBlockRequest struct {
	BlockHex string `json:"block_hex"`
	Height   int32  `json:"height"`
	PrevHash string `json:"prev_hash"`
}

func disconnectBlockHandler(n *node) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req disconnectBlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRPCError(w, fmt.Errorf("malformed request: %w", err))
			return
		}

		raw, err := hex.DecodeString(req.BlockHex)
		if err != nil {
			writeRPCError(w, fmt.Errorf("block_hex: %w", err))
			return
		}
		var block wire.MsgBlock
		if err := block.Deserialize(bytes.NewReader(raw)); err != nil {
			writeRPCError(w, fmt.Errorf("block_hex: %w", err))
			return
		}

		prevHash, err := chainhash.NewHashFromStr(req.PrevHash)
		if err != nil {
			writeRPCError(w, fmt.Errorf("prev_hash: %w", err))
			return
		}

		if err := n.chain.DisconnectBlock(&block, req.Height, *prevHash); err != nil {
			writeRPCError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rpcResponse{Result: "ok"})
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	if logRotator != nil {
		defer logRotator.Close()
	}

	params := activeNetParams(cfg)

	ctx, err := deadpool.OpenContext(cfg.DataDir, params)
	if err != nil {
		return fmt.Errorf("fact0rnd: open deadpool context: %w", err)
	}
	defer ctx.Close()

	n := &node{
		ctx: ctx,
		chain: &blockchain.ChainState{
			Params:        params,
			Index:         ctx.Index,
			Announcements: ctx.Announcements,
		},
	}

	server := rpc.NewServer(ctx, n.tipHeight)

	mux := http.NewServeMux()
	mux.HandleFunc("/", rpcHandler(server))
	mux.HandleFunc("/connectblock", connectBlockHandler(n))
	mux.HandleFunc("/disconnectblock", disconnectBlockHandler(n))

	log.Infof("RPC server listening on %s", cfg.RPCListen)
	return http.ListenAndServe(cfg.RPCListen, mux)
}

// rpcRequest is the minimal JSON-RPC 1.0 envelope the handler accepts:
// method plus its raw params. The handler resolves the method to its
// registered btcjson command struct and decodes params into it; only the
// closed deadpool command set is registered.
type rpcRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func rpcHandler(server *rpc.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRPCError(w, fmt.Errorf("malformed request: %w", err))
			return
		}

		cmd, err := decodeCmd(req.Method, req.Params)
		if err != nil {
			writeRPCError(w, err)
			return
		}

		result, err := rpc.Dispatch(server, req.Method, cmd)
		if err != nil {
			writeRPCError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rpcResponse{Result: result})
	}
}

func writeRPCError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(rpcResponse{Error: err.Error()})
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
