// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc implements the deadpool JSON-RPC command set: building
// (never broadcasting) the entry, announcement and claim transaction
// templates, and answering read-only queries against the deadpool index.
// It is not a general node RPC server — wallet, mining and P2P command
// categories live elsewhere.
//
// Handlers take a *deadpool.Context carrying only what this command set
// needs rather than a server object holding the whole node's state.
package rpc

import (
	"fmt"

	"github.com/fact0rn/fact0rnd/btcjson"
	"github.com/fact0rn/fact0rnd/deadpool"
)

// Server dispatches deadpool RPC commands against a deadpool.Context.
type Server struct {
	Ctx *deadpool.Context

	// TipHeight reports the current chain tip, which listdeadpoolentries
	// needs for its height window but which this package has no way to
	// compute on its own — it is supplied by the composition root.
	TipHeight func() int32
}

// NewServer constructs a Server bound to ctx.
func NewServer(ctx *deadpool.Context, tipHeight func() int32) *Server {
	return &Server{Ctx: ctx, TipHeight: tipHeight}
}

// handlerFunc is the common shape every deadpool command handler
// implements.
type handlerFunc func(s *Server, cmd interface{}) (interface{}, error)

var handlers = map[string]handlerFunc{
	"getdeadpoolid":         handleGetDeadpoolID,
	"getdeadpoolentry":      handleGetDeadpoolEntry,
	"listdeadpoolentries":   handleListDeadpoolEntries,
	"createdeadpoolentry":   handleCreateDeadpoolEntry,
	"announcedeadpoolclaim": handleAnnounceDeadpoolClaim,
	"claimdeadpooltxs":      handleClaimDeadpoolTxs,
	"claimdeadpoolid":       handleClaimDeadpoolID,
}

// Dispatch routes method to its registered handler, type-asserting cmd to
// the struct btcjson registered for method. It returns a *btcjson.RPCError
// for any caller-facing (UserInput-kind) failure, so callers only ever
// need to handle one error shape.
func Dispatch(s *Server, method string, cmd interface{}) (interface{}, error) {
	fn, ok := handlers[method]
	if !ok {
		return nil, btcjson.NewRPCError(btcjson.ErrRPCMisc, fmt.Sprintf("unknown method %q", method))
	}
	log.Debugf("Dispatching RPC command %s", method)
	return fn(s, cmd)
}
