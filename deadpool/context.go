// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deadpool

import (
	"fmt"

	"github.com/fact0rn/fact0rnd/chaincfg"
)

// Context bundles the deadpool subsystem's state: the two persistent
// stores and the consensus parameters validation and RPC handling both
// need. It is constructed once in cmd/fact0rnd and threaded through
// blockchain.ChainState and the rpc package rather than reached for as a
// package-level global.
type Context struct {
	Params        *chaincfg.Params
	Index         *Index
	Announcements *AnnouncementDB
}

// OpenContext opens both deadpool stores under baseDir/indexes/deadpool
// and baseDir/announcedb, returning a ready-to-use Context.
func OpenContext(baseDir string, params *chaincfg.Params) (*Context, error) {
	idx, err := OpenIndex(baseDir + "/indexes/deadpool")
	if err != nil {
		return nil, fmt.Errorf("deadpool: open context index: %w", err)
	}
	ann, err := OpenAnnouncementDB(baseDir + "/announcedb")
	if err != nil {
		idx.Close()
		return nil, fmt.Errorf("deadpool: open context announcement db: %w", err)
	}
	return &Context{Params: params, Index: idx, Announcements: ann}, nil
}

// Close releases both underlying database handles.
func (c *Context) Close() error {
	idxErr := c.Index.Close()
	annErr := c.Announcements.Close()
	if idxErr != nil {
		return idxErr
	}
	return annErr
}
