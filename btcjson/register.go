// Copyright (c) 2025 The FACT0RN developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcjson implements the command-struct registry the RPC layer
// builds its JSON-RPC command set on: one exported struct per command,
// registered by name so the server can marshal/unmarshal parameters by
// reflection instead of hand-written per-command (de)serialization.
package btcjson

import (
	"fmt"
	"reflect"
	"sync"
)

// UsageFlag defines flags that specify additional properties about the
// circumstances under which a command can be used.
type UsageFlag uint32

const (
	// UFWalletOnly indicates that the command can only be used with an
	// RPC server that supports wallet commands. This module never
	// registers a command with this flag (wallet management is out of
	// scope), but the flag is kept so a registration call can state that
	// fact explicitly rather than by omission.
	UFWalletOnly UsageFlag = 1 << iota
)

var registry = struct {
	sync.RWMutex
	methodToInfo map[string]methodInfo
}{methodToInfo: make(map[string]methodInfo)}

type methodInfo struct {
	cmdType reflect.Type
	flags   UsageFlag
}

// RegisterCmd registers a new command that will automatically marshal to
// and unmarshal from JSON-RPC with full type checking. method is the
// JSON-RPC method name, cmd is a pointer to a zero value of the command
// struct (e.g. (*GetDeadpoolIDCmd)(nil)), and flags annotates any special
// handling the RPC dispatcher needs.
//
// An error is returned if method is already registered or cmd is not a
// pointer to a struct.
func RegisterCmd(method string, cmd interface{}, flags UsageFlag) error {
	registry.Lock()
	defer registry.Unlock()

	if _, ok := registry.methodToInfo[method]; ok {
		return fmt.Errorf("btcjson: method %q already registered", method)
	}

	cmdType := reflect.TypeOf(cmd)
	if cmdType.Kind() != reflect.Ptr || cmdType.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("btcjson: cmd %q must be a pointer to a struct", method)
	}

	registry.methodToInfo[method] = methodInfo{cmdType: cmdType.Elem(), flags: flags}
	return nil
}

// MustRegisterCmd is identical to RegisterCmd except it panics if the
// command cannot be registered. It is intended for use in package init
// functions, where mistakes should surface immediately rather than at
// first RPC call.
func MustRegisterCmd(method string, cmd interface{}, flags UsageFlag) {
	if err := RegisterCmd(method, cmd, flags); err != nil {
		panic(fmt.Sprintf("btcjson: failed to register %q: %v", method, err))
	}
}

// CmdMethod returns the method name associated with cmd's concrete type,
// or an error if it was never registered.
func CmdMethod(cmd interface{}) (string, error) {
	registry.RLock()
	defer registry.RUnlock()

	t := reflect.TypeOf(cmd)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for method, info := range registry.methodToInfo {
		if info.cmdType == t {
			return method, nil
		}
	}
	return "", fmt.Errorf("btcjson: command type %v is not registered", t)
}

// MethodUsageFlags returns the usage flags associated with method, or an
// error if method is not registered.
func MethodUsageFlags(method string) (UsageFlag, error) {
	registry.RLock()
	defer registry.RUnlock()

	info, ok := registry.methodToInfo[method]
	if !ok {
		return 0, fmt.Errorf("btcjson: method %q is not registered", method)
	}
	return info.flags, nil
}

// IsRegistered reports whether method has a registered command type.
func IsRegistered(method string) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.methodToInfo[method]
	return ok
}

// NewCmd returns a freshly allocated zero-value command for method, ready
// to be unmarshaled into (e.g. json.Unmarshal(params, cmd)). It returns
// an error if method is not registered.
func NewCmd(method string) (interface{}, error) {
	registry.RLock()
	defer registry.RUnlock()

	info, ok := registry.methodToInfo[method]
	if !ok {
		return nil, fmt.Errorf("btcjson: method %q is not registered", method)
	}
	return reflect.New(info.cmdType).Interface(), nil
}
