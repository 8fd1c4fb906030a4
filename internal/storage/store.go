// Package storage provides the chest's persistent key/value store.
//
// Keys come from a fixed set whose names match the browser localStorage
// layout, so records written by either side stay readable. Every backend
// failure is reported as a fault.StorageFailure.
package storage

import (
	"context"
	"fmt"

	"github.com/comigor/lovechest/internal/fault"
)

// Key names one stored value.
type Key string

const (
	KeyLastOpenedDate   Key = "lastOpenedDate"
	KeyChestOpen        Key = "chestOpen"
	KeyCurrentMessage   Key = "currentMessage"
	KeyLastMessageIndex Key = "lastMessageIndex"
)

// Keys lists every valid key.
var Keys = []Key{KeyLastOpenedDate, KeyChestOpen, KeyCurrentMessage, KeyLastMessageIndex}

// Valid reports whether k belongs to the fixed key set.
func (k Key) Valid() bool {
	switch k {
	case KeyLastOpenedDate, KeyChestOpen, KeyCurrentMessage, KeyLastMessageIndex:
		return true
	}
	return false
}

// Store is the persistence contract the chest depends on.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key Key) (string, bool, error)
	Set(ctx context.Context, key Key, value string) error
	Remove(ctx context.Context, key Key) error
	// Clear removes every key.
	Clear(ctx context.Context) error
}

func checkKey(op string, k Key) error {
	if !k.Valid() {
		return fault.Storage(op, fmt.Errorf("unknown key %q", string(k)))
	}
	return nil
}
