// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/lockstake/kv"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/stackedmap"
)

const (
	storageBucket = kv.Bucket("s")
	cacheSize     = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr lockstake.Address
	key  lockstake.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(k.addr.Bytes(), k.key.Bytes()...)
}

// State manages contract storage on top of a kv store.
type State struct {
	db    kv.Getter
	cache *lru.Cache // committed raw values
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object.
func New(db kv.Getter) *State {
	cache, _ := lru.New(cacheSize)
	s := &State{
		db:    db,
		cache: cache,
	}
	s.sm = stackedmap.New(s.load)
	s.sm.Push()
	return s
}

// load implements stackedmap.MapGetter.
func (s *State) load(key storageKey) (rlp.RawValue, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.(rlp.RawValue), true, nil
	}
	raw, err := storageBucket.Get(s.db, key.dbKey())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		raw = nil
	}
	s.cache.Add(key, rlp.RawValue(raw))
	return raw, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr lockstake.Address, key lockstake.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr lockstake.Address, key lockstake.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr lockstake.Address, key lockstake.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr lockstake.Address, key lockstake.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Changes returns the number of distinct slots modified since the last flush.
func (s *State) Changes() int {
	return len(s.changes())
}

func (s *State) changes() map[storageKey]rlp.RawValue {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		changes[key] = value
		return true
	})
	return changes
}

// Stage writes all changes into dst, leaving the journal untouched. Once dst
// is persisted, Flush must be called.
func (s *State) Stage(dst kv.Putter) error {
	for key, value := range s.changes() {
		var err error
		if len(value) == 0 {
			err = storageBucket.Delete(dst, key.dbKey())
		} else {
			err = storageBucket.Put(dst, key.dbKey(), value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	return nil
}

// Flush marks the staged changes as committed and resets the journal.
func (s *State) Flush() {
	for key, value := range s.changes() {
		s.cache.Add(key, value)
	}
	s.sm.PopTo(0)
	s.sm.Push()
}
