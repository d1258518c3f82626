// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage.
//
// Every builtin contract owns a keyspace of 32-byte slots holding rlp encoded
// values. Writes go to a stack of journaled levels, so a caller may take a
// checkpoint and revert to it. Commit flushes the accumulated changes into the
// underlying kv store in a single batch.
package state
