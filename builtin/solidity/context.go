// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/state"
	"github.com/vechain/lockstake/tx"
)

// Output collects the events and transfers produced while executing a batch.
type Output struct {
	Events    []*tx.Event
	Transfers []*tx.Transfer
}

// Snapshot marks a revertible point of both the storage and the output.
type Snapshot struct {
	revision  int
	events    int
	transfers int
}

// Context binds a builtin contract to its storage and to the shared output.
type Context struct {
	address lockstake.Address
	state   *state.State
	output  *Output
}

// NewContext creates a context for the contract at address.
// A nil output discards emitted events and transfers.
func NewContext(address lockstake.Address, state *state.State, output *Output) *Context {
	if output == nil {
		output = &Output{}
	}
	return &Context{
		address: address,
		state:   state,
		output:  output,
	}
}

// Address returns the contract address.
func (c *Context) Address() lockstake.Address {
	return c.address
}

// State returns the underlying state.
func (c *Context) State() *state.State {
	return c.state
}

// Output returns the shared output.
func (c *Context) Output() *Output {
	return c.output
}

// WithAddress returns a context for another contract sharing the same state and output.
func (c *Context) WithAddress(address lockstake.Address) *Context {
	return &Context{
		address: address,
		state:   c.state,
		output:  c.output,
	}
}

// Emit records an event raised by the contract.
func (c *Context) Emit(ev *tx.Event) {
	ev.Address = c.address
	c.output.Events = append(c.output.Events, ev)
}

// RecordTransfer records an asset movement.
func (c *Context) RecordTransfer(tr *tx.Transfer) {
	c.output.Transfers = append(c.output.Transfers, tr)
}

// Snapshot takes a checkpoint of storage and output.
func (c *Context) Snapshot() Snapshot {
	return Snapshot{
		revision:  c.state.NewCheckpoint(),
		events:    len(c.output.Events),
		transfers: len(c.output.Transfers),
	}
}

// Revert discards every change made since the snapshot was taken.
func (c *Context) Revert(s Snapshot) {
	c.state.RevertTo(s.revision)
	c.output.Events = c.output.Events[:s.events]
	c.output.Transfers = c.output.Transfers[:s.transfers]
}
