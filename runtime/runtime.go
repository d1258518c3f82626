// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/builtin"
	"github.com/vechain/lockstake/builtin/asset"
	"github.com/vechain/lockstake/builtin/pricefeed"
	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking"
	"github.com/vechain/lockstake/builtin/staking/interest"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/oracle"
	"github.com/vechain/lockstake/state"
	"github.com/vechain/lockstake/tx"
)

// Config tunes the contracts a runtime executes.
type Config struct {
	Accounting  staking.LiabilityAccounting
	PriceMaxAge uint64
	// batches signed for another ledger instance are rejected
	ChainTag byte
}

// Runtime executes batches against a state at a fixed time.
type Runtime struct {
	state  *state.State
	time   uint64
	config Config
}

// New create a runtime object.
func New(state *state.State, time uint64, config Config) *Runtime {
	return &Runtime{
		state:  state,
		time:   time,
		config: config,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Time() uint64        { return rt.time }

// contracts binds the builtin contracts to a shared output.
type contracts struct {
	out     *solidity.Output
	assets  *asset.Asset
	feed    *pricefeed.PriceFeed
	staking *staking.Staking
}

func (rt *Runtime) bind() *contracts {
	out := &solidity.Output{}
	feed := builtin.PriceFeed.Native(rt.state, out)
	return &contracts{
		out:     out,
		assets:  builtin.Asset.Native(rt.state, out),
		feed:    feed,
		staking: builtin.Staking.Native(rt.state, out, oracle.New(feed, rt.config.PriceMaxAge), rt.config.Accounting),
	}
}

// ExecuteBatch executes all clauses of b atomically. A rejected clause
// reverts the whole batch and is reported by a reverted receipt. Errors
// are returned only for invalid batches and storage failures, in which
// case the state is left untouched.
func (rt *Runtime) ExecuteBatch(b *tx.Batch) (*tx.Receipt, error) {
	if err := b.Validate(rt.config.ChainTag); err != nil {
		return nil, err
	}
	origin, err := b.Origin()
	if err != nil {
		return nil, err
	}

	receipt := &tx.Receipt{
		BatchID: b.ID(),
		Origin:  origin,
		Time:    rt.time,
	}

	// checkpoint to be reverted when clause failure.
	checkpoint := rt.state.NewCheckpoint()
	c := rt.bind()

	var prev *tx.Transfer
	for i, clause := range b.Clauses() {
		transfer, err := rt.execute(c, origin, clause, prev)
		if err != nil {
			rt.state.RevertTo(checkpoint)
			if !reverts.IsRevertErr(err) {
				return nil, errors.WithMessagef(err, "clause %d", i)
			}
			receipt.Reverted = true
			receipt.BadClause = uint64(i)
			receipt.Kind = reverts.KindOf(err).String()
			receipt.Reason = err.Error()
			return receipt, nil
		}
		prev = transfer
	}

	receipt.Events = c.out.Events
	receipt.Transfers = c.out.Transfers
	return receipt, nil
}

// execute runs one clause. prev is the transfer performed by the directly
// preceding clause, if it was one. A transfer clause returns its record.
func (rt *Runtime) execute(c *contracts, origin lockstake.Address, clause *tx.Clause, prev *tx.Transfer) (*tx.Transfer, error) {
	switch clause.Op() {
	case tx.OpTransfer:
		if err := c.assets.Transfer(clause.Asset(), origin, clause.To(), clause.Amount()); err != nil {
			return nil, err
		}
		return &tx.Transfer{Asset: clause.Asset(), Sender: origin, Recipient: clause.To(), Amount: clause.Amount()}, nil
	case tx.OpAssetOptIn:
		return nil, c.assets.OptIn(clause.Asset(), origin)
	case tx.OpOptIn:
		return nil, c.staking.OptIn(origin)
	case tx.OpConfigure:
		return nil, c.staking.Configure(origin, prev, clause.Asset(), clause.Reward())
	case tx.OpStake:
		return nil, c.staking.Stake(origin, prev, clause.Asset(), clause.Length(), rt.time)
	case tx.OpUnstake:
		return nil, c.staking.Unstake(origin, clause.Asset(), clause.Reward(), rt.time)
	case tx.OpRestake:
		return nil, c.staking.Restake(origin, clause.Asset(), clause.Length(), rt.time)
	case tx.OpWithdraw:
		return nil, c.staking.Withdraw(origin, clause.Asset(), clause.Amount())
	case tx.OpUpdateSettings:
		settings := clause.Settings()
		return nil, c.staking.UpdateSettings(origin, interest.Curve{
			SlopeStart:  settings.SlopeStart,
			SlopeEnd:    settings.SlopeEnd,
			LengthStart: settings.LengthStart,
			LengthEnd:   settings.LengthEnd,
		})
	case tx.OpUpdateAdmin:
		return nil, c.staking.UpdateAdmin(origin, clause.To())
	case tx.OpUpdatePrice:
		return nil, c.feed.Update(origin, clause.Asset(), clause.Amount(), rt.time)
	default:
		return nil, reverts.Newf(reverts.PreconditionFailed, "unknown op %v", clause.Op())
	}
}
