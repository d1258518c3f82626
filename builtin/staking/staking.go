// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/builtin/asset"
	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking/account"
	"github.com/vechain/lockstake/builtin/staking/globalstats"
	"github.com/vechain/lockstake/builtin/staking/interest"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/log"
	"github.com/vechain/lockstake/tx"
)

var logger = log.WithContext("pkg", "staking")

// LiabilityAccounting selects how unstake reduces the total liability.
type LiabilityAccounting uint8

const (
	// Corrected reduces the liability by the reward paid out.
	Corrected LiabilityAccounting = iota
	// Legacy reduces the liability by the principal paid out, as the first
	// deployments of the program did.
	Legacy
)

func (a LiabilityAccounting) String() string {
	if a == Legacy {
		return "legacy"
	}
	return "corrected"
}

// ParseLiabilityAccounting parses "corrected" or "legacy".
func ParseLiabilityAccounting(s string) (LiabilityAccounting, error) {
	switch strings.ToLower(s) {
	case "", "corrected":
		return Corrected, nil
	case "legacy":
		return Legacy, nil
	}
	return 0, fmt.Errorf("unknown liability accounting %q", s)
}

// PriceSource returns the spot price of an asset observed at now.
type PriceSource interface {
	Price(asset lockstake.AssetID, now uint64) (uint64, error)
}

// Staking implements native methods of the staking contract.
type Staking struct {
	sctx       *solidity.Context
	assets     *asset.Asset
	prices     PriceSource
	accounting LiabilityAccounting

	globalStatsService *globalstats.Service
	accountService     *account.Service
}

// New create a new instance bound to sctx. Asset movements go through assets.
func New(sctx *solidity.Context, assets *asset.Asset, prices PriceSource, accounting LiabilityAccounting) *Staking {
	return &Staking{
		sctx:       sctx,
		assets:     assets,
		prices:     prices,
		accounting: accounting,

		globalStatsService: globalstats.New(sctx),
		accountService:     account.New(sctx),
	}
}

// Address returns the contract address.
func (s *Staking) Address() lockstake.Address {
	return s.sctx.Address()
}

// Accounting returns the liability accounting mode.
func (s *Staking) Accounting() LiabilityAccounting {
	return s.accounting
}

//
// Getters - no state change
//

// Globals returns the contract wide record.
func (s *Staking) Globals() (*globalstats.Globals, error) {
	return s.globalStatsService.Get()
}

// Account returns the record of addr, nil when addr has not opted in.
func (s *Staking) Account(addr lockstake.Address) (*account.Account, error) {
	return s.accountService.Get(addr)
}

// Participants returns the number of opted in accounts.
func (s *Staking) Participants() (uint64, error) {
	return s.accountService.Count()
}

// Rate returns the reward rate granted for locking length days.
func (s *Staking) Rate(length uint64) (uint64, error) {
	g, err := s.globalStatsService.Get()
	if err != nil {
		return 0, err
	}
	if !g.Curve.InRange(length) {
		return 0, reverts.Newf(reverts.PreconditionFailed, "length %d outside [%d, %d]", length, g.Curve.LengthStart, g.Curve.LengthEnd)
	}
	return g.Curve.Rate(length)
}

// FreeBalance returns the contract balance of asset not owed to participants.
// The second result is false when the encumbered amount exceeds the balance.
func (s *Staking) FreeBalance(id lockstake.AssetID) (uint64, bool, error) {
	balance, err := s.assets.Balance(id, s.Address())
	if err != nil {
		return 0, false, err
	}
	locked, liability, err := s.globalStatsService.Totals()
	if err != nil {
		return 0, false, err
	}
	encumbered, overflow := math.SafeAdd(locked, liability)
	if overflow || encumbered > balance {
		return 0, false, nil
	}
	return balance - encumbered, true, nil
}

//
// Operations - each one commits entirely or not at all
//

// Create initializes the contract record. The contract starts frozen.
func (s *Staking) Create(admin lockstake.Address, assets globalstats.Assets, curve interest.Curve) error {
	return s.atomic(opCreate, func() error {
		lc, err := s.globalStatsService.Lifecycle()
		if err != nil {
			return err
		}
		if lc != globalstats.LifecycleNone {
			return reverts.Precondition("contract already created")
		}
		if assets.Staking == 0 || assets.Reward == 0 {
			return reverts.Precondition("invalid asset id")
		}
		if err := curve.Validate(); err != nil {
			return err
		}
		if err := s.globalStatsService.Init(admin, assets, curve); err != nil {
			return err
		}
		logger.Info("staking contract created", "admin", admin, "asset", assets.Staking, "reward", assets.Reward, "accounting", s.accounting)
		return nil
	})
}

// OptIn creates the idle account of caller.
func (s *Staking) OptIn(caller lockstake.Address) error {
	return s.atomic(opOptIn, func() error {
		lc, err := s.globalStatsService.Lifecycle()
		if err != nil {
			return err
		}
		if lc == globalstats.LifecycleNone {
			return reverts.Precondition("contract not created")
		}
		acc, err := s.accountService.Get(caller)
		if err != nil {
			return err
		}
		if acc != nil {
			return reverts.Precondition("already opted in")
		}
		if err := s.accountService.Create(caller); err != nil {
			return err
		}
		s.sctx.Emit(&tx.Event{Name: tx.EventOptedIn, Subject: caller})
		return nil
	})
}

// Configure performs the one-time setup: the contract opts in to both assets
// and is unfrozen. payment is the transfer directly preceding the call and
// must fund the contract with ConfigFunding of the native asset.
func (s *Staking) Configure(caller lockstake.Address, payment *tx.Transfer, stakingAsset, rewardAsset lockstake.AssetID) error {
	return s.atomic(opConfigure, func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		g, err := s.globalStatsService.Get()
		if err != nil {
			return err
		}
		if g.Lifecycle != globalstats.LifecycleCreated {
			return reverts.Newf(reverts.PreconditionFailed, "cannot configure a %v contract", g.Lifecycle)
		}
		if payment == nil ||
			!payment.Asset.IsNative() ||
			payment.Sender != caller ||
			payment.Recipient != s.Address() ||
			payment.Amount != lockstake.ConfigFunding {
			return reverts.Newf(reverts.PreconditionFailed, "configure requires a payment of %d native units", lockstake.ConfigFunding)
		}
		if stakingAsset != g.Assets.Staking || rewardAsset != g.Assets.Reward {
			return reverts.Precondition("asset mismatch")
		}

		for _, id := range []lockstake.AssetID{stakingAsset, rewardAsset} {
			optedIn, err := s.assets.IsOptedIn(id, s.Address())
			if err != nil {
				return err
			}
			if optedIn {
				continue
			}
			if err := s.assets.OptIn(id, s.Address()); err != nil {
				return err
			}
		}
		if err := s.globalStatsService.MarkConfigured(); err != nil {
			return err
		}

		s.sctx.Emit(&tx.Event{Name: tx.EventConfigured, Subject: caller, Asset: stakingAsset, Amount: payment.Amount})
		logger.Info("staking contract configured", "admin", caller)
		return nil
	})
}

// Stake locks the principal carried by payment for length days.
func (s *Staking) Stake(caller lockstake.Address, payment *tx.Transfer, id lockstake.AssetID, length uint64, now uint64) error {
	return s.atomic(opStake, func() error {
		g, err := s.requireOpen()
		if err != nil {
			return err
		}
		if payment == nil ||
			payment.Asset != id ||
			payment.Sender != caller ||
			payment.Recipient != s.Address() ||
			payment.Amount == 0 {
			return reverts.Precondition("stake requires a preceding transfer of the principal to the contract")
		}
		if id != g.Assets.Staking {
			return reverts.Precondition("asset mismatch")
		}
		if !g.Curve.InRange(length) {
			return reverts.Newf(reverts.PreconditionFailed, "length %d outside [%d, %d]", length, g.Curve.LengthStart, g.Curve.LengthEnd)
		}
		acc, err := s.requireAccount(caller)
		if err != nil {
			return err
		}
		if acc.IsActive() {
			return reverts.Precondition("account already staking")
		}

		rate, err := g.Curve.Rate(length)
		if err != nil {
			return err
		}
		stakePrice, err := s.prices.Price(g.Assets.Staking, now)
		if err != nil {
			return err
		}
		rewardPrice, err := s.prices.Price(g.Assets.Reward, now)
		if err != nil {
			return err
		}
		out, err := convert(payment.Amount, stakePrice, rewardPrice, rate)
		if err != nil {
			return err
		}
		if out < payment.Amount {
			return reverts.Newf(reverts.ArithmeticFault, "negative reward: out %d below principal %d", out, payment.Amount)
		}
		unlock, err := unlockTime(now, length)
		if err != nil {
			return err
		}

		acc.Staked = payment.Amount
		acc.TotalReward = out - payment.Amount
		acc.StakeUnlock = unlock
		if err := s.accountService.Update(caller, acc); err != nil {
			return err
		}
		if err := s.globalStatsService.Apply(&globalstats.Delta{
			LockedIncrease:    acc.Staked,
			LiabilityIncrease: acc.TotalReward,
		}); err != nil {
			return err
		}

		s.sctx.Emit(&tx.Event{
			Name:    tx.EventStaked,
			Subject: caller,
			Asset:   id,
			Amount:  acc.Staked,
			Reward:  acc.TotalReward,
			Unlock:  acc.StakeUnlock,
			Rate:    rate,
		})
		logger.Debug("staked", "account", caller, "amount", acc.Staked, "reward", acc.TotalReward, "rate", rate, "unlock", acc.StakeUnlock)
		return nil
	})
}

// Unstake pays out an unlocked stake and its reward, both in the staking asset.
func (s *Staking) Unstake(caller lockstake.Address, id, rewardID lockstake.AssetID, now uint64) error {
	return s.atomic(opUnstake, func() error {
		g, err := s.globalStatsService.Get()
		if err != nil {
			return err
		}
		if id != g.Assets.Staking || rewardID != g.Assets.Reward {
			return reverts.Precondition("asset mismatch")
		}
		acc, err := s.requireAccount(caller)
		if err != nil {
			return err
		}
		if !acc.IsActive() {
			return reverts.Precondition("account not staking")
		}
		if !acc.IsUnlocked(now) {
			return reverts.Newf(reverts.PreconditionFailed, "stake locked until %d", acc.StakeUnlock)
		}

		if err := s.assets.Transfer(g.Assets.Staking, s.Address(), caller, acc.Staked); err != nil {
			return err
		}
		if acc.TotalReward > 0 {
			if err := s.assets.Transfer(g.Assets.Staking, s.Address(), caller, acc.TotalReward); err != nil {
				return err
			}
		}

		delta := &globalstats.Delta{LockedDecrease: acc.Staked, LiabilityDecrease: acc.TotalReward}
		if s.accounting == Legacy {
			if acc.Staked != acc.TotalReward {
				logger.Warn("legacy liability accounting diverges", "account", caller, "staked", acc.Staked, "reward", acc.TotalReward)
			}
			delta.LiabilityDecrease = acc.Staked
		}
		if err := s.globalStatsService.Apply(delta); err != nil {
			return err
		}

		s.sctx.Emit(&tx.Event{
			Name:    tx.EventUnstaked,
			Subject: caller,
			Asset:   id,
			Amount:  acc.Staked,
			Reward:  acc.TotalReward,
		})
		logger.Debug("unstaked", "account", caller, "amount", acc.Staked, "reward", acc.TotalReward)

		acc.Reset()
		return s.accountService.Update(caller, acc)
	})
}

// Restake folds an unlocked stake and its reward into a new stake of length days.
func (s *Staking) Restake(caller lockstake.Address, id lockstake.AssetID, length uint64, now uint64) error {
	return s.atomic(opRestake, func() error {
		g, err := s.requireOpen()
		if err != nil {
			return err
		}
		if id != g.Assets.Staking {
			return reverts.Precondition("asset mismatch")
		}
		if !g.Curve.InRange(length) {
			return reverts.Newf(reverts.PreconditionFailed, "length %d outside [%d, %d]", length, g.Curve.LengthStart, g.Curve.LengthEnd)
		}
		acc, err := s.requireAccount(caller)
		if err != nil {
			return err
		}
		if !acc.IsActive() {
			return reverts.Precondition("account not staking")
		}
		if !acc.IsUnlocked(now) {
			return reverts.Newf(reverts.PreconditionFailed, "stake locked until %d", acc.StakeUnlock)
		}

		rate, err := g.Curve.Rate(length)
		if err != nil {
			return err
		}
		principal, overflow := math.SafeAdd(acc.Staked, acc.TotalReward)
		if overflow {
			return reverts.Arithmetic("principal overflow")
		}
		out, err := compound(principal, rate)
		if err != nil {
			return err
		}
		unlock, err := unlockTime(now, length)
		if err != nil {
			return err
		}

		delta, err := (&globalstats.Delta{
			LockedDecrease:    acc.Staked,
			LiabilityDecrease: acc.TotalReward,
		}).Add(&globalstats.Delta{
			LockedIncrease:    principal,
			LiabilityIncrease: out - principal,
		})
		if err != nil {
			return err
		}
		if err := s.globalStatsService.Apply(delta); err != nil {
			return err
		}

		acc.Staked = principal
		acc.TotalReward = out - principal
		acc.StakeUnlock = unlock
		if err := s.accountService.Update(caller, acc); err != nil {
			return err
		}

		s.sctx.Emit(&tx.Event{
			Name:    tx.EventRestaked,
			Subject: caller,
			Asset:   id,
			Amount:  acc.Staked,
			Reward:  acc.TotalReward,
			Unlock:  acc.StakeUnlock,
			Rate:    rate,
		})
		logger.Debug("restaked", "account", caller, "amount", acc.Staked, "reward", acc.TotalReward, "rate", rate, "unlock", acc.StakeUnlock)
		return nil
	})
}

// Withdraw moves amount of asset from the contract to the admin. For any
// asset but the native one, amount must be strictly below the free balance.
func (s *Staking) Withdraw(caller lockstake.Address, id lockstake.AssetID, amount uint64) error {
	return s.atomic(opWithdraw, func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		if !id.IsNative() {
			free, ok, err := s.FreeBalance(id)
			if err != nil {
				return err
			}
			if !ok {
				return reverts.Precondition("contract balance below its obligations")
			}
			if free <= amount {
				return reverts.Newf(reverts.PreconditionFailed, "amount %d exceeds free balance %d", amount, free)
			}
		}
		if err := s.assets.Transfer(id, s.Address(), caller, amount); err != nil {
			return err
		}
		s.sctx.Emit(&tx.Event{Name: tx.EventWithdrawn, Subject: caller, Asset: id, Amount: amount})
		logger.Info("admin withdrawal", "asset", id, "amount", amount)
		return nil
	})
}

// UpdateSettings replaces the interest curve.
func (s *Staking) UpdateSettings(caller lockstake.Address, curve interest.Curve) error {
	return s.atomic(opUpdateSettings, func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		if err := curve.Validate(); err != nil {
			return err
		}
		if err := s.globalStatsService.SetCurve(curve); err != nil {
			return err
		}
		s.sctx.Emit(&tx.Event{
			Name:    tx.EventSettingsUpdated,
			Subject: caller,
			Settings: &tx.Settings{
				SlopeStart:  curve.SlopeStart,
				SlopeEnd:    curve.SlopeEnd,
				LengthStart: curve.LengthStart,
				LengthEnd:   curve.LengthEnd,
			},
		})
		logger.Info("settings updated", "slopeStart", curve.SlopeStart, "slopeEnd", curve.SlopeEnd, "lengthStart", curve.LengthStart, "lengthEnd", curve.LengthEnd)
		return nil
	})
}

// UpdateAdmin hands over the admin role.
func (s *Staking) UpdateAdmin(caller lockstake.Address, admin lockstake.Address) error {
	return s.atomic(opUpdateAdmin, func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		if admin.IsZero() {
			return reverts.Precondition("zero admin")
		}
		if err := s.globalStatsService.SetAdmin(admin); err != nil {
			return err
		}
		s.sctx.Emit(&tx.Event{Name: tx.EventAdminUpdated, Subject: admin})
		logger.Info("admin updated", "from", caller, "to", admin)
		return nil
	})
}

//
// helpers
//

// atomic runs fn under a checkpoint and reverts every change when it fails.
func (s *Staking) atomic(op string, fn func() error) error {
	snap := s.sctx.Snapshot()
	if err := fn(); err != nil {
		s.sctx.Revert(snap)
		if !reverts.IsRevertErr(err) {
			err = errors.WithMessage(err, op)
		}
		metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": reverts.KindOf(err).String()})
		return err
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	if locked, liability, err := s.globalStatsService.Totals(); err == nil {
		metricLocked().Set(int64(locked))       // #nosec G115
		metricLiability().Set(int64(liability)) // #nosec G115
	}
	return nil
}

func (s *Staking) requireAdmin(caller lockstake.Address) error {
	lc, err := s.globalStatsService.Lifecycle()
	if err != nil {
		return err
	}
	if lc == globalstats.LifecycleNone {
		return reverts.Precondition("contract not created")
	}
	admin, err := s.globalStatsService.Admin()
	if err != nil {
		return err
	}
	if caller != admin {
		return reverts.New(reverts.Unauthorized, "caller is not the admin")
	}
	return nil
}

func (s *Staking) requireOpen() (*globalstats.Globals, error) {
	g, err := s.globalStatsService.Get()
	if err != nil {
		return nil, err
	}
	if g.Lifecycle != globalstats.LifecycleConfigured || g.Frozen {
		return nil, reverts.Precondition("contract frozen")
	}
	return g, nil
}

func (s *Staking) requireAccount(caller lockstake.Address) (*account.Account, error) {
	acc, err := s.accountService.Get(caller)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, reverts.Precondition("account not opted in")
	}
	return acc, nil
}

var rateScale = uint256.NewInt(lockstake.RateScale)

// convert values amount of the staking asset in reward asset units, grown by rate:
// (amount * stakePrice * (1e6 + rate) / rewardPrice) / 1e6.
func convert(amount, stakePrice, rewardPrice, rate uint64) (uint64, error) {
	if rewardPrice == 0 {
		return 0, reverts.Arithmetic("zero reward price")
	}
	factor := new(uint256.Int).Add(rateScale, uint256.NewInt(rate))
	out := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(stakePrice))
	out.Mul(out, factor)
	out.Div(out, uint256.NewInt(rewardPrice))
	out.Div(out, rateScale)
	if !out.IsUint64() {
		return 0, reverts.Arithmetic("reward overflow")
	}
	return out.Uint64(), nil
}

// compound grows principal by rate: principal * (1e6 + rate) / 1e6.
func compound(principal, rate uint64) (uint64, error) {
	factor := new(uint256.Int).Add(rateScale, uint256.NewInt(rate))
	out := new(uint256.Int).Mul(uint256.NewInt(principal), factor)
	out.Div(out, rateScale)
	if !out.IsUint64() {
		return 0, reverts.Arithmetic("reward overflow")
	}
	return out.Uint64(), nil
}

func unlockTime(now, length uint64) (uint64, error) {
	secs, overflow := math.SafeMul(length, lockstake.SecondsPerDay)
	if overflow {
		return 0, reverts.Arithmetic("unlock overflow")
	}
	unlock, overflow := math.SafeAdd(now, secs)
	if overflow {
		return 0, reverts.Arithmetic("unlock overflow")
	}
	return unlock, nil
}
