// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking/interest"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
)

var (
	slotAdmin     = lockstake.BytesToBytes32([]byte(("admin")))
	slotAssets    = lockstake.BytesToBytes32([]byte(("assets")))
	slotCurve     = lockstake.BytesToBytes32([]byte(("curve")))
	slotFrozen    = lockstake.BytesToBytes32([]byte(("frozen")))
	slotLifecycle = lockstake.BytesToBytes32([]byte(("lifecycle")))
	slotLocked    = lockstake.BytesToBytes32([]byte("locked"))
	slotLiability = lockstake.BytesToBytes32([]byte(("total-liability")))
)

// Lifecycle is the configuration stage of the contract.
type Lifecycle uint8

const (
	LifecycleNone Lifecycle = iota
	LifecycleCreated
	LifecycleConfigured
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleCreated:
		return "created"
	case LifecycleConfigured:
		return "configured"
	default:
		return "none"
	}
}

// Assets are the immutable asset ids of the contract.
type Assets struct {
	Staking lockstake.AssetID
	Reward  lockstake.AssetID
}

// Globals is a snapshot of the contract wide record.
type Globals struct {
	Admin     lockstake.Address
	Assets    Assets
	Curve     interest.Curve
	Frozen    bool
	Lifecycle Lifecycle
	Locked    uint64
	Liability uint64
}

// Service manages the contract wide configuration and totals.
type Service struct {
	admin     *solidity.Raw[lockstake.Address]
	assets    *solidity.Raw[Assets]
	curve     *solidity.Raw[interest.Curve]
	frozen    *solidity.Raw[bool]
	lifecycle *solidity.Raw[Lifecycle]
	locked    *solidity.Raw[uint64]
	liability *solidity.Raw[uint64]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		admin:     solidity.NewRaw[lockstake.Address](sctx, slotAdmin),
		assets:    solidity.NewRaw[Assets](sctx, slotAssets),
		curve:     solidity.NewRaw[interest.Curve](sctx, slotCurve),
		frozen:    solidity.NewRaw[bool](sctx, slotFrozen),
		lifecycle: solidity.NewRaw[Lifecycle](sctx, slotLifecycle),
		locked:    solidity.NewRaw[uint64](sctx, slotLocked),
		liability: solidity.NewRaw[uint64](sctx, slotLiability),
	}
}

// Init writes the record of a new contract. It starts frozen with nothing locked.
func (s *Service) Init(admin lockstake.Address, assets Assets, curve interest.Curve) error {
	if err := s.admin.Upsert(admin); err != nil {
		return err
	}
	if err := s.assets.Upsert(assets); err != nil {
		return err
	}
	if err := s.curve.Upsert(curve); err != nil {
		return err
	}
	if err := s.frozen.Upsert(true); err != nil {
		return err
	}
	if err := s.locked.Upsert(0); err != nil {
		return err
	}
	if err := s.liability.Upsert(0); err != nil {
		return err
	}
	return s.lifecycle.Upsert(LifecycleCreated)
}

// Get returns a snapshot of the record.
func (s *Service) Get() (*Globals, error) {
	var (
		g   Globals
		err error
	)
	if g.Admin, err = s.admin.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get admin")
	}
	if g.Assets, err = s.assets.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get assets")
	}
	if g.Curve, err = s.curve.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get curve")
	}
	if g.Frozen, err = s.frozen.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get frozen flag")
	}
	if g.Lifecycle, err = s.lifecycle.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get lifecycle")
	}
	if g.Locked, g.Liability, err = s.Totals(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) Lifecycle() (Lifecycle, error) {
	return s.lifecycle.Get()
}

func (s *Service) Admin() (lockstake.Address, error) {
	return s.admin.Get()
}

func (s *Service) SetAdmin(admin lockstake.Address) error {
	return s.admin.Upsert(admin)
}

func (s *Service) SetCurve(curve interest.Curve) error {
	return s.curve.Upsert(curve)
}

// MarkConfigured unfreezes the contract and completes its configuration.
func (s *Service) MarkConfigured() error {
	if err := s.frozen.Upsert(false); err != nil {
		return err
	}
	return s.lifecycle.Upsert(LifecycleConfigured)
}

// Totals returns the locked principal and the outstanding reward liability.
func (s *Service) Totals() (locked uint64, liability uint64, err error) {
	if locked, err = s.locked.Get(); err != nil {
		return 0, 0, errors.Wrap(err, "failed to get locked")
	}
	if liability, err = s.liability.Get(); err != nil {
		return 0, 0, errors.Wrap(err, "failed to get liability")
	}
	return
}

// Apply adjusts the totals by delta. An overflow or underflow is an arithmetic fault.
func (s *Service) Apply(delta *Delta) error {
	locked, liability, err := s.Totals()
	if err != nil {
		return err
	}

	if locked, err = apply(locked, delta.LockedIncrease, delta.LockedDecrease); err != nil {
		return errors.WithMessage(err, "locked")
	}
	if liability, err = apply(liability, delta.LiabilityIncrease, delta.LiabilityDecrease); err != nil {
		return errors.WithMessage(err, "liability")
	}

	if err := s.locked.Upsert(locked); err != nil {
		return err
	}
	return s.liability.Upsert(liability)
}

func apply(v, inc, dec uint64) (uint64, error) {
	if v < dec {
		return 0, reverts.Arithmetic("total underflow")
	}
	v, overflow := math.SafeAdd(v-dec, inc)
	if overflow {
		return 0, reverts.Arithmetic("total overflow")
	}
	return v, nil
}
