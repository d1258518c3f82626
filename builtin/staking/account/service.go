// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/lockstake"
)

var (
	slotAccounts      = lockstake.BytesToBytes32([]byte(("accounts")))
	slotAccountsCount = lockstake.BytesToBytes32([]byte(("accounts-count")))
)

// Service manages the per participant records.
type Service struct {
	accounts *solidity.Mapping[lockstake.Address, *Account]
	count    *solidity.Raw[uint64]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		accounts: solidity.NewMapping[lockstake.Address, *Account](sctx, slotAccounts),
		count:    solidity.NewRaw[uint64](sctx, slotAccountsCount),
	}
}

// Get returns the account of addr, nil if addr never opted in.
func (s *Service) Get(addr lockstake.Address) (*Account, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return acc, nil
}

// Create stores an idle account for addr.
func (s *Service) Create(addr lockstake.Address) error {
	if err := s.accounts.Set(addr, &Account{}); err != nil {
		return errors.Wrap(err, "failed to create account")
	}
	count, err := s.count.Get()
	if err != nil {
		return err
	}
	return s.count.Upsert(count + 1)
}

// Update stores acc for addr.
func (s *Service) Update(addr lockstake.Address, acc *Account) error {
	if err := s.accounts.Set(addr, acc); err != nil {
		return errors.Wrap(err, "failed to update account")
	}
	return nil
}

// Count returns the number of opted in participants.
func (s *Service) Count() (uint64, error) {
	return s.count.Get()
}
