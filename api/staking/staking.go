// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/api/utils"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/ledger"
)

type Staking struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Staking {
	return &Staking{
		ledger,
	}
}

func (s *Staking) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	summary, err := s.ledger.Summary()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSummary(summary))
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.PathAddress(req, "address")
	if err != nil {
		return err
	}
	acc, err := s.ledger.Account(addr)
	if err != nil {
		if ledger.IsNotFound(err) {
			return utils.NotFound(errors.New("account not opted in"))
		}
		return err
	}
	return utils.WriteJSON(w, convertAccount(addr, acc, s.ledger.Time()))
}

func (s *Staking) handleGetRate(w http.ResponseWriter, req *http.Request) error {
	length, err := utils.QueryUint(req, "length")
	if err != nil {
		return err
	}
	rate, err := s.ledger.Rate(length)
	if err != nil {
		if reverts.IsRevertErr(err) {
			return utils.BadRequest(err)
		}
		return err
	}
	return utils.WriteJSON(w, &Rate{Length: length, Rate: rate})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staking").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSummary))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/rate").
		Methods(http.MethodGet).
		Name("GET /staking/rate").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetRate))
}
