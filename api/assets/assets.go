// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/api/utils"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/lockstake"
)

// Holding a holder's position in an asset.
type Holding struct {
	Asset   lockstake.AssetID `json:"asset"`
	Holder  lockstake.Address `json:"holder"`
	OptedIn bool              `json:"optedIn"`
	Amount  uint64            `json:"amount"`
}

type Assets struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Assets {
	return &Assets{
		ledger,
	}
}

func (a *Assets) handleGetHolding(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.PathAssetID(req, "id")
	if err != nil {
		return err
	}
	holder, err := utils.PathAddress(req, "address")
	if err != nil {
		return err
	}
	holding, err := a.ledger.Holding(id, holder)
	if err != nil {
		if ledger.IsNotFound(err) {
			return utils.NotFound(errors.New("asset not issued"))
		}
		return err
	}
	return utils.WriteJSON(w, &Holding{
		Asset:   id,
		Holder:  holder,
		OptedIn: holding.OptedIn,
		Amount:  holding.Amount,
	})
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}/holders/{address}").
		Methods(http.MethodGet).
		Name("GET /assets/{id}/holders/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHolding))
}
