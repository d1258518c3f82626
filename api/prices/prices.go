// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prices

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/api/utils"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/lockstake"
)

// Price the latest feed entry of an asset.
type Price struct {
	Asset     lockstake.AssetID `json:"asset"`
	Price     uint64            `json:"price"`
	Timestamp uint64            `json:"timestamp"`
	// seconds since the entry was fed, relative to the ledger time
	Age uint64 `json:"age"`
}

type Prices struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Prices {
	return &Prices{
		ledger,
	}
}

func (p *Prices) handleGetPrice(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.PathAssetID(req, "id")
	if err != nil {
		return err
	}
	entry, err := p.ledger.Price(id)
	if err != nil {
		if ledger.IsNotFound(err) {
			return utils.NotFound(errors.New("no price fed"))
		}
		return err
	}
	var age uint64
	if now := p.ledger.Time(); now > entry.Timestamp {
		age = now - entry.Timestamp
	}
	return utils.WriteJSON(w, &Price{
		Asset:     id,
		Price:     entry.Price,
		Timestamp: entry.Timestamp,
		Age:       age,
	})
}

func (p *Prices) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /prices/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPrice))
}
