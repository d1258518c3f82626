// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/lockstake/api/utils"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/lockstake"
)

// Status the position of the ledger.
type Status struct {
	GenesisID lockstake.Bytes32 `json:"genesisID"`
	ChainTag  uint8             `json:"chainTag"`
	Seq       uint64            `json:"seq"`
	Time      uint64            `json:"time"`
}

type Node struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Node {
	return &Node{
		ledger,
	}
}

func (n *Node) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Status{
		GenesisID: n.ledger.GenesisID(),
		ChainTag:  n.ledger.ChainTag(),
		Seq:       n.ledger.Seq(),
		Time:      n.ledger.Time(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /node/status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetStatus))
}
