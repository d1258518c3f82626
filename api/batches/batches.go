// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batches

import (
	"net/http"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/api/utils"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/tx"
)

type Batches struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Batches {
	return &Batches{
		ledger,
	}
}

func (b *Batches) handleSubmitBatch(w http.ResponseWriter, req *http.Request) error {
	var raw RawBatch
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var batch tx.Batch
	if err := rlp.DecodeBytes(raw.Raw, &batch); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}

	receipt, err := b.ledger.Submit(req.Context(), &batch)
	if err != nil {
		if ledger.IsBadBatch(err) {
			return utils.BadRequest(err)
		}
		if ledger.IsKnownBatch(err) {
			return utils.Forbidden(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (b *Batches) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.PathBytes32(req, "id")
	if err != nil {
		return err
	}
	receipt, err := b.ledger.Receipt(id)
	if err != nil {
		if ledger.IsNotFound(err) {
			return utils.NotFound(errors.New("batch not found"))
		}
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (b *Batches) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /batches").
		HandlerFunc(utils.WrapHandlerFunc(b.handleSubmitBatch))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /batches/{id}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetReceipt))
}
