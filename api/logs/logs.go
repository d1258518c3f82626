// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/api/utils"
	"github.com/vechain/lockstake/logdb"
)

type Logs struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Logs {
	return &Logs{
		db,
		logsLimit,
	}
}

// checkOptions applies the default page and rejects pages larger than the limit.
// The default page asks for one log more than the limit, so an oversized
// result can be told apart.
func (l *Logs) checkOptions(opts **Options) error {
	if *opts == nil {
		*opts = &Options{Limit: l.limit + 1}
		return nil
	}
	if (*opts).Limit > l.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", l.limit))
	}
	return nil
}

func (l *Logs) checkSize(n int) error {
	if uint64(n) > l.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", l.limit))
	}
	return nil
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	var ef EventFilter
	if err := utils.ParseJSON(req.Body, &ef); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	for i, c := range ef.CriteriaSet {
		if c == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if err := l.checkOptions(&ef.Options); err != nil {
		return err
	}
	filter, err := convertEventFilter(&ef)
	if err != nil {
		return utils.BadRequest(err)
	}

	events, err := l.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	if err := l.checkSize(len(events)); err != nil {
		return err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, e := range events {
		fes[i] = convertEvent(e)
	}
	return utils.WriteJSON(w, fes)
}

func (l *Logs) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	var tf TransferFilter
	if err := utils.ParseJSON(req.Body, &tf); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	for i, c := range tf.CriteriaSet {
		if c == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if err := l.checkOptions(&tf.Options); err != nil {
		return err
	}
	filter, err := convertTransferFilter(&tf)
	if err != nil {
		return utils.BadRequest(err)
	}

	transfers, err := l.db.FilterTransfers(req.Context(), filter)
	if err != nil {
		return err
	}
	if err := l.checkSize(len(transfers)); err != nil {
		return err
	}
	fts := make([]*FilteredTransfer, len(transfers))
	for i, t := range transfers {
		fts[i] = convertTransfer(t)
	}
	return utils.WriteJSON(w, fts)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /logs/transfer").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterTransfers))
}
