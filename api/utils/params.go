// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/lockstake"
)

// The helpers below read a route variable or query parameter and answer
// 400 when it does not parse.

func PathAddress(req *http.Request, name string) (lockstake.Address, error) {
	addr, err := lockstake.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return lockstake.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func PathAssetID(req *http.Request, name string) (lockstake.AssetID, error) {
	id, err := lockstake.ParseAssetID(mux.Vars(req)[name])
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return id, nil
}

func PathBytes32(req *http.Request, name string) (lockstake.Bytes32, error) {
	b, err := lockstake.ParseBytes32(mux.Vars(req)[name])
	if err != nil {
		return lockstake.Bytes32{}, BadRequest(errors.WithMessage(err, name))
	}
	return b, nil
}

// QueryUint parses a required decimal query parameter.
func QueryUint(req *http.Request, name string) (uint64, error) {
	n, err := strconv.ParseUint(req.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}
