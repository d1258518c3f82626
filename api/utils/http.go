// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSONContentType is the content type of every API response body.
const JSONContentType = "application/json; charset=utf-8"

// statusError carries the status code a handler error is answered with.
type statusError struct {
	cause  error
	status int
}

func (e *statusError) Error() string { return e.cause.Error() }
func (e *statusError) Unwrap() error { return e.cause }

// HTTPError tags cause with an HTTP status code.
func HTTPError(cause error, status int) error {
	return &statusError{cause, status}
}

func BadRequest(cause error) error { return HTTPError(cause, http.StatusBadRequest) }
func Forbidden(cause error) error  { return HTTPError(cause, http.StatusForbidden) }
func NotFound(cause error) error   { return HTTPError(cause, http.StatusNotFound) }

// HandlerFunc is an http.HandlerFunc that returns an error. Errors built
// by HTTPError, even when wrapped, answer with their status; anything else
// is an internal server error.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts f to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
			err = se.cause
		}
		http.Error(w, err.Error(), status)
	}
}

// ParseJSON decodes a request body, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON answers with obj in JSON.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
