// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockstake/api/node"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/test/testledger"
)

func newTestServer(t *testing.T, withLogs bool) (*testledger.Ledger, *httptest.Server) {
	tl, err := testledger.NewIntegrationTestLedger()
	require.NoError(t, err)
	t.Cleanup(tl.Close)

	logDB := tl.LogDB()
	if !withLogs {
		logDB = nil
	}
	ts := httptest.NewServer(New(tl.Ledger(), logDB, Options{
		AllowedOrigins: "https://example.com, HTTPS://Other.org",
		EnableMetrics:  true,
		LogsLimit:      100,
	}))
	t.Cleanup(ts.Close)
	return tl, ts
}

func TestNodeStatus(t *testing.T) {
	tl, ts := newTestServer(t, true)
	require.NoError(t, tl.Configure())

	body, code := httpGet(t, ts.URL+"/node/status")
	require.Equal(t, http.StatusOK, code)
	var status node.Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, tl.Ledger().GenesisID(), status.GenesisID)
	assert.Equal(t, tl.Genesis().ChainTag(), status.ChainTag)
	assert.Equal(t, uint64(1), status.Seq)
	assert.Equal(t, tl.Ledger().Time(), status.Time)
}

func TestGenesisIDHeader(t *testing.T) {
	tl, ts := newTestServer(t, true)
	genesisID := tl.Ledger().GenesisID().String()

	res, err := http.Get(ts.URL + "/staking")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, genesisID, res.Header.Get("x-genesis-id"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/staking", nil)
	require.NoError(t, err)
	req.Header.Set("x-genesis-id", "0X"+strings.ToUpper(genesisID[2:]))
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	req.Header.Set("x-genesis-id", lockstake.Bytes32{1}.String())
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/staking", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://other.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "https://other.org", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://unknown.org")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestLogsMount(t *testing.T) {
	_, ts := newTestServer(t, true)
	res, err := http.Post(ts.URL+"/logs/event", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, ts = newTestServer(t, false)
	res, err = http.Post(ts.URL+"/logs/event", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
