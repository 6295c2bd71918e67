package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ssbcDeploy/account"
	"github.com/ssbcDeploy/chain"
	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/contract"
	"github.com/ssbcDeploy/levelDB"
	"github.com/ssbcDeploy/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
	Code  int             `json:"code"`
}

func setup(t *testing.T) (*chain.Ledger, *httptest.Server) {
	t.Helper()
	db, err := levelDB.InitMemDB()
	require.NoError(t, err)
	l, err := chain.NewLedger(context.Background(), db)
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(l))
	t.Cleanup(func() {
		srv.Close()
		_ = l.Close()
		_ = db.Close()
	})
	return l, srv
}

func post(t *testing.T, url string, body interface{}) (int, response) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	var r response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return resp.StatusCode, r
}

func signed(t *testing.T, s *account.Signer, tx meta.Transaction) meta.Transaction {
	t.Helper()
	require.NoError(t, s.SignTx(&tx))
	return tx
}

func TestPostTranAndQuery(t *testing.T) {
	l, srv := setup(t)
	ctx := context.Background()
	owner, acc1 := newSigner(t), newSigner(t)

	status, r := post(t, srv.URL+"/postTran", signed(t, owner, meta.Transaction{
		Type:     meta.Publish,
		Contract: commoncon.FeeCollectorTemplate,
	}))
	require.Equal(t, http.StatusOK, status, r.Error)
	assert.Equal(t, 20000, r.Code)
	_, ok, err := l.Seal(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	addr := crypto.CreateAddress(owner.Address(), 0)
	status, r = post(t, srv.URL+"/query", meta.Query{Type: "getInstance", Parameters: []string{addr.Hex()}})
	require.Equal(t, http.StatusOK, status)
	var inst meta.Instance
	require.NoError(t, json.Unmarshal(r.Data, &inst))
	assert.Equal(t, owner.Address(), inst.Owner)

	// 非 owner 提取
	status, r = post(t, srv.URL+"/postTran", signed(t, acc1, meta.Transaction{
		Type:   meta.Invoke,
		To:     addr,
		Method: "Withdraw",
		Args:   map[string]string{"destination": owner.Address().Hex(), "amount": "1"},
	}))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, contract.UnauthorizedMessage, r.Error)

	status, r = post(t, srv.URL+"/query", meta.Query{Type: "getHeight"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "1", string(r.Data))
}

func TestPostTranBadSignature(t *testing.T) {
	_, srv := setup(t)
	tx := signed(t, newSigner(t), meta.Transaction{Type: meta.Publish, Contract: commoncon.FeeCollectorTemplate})
	tx.Nonce = 5
	status, _ := post(t, srv.URL+"/postTran", tx)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPostTranMalformed(t *testing.T) {
	_, srv := setup(t)
	resp, err := http.Post(srv.URL+"/postTran", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOversizedBody(t *testing.T) {
	_, srv := setup(t)
	body := `{"id":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	for _, path := range []string{"/postTran", "/query"} {
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode, path)
	}
}

func TestQueryErrors(t *testing.T) {
	_, srv := setup(t)
	cases := map[string]struct {
		q    meta.Query
		want int
	}{
		"unknown type":     {meta.Query{Type: "getAllAccounts"}, http.StatusBadRequest},
		"bad height":       {meta.Query{Type: "getBlock", Parameters: []string{"x"}}, http.StatusBadRequest},
		"missing block":    {meta.Query{Type: "getBlock", Parameters: []string{"9"}}, http.StatusNotFound},
		"bad address":      {meta.Query{Type: "getInstance", Parameters: []string{"nope"}}, http.StatusBadRequest},
		"unknown instance": {meta.Query{Type: "getInstance", Parameters: []string{"0x4444444444444444444444444444444444444444"}}, http.StatusNotFound},
		"unknown receipt":  {meta.Query{Type: "getReceipt", Parameters: []string{"0x01"}}, http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, _ := post(t, srv.URL+"/query", tc.q)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestTemplatesAndMetrics(t *testing.T) {
	_, srv := setup(t)

	resp, err := http.Get(srv.URL + "/templates")
	require.NoError(t, err)
	var r response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	resp.Body.Close()
	assert.Contains(t, string(r.Data), `"name":"CrowdFund"`)
	assert.Contains(t, string(r.Data), `"kind":"address"`)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func newSigner(t *testing.T) *account.Signer {
	t.Helper()
	s, err := account.GenerateSigner()
	require.NoError(t, err)
	return s
}
