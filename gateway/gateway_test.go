package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bartossh/xtransfer/httpclient"
	"github.com/bartossh/xtransfer/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(EndorserCallURL, func(w http.ResponseWriter, r *http.Request) {
		var req transaction.EndorserRequest
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&req))
		resp := transaction.EndorserResponse{ResponseName: req.RequestName, ResponseData: req.RequestData}
		if req.Fee != nil {
			resp.EndorserSign = &transaction.SignatureInfo{PublicKey: []byte("pk"), Sign: req.Fee.Txid}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc(PostTxURL, func(w http.ResponseWriter, r *http.Request) {
		var status transaction.TxStatus
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&status))
		if status.Tx == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc(QueryTxURL, func(w http.ResponseWriter, r *http.Request) {
		var status transaction.TxStatus
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&status))
		w.Header().Set("Content-Type", "application/json")
		if string(status.Txid) == "missing" {
			_ = json.NewEncoder(w).Encode(transaction.TxStatus{})
			return
		}
		_ = json.NewEncoder(w).Encode(transaction.TxStatus{Bcname: status.Bcname, Txid: status.Txid, Tx: &transaction.Transaction{Txid: status.Txid}})
	})
	return httptest.NewServer(mux)
}

func TestNewValidatesURL(t *testing.T) {
	_, err := New(Config{NodeURL: "localhost", EndorserURL: "http://localhost:8848"})
	assert.ErrorIs(t, err, ErrInvalidURL)

	c, err := New(Config{NodeURL: "http://localhost:37101/", EndorserURL: "http://localhost:8848"})
	assert.Nil(t, err)
	assert.Equal(t, "http://localhost:37101", c.nodeURL)
	assert.Equal(t, defaultTimeout, c.timeout)
}

func TestEndorserCall(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c, err := New(Config{NodeURL: srv.URL, EndorserURL: srv.URL, TimeoutSeconds: 2})
	require.Nil(t, err)

	resp, err := c.EndorserCall(context.Background(), &transaction.EndorserRequest{
		RequestName: "ComplianceCheck",
		BcName:      "xuper",
		Fee:         &transaction.Transaction{Txid: []byte("fee")},
		RequestData: []byte("{}"),
	})
	assert.Nil(t, err)
	assert.Equal(t, "ComplianceCheck", resp.ResponseName)
	assert.Equal(t, []byte("{}"), resp.ResponseData)
	assert.Equal(t, []byte("fee"), resp.EndorserSign.Sign)
}

func TestPostAndQueryTx(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c, err := New(Config{NodeURL: srv.URL, EndorserURL: srv.URL})
	require.Nil(t, err)

	err = c.PostTx(context.Background(), &transaction.TxStatus{Bcname: "xuper", Tx: &transaction.Transaction{Txid: []byte("id")}})
	assert.Nil(t, err)

	err = c.PostTx(context.Background(), &transaction.TxStatus{Bcname: "xuper"})
	assert.ErrorIs(t, err, httpclient.ErrStatusCodeMismatch)

	status, err := c.QueryTx(context.Background(), "xuper", []byte("id"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("id"), status.Tx.Txid)

	_, err = c.QueryTx(context.Background(), "xuper", []byte("missing"))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
