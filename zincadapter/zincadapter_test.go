package zincadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartossh/xtransfer/logging"
)

type zincMock struct {
	mu   sync.Mutex
	docs []map[string]any
	fail atomic.Bool
}

func (z *zincMock) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(healthz, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/xtransfer/_doc", func(w http.ResponseWriter, r *http.Request) {
		if z.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		z.mu.Lock()
		z.docs = append(z.docs, doc)
		z.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1"}`))
	})
	return httptest.NewServer(mux)
}

func TestNewNotResponding(t *testing.T) {
	_, err := New(context.Background(), Config{Address: "http://127.0.0.1:1", Index: "xtransfer"})
	assert.ErrorIs(t, err, ErrZincServerNotResponding)
}

func TestWriteLogLines(t *testing.T) {
	mock := &zincMock{}
	srv := mock.server()
	defer srv.Close()

	z, err := New(context.Background(), Config{Address: srv.URL + "/", Index: "xtransfer"})
	require.Nil(t, err)

	log := logging.New(nil, z).Named("transfer")
	log.Info("transaction posted")

	n, err := z.Write([]byte("plain line"))
	assert.Nil(t, err)
	assert.Equal(t, len("plain line"), n)

	require.Len(t, mock.docs, 2)
	assert.Equal(t, "info", mock.docs[0]["level"])
	assert.Equal(t, "transaction posted", mock.docs[0]["msg"])
	assert.Equal(t, "plain line", mock.docs[1]["message"])
}

func TestWriteFailure(t *testing.T) {
	mock := &zincMock{}
	srv := mock.server()
	defer srv.Close()

	z, err := New(context.Background(), Config{Address: srv.URL, Index: "xtransfer"})
	require.Nil(t, err)
	mock.fail.Store(true)

	_, err = z.Write([]byte("{}"))
	assert.ErrorIs(t, err, ErrZincServerWriteFailed)
}
