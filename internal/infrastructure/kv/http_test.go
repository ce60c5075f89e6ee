package kv_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adledger/internal/app/server/api"
	"adledger/internal/infrastructure/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestHTTPStore_AgainstServer(t *testing.T) {
	backend := kv.NewMemoryStore()
	srv := httptest.NewServer(api.New(backend, slog.Default(), api.Options{}))
	defer srv.Close()

	s := kv.NewHTTPStore(srv.URL, false, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, kv.Ping(ctx, s))

	v, err := s.Get(ctx, "record_keys")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, "record_keys", []byte(`["1700000000000-abc1234"]`)))

	v, err = s.Get(ctx, "record_keys")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["1700000000000-abc1234"]`), v)

	stored, err := backend.Get(ctx, "record_keys")
	require.NoError(t, err)
	assert.Equal(t, v, stored)
}

func TestHTTPStore_ServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := kv.NewHTTPStore(srv.URL, false, time.Second)
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrStore)
	assert.ErrorContains(t, err, "502")

	assert.ErrorIs(t, s.Set(ctx, "k", []byte("v")), kv.ErrStore)
	assert.ErrorIs(t, kv.Ping(ctx, s), kv.ErrStore)
}

func TestHTTPStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	s := kv.NewHTTPStore(addr, false, time.Second)

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, kv.ErrStore)
}

func TestNewHTTPStore_Scheme(t *testing.T) {
	var gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	bare := srv.Listener.Addr().String()
	s := kv.NewHTTPStore(bare, false, time.Second)

	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, bare, gotHost)
}
