package server

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"adledger/internal/app/server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func testConfig(t *testing.T, driver string) *config.Config {
	cfg := &config.Config{Env: config.EnvDev}
	cfg.Server.RunAddress = freeAddr(t)
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Server.MaxValueBytes = 1024
	cfg.Storage.Driver = driver
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "kv.db")
	return cfg
}

func TestServer_RunAndShutdown(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			ctx, cancel := context.WithCancel(context.Background())

			srv, err := New(ctx, cfg, slog.Default())
			require.NoError(t, err)
			defer srv.Close()

			done := make(chan error, 1)
			go func() { done <- srv.Run(ctx) }()

			assert.Eventually(t, func() bool {
				resp, err := http.Get("http://" + cfg.Server.RunAddress + "/api/v1/health")
				if err != nil {
					return false
				}
				resp.Body.Close()
				return resp.StatusCode == http.StatusOK
			}, 2*time.Second, 20*time.Millisecond)

			cancel()
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("server did not stop")
			}
		})
	}
}
