package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeefy/prayerjournal/internal/config"
	"github.com/jeefy/prayerjournal/internal/store/sqlite"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:       3000,
		SQLitePath: filepath.Join(t.TempDir(), "prayers.db"),
		PublicDir:  t.TempDir(),
	}
}

func TestOpenStoreSelectsSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	st, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*sqlite.Store)
	assert.True(t, ok, "expected sqlite store, got %T", st)
	assert.Equal(t, "SQLite ("+cfg.SQLitePath+")", Describe(cfg))
}

func TestOpenStorePostgresBadURL(t *testing.T) {
	cfg := config.Config{Port: 3000, DatabaseURL: "postgres://%zz"}
	_, err := OpenStore(context.Background(), cfg)
	assert.Error(t, err)
	assert.Equal(t, "PostgreSQL", Describe(cfg))
}

func TestInitDBIsIdempotent(t *testing.T) {
	cfg := sqliteConfig(t)
	require.NoError(t, InitDB(context.Background(), cfg))
	require.NoError(t, InitDB(context.Background(), cfg))
}

func TestNewFailsOnBadPeopleFile(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.PeopleFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "load people:"), "got %v", err)
}

func TestServeUntilCanceled(t *testing.T) {
	cfg := sqliteConfig(t)
	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx, listener) }()

	res, err := http.Get("http://" + listener.Addr().String() + "/api/people")
	require.NoError(t, err)
	var people []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&people))
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, people, 12)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
