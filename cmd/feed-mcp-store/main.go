package main

import (
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/leonardcser/feed-mcp/internal/cache"
	"github.com/leonardcser/feed-mcp/internal/cache/sqlite"
	"github.com/leonardcser/feed-mcp/internal/config"
	"github.com/leonardcser/feed-mcp/internal/logger"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		panic(err)
	}

	// Ensure socket dir exists and remove stale socket
	_ = os.MkdirAll(filepath.Dir(cfg.StoreSocket), 0o755)
	_ = os.Remove(cfg.StoreSocket)

	l, err := net.Listen("unix", cfg.StoreSocket)
	if err != nil {
		logger.Errorf("listen on %s: %v", cfg.StoreSocket, err)
		panic(err)
	}
	_ = os.Chmod(cfg.StoreSocket, 0o600)

	backend, closer, err := openBackend(cfg)
	if err != nil {
		_ = l.Close()
		logger.Errorf("open %s store at %s: %v", cfg.StoreDriver, cfg.StoreDB, err)
		panic(err)
	}
	defer closer.Close()

	store := cache.NewSerialStore(backend)
	defer store.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Infof("feed store shutting down")
		_ = l.Close()
	}()

	logger.Infof("feed store serving %s backend on %s", cfg.StoreDriver, cfg.StoreSocket)
	if err := cache.Serve(l, store); err != nil {
		logger.Errorf("serve: %v", err)
	}
}

func openBackend(cfg config.Config) (cache.FeedStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return cache.NewMemoryStore(), io.NopCloser(nil), nil
	case config.DriverSQLite:
		_ = os.MkdirAll(filepath.Dir(cfg.StoreDB), 0o755)
		s, err := sqlite.Open(cfg.StoreDB)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		_ = os.MkdirAll(filepath.Dir(cfg.StoreDB), 0o755)
		s, err := cache.Open(cfg.StoreDB, cache.Options{Bucket: "feed"})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
}
