// ChessRules - a chess rules server: games over HTTP and websockets, stored in BadgerDB
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hailam/chessrules/internal/api"
	"github.com/hailam/chessrules/internal/session"
	"github.com/hailam/chessrules/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", envOr("CHESSRULES_ADDR", ":8080"), "address to listen on")
	dataDir := flag.String("data", os.Getenv("CHESSRULES_DATA_DIR"), "data directory (default: platform data directory)")
	inMemory := flag.Bool("memory", envBool("CHESSRULES_IN_MEMORY"), "keep games in memory only")
	quiet := flag.Bool("quiet", false, "disable the access log")
	flag.Parse()

	store, err := openStore(*dataDir, *inMemory)
	if err != nil {
		log.Fatalf("could not open storage: %v", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.NewServer(session.NewManager(store), !*quiet),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", *addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server stopped: %v", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// openStore picks the database location: memory, an explicit directory or
// the platform data directory.
func openStore(dataDir string, inMemory bool) (*storage.Storage, error) {
	switch {
	case inMemory:
		log.Printf("Storage: in memory")
		return storage.OpenInMemory()
	case dataDir != "":
		dbDir, err := storage.DatabaseDirIn(dataDir)
		if err != nil {
			return nil, err
		}
		log.Printf("Database directory: %s", dbDir)
		return storage.Open(dbDir)
	}
	dbDir, err := storage.GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	log.Printf("Database directory: %s", dbDir)
	return storage.Open(dbDir)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
