package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/roster"
	"github.com/zjrosen/rosterboard/internal/rosterd"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a development Roster Service",
	Long: `Run a Roster Service for local development and testing.

Activities come from the seed file (serve.seed_file) or a built-in set of
three activities. With serve.db_path the roster is kept in SQLite and
survives restarts; otherwise it lives in memory. With serve.watch_seed,
edits to the seed file replace the served activities.

Example:
  rosterboard serve                              # localhost:8000, in memory
  rosterboard serve --addr :9000 --db roster.db  # persistent roster
  rosterboard serve --seed seed.yaml --watch     # hot-reload activities`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides serve.addr)")
	serveCmd.Flags().String("seed", "", "YAML seed file (overrides serve.seed_file)")
	serveCmd.Flags().String("db", "", "SQLite database path (overrides serve.db_path)")
	serveCmd.Flags().Bool("watch", false, "reload the seed file when it changes")

	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("serve.seed_file", serveCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("serve.db_path", serveCmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("serve.watch_seed", serveCmd.Flags().Lookup("watch"))
}

// openStore picks SQLite when dbPath is set and memory otherwise.
func openStore(ctx context.Context, dbPath string, seed []roster.Entry) (rosterd.Store, error) {
	if dbPath == "" {
		return rosterd.NewMemoryStore(seed), nil
	}
	store, err := rosterd.OpenSQLite(ctx, dbPath, seed)
	if err != nil {
		return nil, fmt.Errorf("opening roster database: %w", err)
	}
	return store, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	if !debugEnabled() {
		cleanup := log.InitWriter(os.Stderr)
		defer cleanup()
		log.SetMinLevel(log.LevelInfo)
	}

	seed, err := rosterd.LoadSeed(cfg.Serve.SeedFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg.Serve.DBPath, seed)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.ErrorErr(log.CatStore, "Closing store failed", err)
		}
	}()

	if cfg.Serve.WatchSeed {
		if cfg.Serve.SeedFile == "" {
			return fmt.Errorf("--watch needs a seed file")
		}
		stop, err := rosterd.WatchSeed(ctx, store, cfg.Serve.SeedFile)
		if err != nil {
			return fmt.Errorf("watching seed file: %w", err)
		}
		defer func() { _ = stop() }()
	}

	server, err := rosterd.NewServer(rosterd.ServerConfig{
		Addr:  cfg.Serve.Addr,
		Store: store,
	})
	if err != nil {
		return fmt.Errorf("creating roster server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("Roster Service listening on %s\n", server.URL())
	fmt.Println("Press Ctrl+C to stop")

	select {
	case sig := <-sigCh:
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.ErrorErr(log.CatServer, "Error stopping roster server", err)
	}

	fmt.Println("Roster Service stopped")
	return nil
}
