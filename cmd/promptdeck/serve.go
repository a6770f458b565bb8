package main

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "github.com/fredcamaral/promptdeck/internal/adapters/primary/http"
	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/session"
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// sessionSweepInterval is how often expired in-memory sessions are dropped
const sessionSweepInterval = time.Minute

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the deck generation HTTP service",
		Long: `Start the HTTP service. It exposes /api/generate, /api/export, session
previews and a websocket stream of deck updates.

Example:
  promptdeck serve
  promptdeck serve --port 9090 --session-backend redis --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	// Defaults come from config; flags only override when set
	cmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides config)")
	cmd.Flags().String("host", "", "Host to bind to (overrides config)")
	cmd.Flags().String("session-backend", "", "Session store: memory, redis or none (overrides config)")
	cmd.Flags().String("redis-addr", "", "Redis address for the redis session store (overrides config)")

	return cmd
}

// validateServeConfig checks the settings serve needs beyond Config.Validate
func validateServeConfig(config *entities.Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}

	if strings.ContainsAny(config.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}

	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := validateServeConfig(a.config); err != nil {
		return err
	}

	ctx := cmd.Context()

	store, closeStore, err := session.New(ctx, a.config.Session)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer func() { _ = closeStore() }()

	if mem, ok := store.(*session.MemoryStore); ok {
		go sweepSessions(ctx, mem, sessionSweepInterval, a.logger)
	}

	server := newServer(a, store)
	if err := server.Start(ctx, a.config.Server.Port, a.config.Server.Host); err != nil {
		return err
	}

	a.logger.Info("promptdeck serving",
		zap.String("url", serverURL(server.Addr())),
		zap.String("session_backend", string(a.config.Session.GetBackend())),
		zap.Bool("metrics", !a.config.Metrics.Disabled),
	)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Server running at: %s\n", serverURL(server.Addr()))

	<-ctx.Done()
	a.logger.Info("shutting down server")

	// ctx is already cancelled, Stop applies the configured shutdown timeout
	return server.Stop(context.Background())
}

// newServer wires the HTTP adapter to the app's services
func newServer(a *app, store ports.DeckStore) *httpadapter.Server {
	server := httpadapter.NewServer(a.decks, &a.config.Server, a.logger)
	server.SetDeckStore(store)
	server.SetExportService(a.exporter)
	server.SetCatalog(a.catalog)
	if !a.config.Metrics.Disabled {
		server.SetMetrics(httpadapter.NewMetrics(), a.config.Metrics.GetPath())
	}
	return server
}

func sweepSessions(ctx context.Context, store *session.MemoryStore, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Debug("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

func serverURL(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return "http://" + addr.String()
}
