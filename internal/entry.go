// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/veidar/munin/internal/exporter"
	"github.com/veidar/munin/internal/idcache"
	"github.com/veidar/munin/internal/mcpserver"
	"github.com/veidar/munin/internal/server"
	"github.com/veidar/munin/internal/sse"
	"github.com/veidar/munin/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// newExporter wires storage, the optional identifier cache, and the exporter
// for the given vault. The returned closer releases the cache (nil-safe).
func newExporter(cfg *Config, vaultPath string, logger *slog.Logger) (storage.Provider, *exporter.Exporter, func(), error) {
	store, err := storage.NewFS(vaultPath, cfg.Vault.Extension)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	var cache *idcache.Cache
	if cfg.Export.IDCache != "" {
		cache, err = idcache.Open(cfg.Export.IDCache)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init id cache: %w", err)
		}
	}

	closer := func() {
		if cache != nil {
			_ = cache.Close()
		}
	}
	return store, exporter.New(store, cfg.Vault.Extension, cache, logger), closer, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// promptVaultPath asks the user for the vault folder on stdin, the way the
// tool behaves when run without flags.
func promptVaultPath(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "Enter the Obsidian vault filepath: ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return ""
	}
	return scanner.Text()
}

// RunConvert performs a one-shot conversion of the vault into the import
// document. The vault path comes from the CLI flag, the configuration, or
// an interactive prompt, in that order of preference. A nonexistent path
// terminates the run with a message and no output file.
func RunConvert(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Keep stdout for the interactive surface; structured logs go to stderr.
	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	vault := app.vaultPath
	if vault == "" {
		vault = cfg.Vault.Path
		if !dirExists(vault) {
			vault = promptVaultPath(os.Stdin, os.Stdout)
		}
	}
	if !dirExists(vault) {
		fmt.Println("The provided filepath does not exist. Exiting.")
		return errors.New("vault path does not exist")
	}

	output := app.outputPath
	if output == "" {
		output = cfg.Export.Output
	}

	_, ex, closer, err := newExporter(cfg, vault, logger)
	if err != nil {
		return err
	}
	defer closer()

	doc, _, err := ex.Export(output)
	if err != nil {
		return err
	}

	logger.Info("conversion finished",
		slog.String("vault", vault),
		slog.String("output", output),
		slog.Int("notes", len(doc.Notes)))
	fmt.Printf("Ideaflow notes have been generated in '%s'.\n", output)
	return nil
}

// RunServe converts the vault, then serves the result over the preview API
// while a watcher keeps it current, until a shutdown signal arrives.
func RunServe(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stdout, cfg.App.LogLevel)

	vault := app.vaultPath
	if vault == "" {
		vault = cfg.Vault.Path
	}
	if !dirExists(vault) {
		return fmt.Errorf("vault path does not exist: %s", vault)
	}

	output := app.outputPath
	if output == "" {
		output = cfg.Export.Output
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", vault),
		slog.String("output", output),
		slog.String("log_level", cfg.App.LogLevel.String()))

	_, ex, closer, err := newExporter(cfg, vault, logger)
	if err != nil {
		return err
	}
	defer closer()

	doc, summaries, err := ex.Export(output)
	if err != nil {
		return fmt.Errorf("initial export: %w", err)
	}
	snap := server.NewSnapshot(doc, summaries)

	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := server.NewRouter(snap, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Preview server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Vault watcher: re-exports on change and refreshes the API snapshot
	// with the conversion that was written, so the preview always matches
	// the file on disk.
	g.Go(func() error {
		return ex.Watch(gCtx, output, func(ev exporter.Event) {
			if ev.Kind == "exported" {
				snap.Update(ev.Doc, ev.Summaries)
			}
			broker.PublishWatchEvent(ev.Kind, ev.Path)
		})
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP exposes the converter as an MCP stdio server. Logs go to stderr so
// they never corrupt the protocol stream on stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	vault := app.vaultPath
	if vault == "" {
		vault = cfg.Vault.Path
	}
	if !dirExists(vault) {
		return fmt.Errorf("vault path does not exist: %s", vault)
	}

	output := app.outputPath
	if output == "" {
		output = cfg.Export.Output
	}

	store, ex, closer, err := newExporter(cfg, vault, logger)
	if err != nil {
		return err
	}
	defer closer()

	logger.Info("MCP server starting", slog.String("vault", vault))
	return mcpserver.New(store, ex, cfg.Vault.Extension, output).ServeStdio()
}
