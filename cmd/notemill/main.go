// Command notemill serves the note transformation and editing engine over
// HTTP and MCP.
//
// Usage:
//
//	notemill -config notemill.yaml    # run with config file
//	notemill -db notes.db             # local store with defaults
//	notemill -mcp-stdio               # serve MCP on stdin/stdout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/notemill/notemill/notestore"
	"github.com/notemill/notemill/notestore/sqlitestore"
	"github.com/notemill/notemill/pipeline"
)

var mcpImpl = &mcp.Implementation{Name: "notemill", Version: "0.1.0"}

func main() {
	configPath := flag.String("config", "", "path to notemill.yaml config file")
	dbPath := flag.String("db", "", "path to local SQLite note database")
	listen := flag.String("listen", "", "HTTP listen address")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	mcpStdio := flag.Bool("mcp-stdio", false, "serve MCP on stdin/stdout instead of HTTP")
	flag.Parse()

	cfg, err := resolveConfig(*configPath, *dbPath, *listen, *logLevel, *mcpStdio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// Logs go to stderr: stdout belongs to MCP in stdio mode.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("notemill: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *Config) error {
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	runner := pipeline.NewRunner(store, logger)

	if cfg.MCP.Stdio {
		srv := mcp.NewServer(mcpImpl, nil)
		runner.RegisterMCP(srv)
		logger.Info("notemill: serving MCP on stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	s := &server{runner: runner, auth: cfg.Auth, log: logger}
	httpSrv := &http.Server{Addr: cfg.Listen, Handler: s.router()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("notemill: listening", "addr", cfg.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("notemill: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func openStore(cfg *Config, logger *slog.Logger) (notestore.Store, func(), error) {
	if cfg.Remote.URL != "" {
		logger.Info("notemill: using remote store", "url", cfg.Remote.URL)
		return notestore.NewClient(cfg.Remote.URL, cfg.Remote.Token, logger), func() {}, nil
	}
	st, err := sqlitestore.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("notemill: using local store", "db", cfg.DBPath)
	return st, func() { st.DB().Close() }, nil
}

func resolveConfig(configPath, dbPath, listen, logLevel string, mcpStdio bool) (*Config, error) {
	var cfg *Config
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = DefaultConfig()
	}

	// Flags override the file.
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if mcpStdio {
		cfg.MCP.Stdio = true
	}
	return cfg, cfg.Validate()
}
