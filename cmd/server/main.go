// Package main runs the contract check HTTP server:
// - POST /api/check-contract and its websocket variant
// - health, metrics and status endpoints
// - the static front end when a directory is configured
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"token-rugcheck/internal/api"
	"token-rugcheck/internal/checker"
	"token-rugcheck/internal/config"
	"token-rugcheck/internal/logging"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	// Env vars and .env act as flag defaults. A load error fails the command.
	cfg, loadErr := config.Load()
	if loadErr != nil {
		loadErr = fmt.Errorf("config: %w", loadErr)
		cfg = config.Default()
	}

	cmd := &cobra.Command{
		Use:     "server",
		Short:   "Serve token contract risk checks over HTTP",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			return run(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	f.StringVar(&cfg.RPCURL, "rpc-url", cfg.RPCURL, "EVM JSON-RPC endpoint")
	f.StringVar(&cfg.ExplorerURL, "explorer-url", cfg.ExplorerURL, "Etherscan-compatible API endpoint")
	f.StringVar(&cfg.LLMBaseURL, "llm-base-url", cfg.LLMBaseURL, "OpenAI-compatible API base URL")
	f.StringVar(&cfg.LLMModel, "llm-model", cfg.LLMModel, "Chat model used for the report")
	f.StringVar(&cfg.StaticDir, "static-dir", cfg.StaticDir, "Directory served at / (empty disables)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	f.DurationVar(&cfg.ExplorerTimeout, "explorer-timeout", cfg.ExplorerTimeout, "Explorer request timeout")
	f.DurationVar(&cfg.ChainCallTimeout, "chain-call-timeout", cfg.ChainCallTimeout, "Per-field contract call timeout")
	f.DurationVar(&cfg.LLMTimeout, "llm-timeout", cfg.LLMTimeout, "Report generation timeout")
	f.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")

	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	log := logging.Component(logger, "server")

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("invalid configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeNode, err := checker.Build(ctx, cfg, logger)
	if err != nil {
		log.WithError(err).Error("failed to build checker")
		return err
	}
	defer closeNode()

	handler := api.NewHandler(svc, logging.Component(logger, "api"), api.WithStaticDir(cfg.StaticDir))
	srv := &Server{started: time.Now(), cfg: cfg}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.routes(handler.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", httpServer.Addr).Info("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("HTTP server error")
			return err
		}
	case <-ctx.Done():
		log.Info("received signal, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warnf("graceful shutdown timed out after %s", cfg.ShutdownTimeout)
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// Server adds the status endpoint around the API routes.
type Server struct {
	started time.Time
	cfg     config.Config
}

func (s *Server) routes(apiRoutes http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/", apiRoutes)
	return mux
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	Started     time.Time `json:"started"`
	Uptime      string    `json:"uptime"`
	ExplorerURL string    `json:"explorer_url"`
	LLMModel    string    `json:"llm_model"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:      "running",
		Version:     version,
		Started:     s.started,
		Uptime:      time.Since(s.started).Truncate(time.Second).String(),
		ExplorerURL: s.cfg.ExplorerURL,
		LLMModel:    s.cfg.LLMModel,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.WithError(err).Warn("failed to write status")
	}
}
