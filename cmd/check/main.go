// Package main runs a single contract check from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"token-rugcheck/internal/chain"
	"token-rugcheck/internal/checker"
	"token-rugcheck/internal/config"
	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/logging"
	"token-rugcheck/internal/reporting"
)

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

	var (
		asJSON     bool
		holdersCSV string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "check <contract-address>",
		Short: "Check an ERC20 token contract and print its risk report",
		Example: `  # Human readable report
  check 0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174

  # Same envelope the HTTP API returns
  check --json 0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			if !chain.IsValidAddress(args[0]) {
				return fmt.Errorf("invalid Ethereum address format: %s", args[0])
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			return run(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr(), asJSON, holdersCSV)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&asJSON, "json", false, "Print the JSON envelope instead of the text report")
	f.StringVar(&holdersCSV, "holders-csv", "", "Also write the holder list to this CSV file")
	f.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	f.StringVar(&cfg.RPCURL, "rpc-url", cfg.RPCURL, "EVM JSON-RPC endpoint")
	f.StringVar(&cfg.ExplorerURL, "explorer-url", cfg.ExplorerURL, "Etherscan-compatible API endpoint")
	f.StringVar(&cfg.LLMBaseURL, "llm-base-url", cfg.LLMBaseURL, "OpenAI-compatible API base URL")
	f.StringVar(&cfg.LLMModel, "llm-model", cfg.LLMModel, "Chat model used for the report")

	return cmd
}

func run(ctx context.Context, cfg config.Config, address string, stdout, stderr io.Writer, asJSON bool, holdersCSV string) error {
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeNode, err := checker.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeNode()

	progress := func(stage domain.Stage) {
		if !asJSON {
			fmt.Fprintf(stderr, "... %s\n", stage)
		}
	}

	result, err := svc.Check(ctx, address, progress)
	if err != nil {
		return err
	}

	if holdersCSV != "" {
		if err := os.WriteFile(holdersCSV, []byte(reporting.RenderHoldersCSV(result.TokenData.Holders)), 0o644); err != nil {
			return fmt.Errorf("write holders csv: %w", err)
		}
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return reporting.RenderText(stdout, result)
}
