// Package cli defines Cobra command definitions for the docchat CLI.
// This file contains the root command and the shared wiring that
// builds a chat controller from config, flags, and environment.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docchat-dev/docchat/internal/api"
	"github.com/docchat-dev/docchat/internal/chat"
	"github.com/docchat-dev/docchat/internal/config"
	"github.com/docchat-dev/docchat/internal/log"
	"github.com/docchat-dev/docchat/internal/session"
	"github.com/docchat-dev/docchat/internal/tui"
)

var (
	stateDir string
	baseURL  string
	version  = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with an AI assistant about your documents",
	Long: `Docchat is a terminal client for a document-aware chat backend.
It keeps one ongoing conversation per state directory, restores it on
startup, and lets you upload PDFs and images the assistant can answer
questions about.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		env, err := buildEnv()
		if err != nil {
			return err
		}

		sink := tui.NewProgramSink()
		ctrl := chat.NewController(env.client, env.store, sink, env.logger)
		return tui.Run(tui.NewChatModel(ctrl), sink)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env bundles the dependencies every command needs.
type env struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	logger *log.Logger
}

// buildEnv resolves configuration and constructs the API client,
// session store, and event logger. Flag and environment overrides win
// over the config file.
func buildEnv() (*env, error) {
	dir := stateDir
	if dir == "" {
		var err error
		dir, err = config.DefaultStateDir()
		if err != nil {
			return nil, fmt.Errorf("resolving state directory: %w", err)
		}
	}

	// Config not found or invalid, use defaults.
	cfg, err := config.ReadConfig(dir)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if url := os.Getenv("DOCCHAT_BASE_URL"); url != "" {
		cfg.BaseURL = url
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = config.DefaultConfig().TimeoutSeconds
	}

	store, err := session.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	logger, err := log.NewLogger(dir)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}

	client := api.NewClient(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)

	return &env{cfg: cfg, client: client, store: store, logger: logger}, nil
}

// newController builds a controller over the shared environment with
// the given sink.
func (e *env) newController(sink chat.Sink) *chat.Controller {
	return chat.NewController(e.client, e.store, sink, e.logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory (default ~/.docchat)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config and DOCCHAT_BASE_URL)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(conversationsCmd)
}
