package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bsanalyst/tui-go/internal/api"
	"github.com/bsanalyst/tui-go/internal/config"
	"github.com/bsanalyst/tui-go/internal/tui"
)

var (
	flagAPIURL string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "bsa-tui",
	Short: "Terminal client for the Balance Sheet Analyst service",
	Long: `bsa-tui is a terminal client for the Balance Sheet Analyst backend.
It signs you in, uploads balance-sheet PDFs for ingestion, answers
questions against a company's ingested documents, and manages users,
companies and access grants for administrators.`,
	RunE: run,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
}

var setURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Persist the backend base URL in the global config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.APIBaseURL = args[0]
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("Backend set to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides config)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "log requests and show the in-TUI event panel")
	configCmd.AddCommand(setURLCmd)
	rootCmd.AddCommand(configCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagAPIURL != "" {
		cfg.APIBaseURL = flagAPIURL
	}
	if flagDebug {
		cfg.Debug = true
	}

	opts := []api.Option{}
	if cfg.Debug {
		logPath, err := config.DebugLogPath()
		if err != nil {
			return fmt.Errorf("debug log path: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		opts = append(opts, api.WithLogger(slog.New(slog.NewJSONHandler(f, nil))))
	}

	client := api.NewClient(cfg.APIBaseURL, opts...)
	if cfg.Debug {
		if err := client.Health(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: backend health check failed: %v\n", err)
		}
	}
	events := tui.NewEventLog(cfg.Debug)

	p := tea.NewProgram(
		tui.NewRootModel(client, events),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
