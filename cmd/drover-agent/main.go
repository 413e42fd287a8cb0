package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/pkg/agent"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drover-agent",
	Short: "Drover agent - per-server deployment daemon",
	Long: `The Drover agent runs on every managed server. It registers with
the coordinator, reports heartbeats and discovered services, and
executes deployment commands against systemd.`,
	Version: Version,
	RunE:    runAgent,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Drover agent version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.Flags().StringP("config", "c", "", "Agent config file (YAML)")
	rootCmd.Flags().String("coordinator", "", "Override coordinatorAddr")
	rootCmd.Flags().String("data-dir", "", "Override dataDir")
	rootCmd.Flags().String("log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.Flags().Bool("log-json", false, "Emit JSON logs instead of console output")
}

func runAgent(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAgent(configPath)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("coordinator"); addr != "" {
		cfg.CoordinatorAddr = addr
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}

	level, _ := cmd.Flags().GetString("log-level")
	jsonOut, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOut})
	logger := log.WithComponent("agent-main")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := agent.New(cfg, agent.NewSystemdManager())
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("failed to start agent: %w", err)
	}

	logger.Info().
		Str("agent_id", a.ID()).
		Str("coordinator", cfg.CoordinatorAddr).
		Msg("Agent running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("Shutting down")

	cancel()
	a.Stop()
	return nil
}
