package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/pkg/alerts"
	"github.com/droverhq/drover/pkg/api"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/inventory"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/registry"
	"github.com/droverhq/drover/pkg/security"
	"github.com/droverhq/drover/pkg/statestore"
	"github.com/droverhq/drover/pkg/strategy"
	"github.com/droverhq/drover/pkg/workflow"
)

var coordinatorCmd = &cobra.Command{
	Use:   "coordinator",
	Short: "Coordinator lifecycle",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Drover coordinator",
	Long: `Run the coordinator: the gRPC transport for agents and operators,
the workflow engine, the fleet registry and the health endpoints.

The coordinator needs a reachable Redis state store; the message
broker may come up later, reconnection is automatic.`,
	RunE: runCoordinator,
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "Coordinator config file (YAML)")
	runCmd.Flags().String("listen-addr", "", "Override transport.listenAddr")
	runCmd.Flags().String("data-dir", "", "Override dataDir")
	runCmd.Flags().String("log-level", "info", "Log level (debug|info|warn|error)")
	runCmd.Flags().Bool("log-json", false, "Emit JSON logs instead of console output")

	coordinatorCmd.AddCommand(runCmd)
	rootCmd.AddCommand(coordinatorCmd)
}

func runCoordinator(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("listen-addr"); addr != "" {
		cfg.Transport.ListenAddr = addr
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}

	level, _ := cmd.Flags().GetString("log-level")
	jsonOut, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOut})
	logger := log.WithComponent("coordinator")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// State store is a hard dependency: workflow state lives there.
	store, err := statestore.New(ctx, cfg.StateStore)
	if err != nil {
		return fmt.Errorf("state store unavailable: %w", err)
	}
	defer store.Close()

	// The fabric reconnects on its own; a broker that is down at
	// startup only delays command delivery.
	fab := fabric.New(cfg.Broker)
	if err := fab.Connect(ctx); err != nil {
		logger.Warn().Err(err).Msg("Broker unreachable at startup, will keep retrying")
		go retryConnect(ctx, fab)
	}
	defer fab.Close()

	inv, err := inventory.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open inventory: %w", err)
	}
	defer inv.Close()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	reg := registry.New(cfg.Workflow.HeartbeatTimeout, broker)
	if persisted, err := inv.Agents(); err != nil {
		logger.Warn().Err(err).Msg("Failed to load persisted fleet")
	} else {
		reg.Hydrate(persisted)
	}
	reg.Start(ctx)
	defer reg.Stop()

	alertBus := alerts.New(fab, cfg.Alerts.SuppressionWindow)
	go alertBus.Watch(ctx, broker)

	planners := strategy.NewSet(cfg.Strategy)
	engine := workflow.New(cfg.Workflow, planners, store, fab, reg, broker, alertBus)
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workflow engine: %w", err)
	}
	defer engine.Stop()

	consumer := workflow.NewStatusConsumer(fab, engine)
	consumer.Start(ctx)

	recorder := inventory.NewRecorder(inv, reg, engine)
	go recorder.Watch(ctx, broker)

	var authority *security.TokenAuthority
	if cfg.Transport.AuthSecret != "" {
		authority, err = security.NewTokenAuthority(cfg.Transport.AuthSecret)
		if err != nil {
			return err
		}
	} else {
		logger.Warn().Msg("transport.authSecret unset, transport auth is disabled")
	}

	server, err := api.NewServer(cfg, reg, engine, store, fab, authority)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil {
			errCh <- fmt.Errorf("transport server: %w", err)
		}
	}()

	health := api.NewHealthServer(store, fab, reg)
	go func() {
		if err := health.Start(cfg.MetricsAddr); err != nil {
			errCh <- fmt.Errorf("health server: %w", err)
		}
	}()

	logger.Info().
		Str("listen_addr", cfg.Transport.ListenAddr).
		Str("metrics_addr", cfg.MetricsAddr).
		Msg("Coordinator running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("Fatal server error")
		cancel()
		server.Stop()
		return err
	}

	cancel()
	server.Stop()
	return nil
}

// retryConnect keeps dialing until the broker accepts or ctx ends.
// Fabric's own monitor takes over after the first success.
func retryConnect(ctx context.Context, fab *fabric.Fabric) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fab.Connect(ctx); err == nil {
				return
			}
		}
	}
}
