package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/pkg/client"
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
	Use:   "drover",
	Short: "Drover - deployment control plane for server fleets",
	Long: `Drover coordinates software rollouts across fleets of servers.

A single coordinator drives staged deployment workflows over a message
fabric; a lightweight agent on every server stages releases, manages
services and reports health back.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Drover version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("coordinator", "localhost:9410", "Coordinator gRPC address")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (defaults to $DROVER_TOKEN)")
	rootCmd.PersistentFlags().String("tls-ca", "", "CA bundle for verifying the coordinator")
	rootCmd.PersistentFlags().Bool("tls-skip-verify", false, "Use TLS but skip certificate verification")
}

// newClient dials the coordinator using the persistent connection flags
func newClient(cmd *cobra.Command) (*client.Client, error) {
	addr, _ := cmd.Flags().GetString("coordinator")
	token, _ := cmd.Flags().GetString("token")
	tlsCA, _ := cmd.Flags().GetString("tls-ca")
	skipVerify, _ := cmd.Flags().GetBool("tls-skip-verify")

	if token == "" {
		token = os.Getenv("DROVER_TOKEN")
	}

	return client.New(client.Options{
		Addr:       addr,
		Token:      token,
		TLSCA:      tlsCA,
		SkipVerify: skipVerify,
	})
}
