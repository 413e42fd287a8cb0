package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/api/proto"
)

var deployCmd = &cobra.Command{
	Use:   "deploy SERVICE VERSION",
	Short: "Start a deployment workflow",
	Long: `Start a staged deployment of SERVICE at VERSION across the fleet.

Examples:
  # Rolling deployment with the coordinator's default wave shape
  drover deploy checkout 2.4.1

  # Canary with explicit targets and a bigger first wave
  drover deploy checkout 2.4.1 --strategy canary \
    --servers web-01,web-02,web-03 --set canaryPercent=10

  # Deploy a package uploaded earlier
  drover deploy checkout 2.4.1 --package /var/lib/drover/packages/checkout-2.4.1.pkg \
    --sha256 9f86d08...`,
	Args: cobra.ExactArgs(2),
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().String("strategy", "rolling", "Deployment strategy (rolling|canary)")
	deployCmd.Flags().StringSlice("servers", nil, "Target hostnames (default: every server hosting the service)")
	deployCmd.Flags().String("package", "", "Package path known to the agents")
	deployCmd.Flags().String("sha256", "", "Expected package digest")
	deployCmd.Flags().Int("priority", 0, "Workflow priority")
	deployCmd.Flags().StringArray("set", nil, "Strategy override key=value (repeatable)")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	strategy, _ := cmd.Flags().GetString("strategy")
	servers, _ := cmd.Flags().GetStringSlice("servers")
	pkgPath, _ := cmd.Flags().GetString("package")
	pkgSHA, _ := cmd.Flags().GetString("sha256")
	priority, _ := cmd.Flags().GetInt("priority")
	overrides, _ := cmd.Flags().GetStringArray("set")

	configuration, err := parseOverrides(overrides)
	if err != nil {
		return err
	}

	id, err := c.Deploy(cmd.Context(), &proto.DeploymentRequest{
		ServiceName:   args[0],
		TargetVersion: args[1],
		Strategy:      strategy,
		TargetServers: servers,
		PackagePath:   pkgPath,
		PackageSha256: pkgSHA,
		Priority:      int32(priority),
		Configuration: configuration,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Workflow started: %s\n", id)
	fmt.Printf("Follow it with: drover workflow status %s\n", id)
	return nil
}

func parseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q, expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

var uploadCmd = &cobra.Command{
	Use:   "upload SERVICE VERSION FILE",
	Short: "Upload a release package to the coordinator",
	Long: `Stream a release package to the coordinator's package store.

The coordinator verifies the digest after the transfer and prints the
stored path, which deploy commands can reference with --package.`,
	Args: cobra.ExactArgs(3),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	path, err := c.UploadPackage(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}

	fmt.Printf("Package stored: %s\n", path)
	return nil
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback SERVICE",
	Short: "Roll a service back to its previous release",
	Long: `Issue rollback commands to every server hosting SERVICE.

Without --to-version each agent reactivates whatever release it held
before the current one.`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

func init() {
	rollbackCmd.Flags().String("to-version", "", "Explicit version to activate")

	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	toVersion, _ := cmd.Flags().GetString("to-version")
	result, err := c.Rollback(cmd.Context(), args[0], toVersion)
	if err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("rollback failed: %s", result.Message)
	}
	fmt.Printf("Rollback issued: %s\n", result.Message)
	if result.PreviousVersion != "" {
		fmt.Printf("  %s -> %s\n", result.PreviousVersion, result.CurrentVersion)
	}
	return nil
}
