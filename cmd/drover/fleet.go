package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Inspect the fleet",
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		status, _ := cmd.Flags().GetString("status")
		env, _ := cmd.Flags().GetString("environment")
		agents, err := c.Agents(cmd.Context(), status, env)
		if err != nil {
			return err
		}
		if len(agents) == 0 {
			fmt.Println("No agents.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "HOSTNAME\tSTATUS\tENV\tSERVICES\tVERSION\tLAST HEARTBEAT")
		for _, a := range agents {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				a.Hostname, a.Status, a.Environment, a.ServiceCount, a.AgentVersion, msAge(a.LastHeartbeatMs))
		}
		return w.Flush()
	},
}

func init() {
	agentListCmd.Flags().String("status", "", "Filter by status (connected|disconnected|error)")
	agentListCmd.Flags().String("environment", "", "Filter by environment")

	agentCmd.AddCommand(agentListCmd)
	rootCmd.AddCommand(agentCmd)
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Run service commands on a server",
}

func serviceVerbCommand(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " SERVER_ID SERVICE",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.RunServiceCommand(cmd.Context(), args[0], args[1], verb)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("%s failed (exit %d): %s", verb, result.ExitCode, result.Message)
			}
			if result.Message != "" {
				fmt.Println(result.Message)
			} else {
				fmt.Printf("%s %s: ok\n", verb, args[1])
			}
			return nil
		},
	}
}

func init() {
	serviceCmd.AddCommand(serviceVerbCommand("start", "Start a service"))
	serviceCmd.AddCommand(serviceVerbCommand("stop", "Stop a service"))
	serviceCmd.AddCommand(serviceVerbCommand("restart", "Restart a service"))
	serviceCmd.AddCommand(serviceVerbCommand("status", "Query a service's status"))

	rootCmd.AddCommand(serviceCmd)
}
