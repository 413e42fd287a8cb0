package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/api/proto"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Inspect and control deployment workflows",
}

var workflowStatusCmd = &cobra.Command{
	Use:   "status WORKFLOW_ID",
	Short: "Show a workflow's state and per-server progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		st, err := c.Workflow(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printWorkflow(st)
		return nil
	},
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflows",
	Long:  "List active workflows, or workflows in a given state with --state.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		state, _ := cmd.Flags().GetString("state")
		workflows, err := c.Workflows(cmd.Context(), state)
		if err != nil {
			return err
		}
		if len(workflows) == 0 {
			fmt.Println("No workflows.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WORKFLOW\tSTATE\tPHASE\tSERVERS\tUPDATED")
		for _, st := range workflows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				st.WorkflowId, st.State, st.CurrentPhase, len(st.Servers), msAge(st.UpdatedAtMs))
		}
		return w.Flush()
	},
}

func controlCommand(use, short string, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " WORKFLOW_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			msg, err := c.Control(cmd.Context(), args[0], action)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func init() {
	workflowListCmd.Flags().String("state", "", "Filter by state (running|paused|succeeded|failed|canceled|rolled-back)")

	workflowCmd.AddCommand(workflowStatusCmd)
	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(controlCommand("pause", "Pause a running workflow", "pause"))
	workflowCmd.AddCommand(controlCommand("resume", "Resume a paused workflow", "resume"))
	workflowCmd.AddCommand(controlCommand("cancel", "Cancel a workflow", "cancel"))

	rootCmd.AddCommand(workflowCmd)
}

func printWorkflow(st *proto.WorkflowStatus) {
	fmt.Printf("Workflow:  %s\n", st.WorkflowId)
	fmt.Printf("State:     %s\n", st.State)
	if st.CurrentPhase != "" {
		fmt.Printf("Phase:     %s (#%d)\n", st.CurrentPhase, st.PhaseIndex)
	}
	fmt.Printf("Created:   %s\n", msTime(st.CreatedAtMs))
	fmt.Printf("Updated:   %s\n", msTime(st.UpdatedAtMs))
	if st.ErrorMessage != "" {
		fmt.Printf("Error:     [%s] %s\n", st.ErrorKind, st.ErrorMessage)
	}

	if len(st.Servers) == 0 {
		return
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERVER\tSTATUS")
	for _, server := range st.Servers {
		fmt.Fprintf(w, "%s\t%s\n", server.AgentId, server.Status)
	}
	w.Flush()
}

func msTime(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func msAge(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.Since(time.UnixMilli(ms)).Truncate(time.Second).String() + " ago"
}
