package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// commandNamespace scopes deterministic command ids. Fixed forever:
// changing it would break agent-side dedup across coordinator upgrades.
var commandNamespace = uuid.MustParse("7b9f64a3-52c6-4f0e-9d41-08a2e5b7c913")

// CommandID derives the idempotency key for one command. The same
// (workflow, phase, step, agent, attempt) always yields the same id,
// so republishing a command after a crash is a safe duplicate, while a
// new attempt produces a fresh id the agent will execute again.
func CommandID(workflowID, phaseID, stepID, agentID string, attempt int) string {
	name := fmt.Sprintf("%s|%s|%s|%s|%d", workflowID, phaseID, stepID, agentID, attempt)
	return uuid.NewSHA1(commandNamespace, []byte(name)).String()
}
