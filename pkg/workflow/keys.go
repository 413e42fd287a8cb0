package workflow

import "fmt"

// State store key layout. Everything for one workflow lives under the
// workflow:{id} prefix so teardown is one DeleteByPattern.

const workflowIndexKey = "workflows"

func workflowKey(id string) string {
	return fmt.Sprintf("workflow:%s", id)
}

func pendingKey(id, commandID string) string {
	return fmt.Sprintf("workflow:%s:pending:%s", id, commandID)
}

func pendingPattern(id string) string {
	return fmt.Sprintf("workflow:%s:pending:*", id)
}

func appliedKey(id string) string {
	return fmt.Sprintf("workflow:%s:applied", id)
}

func leaseResource(id string) string {
	return fmt.Sprintf("workflow:%s", id)
}

// AgentCommandQueue is the per-agent fallback queue drained on
// heartbeat when the broker path is unavailable
func AgentCommandQueue(agentID string) string {
	return fmt.Sprintf("agent:%s:commands", agentID)
}
