package fabric

import "fmt"

// Routing key constructors. Keys are hierarchical so purpose queues
// bind by prefix and consumers can narrow further.

// CommandKey routes a deployment command to one agent
func CommandKey(operation, agentID string) string {
	return fmt.Sprintf("command.%s.%s", operation, agentID)
}

// StatusKey routes status updates for one workflow
func StatusKey(workflowID string) string {
	return fmt.Sprintf("status.%s", workflowID)
}

// AlertKey routes an alert by severity and category
func AlertKey(severity, category string) string {
	return fmt.Sprintf("alert.%s.%s", severity, category)
}

// WorkflowKey routes workflow lifecycle events
func WorkflowKey(event string) string {
	return fmt.Sprintf("workflow.%s", event)
}

// MetricsKey routes metric batches from one agent
func MetricsKey(agentID string) string {
	return fmt.Sprintf("metrics.%s", agentID)
}

// PriorityKey routes expedited commands through the priority queue
func PriorityKey(agentID string) string {
	return fmt.Sprintf("priority.command.%s", agentID)
}

// CommandResultKey routes the synchronous result of an admin command
// back to the coordinator's result waiter
func CommandResultKey(commandID string) string {
	return fmt.Sprintf("workflow.command-result.%s", commandID)
}

// MonitoringKey routes fleet monitoring events
func MonitoringKey(event string) string {
	return fmt.Sprintf("monitoring.%s", event)
}
