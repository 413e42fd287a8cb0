// Package fabric implements the topic-routed messaging layer between
// the coordinator and the agent fleet on top of RabbitMQ.
//
// # Architecture
//
// A single topic exchange routes every message by hierarchical key.
// Per-purpose durable queues bind by prefix; rejected or expired
// messages land in a direct dead-letter exchange for inspection.
//
//	                 ┌─────────────────────┐
//	 Publish ───────►│   exchange (topic)  │
//	                 └──────────┬──────────┘
//	        command.# │ status.# │ alert.# │ ...
//	          ┌───────▼──┐ ┌─────▼────┐ ┌──▼───────┐
//	          │ .command │ │ .status  │ │ .alert   │  per-purpose queues
//	          └───────┬──┘ └─────┬────┘ └──┬───────┘
//	                  │ expired / rejected │
//	                 ┌▼────────────────────▼┐
//	                 │   dlx ── dlx.queue   │
//	                 └──────────────────────┘
//
// Purposes: deployment, command, status, alert, metrics, workflow,
// priority (priority-enabled, max 10), batch, monitoring. Telemetry
// queues carry short TTLs; the rest use the configured message TTL.
//
// # Delivery Semantics
//
// Delivery is at-least-once. Handlers return a Verdict: Ack settles
// the message, Requeue puts it back for redelivery, Dead routes it to
// the dead-letter queue. Handlers run concurrently up to the channel
// prefetch and must be idempotent; a panicking handler dead-letters
// its message rather than taking the consumer down.
//
// Publishes are persistent and confirmed: Publish returns only after
// the broker accepts the message or the caller's deadline expires.
// PublishBatch confirms every message on one channel and reports any
// stragglers in a BatchError. Outbound volume is shaped by an optional
// token bucket (maxMessagesPerSecond).
//
// # Connection Management
//
// One connection carries a pool of confirm-mode publisher channels;
// each consumer holds its own channel. A monitor goroutine watches for
// connection loss and recovers with exponential backoff, redeclaring
// the topology (all declarations are idempotent) and rebuilding the
// publisher pool. Consumers re-attach on their own once the connection
// returns. Queue mirroring across cluster nodes is an operator-side
// broker policy, not declared here.
//
// # Usage
//
//	f := fabric.New(cfg.Broker)
//	if err := f.Connect(ctx); err != nil { ... }
//	defer f.Close()
//
//	err := f.Publish(ctx, fabric.CommandKey("deploy", agentID), cmd, &fabric.Props{
//	    Priority:      5,
//	    CorrelationID: workflowID,
//	})
//
//	f.Consume(ctx, f.QueueFor(fabric.PurposeStatus), func(d fabric.Delivery) fabric.Verdict {
//	    // decode d.Body, correlate by d.CorrelationID
//	    return fabric.Ack
//	})
package fabric
