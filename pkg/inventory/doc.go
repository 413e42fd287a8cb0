/*
Package inventory persists the coordinator's fleet knowledge across
restarts.

The fleet registry is an in-memory projection and the state store
holds workflow state behind a TTL; neither survives a wiped host. The
inventory is the small durable remainder: last known agent snapshots,
used to hydrate the registry on boot, and a bounded history of
finished workflows for audit.

	broker events ──► Recorder ──► Inventory (bbolt)
	                                   │
	boot:  registry.Hydrate ◄──────────┘

Writes are event-driven rather than periodic: the Recorder follows
the broker and snapshots an agent whenever its state changes, so the
database stays quiet on an idle fleet.
*/
package inventory
