// Package strategy turns a deployment request into an ordered phase
// plan. Planning is pure: the same request always yields the same
// plan, and nothing here talks to agents or the broker.
//
// Every strategy produces the same canonical shape:
//
//	Pre-Deployment → Wave(s) → Post-Deployment → Cleanup
//
// Pre-Deployment validates the environment, load balancer, and package
// checksum. Waves are strategy-specific: rolling partitions the fleet
// by fixed size or percentage with a health gate after each wave;
// blue-green deploys the idle color then cuts traffic over with a
// SwitchTraffic command; canary stages 5% / 25% / remainder cohorts
// behind manual-resume observation gates; immediate is one fully
// parallel wave. Post-Deployment health-checks every touched server;
// Cleanup is best-effort and never triggers rollback.
//
// Estimate produces the coarse duration the engine uses as the
// workflow deadline; it is a deliberate over-estimate.
package strategy
