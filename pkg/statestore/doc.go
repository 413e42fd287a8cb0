// Package statestore provides the coordinator's shared key/value layer
// on Redis: scalars, hashes, lists, sets, counters, and ownership
// leases, all JSON-encoded.
//
// The store is coordination state, not a system of record. Workflow
// progress written here is reconstructible from broker status replay,
// and fleet records live in the bolt-backed inventory. Anything that
// must survive a Redis flush belongs elsewhere.
//
// Leases implement single-writer discipline for workflows: a lease is
// a put-if-absent key with expiry, renewed each engine tick and checked
// with owner-conditional Lua on renew and release so a stale engine
// cannot steal or drop another instance's lease.
package statestore
