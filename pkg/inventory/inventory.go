package inventory

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/droverhq/drover/pkg/types"
)

var (
	bucketAgents    = []byte("agents")
	bucketWorkflows = []byte("workflows")
)

// maxWorkflowRecords caps the durable deployment history; recording a
// new workflow prunes the oldest past this.
const maxWorkflowRecords = 500

// WorkflowRecord is the durable summary of a finished workflow. Full
// workflow state lives in the state store with a TTL; the record
// outlives it for audit and post-mortem.
type WorkflowRecord struct {
	ID               string    `json:"id"`
	Service          string    `json:"service"`
	State            string    `json:"state"`
	Error            string    `json:"error,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	ServersTotal     int       `json:"servers_total"`
	ServersSucceeded int       `json:"servers_succeeded"`
	ServersFailed    int       `json:"servers_failed"`
}

// Inventory is the coordinator's local durable store. It holds the
// last known fleet snapshot and a bounded history of finished
// workflows, so a restarted coordinator knows its fleet before the
// first heartbeats arrive.
type Inventory struct {
	db *bolt.DB
}

// Open opens (or creates) the inventory database under dataDir
func Open(dataDir string) (*Inventory, error) {
	path := filepath.Join(dataDir, "drover.db")
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketAgents, bucketWorkflows} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Inventory{db: db}, nil
}

// Close closes the underlying database
func (i *Inventory) Close() error {
	return i.db.Close()
}

// SaveAgent upserts an agent snapshot, services included
func (i *Inventory) SaveAgent(agent *types.Agent) error {
	if agent.ID == "" {
		return fmt.Errorf("agent has no id")
	}
	data, err := json.Marshal(agent)
	if err != nil {
		return fmt.Errorf("failed to marshal agent: %w", err)
	}
	return i.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAgents).Put([]byte(agent.ID), data)
	})
}

// Agents returns all persisted agent snapshots, ordered by hostname
func (i *Inventory) Agents() ([]*types.Agent, error) {
	var agents []*types.Agent
	err := i.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAgents).ForEach(func(_, v []byte) error {
			var agent types.Agent
			if err := json.Unmarshal(v, &agent); err != nil {
				return fmt.Errorf("failed to unmarshal agent: %w", err)
			}
			agents = append(agents, &agent)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(agents, func(a, b int) bool { return agents[a].Hostname < agents[b].Hostname })
	return agents, nil
}

// AgentServices returns the services from an agent's last persisted
// snapshot, or nil for an unknown agent
func (i *Inventory) AgentServices(agentID string) ([]*types.Service, error) {
	var services []*types.Service
	err := i.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketAgents).Get([]byte(agentID))
		if data == nil {
			return nil
		}
		var agent types.Agent
		if err := json.Unmarshal(data, &agent); err != nil {
			return fmt.Errorf("failed to unmarshal agent: %w", err)
		}
		services = agent.Services
		return nil
	})
	if err != nil {
		return nil, err
	}
	return services, nil
}

// DeleteAgent removes an agent snapshot. Deleting an unknown id is a
// no-op.
func (i *Inventory) DeleteAgent(agentID string) error {
	return i.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAgents).Delete([]byte(agentID))
	})
}

// RecordWorkflow appends a finished workflow to the history and prunes
// the oldest entries past the cap
func (i *Inventory) RecordWorkflow(rec *WorkflowRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("workflow record has no id")
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow record: %w", err)
	}

	// Keys sort chronologically so a reverse cursor walk yields
	// newest-first without decoding values.
	key := []byte(fmt.Sprintf("%020d.%s", rec.FinishedAt.UnixNano(), rec.ID))

	return i.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkflows)
		excess := b.Stats().KeyN + 1 - maxWorkflowRecords
		if err := b.Put(key, data); err != nil {
			return err
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil && excess > 0; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
			excess--
		}
		return nil
	})
}

// WorkflowRecords returns up to limit finished workflows, newest
// first. A non-positive limit returns the whole history.
func (i *Inventory) WorkflowRecords(limit int) ([]*WorkflowRecord, error) {
	if limit <= 0 {
		limit = maxWorkflowRecords
	}
	var records []*WorkflowRecord
	err := i.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketWorkflows).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec WorkflowRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal workflow record: %w", err)
			}
			records = append(records, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
