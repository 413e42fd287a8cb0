package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandIDDeterministic(t *testing.T) {
	a := CommandID("wf-1", "wave-1", "deploy", "agent-1", 1)
	b := CommandID("wf-1", "wave-1", "deploy", "agent-1", 1)
	assert.Equal(t, a, b)
}

func TestCommandIDVariesByEveryComponent(t *testing.T) {
	base := CommandID("wf-1", "wave-1", "deploy", "agent-1", 1)

	assert.NotEqual(t, base, CommandID("wf-2", "wave-1", "deploy", "agent-1", 1))
	assert.NotEqual(t, base, CommandID("wf-1", "wave-2", "deploy", "agent-1", 1))
	assert.NotEqual(t, base, CommandID("wf-1", "wave-1", "verify", "agent-1", 1))
	assert.NotEqual(t, base, CommandID("wf-1", "wave-1", "deploy", "agent-2", 1))
	assert.NotEqual(t, base, CommandID("wf-1", "wave-1", "deploy", "agent-1", 2))
}

func TestCommandIDIsValidUUID(t *testing.T) {
	id := CommandID("wf-1", "wave-1", "deploy", "agent-1", 1)
	assert.Len(t, id, 36)
	assert.Equal(t, byte('-'), id[8])
}
