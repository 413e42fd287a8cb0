package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/types"
)

func TestParseUnits(t *testing.T) {
	out := `checkout.service            loaded active   running Checkout API
payments.service            loaded inactive dead    Payments worker
indexer.service             loaded failed   failed  Search indexer
session-c2.scope            loaded active   running Session 2
getty@tty1.service          loaded active   running Getty on tty1
`

	services := parseUnits(out)
	require.Len(t, services, 4)

	byName := make(map[string]*types.Service)
	for _, s := range services {
		byName[s.Name] = s
	}

	assert.Equal(t, types.ServiceStatusRunning, byName["checkout"].Status)
	assert.True(t, byName["checkout"].IsActive)
	assert.Equal(t, "Checkout API", byName["checkout"].DisplayName)

	assert.Equal(t, types.ServiceStatusStopped, byName["payments"].Status)
	assert.False(t, byName["payments"].IsActive)

	assert.Equal(t, types.ServiceStatusError, byName["indexer"].Status)

	// Template instances keep their instance name.
	assert.Contains(t, byName, "getty@tty1")

	assert.NotContains(t, byName, "session-c2", "non-service units are skipped")
}

func TestParseUnitsEmptyOutput(t *testing.T) {
	assert.Empty(t, parseUnits(""))
	assert.Empty(t, parseUnits("\n\n"))
}
