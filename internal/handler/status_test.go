package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackCountsHandlers(t *testing.T) {
	var counter int64
	before := GetActiveHandlersCount()

	done := track(&counter)
	assert.Equal(t, before+1, GetActiveHandlersCount())
	done()

	assert.Equal(t, before, GetActiveHandlersCount())
	assert.Equal(t, int64(1), counter)

	stats := GetProcessingStats()
	assert.Contains(t, stats, "active_handlers")
	assert.Contains(t, GetDetailedStatus(), "Active Handlers")
}
