package crash

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"tg-warn/internal/metrics"
)

func TestSafeGoroutine_RecoversPanic(t *testing.T) {
	counter := metrics.Panics.WithLabelValues("goroutine-test-panic")
	before := testutil.ToFloat64(counter)

	done := make(chan struct{})
	SafeGoroutine("test-panic", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("goroutine did not run")
	}

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(counter) == before+1
	}, time.Second, 10*time.Millisecond)
}

func TestRuntimeInfo(t *testing.T) {
	info := runtimeInfo()
	assert.Contains(t, info, "goroutines=")
	assert.Contains(t, info, "heap=")
}
