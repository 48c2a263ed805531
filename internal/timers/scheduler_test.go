package timers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 31, 12, 30, 0, 0, time.UTC)

func TestEveryNext(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 31, 13, 0, 0, 0, time.UTC), Every(time.Hour).Next(start))
	assert.Equal(t, time.Date(2024, 5, 31, 13, 0, 0, 0, time.UTC), Every(30*time.Minute).Next(start))
}

func TestDailyNext(t *testing.T) {
	assert.Equal(t, time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC), Daily{Hour: 2}.Next(start))
	assert.Equal(t, time.Date(2024, 5, 31, 18, 15, 0, 0, time.UTC), Daily{Hour: 18, Minute: 15}.Next(start))

	at := time.Date(2024, 5, 31, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, at.AddDate(0, 0, 1), Daily{Hour: 2}.Next(at), "a slot equal to now is already taken")
}

func TestMonthlyNext(t *testing.T) {
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Monthly{Day: 1}.Next(start))

	december := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Monthly{Day: 1}.Next(december))

	early := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Add(-time.Second)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Monthly{Day: 1}.Next(early))
}

func TestRunDue(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	s := NewScheduler(clock, time.Minute)

	var hourly, daily int
	s.Add("hourly", Every(time.Hour), func(context.Context) error { hourly++; return nil })
	s.Add("daily", Daily{Hour: 2}, func(context.Context) error { daily++; return nil })

	ctx := context.Background()
	assert.Empty(t, s.RunDue(ctx))

	clock.Advance(30 * time.Minute)
	assert.Equal(t, []string{"hourly"}, s.RunDue(ctx))
	assert.Empty(t, s.RunDue(ctx), "a job runs once per slot")
	assert.Equal(t, time.Date(2024, 5, 31, 14, 0, 0, 0, time.UTC), s.Next("hourly"))

	// a long pause runs each missed job once
	clock.Advance(24 * time.Hour)
	assert.ElementsMatch(t, []string{"hourly", "daily"}, s.RunDue(ctx))
	assert.Equal(t, 2, hourly)
	assert.Equal(t, 1, daily)
	assert.True(t, s.Next("unknown").IsZero())
}

func TestRunDueSurvivesFailingJobs(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	s := NewScheduler(clock, time.Minute)

	var ran int
	s.Add("error", Every(time.Hour), func(context.Context) error { return errors.New("boom") })
	s.Add("panic", Every(time.Hour), func(context.Context) error { panic("boom") })
	s.Add("ok", Every(time.Hour), func(context.Context) error { ran++; return nil })

	clock.Advance(time.Hour)
	assert.Len(t, s.RunDue(context.Background()), 3)
	assert.Equal(t, 1, ran)
}

func TestStartRunsOnTicks(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	s := NewScheduler(clock, time.Minute)

	var runs atomic.Int32
	s.Add("hourly", Every(time.Hour), func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(30 * time.Minute)
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
