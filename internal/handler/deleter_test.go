package handler

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestDeleteLater(t *testing.T) {
	bot := &fakeBot{}
	clock := clockwork.NewFakeClock()
	d := NewDeleter(bot, clock)

	d.DeleteLater(testGroup, 7, 10*time.Second)
	d.DeleteLater(testGroup, 0, time.Second)
	assert.Equal(t, 1, d.Pending())

	clock.Advance(9 * time.Second)
	assert.Empty(t, bot.Deleted())

	clock.Advance(time.Second)
	assert.Eventually(t, func() bool {
		return len(bot.Deleted()) == 1 && d.Pending() == 0
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []int{7}, bot.Deleted())
}

func TestDeleterFlush(t *testing.T) {
	bot := &fakeBot{}
	d := NewDeleter(bot, clockwork.NewFakeClock())

	d.DeleteLater(testGroup, 7, time.Minute)
	d.DeleteLater(testGroup, 8, time.Hour)
	d.Flush(context.Background())

	assert.ElementsMatch(t, []int{7, 8}, bot.Deleted())
	assert.Zero(t, d.Pending())
}

func TestDeleteSkipsZeroIDs(t *testing.T) {
	bot := &fakeBot{}
	d := NewDeleter(bot, clockwork.NewFakeClock())

	d.Delete(context.Background(), testGroup, 0)
	assert.Empty(t, bot.Deleted())
}
