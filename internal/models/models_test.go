package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSetJSON(t *testing.T) {
	data, err := json.Marshal(NewIDSet(3, -1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `[-1,2,3]`, string(data))

	var s IDSet
	require.NoError(t, json.Unmarshal([]byte(`[5,5,7]`), &s))
	assert.Len(t, s, 2)
	assert.True(t, s.Has(7))
}

func TestUserManagerLocks(t *testing.T) {
	m := NewUserManager()

	assert.True(t, m.TryLock(1, -100))
	assert.False(t, m.TryLock(1, -100))
	assert.True(t, m.TryLock(1, -200))
	m.Unlock(1, -100)
	assert.True(t, m.TryLock(1, -100))
}

func TestUserManagerGetIsCopy(t *testing.T) {
	m := NewUserManager()
	m.Update(1, func(u *UserRecord) { u.Warn[-100] = 1 })

	u := m.Get(1)
	u.Warn[-100] = 9
	assert.Equal(t, 1, m.Get(1).Warn[-100])
	assert.Equal(t, 0, m.Get(2).Warn[-100])
	assert.Equal(t, 1, m.Len(), "Get must not create records")
}

func TestUserManagerForgetGroup(t *testing.T) {
	m := NewUserManager()
	m.Update(1, func(u *UserRecord) {
		u.Warn[-100] = 1
		u.Warn[-200] = 2
		u.Ban.Add(-100)
		u.Waiting.Add(-100)
	})

	m.ForgetGroup(-100)
	u := m.Get(1)
	assert.False(t, u.Warned(-100))
	assert.True(t, u.Warned(-200))
	assert.False(t, u.Ban.Has(-100))
	assert.False(t, u.Waiting.Has(-100))

	m.Update(2, func(u *UserRecord) { u.Waiting.Add(-200) })
	m.ClearWaiting()
	assert.Empty(t, m.Get(2).Waiting)
}

func TestUserRestoreNormalizes(t *testing.T) {
	var users map[int64]*UserRecord
	require.NoError(t, json.Unmarshal([]byte(`{"1":{"warn":{"-100":2}}}`), &users))

	m := NewUserManager()
	m.Restore(users)
	assert.True(t, m.TryLock(1, -100))
	assert.Equal(t, 2, m.Get(1).Warn[-100])
}

func TestConfigLock(t *testing.T) {
	const now = int64(1_700_000_000)
	m := NewConfigManager(GroupConfig{Limit: 3})

	c := m.Get(-100)
	assert.True(t, c.Default)
	assert.False(t, c.IsLocked(now))

	c, ok := m.TryLock(-100, now)
	require.True(t, ok)
	assert.Equal(t, now, c.Locked)
	_, ok = m.TryLock(-100, now+ConfigLockSeconds)
	assert.False(t, ok)
	_, ok = m.TryLock(-100, now+ConfigLockSeconds+1)
	assert.True(t, ok)

	assert.True(t, GroupConfig{Limit: 3, Locked: 1}.SameSettings(GroupConfig{Limit: 3, Locked: 2}))
	assert.False(t, GroupConfig{Limit: 3}.SameSettings(GroupConfig{Limit: 4}))
}

func TestAutoReportGroups(t *testing.T) {
	m := NewConfigManager(GroupConfig{Limit: 3, Report: ReportConfig{Auto: true}})
	m.Set(-300, GroupConfig{Report: ReportConfig{Auto: true}})
	m.Set(-200, GroupConfig{Report: ReportConfig{Manual: true}})
	m.Set(-100, GroupConfig{Report: ReportConfig{Auto: true, Manual: true}})

	assert.Equal(t, []int64{-400, -300, -100}, m.AutoReportGroups([]int64{-100, -200, -300, -400}))
	assert.Empty(t, m.AutoReportGroups(nil))
}

func TestConfigGetDoesNotStore(t *testing.T) {
	m := NewConfigManager(GroupConfig{Limit: 3})

	assert.Equal(t, 3, m.Get(-100).Limit)
	assert.Empty(t, m.Snapshot())
}

func TestValidLimit(t *testing.T) {
	assert.False(t, ValidLimit(0))
	assert.False(t, ValidLimit(1))
	assert.True(t, ValidLimit(MinLimit))
	assert.True(t, ValidLimit(MaxLimit))
	assert.False(t, ValidLimit(6))
}

func TestReportExpiry(t *testing.T) {
	m := NewReportManager()
	fresh := m.Add(ReportRecord{GroupID: -100, UserID: 1, Time: 1000})
	m.Add(ReportRecord{GroupID: -100, UserID: 2, Time: 100})
	m.Add(ReportRecord{GroupID: -100, UserID: 3})

	expired := m.TakeExpired(1100, 600)
	require.Len(t, expired, 2)
	assert.Equal(t, int64(3), expired[0].UserID)
	assert.Equal(t, int64(2), expired[1].UserID)
	assert.Equal(t, 1, m.Len())

	m.SetReportID(fresh, 55)
	_, ok := m.TakeByMessage(-200, 55)
	assert.False(t, ok)
	r, ok := m.TakeByMessage(-100, 55)
	require.True(t, ok)
	assert.Equal(t, int64(1), r.UserID)
	assert.Equal(t, 0, m.Len())
}

func TestCallManager(t *testing.T) {
	m := NewCallManager()

	assert.Equal(t, 0, m.Replace(-100, 10, 1000))
	assert.Equal(t, 10, m.Replace(-100, 11, 1010))
	m.Replace(-200, 20, 2000)

	stale := m.TakeExpired(2100, 600)
	assert.Equal(t, []StaleMessage{{ChatID: -100, MessageID: 11}}, stale)
	assert.Equal(t, AdminCall{}, m.Get(-100))
	assert.Empty(t, m.TakeExpired(2100, 600))
}

func TestAdminManager(t *testing.T) {
	m := NewAdminManager()
	assert.False(t, m.Known(-100))

	ids := NewIDSet(1, 2)
	m.Set(-100, ids)
	ids.Add(3)
	assert.False(t, m.IsAdmin(-100, 3))
	assert.Equal(t, []int64{1, 2}, m.Admins(-100))

	m.Set(-200, NewIDSet())
	assert.Equal(t, []int64{-200, -100}, m.Groups())
	m.Remove(-200)
	assert.False(t, m.Known(-200))
}

func TestTranslationFallback(t *testing.T) {
	assert.Equal(t, "Custom", GetTranslation(LangEnglish, "config_custom"))
	assert.Equal(t, "missing_key", GetTranslation(LangEnglish, "missing_key"))
	assert.Equal(t, GetTranslation(LangSimplifiedChinese, "config_custom"), GetTranslation("xx", "config_custom"))
}
