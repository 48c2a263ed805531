package models

import "sync"

// UserRecord is the moderation state of one user across groups
type UserRecord struct {
	Warn    map[int64]int `json:"warn"`
	Ban     IDSet         `json:"ban"`
	Waiting IDSet         `json:"waiting"`
	Locked  IDSet         `json:"locked"`
}

func NewUserRecord() *UserRecord {
	return &UserRecord{
		Warn:    make(map[int64]int),
		Ban:     NewIDSet(),
		Waiting: NewIDSet(),
		Locked:  NewIDSet(),
	}
}

// normalize fills nil maps left by older data files
func (u *UserRecord) normalize() {
	if u.Warn == nil {
		u.Warn = make(map[int64]int)
	}
	if u.Ban == nil {
		u.Ban = NewIDSet()
	}
	if u.Waiting == nil {
		u.Waiting = NewIDSet()
	}
	if u.Locked == nil {
		u.Locked = NewIDSet()
	}
}

func (u *UserRecord) clone() *UserRecord {
	c := &UserRecord{
		Warn:    make(map[int64]int, len(u.Warn)),
		Ban:     u.Ban.Clone(),
		Waiting: u.Waiting.Clone(),
		Locked:  u.Locked.Clone(),
	}
	for gid, n := range u.Warn {
		c.Warn[gid] = n
	}
	return c
}

// Warned reports whether the user has any warning in the group
func (u UserRecord) Warned(gid int64) bool {
	return u.Warn[gid] > 0
}

// UserManager guards the user table
type UserManager struct {
	mu    sync.Mutex
	users map[int64]*UserRecord
}

func NewUserManager() *UserManager {
	return &UserManager{users: make(map[int64]*UserRecord)}
}

// Update runs fn on the user's record, creating it if needed
func (m *UserManager) Update(uid int64, fn func(u *UserRecord)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.getLocked(uid))
}

// Get returns a copy of the user's record
func (m *UserManager) Get(uid int64) UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[uid]; ok {
		return *u.clone()
	}
	return *NewUserRecord()
}

// TryLock marks an admin action on uid in gid as in flight
func (m *UserManager) TryLock(uid, gid int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.getLocked(uid)
	if u.Locked.Has(gid) {
		return false
	}
	u.Locked.Add(gid)
	return true
}

func (m *UserManager) Unlock(uid, gid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[uid]; ok {
		u.Locked.Remove(gid)
	}
}

// ClearWaiting drops every pending report flag
func (m *UserManager) ClearWaiting() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		u.Waiting = NewIDSet()
	}
}

// ForgetGroup removes all state related to a group the bot left
func (m *UserManager) ForgetGroup(gid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		delete(u.Warn, gid)
		u.Ban.Remove(gid)
		u.Waiting.Remove(gid)
		u.Locked.Remove(gid)
	}
}

func (m *UserManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[int64]*UserRecord)
}

func (m *UserManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *UserManager) Snapshot() map[int64]*UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]*UserRecord, len(m.users))
	for uid, u := range m.users {
		out[uid] = u.clone()
	}
	return out
}

func (m *UserManager) Restore(users map[int64]*UserRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[int64]*UserRecord, len(users))
	for uid, u := range users {
		if u == nil {
			continue
		}
		u.normalize()
		m.users[uid] = u
	}
}

func (m *UserManager) getLocked(uid int64) *UserRecord {
	u, ok := m.users[uid]
	if !ok {
		u = NewUserRecord()
		m.users[uid] = u
	}
	return u
}
