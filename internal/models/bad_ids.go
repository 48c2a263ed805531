package models

import "sync"

// BadIDs holds users flagged as spammers by sibling bots
type BadIDs struct {
	Users IDSet `json:"users"`
}

type BadManager struct {
	mu  sync.RWMutex
	bad BadIDs
}

func NewBadManager() *BadManager {
	return &BadManager{bad: BadIDs{Users: NewIDSet()}}
}

func (m *BadManager) IsBadUser(uid int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bad.Users.Has(uid)
}

func (m *BadManager) AddUser(uid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bad.Users.Add(uid)
}

func (m *BadManager) RemoveUser(uid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bad.Users.Remove(uid)
}

func (m *BadManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bad = BadIDs{Users: NewIDSet()}
}

func (m *BadManager) Snapshot() BadIDs {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return BadIDs{Users: m.bad.Users.Clone()}
}

func (m *BadManager) Restore(bad BadIDs) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bad.Users == nil {
		bad.Users = NewIDSet()
	}
	m.bad = bad
}
