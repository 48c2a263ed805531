package models

import (
	"sort"
	"sync"
)

// AdminManager guards the admin id table, one set of admins per group
type AdminManager struct {
	mu     sync.RWMutex
	admins map[int64]IDSet
}

func NewAdminManager() *AdminManager {
	return &AdminManager{admins: make(map[int64]IDSet)}
}

func (m *AdminManager) IsAdmin(gid, uid int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admins[gid].Has(uid)
}

// Known reports whether the admin list of the group has been fetched
func (m *AdminManager) Known(gid int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.admins[gid]
	return ok
}

func (m *AdminManager) Set(gid int64, admins IDSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[gid] = admins.Clone()
}

func (m *AdminManager) Remove(gid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.admins, gid)
}

// Admins returns the admins of a group in ascending order
func (m *AdminManager) Admins(gid int64) []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admins[gid].Slice()
}

func (m *AdminManager) Groups() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.admins))
	for gid := range m.admins {
		ids = append(ids, gid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *AdminManager) Snapshot() map[int64]IDSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]IDSet, len(m.admins))
	for gid, s := range m.admins {
		out[gid] = s.Clone()
	}
	return out
}

func (m *AdminManager) Restore(admins map[int64]IDSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins = make(map[int64]IDSet, len(admins))
	for gid, s := range admins {
		if s == nil {
			s = NewIDSet()
		}
		m.admins[gid] = s
	}
}
