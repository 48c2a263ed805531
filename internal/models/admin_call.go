package models

import "sync"

// AdminCall is the latest /admin message posted in a group
type AdminCall struct {
	MessageID int   `json:"message_id"`
	Time      int64 `json:"time"`
}

// StaleMessage identifies a bot message that should be deleted
type StaleMessage struct {
	ChatID    int64
	MessageID int
}

// CallManager guards the message id table of admin calls
type CallManager struct {
	mu    sync.Mutex
	calls map[int64]AdminCall
}

func NewCallManager() *CallManager {
	return &CallManager{calls: make(map[int64]AdminCall)}
}

// Replace records a new call and returns the previous message id, 0 if none
func (m *CallManager) Replace(gid int64, mid int, now int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.calls[gid].MessageID
	m.calls[gid] = AdminCall{MessageID: mid, Time: now}
	return old
}

// TakeExpired clears calls older than maxAge seconds and returns them
func (m *CallManager) TakeExpired(now, maxAge int64) []StaleMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []StaleMessage
	for gid, c := range m.calls {
		if c.Time == 0 || now-c.Time < maxAge {
			continue
		}
		m.calls[gid] = AdminCall{}
		stale = append(stale, StaleMessage{ChatID: gid, MessageID: c.MessageID})
	}
	return stale
}

func (m *CallManager) Remove(gid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.calls, gid)
}

func (m *CallManager) Snapshot() map[int64]AdminCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]AdminCall, len(m.calls))
	for gid, c := range m.calls {
		out[gid] = c
	}
	return out
}

func (m *CallManager) Restore(calls map[int64]AdminCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[int64]AdminCall, len(calls))
	for gid, c := range calls {
		m.calls[gid] = c
	}
}
