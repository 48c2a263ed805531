package models

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ReportRecord is a report waiting for an admin decision
type ReportRecord struct {
	GroupID    int64 `json:"group_id"`
	UserID     int64 `json:"user_id"`
	ReporterID int64 `json:"reporter_id"`
	ReportID   int   `json:"report_id"`
	MessageID  int   `json:"message_id"`
	Time       int64 `json:"time"`
}

// Auto reports come from sibling bots and have no reporter
func (r ReportRecord) Auto() bool {
	return r.ReporterID == 0
}

// ReportManager guards the pending report table
type ReportManager struct {
	mu      sync.Mutex
	reports map[string]ReportRecord
}

func NewReportManager() *ReportManager {
	return &ReportManager{reports: make(map[string]ReportRecord)}
}

// Add stores a report and returns its key
func (m *ReportManager) Add(r ReportRecord) string {
	key := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[key] = r
	return key
}

// SetReportID attaches the id of the bot message showing the report
func (m *ReportManager) SetReportID(key string, mid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[key]; ok {
		r.ReportID = mid
		m.reports[key] = r
	}
}

// TakeByMessage removes and returns the report shown by message mid
func (m *ReportManager) TakeByMessage(gid int64, mid int) (ReportRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, r := range m.reports {
		if r.GroupID == gid && r.ReportID == mid {
			delete(m.reports, key)
			return r, true
		}
	}
	return ReportRecord{}, false
}

// RemoveGroup drops every report of a group
func (m *ReportManager) RemoveGroup(gid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, r := range m.reports {
		if r.GroupID == gid {
			delete(m.reports, key)
		}
	}
}

// TakeExpired removes reports older than maxAge seconds, or without a time
func (m *ReportManager) TakeExpired(now, maxAge int64) []ReportRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []ReportRecord
	for key, r := range m.reports {
		if r.Time != 0 && now-r.Time < maxAge {
			continue
		}
		delete(m.reports, key)
		expired = append(expired, r)
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].Time < expired[j].Time })
	return expired
}

func (m *ReportManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

func (m *ReportManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = make(map[string]ReportRecord)
}

func (m *ReportManager) Snapshot() map[string]ReportRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]ReportRecord, len(m.reports))
	for k, r := range m.reports {
		out[k] = r
	}
	return out
}

func (m *ReportManager) Restore(reports map[string]ReportRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = make(map[string]ReportRecord, len(reports))
	for k, r := range reports {
		m.reports[k] = r
	}
}
