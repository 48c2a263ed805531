package models

import (
	"sort"
	"sync"
)

// ConfigLockSeconds is how long a config session blocks further changes
const ConfigLockSeconds = 360

// Warn limit bounds
const (
	MinLimit = 2
	MaxLimit = 5
)

// ValidLimit reports whether n is an accepted warn limit
func ValidLimit(n int) bool {
	return n >= MinLimit && n <= MaxLimit
}

// ReportConfig toggles the two report sources
type ReportConfig struct {
	Auto   bool `json:"auto"`
	Manual bool `json:"manual"`
}

// GroupConfig is the per-group warn configuration
type GroupConfig struct {
	Default bool         `json:"default"`
	Limit   int          `json:"limit"`
	Mention bool         `json:"mention"`
	Report  ReportConfig `json:"report"`
	Locked  int64        `json:"locked"`
}

// IsLocked reports whether a config session started less than
// ConfigLockSeconds before now
func (c GroupConfig) IsLocked(now int64) bool {
	return now-c.Locked <= ConfigLockSeconds
}

// SameSettings compares the user visible settings, ignoring the lock stamp
func (c GroupConfig) SameSettings(o GroupConfig) bool {
	c.Locked, o.Locked = 0, 0
	return c == o
}

// ConfigManager guards the group config table
type ConfigManager struct {
	mu       sync.RWMutex
	defaults GroupConfig
	configs  map[int64]GroupConfig
}

func NewConfigManager(defaults GroupConfig) *ConfigManager {
	defaults.Default = true
	defaults.Locked = 0
	return &ConfigManager{
		defaults: defaults,
		configs:  make(map[int64]GroupConfig),
	}
}

func (m *ConfigManager) Defaults() GroupConfig {
	return m.defaults
}

// Get returns the group config, or the defaults for groups without one
func (m *ConfigManager) Get(gid int64) GroupConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.configs[gid]; ok {
		return c
	}
	return m.defaults
}

func (m *ConfigManager) Set(gid int64, c GroupConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[gid] = c
}

func (m *ConfigManager) Remove(gid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configs, gid)
}

// TryLock starts a config session unless one is already running
func (m *ConfigManager) TryLock(gid, now int64) (GroupConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[gid]
	if !ok {
		c = m.defaults
	}
	if c.IsLocked(now) {
		return c, false
	}
	c.Locked = now
	m.configs[gid] = c
	return c, true
}

// AutoReportGroups filters groups down to those accepting reports from
// sibling bots
func (m *ConfigManager) AutoReportGroups(groups []int64) []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := []int64{}
	for _, gid := range groups {
		c, ok := m.configs[gid]
		if !ok {
			c = m.defaults
		}
		if c.Report.Auto {
			ids = append(ids, gid)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *ConfigManager) Snapshot() map[int64]GroupConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]GroupConfig, len(m.configs))
	for gid, c := range m.configs {
		out[gid] = c
	}
	return out
}

func (m *ConfigManager) Restore(configs map[int64]GroupConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = make(map[int64]GroupConfig, len(configs))
	for gid, c := range configs {
		m.configs[gid] = c
	}
}
