package models

import (
	"fmt"
	"html"
	"sync"
)

// GroupInfo caches the title and link of a group for log lines
type GroupInfo struct {
	GroupID   int64
	GroupName string
	GroupLink string
}

func (g *GroupInfo) GetLinkedGroupName() string {
	if g.GroupLink == "" {
		return html.EscapeString(g.GroupName)
	}
	return fmt.Sprintf("<a href=\"%s\">%s</a>", g.GroupLink, html.EscapeString(g.GroupName))
}

type GroupInfoManager struct {
	GroupInfoMap   map[int64]*GroupInfo
	GroupInfoMapMu sync.RWMutex
}

func NewGroupInfoManager() *GroupInfoManager {
	return &GroupInfoManager{
		GroupInfoMap: make(map[int64]*GroupInfo),
	}
}

func (g *GroupInfoManager) GetGroupInfo(chatID int64) *GroupInfo {
	g.GroupInfoMapMu.RLock()
	defer g.GroupInfoMapMu.RUnlock()
	return g.GroupInfoMap[chatID]
}

func (g *GroupInfoManager) AddGroupInfo(groupInfo *GroupInfo) {
	g.GroupInfoMapMu.Lock()
	defer g.GroupInfoMapMu.Unlock()
	g.GroupInfoMap[groupInfo.GroupID] = groupInfo
}

func (g *GroupInfoManager) RemoveGroupInfo(groupID int64) {
	g.GroupInfoMapMu.Lock()
	defer g.GroupInfoMapMu.Unlock()
	delete(g.GroupInfoMap, groupID)
}
