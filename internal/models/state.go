package models

// State bundles the in-memory tables shared by handlers and timers
type State struct {
	Users   *UserManager
	Configs *ConfigManager
	Admins  *AdminManager
	Calls   *CallManager
	Reports *ReportManager
	Bad     *BadManager
	Groups  *GroupInfoManager
}

func NewState(defaults GroupConfig) *State {
	return &State{
		Users:   NewUserManager(),
		Configs: NewConfigManager(defaults),
		Admins:  NewAdminManager(),
		Calls:   NewCallManager(),
		Reports: NewReportManager(),
		Bad:     NewBadManager(),
		Groups:  NewGroupInfoManager(),
	}
}
