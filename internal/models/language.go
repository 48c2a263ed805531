package models

// Language constants
const (
	LangSimplifiedChinese  = "zh_CN"
	LangTraditionalChinese = "zh_TW"
	LangEnglish            = "en"
)

// Translation is a map of message keys to translated text
type Translation map[string]string

// Translations stores all language translations
var Translations = map[string]Translation{
	LangSimplifiedChinese: {
		"colon":        "：",
		"project":      "项目编号",
		"admin_group":  "群管理",
		"user_id":      "用户ID",
		"reporter":     "举报人",
		"from_user":    "来自用户",
		"call_admins":  "呼叫管理",
		"action":       "执行操作",
		"result":       "操作结果",
		"reason":       "原因",
		"status":       "状态",
		"description":  "说明",
		"warns":        "警告统计",
		"version":      "版本",
		"group_name":   "群组名称",
		"group_id":     "群组ID",
		"message_link": "消息链接",
		"auto_report":  "自动举报",

		"action_warn":          "警告用户",
		"action_ban":           "封禁用户",
		"action_unwarn":        "撤销警告",
		"action_unban":         "解禁用户",
		"action_forgive":       "清空记录",
		"action_report":        "举报用户",
		"action_call":          "呼叫管理",
		"action_config_create": "创建设置会话",
		"action_config_show":   "查看设置",
		"action_config_change": "更改设置",
		"action_reset":         "清空数据",

		"limit_reached":  "已达到警告上限，自动封禁",
		"already_banned": "用户已在封禁列表中",
		"not_banned":     "用户未在封禁列表中",
		"no_warns":       "用户没有警告记录",
		"not_recorded":   "用户未记录在案",
		"ban_failed":     "封禁失败，请检查机器人权限",
		"unban_failed":   "解禁失败，请检查机器人权限",
		"warns_cleared":  "已清空警告",
		"unbanned":       "已解除封禁",

		"button_undo":   "撤销",
		"button_unban":  "解禁",
		"button_warn":   "警告",
		"button_ban":    "封禁",
		"button_cancel": "取消",
		"button_config": "前往设置",

		"handled_by_other": "已被其他管理员处理",
		"not_admin":        "仅限群组管理员操作",
		"report_cancelled": "举报已取消",
		"report_expired":   "举报已失效",

		"config_updated":      "已更新",
		"config_out_of_range": "数值超过范围",
		"config_bad_number":   "错误的数值",
		"config_bad_mention":  "呼叫选项有误",
		"config_bad_report":   "举报选项有误",
		"config_bad_type":     "命令类别有误",
		"config_missing":      "命令选项缺失",
		"config_locked":       "设置当前被锁定",
		"config_bad_format":   "格式有误",
		"config_unchanged":    "设置未改变",

		"config_mode":          "设置",
		"config_default":       "默认",
		"config_custom":        "自定义",
		"config_limit":         "警告上限",
		"config_mention":       "呼叫管理",
		"config_report_auto":   "自动举报",
		"config_report_manual": "手动举报",
		"config_link_text":     "设置会话已创建，请点击下方按钮进行设置",
		"enabled":              "启用",
		"disabled":             "禁用",

		"reason_permissions": "权限缺失",
		"reason_user":        "缺失所有者账号",
		"reason_leave":       "非管理员或已不在群组中",
		"leave_auto":         "自动退出并清空数据",
		"leave_approve":      "已批准退出群组",

		"cmd_desc_admin":       "呼叫管理员",
		"cmd_desc_warn":        "警告用户（回复消息）",
		"cmd_desc_ban":         "封禁用户（回复消息）",
		"cmd_desc_forgive":     "清空用户记录（回复消息）",
		"cmd_desc_report":      "举报用户（回复消息）",
		"cmd_desc_warn_config": "查看或修改警告设置",
		"cmd_desc_config":      "创建设置会话",
	},
	LangEnglish: {
		"colon":        ": ",
		"project":      "Project",
		"admin_group":  "Admin",
		"user_id":      "User ID",
		"reporter":     "Reporter",
		"from_user":    "From",
		"call_admins":  "Calling admins",
		"action":       "Action",
		"result":       "Result",
		"reason":       "Reason",
		"status":       "Status",
		"description":  "Description",
		"warns":        "Warnings",
		"version":      "Version",
		"group_name":   "Group name",
		"group_id":     "Group ID",
		"message_link": "Message",
		"auto_report":  "Auto report",

		"action_warn":          "Warn user",
		"action_ban":           "Ban user",
		"action_unwarn":        "Undo warning",
		"action_unban":         "Unban user",
		"action_forgive":       "Forgive user",
		"action_report":        "Report user",
		"action_call":          "Call admins",
		"action_config_create": "Create config session",
		"action_config_show":   "Show config",
		"action_config_change": "Change config",
		"action_reset":         "Reset data",

		"limit_reached":  "Warn limit reached, user banned",
		"already_banned": "User is already banned",
		"not_banned":     "User is not banned",
		"no_warns":       "User has no warnings",
		"not_recorded":   "User has no record",
		"ban_failed":     "Ban failed, check the bot permissions",
		"unban_failed":   "Unban failed, check the bot permissions",
		"warns_cleared":  "Warnings cleared",
		"unbanned":       "Ban lifted",

		"button_undo":   "Undo",
		"button_unban":  "Unban",
		"button_warn":   "Warn",
		"button_ban":    "Ban",
		"button_cancel": "Cancel",
		"button_config": "Open settings",

		"handled_by_other": "Already handled by another admin",
		"not_admin":        "Only group admins can do this",
		"report_cancelled": "Report cancelled",
		"report_expired":   "Report expired",

		"config_updated":      "Updated",
		"config_out_of_range": "Value out of range",
		"config_bad_number":   "Invalid number",
		"config_bad_mention":  "Invalid mention option",
		"config_bad_report":   "Invalid report option",
		"config_bad_type":     "Unknown setting",
		"config_missing":      "Missing option",
		"config_locked":       "Settings are locked",
		"config_bad_format":   "Invalid format",
		"config_unchanged":    "Nothing changed",

		"config_mode":          "Config",
		"config_default":       "Default",
		"config_custom":        "Custom",
		"config_limit":         "Warn limit",
		"config_mention":       "Call admins",
		"config_report_auto":   "Auto report",
		"config_report_manual": "Manual report",
		"config_link_text":     "Config session created, press the button below",
		"enabled":              "Enabled",
		"disabled":             "Disabled",

		"reason_permissions": "Missing permissions",
		"reason_user":        "Owner account missing",
		"reason_leave":       "Not an admin or no longer in the group",
		"leave_auto":         "Left automatically and cleared data",
		"leave_approve":      "Leave approved",

		"cmd_desc_admin":       "Call the admins",
		"cmd_desc_warn":        "Warn a user (reply)",
		"cmd_desc_ban":         "Ban a user (reply)",
		"cmd_desc_forgive":     "Clear a user's record (reply)",
		"cmd_desc_report":      "Report a user (reply)",
		"cmd_desc_warn_config": "Show or change warn settings",
		"cmd_desc_config":      "Create a config session",
	},
}

// GetTranslation returns the correct translation for a given language code and key
func GetTranslation(lang, key string) string {
	// Default to Simplified Chinese if language not supported
	if _, ok := Translations[lang]; !ok {
		lang = LangSimplifiedChinese
	}

	if translation, ok := Translations[lang][key]; ok {
		return translation
	}

	// Fall back to Simplified Chinese if key not found in specified language
	if translation, ok := Translations[LangSimplifiedChinese][key]; ok {
		return translation
	}

	// Return the key itself if translation not found
	return key
}

