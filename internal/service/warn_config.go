package service

import (
	"strconv"
	"strings"

	"tg-warn/internal/format"
	"tg-warn/internal/models"
)

// ConfigChange is the outcome of a warn_config command
type ConfigChange struct {
	Config  models.GroupConfig
	Success bool
	// Reason is the translation key of the status line
	Reason string
	Show   bool
}

// ApplyWarnConfig applies the warn_config arguments to the current config.
// args are the command arguments without the command itself.
func ApplyWarnConfig(current, defaults models.GroupConfig, args []string, now int64) ConfigChange {
	fail := func(reason string) ConfigChange {
		return ConfigChange{Config: current, Reason: reason}
	}

	if len(args) == 0 {
		return fail("config_bad_format")
	}
	if current.IsLocked(now) {
		return fail("config_locked")
	}

	next := current
	switch args[0] {
	case "show":
		return ConfigChange{Config: current, Success: true, Reason: "config_updated", Show: true}
	case "default":
		if !current.Default {
			next = defaults
			next.Default = true
			next.Locked = current.Locked
		}
		return ConfigChange{Config: next, Success: true, Reason: "config_updated"}
	}

	option := strings.TrimSpace(strings.Join(args[1:], " "))
	if option == "" {
		return fail("config_missing")
	}

	switch args[0] {
	case "limit":
		limit, err := strconv.Atoi(option)
		if err != nil {
			return fail("config_bad_number")
		}
		if !models.ValidLimit(limit) {
			return fail("config_out_of_range")
		}
		next.Limit = limit
	case "mention":
		switch option {
		case "on":
			next.Mention = true
		case "off":
			next.Mention = false
		default:
			return fail("config_bad_mention")
		}
	case "report":
		switch option {
		case "off":
			next.Report = models.ReportConfig{}
		case "auto":
			next.Report = models.ReportConfig{Auto: true}
		case "manual":
			next.Report = models.ReportConfig{Manual: true}
		case "both":
			next.Report = models.ReportConfig{Auto: true, Manual: true}
		default:
			return fail("config_bad_report")
		}
	default:
		return fail("config_bad_type")
	}

	next.Default = false
	return ConfigChange{Config: next, Success: true, Reason: "config_updated"}
}

// ConfigText renders the settings of a group for warn_config show
func ConfigText(lang string, aid int64, c models.GroupConfig) string {
	t := func(key string) string { return models.GetTranslation(lang, key) }
	onOff := func(v bool) string {
		if v {
			return t("enabled")
		}
		return t("disabled")
	}
	mode := t("config_custom")
	if c.Default {
		mode = t("config_default")
	}

	return Line(lang, "admin_group", format.UserMention(aid)) +
		Line(lang, "action", format.Code(t("action_config_show"))) +
		Line(lang, "config_mode", format.Code(mode)) +
		Line(lang, "config_limit", format.Code(c.Limit)) +
		Line(lang, "config_mention", format.Code(onOff(c.Mention))) +
		Line(lang, "config_report_auto", format.Code(onOff(c.Report.Auto))) +
		Line(lang, "config_report_manual", format.Code(onOff(c.Report.Manual)))
}

// ConfigChangeText renders the status of a warn_config change
func ConfigChangeText(lang string, aid int64, change ConfigChange) string {
	return Line(lang, "admin_group", format.UserMention(aid)) +
		Line(lang, "action", format.Code(models.GetTranslation(lang, "action_config_change"))) +
		Line(lang, "status", format.Code(models.GetTranslation(lang, change.Reason)))
}
