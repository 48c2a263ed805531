package handler

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mymmrac/telego"
)

const mentionPrefix = "tg://user?id="

// ParseCommand returns the lower-case command of text when it starts with one
// of the prefixes, "" otherwise. A command addressed to another bot with
// @name is ignored.
func ParseCommand(text string, prefixes []string, username string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	token := fields[0]

	var command string
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(token, prefix) {
			command = strings.TrimPrefix(token, prefix)
			break
		}
	}
	if command == "" {
		return ""
	}

	if name, target, found := strings.Cut(command, "@"); found {
		if !strings.EqualFold(target, username) {
			return ""
		}
		command = name
	}
	return strings.ToLower(command)
}

// CommandArgs returns the tokens after the command
func CommandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// GetReason returns everything after the command token
func GetReason(text string) string {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}

// MentionedUsers lists the users mentioned by text_mention entities and
// tg://user links, in message order
func MentionedUsers(message *telego.Message) []int64 {
	entities := message.Entities
	if len(entities) == 0 {
		entities = message.CaptionEntities
	}

	var ids []int64
	for _, entity := range entities {
		switch entity.Type {
		case telego.EntityTypeTextMention:
			if entity.User != nil {
				ids = append(ids, entity.User.ID)
			}
		case telego.EntityTypeTextLink:
			if id, ok := strings.CutPrefix(entity.URL, mentionPrefix); ok {
				if uid, err := strconv.ParseInt(id, 10, 64); err == nil {
					ids = append(ids, uid)
				}
			}
		}
	}
	return ids
}

// GetClassDID returns the user targeted by a reply. When the reply is to one
// of the bot's own messages the target is the first mentioned user that is
// not skipped, and the id of that bot message is returned as well.
func GetClassDID(message telego.Message, selfID int64, skip func(uid int64) bool) (int64, int) {
	reply := message.ReplyToMessage
	if reply == nil {
		return 0, 0
	}

	if reply.From != nil && reply.From.ID == selfID {
		for _, uid := range MentionedUsers(reply) {
			if uid == selfID || (skip != nil && skip(uid)) {
				continue
			}
			return uid, reply.MessageID
		}
		return 0, reply.MessageID
	}

	if reply.From == nil || reply.From.IsBot {
		return 0, 0
	}
	return reply.From.ID, 0
}
