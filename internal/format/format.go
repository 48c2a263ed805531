// Package format builds the HTML fragments and callback payloads used in
// bot messages.
package format

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
)

const zeroWidthSpace = "\u200b"

// Bold wraps text in <b>, empty text stays empty
func Bold(text interface{}) string {
	s := fmt.Sprint(text)
	if s == "" {
		return ""
	}
	return "<b>" + html.EscapeString(s) + "</b>"
}

// Code wraps text in <code>, empty text stays empty
func Code(text interface{}) string {
	s := fmt.Sprint(text)
	if s == "" {
		return ""
	}
	return "<code>" + html.EscapeString(s) + "</code>"
}

// CodeBlock wraps text in <pre>, empty text stays empty
func CodeBlock(text interface{}) string {
	s := fmt.Sprint(text)
	if s == "" {
		return ""
	}
	return "<pre>" + html.EscapeString(s) + "</pre>"
}

// GeneralLink renders an anchor, text is escaped
func GeneralLink(text interface{}, link string) string {
	return fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(link), html.EscapeString(fmt.Sprint(text)))
}

// UserMention links the numeric id to the user profile
func UserMention(uid int64) string {
	return GeneralLink(uid, fmt.Sprintf("tg://user?id=%d", uid))
}

// HiddenMention notifies a user without visible text
func HiddenMention(uid int64) string {
	return fmt.Sprintf("<a href=\"tg://user?id=%d\">%s</a>", uid, zeroWidthSpace)
}

// MessageLink links a message of a private supergroup
func MessageLink(cid int64, mid int) string {
	return GeneralLink(mid, fmt.Sprintf("https://t.me/c/%s/%d", ChannelLinkID(cid), mid))
}

// ChannelLinkID strips the -100 prefix of a supergroup id
func ChannelLinkID(cid int64) string {
	s := strconv.FormatInt(cid, 10)
	return strings.TrimPrefix(s, "-100")
}

// ButtonPayload is the compact callback data of inline buttons
type ButtonPayload struct {
	Action string          `json:"a"`
	Type   string          `json:"t"`
	Data   json.RawMessage `json:"d"`
}

// ButtonData encodes a callback payload without whitespace
func ButtonData(action, actionType string, data interface{}) string {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("null")
	}

	payload, _ := json.Marshal(ButtonPayload{Action: action, Type: actionType, Data: raw})
	return string(payload)
}

// ParseButtonData decodes callback data produced by ButtonData
func ParseButtonData(data string) (*ButtonPayload, error) {
	var payload ButtonPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("invalid button data %q: %w", data, err)
	}
	if payload.Action == "" {
		return nil, fmt.Errorf("button data %q has no action", data)
	}
	return &payload, nil
}

// Int64 decodes the payload data as an integer id
func (p *ButtonPayload) Int64() (int64, error) {
	var id int64
	if err := json.Unmarshal(p.Data, &id); err != nil {
		return 0, fmt.Errorf("button data is not an id: %w", err)
	}
	return id, nil
}
