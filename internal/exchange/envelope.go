// Package exchange implements the JSON message convention shared with the
// sibling bots through the exchange channel.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"tg-warn/internal/format"
)

// Sibling bot names used as receivers
const (
	BotBackup = "BACKUP"
	BotConfig = "CONFIG"
	BotManage = "MANAGE"
	BotNoSpam = "NOSPAM"
)

var (
	ErrEmpty     = errors.New("exchange: empty message")
	ErrMalformed = errors.New("exchange: malformed envelope")
)

// Envelope is one exchange message
type Envelope struct {
	From   string          `json:"from"`
	To     []string        `json:"to"`
	Action string          `json:"action"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// AddressedTo reports whether name is one of the receivers
func (e *Envelope) AddressedTo(name string) bool {
	for _, to := range e.To {
		if to == name {
			return true
		}
	}
	return false
}

// Decode unmarshals the data field into v
func (e *Envelope) Decode(v interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: %s/%s has no data", ErrMalformed, e.Action, e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %s/%s data: %v", ErrMalformed, e.Action, e.Type, err)
	}
	return nil
}

// Format renders the envelope as indented JSON inside a code block
func Format(sender string, receivers []string, action, actionType string, data interface{}) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s/%s data: %w", action, actionType, err)
	}

	env := Envelope{
		From:   sender,
		To:     receivers,
		Action: action,
		Type:   actionType,
		Data:   raw,
	}
	body, err := json.MarshalIndent(env, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode envelope: %w", err)
	}
	return format.CodeBlock(string(body)), nil
}

// Parse decodes an envelope from message text. The text may still carry the
// code block wrapper, either as HTML or as markdown fences.
func Parse(text string) (*Envelope, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "<pre>") {
		text = strings.TrimSuffix(strings.TrimPrefix(text, "<pre>"), "</pre>")
		text = html.UnescapeString(text)
	}
	text = strings.TrimSpace(strings.Trim(text, "`"))
	if text == "" {
		return nil, ErrEmpty
	}

	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Action == "" {
		return nil, fmt.Errorf("%w: missing action", ErrMalformed)
	}
	return &env, nil
}
