// Package payload turns user-supplied JSON into platform messages.
package payload

import (
	"fmt"

	"welcomeBot/internal/apperr"
	"welcomeBot/internal/jsonvalue"

	"github.com/bwmarrin/discordgo"
)

// MaxEmbeds is the platform's per-message embed limit.
const MaxEmbeds = 10

const (
	MsgInvalidJSON    = "Error: Invalid JSON format."
	MsgNotObject      = "JSON must be an object."
	MsgMissingContent = "JSON must contain 'content' or 'embeds'."
	MsgInvalidWelcome = "Invalid JSON. The welcome message needs 'content', 'embeds' or 'title'."
)

// embedKeys mark a bare payload as a single embed.
var embedKeys = []string{"title", "description", "fields", "color"}

// Message is a payload ready to send.
type Message struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
}

// Empty reports whether there is nothing to send.
func (m *Message) Empty() bool {
	return m.Content == "" && len(m.Embeds) == 0
}

// Send converts the message for the REST API.
func (m *Message) Send() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: m.Content,
		Embeds:  m.Embeds,
	}
}

// Parse decodes raw JSON, mapping syntax errors to a validation error.
func Parse(raw string) (jsonvalue.Value, error) {
	v, err := jsonvalue.Parse([]byte(raw))
	if err != nil {
		return jsonvalue.Value{}, &apperr.Error{
			Kind:        apperr.KindValidation,
			UserMessage: MsgInvalidJSON,
			LogMessage:  "invalid payload JSON",
			Err:         err,
		}
	}
	return v, nil
}

// IsEmbedLike reports whether v is an object carrying embed fields.
func IsEmbedLike(v jsonvalue.Value) bool {
	return v.HasAny(embedKeys...)
}

// Build extracts content and embeds from v. Embeds come from the "embeds" list when
// present, otherwise from v itself if it looks like an embed. At most MaxEmbeds are
// kept.
func Build(v jsonvalue.Value) (*Message, error) {
	if v.Kind() != jsonvalue.Object {
		return nil, apperr.Validation(MsgNotObject)
	}

	msg := &Message{}
	if content, ok := v.Get("content"); ok && !content.IsNull() {
		s, ok := content.Str()
		if !ok {
			return nil, apperr.Validation("'content' must be a string.")
		}
		msg.Content = s
	}

	if embeds, ok := v.Get("embeds"); ok {
		if embeds.IsNull() {
			return trim(msg), nil
		}
		if embeds.Kind() != jsonvalue.Array {
			return nil, apperr.Validation("'embeds' must be a list of embed objects.")
		}
		for i, item := range embeds.Items() {
			embed, err := decodeEmbed(item)
			if err != nil {
				return nil, parseError(fmt.Errorf("embed %d: %w", i+1, err))
			}
			msg.Embeds = append(msg.Embeds, embed)
		}
	} else if IsEmbedLike(v) {
		embed, err := decodeEmbed(v)
		if err != nil {
			return nil, parseError(err)
		}
		msg.Embeds = append(msg.Embeds, embed)
	}

	return trim(msg), nil
}

func trim(msg *Message) *Message {
	if len(msg.Embeds) > MaxEmbeds {
		msg.Embeds = msg.Embeds[:MaxEmbeds]
	}
	return msg
}

func decodeEmbed(v jsonvalue.Value) (*discordgo.MessageEmbed, error) {
	if v.Kind() != jsonvalue.Object {
		return nil, fmt.Errorf("expected an object, got %s", v.Kind())
	}
	var embed discordgo.MessageEmbed
	if err := v.Decode(&embed); err != nil {
		return nil, err
	}
	return &embed, nil
}

func parseError(err error) error {
	return &apperr.Error{
		Kind:        apperr.KindValidation,
		UserMessage: fmt.Sprintf("Error parsing data: %v", err),
		LogMessage:  "invalid embed payload",
		Err:         err,
	}
}

// ValidateWelcome checks that a welcome template has something to show.
func ValidateWelcome(v jsonvalue.Value) error {
	if v.Kind() != jsonvalue.Object {
		return apperr.Validation(MsgNotObject)
	}
	for _, key := range []string{"content", "embeds", "title"} {
		if field, ok := v.Get(key); ok && field.Truthy() {
			return nil
		}
	}
	return apperr.Validation(MsgInvalidWelcome)
}
