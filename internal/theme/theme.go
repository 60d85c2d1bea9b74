// Package theme parses guild colors and applies them to outgoing payloads.
package theme

import (
	"context"
	"strconv"
	"strings"

	"welcomeBot/internal/apperr"
	"welcomeBot/internal/jsonvalue"
	"welcomeBot/internal/store"
)

// MaxColor is the largest RGB value the platform accepts for embeds.
const MaxColor = 0xFFFFFF

const msgInvalidHex = "Invalid hex color format. Use format like #FF5733."

// themedKeys mark a bare payload as an embed the theme should color.
var themedKeys = []string{"title", "description", "fields"}

// ParseHex parses a color such as "#FF5733" or "ff5733".
func ParseHex(s string) (int64, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), "#")
	if len(trimmed) > 2 && (trimmed[:2] == "0x" || trimmed[:2] == "0X") {
		trimmed = trimmed[2:]
	}
	if trimmed == "" {
		return 0, apperr.Validation(msgInvalidHex)
	}
	n, err := strconv.ParseInt(trimmed, 16, 64)
	if err != nil || n < 0 || n > MaxColor {
		return 0, apperr.Validation(msgInvalidHex)
	}
	return n, nil
}

// Apply injects the theme's primary color into every embed of payload that has no
// color of its own. A nil theme or a zero primary leaves payload unchanged.
func Apply(payload jsonvalue.Value, t *store.Theme) jsonvalue.Value {
	if t == nil || t.Primary == 0 || payload.Kind() != jsonvalue.Object {
		return payload
	}
	color := jsonvalue.IntValue(t.Primary)

	setColor := func(embed jsonvalue.Value) jsonvalue.Value {
		if embed.Kind() != jsonvalue.Object || embed.Has("color") {
			return embed
		}
		return embed.Set("color", color)
	}

	if embeds, ok := payload.Get("embeds"); ok {
		if embeds.Kind() != jsonvalue.Array {
			return payload
		}
		items := embeds.Items()
		for i := range items {
			items[i] = setColor(items[i])
		}
		return payload.Set("embeds", jsonvalue.ArrayValue(items...))
	}
	if payload.HasAny(themedKeys...) {
		return setColor(payload)
	}
	return payload
}

// Merger applies the stored theme of a guild. Each call reads the guild's current
// configuration; nothing is cached.
type Merger struct {
	repo *store.Repository
}

func NewMerger(repo *store.Repository) *Merger {
	return &Merger{repo: repo}
}

func (m *Merger) Apply(ctx context.Context, guildID string, payload jsonvalue.Value) (jsonvalue.Value, error) {
	cfg, err := m.repo.Guild(ctx, guildID)
	if err != nil {
		return payload, err
	}
	if cfg == nil {
		return payload, nil
	}
	return Apply(payload, cfg.Theme), nil
}
