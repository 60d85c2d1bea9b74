package store

import (
	"bytes"
	"encoding/json"

	"welcomeBot/internal/jsonvalue"
)

// MarshalJSON writes the welcome keys as a group (nullable) and the theme after
// them. A guild that has only run /theme carries nothing but its theme.
func (g GuildConfig) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	first := true
	field := func(key string, val interface{}) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`"` + key + `":`)
		if err := enc.Encode(val); err != nil {
			return err
		}
		buf.Truncate(buf.Len() - 1)
		return nil
	}

	if g.welcomeConfigured() {
		var data interface{}
		if g.EmbedData != nil {
			data = *g.EmbedData
		}
		if err := field("channel_id", g.ChannelID); err != nil {
			return nil, err
		}
		if err := field("embed_data", data); err != nil {
			return nil, err
		}
		if err := field("role_id", g.RoleID); err != nil {
			return nil, err
		}
	}
	if g.Theme != nil {
		if err := field("theme", g.Theme); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *GuildConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		ChannelID *int64           `json:"channel_id"`
		EmbedData *jsonvalue.Value `json:"embed_data"`
		RoleID    *int64           `json:"role_id"`
		Theme     *Theme           `json:"theme"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = GuildConfig{
		ChannelID: raw.ChannelID,
		EmbedData: raw.EmbedData,
		RoleID:    raw.RoleID,
		Theme:     raw.Theme,
	}
	return nil
}

// encodeEmbedData serializes a payload for the SQL backings.
func encodeEmbedData(v *jsonvalue.Value) (*string, error) {
	if v == nil {
		return nil, nil
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func decodeEmbedData(s *string) (*jsonvalue.Value, error) {
	if s == nil {
		return nil, nil
	}
	v, err := jsonvalue.Parse([]byte(*s))
	if err != nil {
		return nil, err
	}
	return &v, nil
}
