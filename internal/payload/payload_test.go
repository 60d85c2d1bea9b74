package payload

import (
	"fmt"
	"strings"
	"testing"

	"welcomeBot/internal/apperr"
	"welcomeBot/internal/jsonvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := Parse(s)
	require.NoError(t, err)
	return v
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse("{not json")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, MsgInvalidJSON, apperr.UserMessage(err))
}

func TestBuild(t *testing.T) {
	t.Run("content and embeds", func(t *testing.T) {
		msg, err := Build(mustParse(t, `{"content": "hi", "embeds": [{"title": "x", "color": 255}]}`))
		require.NoError(t, err)
		assert.Equal(t, "hi", msg.Content)
		require.Len(t, msg.Embeds, 1)
		assert.Equal(t, "x", msg.Embeds[0].Title)
		assert.Equal(t, 255, msg.Embeds[0].Color)
	})

	t.Run("bare embed", func(t *testing.T) {
		msg, err := Build(mustParse(t, `{"title": "x", "description": "d", "fields": [{"name": "n", "value": "v", "inline": true}]}`))
		require.NoError(t, err)
		assert.Empty(t, msg.Content)
		require.Len(t, msg.Embeds, 1)
		assert.Equal(t, "d", msg.Embeds[0].Description)
		require.Len(t, msg.Embeds[0].Fields, 1)
		assert.True(t, msg.Embeds[0].Fields[0].Inline)
	})

	t.Run("bare color only", func(t *testing.T) {
		msg, err := Build(mustParse(t, `{"color": 10}`))
		require.NoError(t, err)
		require.Len(t, msg.Embeds, 1)
		assert.Equal(t, 10, msg.Embeds[0].Color)
	})

	t.Run("content only", func(t *testing.T) {
		msg, err := Build(mustParse(t, `{"content": "hello"}`))
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Content)
		assert.Empty(t, msg.Embeds)
		assert.False(t, msg.Empty())
	})

	t.Run("nothing to send", func(t *testing.T) {
		msg, err := Build(mustParse(t, `{"foo": "bar"}`))
		require.NoError(t, err)
		assert.True(t, msg.Empty())
	})

	t.Run("embeds capped", func(t *testing.T) {
		items := make([]string, 12)
		for i := range items {
			items[i] = fmt.Sprintf(`{"title": "%d"}`, i)
		}
		msg, err := Build(mustParse(t, `{"embeds": [`+strings.Join(items, ",")+`]}`))
		require.NoError(t, err)
		require.Len(t, msg.Embeds, MaxEmbeds)
		assert.Equal(t, "9", msg.Embeds[9].Title)
	})

	t.Run("send conversion", func(t *testing.T) {
		msg, err := Build(mustParse(t, `{"content": "c", "embeds": [{"title": "x"}]}`))
		require.NoError(t, err)
		send := msg.Send()
		assert.Equal(t, "c", send.Content)
		assert.Len(t, send.Embeds, 1)
	})
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"array payload", `[{"title": "x"}]`, MsgNotObject},
		{"string payload", `"hi"`, MsgNotObject},
		{"content not string", `{"content": 5}`, "'content' must be a string."},
		{"embeds not list", `{"embeds": {"title": "x"}}`, "'embeds' must be a list of embed objects."},
		{"embed not object", `{"embeds": ["x"]}`, "Error parsing data: embed 1: expected an object, got string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(mustParse(t, tt.input))
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.wantMsg, apperr.UserMessage(err))
		})
	}

	t.Run("bad field type", func(t *testing.T) {
		_, err := Build(mustParse(t, `{"title": "x", "color": "red"}`))
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.True(t, strings.HasPrefix(apperr.UserMessage(err), "Error parsing data: "))
	})
}

func TestValidateWelcome(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{`{"content": "hi {user}"}`, false},
		{`{"embeds": [{"title": "x"}]}`, false},
		{`{"title": "Welcome"}`, false},
		{`{"description": "only a description"}`, true},
		{`{"content": ""}`, true},
		{`{"embeds": []}`, true},
		{`{}`, true},
		{`[]`, true},
	}

	for _, tt := range tests {
		err := ValidateWelcome(mustParse(t, tt.input))
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), tt.input)
		} else {
			assert.NoError(t, err, tt.input)
		}
	}
}
