package theme

import (
	"context"
	"testing"

	"welcomeBot/internal/apperr"
	"welcomeBot/internal/jsonvalue"
	"welcomeBot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func render(t *testing.T, v jsonvalue.Value) string {
	t.Helper()
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	return string(out)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"#FF5733", 0xFF5733, false},
		{"FF5733", 0xFF5733, false},
		{"ff5733", 0xFF5733, false},
		{"#0000ff", 255, false},
		{"0xFF", 255, false},
		{" #00FF00 ", 65280, false},
		{"#000000", 0, false},
		{"#FFFFFF", MaxColor, false},
		{"", 0, true},
		{"#", 0, true},
		{"#GGGGGG", 0, true},
		{"red", 0, true},
		{"#1000000", 0, true},
		{"-FF", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				assert.Equal(t, msgInvalidHex, apperr.UserMessage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	blue := &store.Theme{Primary: 255}

	tests := []struct {
		name    string
		theme   *store.Theme
		payload string
		want    string
	}{
		{"embed list gets color", blue, `{"embeds":[{"title":"x"}]}`, `{"embeds":[{"title":"x","color":255}]}`},
		{"explicit color kept", blue, `{"embeds":[{"title":"x","color":10}]}`, `{"embeds":[{"title":"x","color":10}]}`},
		{"mixed list", blue, `{"embeds":[{"title":"a"},{"title":"b","color":10}]}`,
			`{"embeds":[{"title":"a","color":255},{"title":"b","color":10}]}`},
		{"bare embed", blue, `{"title":"x"}`, `{"title":"x","color":255}`},
		{"bare description", blue, `{"description":"d"}`, `{"description":"d","color":255}`},
		{"content only untouched", blue, `{"content":"hi"}`, `{"content":"hi"}`},
		{"no theme", nil, `{"embeds":[{"title":"x"}]}`, `{"embeds":[{"title":"x"}]}`},
		{"zero primary", &store.Theme{Primary: 0}, `{"title":"x"}`, `{"title":"x"}`},
		{"secondary never applied", &store.Theme{Secondary: func() *int64 { v := int64(9); return &v }()},
			`{"title":"x"}`, `{"title":"x"}`},
		{"non-object embeds untouched", blue, `{"embeds":["x",{"title":"y"}]}`, `{"embeds":["x",{"title":"y","color":255}]}`},
		{"embeds not a list", blue, `{"embeds":"nope","title":"x"}`, `{"embeds":"nope","title":"x"}`},
		{"array payload", blue, `[{"title":"x"}]`, `[{"title":"x"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(mustParse(t, tt.payload), tt.theme)
			assert.Equal(t, tt.want, render(t, got))
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	payload := mustParse(t, `{"embeds":[{"title":"x"}]}`)
	Apply(payload, &store.Theme{Primary: 255})
	assert.Equal(t, `{"embeds":[{"title":"x"}]}`, render(t, payload))
}

func TestMergerReadsStoreEachCall(t *testing.T) {
	ms := store.NewMemoryStore(nil)
	repo := store.NewRepository(ms)
	merger := NewMerger(repo)
	ctx := context.Background()
	payload := mustParse(t, `{"title":"x"}`)

	got, err := merger.Apply(ctx, "1", payload)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, render(t, got))

	require.NoError(t, ms.Save(ctx, store.Guilds{"1": {Theme: &store.Theme{Primary: 255}}}))

	got, err = merger.Apply(ctx, "1", payload)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x","color":255}`, render(t, got))
}
