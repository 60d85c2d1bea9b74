package placeholder

import (
	"testing"

	"welcomeBot/internal/jsonvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var member = Member{Mention: "<@99>", Username: "ferris"}

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare string", `"hi {user}"`, `"hi <@99>"`},
		{"both tokens", `"{user} aka {username}"`, `"<@99> aka ferris"`},
		{"repeated token", `"{user}{user}"`, `"<@99><@99>"`},
		{"nested", `{"content": "hi {user}", "embeds": [{"title": "Welcome {username}", "color": 5}]}`,
			`{"content":"hi <@99>","embeds":[{"title":"Welcome ferris","color":5}]}`},
		{"keys untouched", `{"{user}": "{user}"}`, `{"{user}":"<@99>"}`},
		{"scalars pass through", `[1, true, null, 2.5]`, `[1,true,null,2.5]`},
		{"unknown token left alone", `"{mention}"`, `"{mention}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Expand(mustParse(t, tt.input), member).MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

// shape blanks every string leaf so only structure, keys and non-string
// scalars remain.
func shape(t *testing.T, v jsonvalue.Value) string {
	t.Helper()
	out, err := jsonvalue.MapStrings(v, func(string) string { return "" }).MarshalJSON()
	require.NoError(t, err)
	return string(out)
}

func render(t *testing.T, v jsonvalue.Value) string {
	t.Helper()
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	return string(out)
}

func TestExpandPreservesShape(t *testing.T) {
	input := mustParse(t, `{"a": ["{user}", {"b": "{username}"}], "c": 3, "d": {}, "e": [null, false]}`)
	out := Expand(input, member)

	assert.Equal(t, shape(t, input), shape(t, out))
	assert.Equal(t, `{"a":["",{"b":""}],"c":3,"d":{},"e":[null,false]}`, shape(t, out))
}

func TestExpandIsIdempotent(t *testing.T) {
	input := mustParse(t, `{"content": "hi {user}", "embeds": [{"description": "{username}"}]}`)

	once := Expand(input, member)
	twice := Expand(once, member)

	assert.Equal(t, render(t, once), render(t, twice))
}
