// Package placeholder substitutes member tokens into message payloads.
package placeholder

import (
	"strings"

	"welcomeBot/internal/jsonvalue"
)

const (
	TokenMention  = "{user}"
	TokenUsername = "{username}"
)

// Member is the part of a guild member a template can refer to.
type Member struct {
	Mention  string // e.g. <@1234>
	Username string
}

// Expand returns v with {user} and {username} replaced in every string leaf.
func Expand(v jsonvalue.Value, m Member) jsonvalue.Value {
	r := strings.NewReplacer(TokenMention, m.Mention, TokenUsername, m.Username)
	return jsonvalue.MapStrings(v, r.Replace)
}
