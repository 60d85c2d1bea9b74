package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantKind Kind
	}{
		{"validation", Validation("Error: Invalid JSON format."), "Error: Invalid JSON format.", KindValidation},
		{"permission default", Permission("", nil), MsgPermission, KindPermission},
		{"internal custom", Internal(cause, "save theme", "Failed to save theme."), "Failed to save theme.", KindInternal},
		{"internal default", Internal(cause, "save theme", ""), MsgInternal, KindInternal},
		{"wrapped", fmt.Errorf("handler: %w", Validation("bad")), "bad", KindValidation},
		{"unclassified", cause, MsgInternal, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, UserMessage(tt.err))
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause, "save config", "")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save config: disk full", err.Error())
}
