package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForbiddenError(t *testing.T) {
	err := NewForbidden("Can only update your own account")

	assert.Equal(t, "Forbidden: Can only update your own account", err.Error())
	assert.True(t, errors.Is(err, ErrorForbidden))
	assert.False(t, errors.Is(err, ErrorUnauthorized))
}

func TestNewUnauthenticated_MatchesBothSentinels(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewUnauthenticated())

	assert.True(t, errors.Is(err, ErrorForbidden))
	assert.True(t, errors.Is(err, ErrorUnauthorized))
}

func TestMessageError_KeepsCause(t *testing.T) {
	err := &MessageError{Message: TemplateLockedMessage, Err: ErrTemplateFieldInUse}

	assert.Equal(t, TemplateLockedMessage, err.Error())
	assert.True(t, errors.Is(err, ErrTemplateFieldInUse))
}

func TestIsTemplateLocked(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"structure locked", ErrTemplateStructureLocked, true},
		{"field in use", fmt.Errorf("db: %w", ErrTemplateFieldInUse), true},
		{"template in use", ErrTemplateInUse, false},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTemplateLocked(tt.err))
		})
	}
}
