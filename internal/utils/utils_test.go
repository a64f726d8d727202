package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomId(t *testing.T) {
	id, err := GenerateRandomId()
	require.NoError(t, err)
	assert.Len(t, id, 20)

	short, err := GenerateRandomId(6)
	require.NoError(t, err)
	assert.Len(t, short, 6)
	assert.NotEqual(t, id[:6], short)
}

func TestNewInviteCode(t *testing.T) {
	a, b := NewInviteCode(), NewInviteCode()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestEmailValid(t *testing.T) {
	assert.True(t, EmailValid("jane@example.com"))
	assert.False(t, EmailValid("Jane <jane@example.com>"))
	assert.False(t, EmailValid("jane"))
}
