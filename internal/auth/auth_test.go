package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexateam/rtype-core/internal/auth"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	p := auth.NewInMemoryProvider()
	require.NoError(t, p.Register("alice", "hunter2"))

	ok, err := p.Authenticate("alice", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthenticateWrongPasswordFails(t *testing.T) {
	p := auth.NewInMemoryProvider()
	require.NoError(t, p.Register("alice", "hunter2"))

	ok, err := p.Authenticate("alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticateUnknownUserFailsWithoutError(t *testing.T) {
	p := auth.NewInMemoryProvider()
	ok, err := p.Authenticate("nobody", "whatever")
	require.NoError(t, err)
	assert.False(t, ok, "missing user must not be distinguishable from wrong password")
}

func TestRegisterDuplicateUsernameFails(t *testing.T) {
	p := auth.NewInMemoryProvider()
	require.NoError(t, p.Register("alice", "hunter2"))
	err := p.Register("alice", "different")
	assert.Error(t, err)
}
