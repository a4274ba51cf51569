package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsPortOnly(t *testing.T) {
	port, maxClients, err := parseArgs([]string{"4242"})

	require.NoError(t, err)
	assert.Equal(t, 4242, port)
	assert.Equal(t, 0, maxClients)
}

func TestParseArgsPortAndMaxClients(t *testing.T) {
	port, maxClients, err := parseArgs([]string{"4242", "16"})

	require.NoError(t, err)
	assert.Equal(t, 4242, port)
	assert.Equal(t, 16, maxClients)
}

func TestParseArgsMissingPortErrors(t *testing.T) {
	_, _, err := parseArgs(nil)

	assert.Error(t, err)
}

func TestParseArgsNonNumericPortErrors(t *testing.T) {
	_, _, err := parseArgs([]string{"not-a-port"})

	assert.Error(t, err)
}

func TestParseArgsNonNumericMaxClientsErrors(t *testing.T) {
	_, _, err := parseArgs([]string{"4242", "lots"})

	assert.Error(t, err)
}
