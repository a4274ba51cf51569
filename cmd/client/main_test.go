package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsHostAndPort(t *testing.T) {
	host, port, err := parseArgs([]string{"localhost", "4242"})

	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 4242, port)
}

func TestParseArgsMissingPortErrors(t *testing.T) {
	_, _, err := parseArgs([]string{"localhost"})

	assert.Error(t, err)
}

func TestParseArgsMissingAllArgsErrors(t *testing.T) {
	_, _, err := parseArgs(nil)

	assert.Error(t, err)
}

func TestParseArgsNonNumericPortErrors(t *testing.T) {
	_, _, err := parseArgs([]string{"localhost", "not-a-port"})

	assert.Error(t, err)
}

func TestNoopInputReportsNoMovement(t *testing.T) {
	dx, dy, shoot := noopInput{}.Sample()

	assert.Equal(t, int8(0), dx)
	assert.Equal(t, int8(0), dy)
	assert.False(t, shoot)
}
