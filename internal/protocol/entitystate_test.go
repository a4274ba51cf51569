package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexateam/rtype-core/internal/protocol"
)

func TestEntityStateRoundTripsWithHealth(t *testing.T) {
	original := protocol.EntityState{
		EntityID:              7,
		TypeTag:               "enemy_basic",
		X:                     12.5,
		Y:                     -3.25,
		HasHealth:             true,
		Health:                42,
		AnimationTag:          "walk",
		SpriteX:               1,
		SpriteY:               2,
		SpriteW:               32,
		SpriteH:               32,
		LastProcessedInputSeq: 99,
	}

	w := protocol.NewWriter()
	original.Encode(w)

	decoded, err := protocol.DecodeEntityState(protocol.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEntityStateRoundTripsWithoutHealth(t *testing.T) {
	original := protocol.EntityState{
		EntityID: 3,
		TypeTag:  "projectile",
		X:        1,
		Y:        1,
		// HasHealth left false: Health field must not be read back.
		Health: 0,
	}

	w := protocol.NewWriter()
	original.Encode(w)

	decoded, err := protocol.DecodeEntityState(protocol.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.False(t, decoded.HasHealth)
	assert.Equal(t, int32(0), decoded.Health)
}

func TestInputSnapshotRoundTripsNegativeAxes(t *testing.T) {
	original := protocol.InputSnapshot{Seq: 5, DX: -1, DY: 1, Shoot: true}

	w := protocol.NewWriter()
	original.Encode(w)

	decoded, err := protocol.DecodeInputSnapshot(protocol.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestInputSnapshotRoundTripsZeroAxes(t *testing.T) {
	original := protocol.InputSnapshot{Seq: 1, DX: 0, DY: 0, Shoot: false}

	w := protocol.NewWriter()
	original.Encode(w)

	decoded, err := protocol.DecodeInputSnapshot(protocol.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeEntityStateErrorsOnTruncatedBuffer(t *testing.T) {
	w := protocol.NewWriter()
	protocol.EntityState{EntityID: 1, TypeTag: "x"}.Encode(w)
	truncated := w.Bytes()[:len(w.Bytes())-2]

	_, err := protocol.DecodeEntityState(protocol.NewReader(truncated))
	assert.Error(t, err)
}
