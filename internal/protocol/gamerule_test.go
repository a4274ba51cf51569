package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexateam/rtype-core/internal/protocol"
)

func TestParseGameruleKeyKnownName(t *testing.T) {
	assert.Equal(t, protocol.GamerulePlayerSpeed, protocol.ParseGameruleKey("player.speed"))
}

func TestParseGameruleKeyUnknownNameIsNotAnError(t *testing.T) {
	assert.Equal(t, protocol.GameruleUnknown, protocol.ParseGameruleKey("not.a.real.key"))
}

func TestGameruleKeyStringRoundTripsThroughParse(t *testing.T) {
	for _, k := range []protocol.GameruleKey{
		protocol.GamerulePlayerSpeed,
		protocol.GamerulePlayerHealth,
		protocol.GamerulePlayerFireRate,
		protocol.GamerulePlayerDamage,
		protocol.GamerulePlayerSpawnX,
		protocol.GamerulePlayerSpawnY,
	} {
		assert.Equal(t, k, protocol.ParseGameruleKey(k.String()))
	}
}

func TestGameruleUnknownStringIsEmpty(t *testing.T) {
	assert.Equal(t, "", protocol.GameruleUnknown.String())
}
