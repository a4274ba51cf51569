package gamerules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexateam/rtype-core/internal/client/gamerules"
	"github.com/hexateam/rtype-core/internal/protocol"
)

func TestNewSeedsDocumentedDefaults(t *testing.T) {
	r := gamerules.New()

	speed, ok := r.Get(protocol.GamerulePlayerSpeed)
	assert.True(t, ok)
	assert.Equal(t, 200.0, speed)
	assert.Equal(t, 200.0, r.PlayerSpeed())
}

func TestApplyUpdatesKnownKey(t *testing.T) {
	r := gamerules.New()

	r.Apply([]protocol.GameruleEntry{{Key: protocol.GamerulePlayerSpeed, Value: 250.0}})

	assert.Equal(t, 250.0, r.PlayerSpeed())
}

func TestApplyIgnoresUnknownKey(t *testing.T) {
	r := gamerules.New()

	r.Apply([]protocol.GameruleEntry{{Key: protocol.GameruleUnknown, Value: 9999}})

	_, ok := r.Get(protocol.GameruleUnknown)
	assert.False(t, ok)
}

func TestGetReportsFalseForNeverSetKey(t *testing.T) {
	r := gamerules.New()

	_, ok := r.Get(protocol.GameruleKey(255))
	assert.False(t, ok)
}
