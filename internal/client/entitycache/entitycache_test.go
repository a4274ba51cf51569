package entitycache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hexateam/rtype-core/internal/client/entitycache"
	"github.com/hexateam/rtype-core/internal/protocol"
)

func TestApplyInsertsUnseenEntityAtReportedPosition(t *testing.T) {
	c := entitycache.New()

	c.Apply([]protocol.EntityState{{EntityID: 1, X: 10, Y: 20, TypeTag: "enemy"}}, nil)

	e, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 10.0, e.X())
	assert.Equal(t, 20.0, e.Y())
}

func TestApplyInterpolatesTowardNewTarget(t *testing.T) {
	c := entitycache.New()
	c.Apply([]protocol.EntityState{{EntityID: 1, X: 0, Y: 0}}, nil)
	c.Apply([]protocol.EntityState{{EntityID: 1, X: 100, Y: 0}}, nil)

	e, _ := c.Get(1)
	// Freshly retargeted: t resets to 0, so position starts at the prior
	// interpolated point, not instantly at the new target.
	assert.Equal(t, 0.0, e.X())

	c.Advance(50 * time.Millisecond) // half of the 100ms interpolation window
	assert.InDelta(t, 50.0, e.X(), 1.0)

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 100.0, e.X())
}

func TestApplyRemovesEntitiesAbsentFromSnapshot(t *testing.T) {
	c := entitycache.New()
	c.Apply([]protocol.EntityState{{EntityID: 1}, {EntityID: 2}}, nil)
	c.Apply([]protocol.EntityState{{EntityID: 1}}, nil)

	_, ok := c.Get(2)
	assert.False(t, ok)
	assert.Len(t, c.All(), 1)
}

func TestApplySkipsLocalEntity(t *testing.T) {
	c := entitycache.New()
	skipLocal := func(id uint64) bool { return id == 42 }

	c.Apply([]protocol.EntityState{{EntityID: 42, X: 5, Y: 5}, {EntityID: 7, X: 1, Y: 1}}, skipLocal)

	_, ok := c.Get(42)
	assert.False(t, ok)
	_, ok = c.Get(7)
	assert.True(t, ok)
}

func TestAdvanceNeverOvershootsInterpolationFactor(t *testing.T) {
	c := entitycache.New()
	c.Apply([]protocol.EntityState{{EntityID: 1, X: 0, Y: 0}}, nil)
	c.Apply([]protocol.EntityState{{EntityID: 1, X: 10, Y: 0}}, nil)

	c.Advance(10 * time.Second) // far beyond the interpolation window

	e, _ := c.Get(1)
	assert.Equal(t, 10.0, e.X())
}

func TestRemoveDropsEntity(t *testing.T) {
	c := entitycache.New()
	c.Apply([]protocol.EntityState{{EntityID: 1}}, nil)

	c.Remove(1)

	_, ok := c.Get(1)
	assert.False(t, ok)
}
