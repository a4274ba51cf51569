package inputhistory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexateam/rtype-core/internal/client/inputhistory"
)

func TestPushAssignsMonotonicSeq(t *testing.T) {
	h := inputhistory.New(4)

	a := h.Push(1, 0, false)
	b := h.Push(0, 1, true)
	c := h.Push(-1, 0, false)

	assert.Equal(t, uint32(1), a.Seq)
	assert.Equal(t, uint32(2), b.Seq)
	assert.Equal(t, uint32(3), c.Seq)
}

func TestPushTrimsToMaxSize(t *testing.T) {
	h := inputhistory.New(3)

	for i := 0; i < 5; i++ {
		h.Push(1, 0, false)
	}

	assert.Equal(t, 3, h.Len())
	remaining := h.Remaining()
	assert.Equal(t, uint32(3), remaining[0].Seq)
	assert.Equal(t, uint32(5), remaining[len(remaining)-1].Seq)
}

func TestNewFallsBackToDefaultSizeOnNonPositive(t *testing.T) {
	h := inputhistory.New(0)
	for i := 0; i < inputhistory.DefaultSize+2; i++ {
		h.Push(0, 0, false)
	}
	assert.Equal(t, inputhistory.DefaultSize, h.Len())
}

func TestRecentReturnsOldestFirstWindow(t *testing.T) {
	h := inputhistory.New(10)
	for i := 0; i < 5; i++ {
		h.Push(1, 0, false)
	}

	recent := h.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, uint32(4), recent[0].Seq)
	assert.Equal(t, uint32(5), recent[1].Seq)
}

func TestRecentClampsToAvailableLength(t *testing.T) {
	h := inputhistory.New(10)
	h.Push(1, 0, false)

	recent := h.Recent(50)
	assert.Len(t, recent, 1)
}

func TestDropThroughSeqRemovesAcknowledgedEntries(t *testing.T) {
	h := inputhistory.New(10)
	for i := 0; i < 5; i++ {
		h.Push(1, 0, false)
	}

	h.DropThroughSeq(3)

	remaining := h.Remaining()
	assert.Len(t, remaining, 2)
	assert.Equal(t, uint32(4), remaining[0].Seq)
	assert.Equal(t, uint32(5), remaining[1].Seq)
}

func TestDropThroughSeqIsIdempotentOnDuplicateAck(t *testing.T) {
	h := inputhistory.New(10)
	for i := 0; i < 3; i++ {
		h.Push(1, 0, false)
	}

	h.DropThroughSeq(2)
	h.DropThroughSeq(2)

	assert.Equal(t, 1, h.Len())
}
