package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexateam/rtype-core/internal/core/event"
)

type widgetBroken struct{ ID int }

func TestEventIsReadableOnlyAfterSwapBuffers(t *testing.T) {
	b := event.NewBus()
	event.Emit(b, widgetBroken{ID: 1})

	assert.Equal(t, 1, event.Pending[widgetBroken](b), "emitted event queues in the back buffer")

	var seen []int
	event.Subscribe(b, func(ev widgetBroken) { seen = append(seen, ev.ID) })

	b.DispatchAll()
	assert.Empty(t, seen, "nothing is dispatched before the first SwapBuffers")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{1}, seen, "SwapBuffers makes last tick's emissions visible this tick")
}

func TestSwapBuffersClearsNewBackBuffer(t *testing.T) {
	b := event.NewBus()
	event.Emit(b, widgetBroken{ID: 1})
	b.SwapBuffers()
	assert.Equal(t, 0, event.Pending[widgetBroken](b), "the new back buffer starts empty after a swap")
}

func TestDispatchAllCallsEveryHandler(t *testing.T) {
	b := event.NewBus()
	var a, c int
	event.Subscribe(b, func(ev widgetBroken) { a += ev.ID })
	event.Subscribe(b, func(ev widgetBroken) { c += ev.ID * 2 })

	event.Emit(b, widgetBroken{ID: 3})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, 3, a)
	assert.Equal(t, 6, c)
}
