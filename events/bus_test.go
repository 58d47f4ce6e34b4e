package events_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaylabs/delegation-relay/events"
)

func TestBusFanOut(t *testing.T) {
	bus := events.NewBus(4, nil)

	first, cancelFirst := bus.Subscribe()
	second, cancelSecond := bus.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	evt := events.ProxyCreated{
		Owner: common.BytesToAddress([]byte{1}),
		Proxy: common.BytesToAddress([]byte{2}),
	}
	bus.Emit(evt)

	for _, ch := range []<-chan events.Envelope{first, second} {
		env := <-ch
		assert.Equal(t, "proxy.created", env.Kind)
		assert.Equal(t, evt, env.Event)
		assert.NotZero(t, env.ID)
		assert.False(t, env.EmittedAt.IsZero())
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := events.NewBus(1, nil)
	ch, cancel := bus.Subscribe()
	defer cancel()

	// The second emit overflows the buffer and is dropped, not blocked on.
	bus.Emit(events.ProxyCreated{})
	bus.Emit(events.ProxyCreated{})

	<-ch
	select {
	case <-ch:
		t.Fatal("overflowing event should have been dropped")
	default:
	}
}

func TestBusCancelClosesChannel(t *testing.T) {
	bus := events.NewBus(4, nil)
	ch, cancel := bus.Subscribe()

	cancel()
	_, open := <-ch
	require.False(t, open)

	// Emitting after cancellation must not panic on the closed channel.
	bus.Emit(events.ProxyCreated{})
}
