package event_test

import (
	"sync/atomic"
	"testing"

	"vela-casino/internal/event"
)

func TestBus(t *testing.T) {
	bus := event.NewBus()

	var calls atomic.Int32
	var got atomic.Value
	bus.Subscribe(event.EventRoundSettled, func(payload any) {
		calls.Add(1)
		got.Store(payload)
	})
	bus.Subscribe(event.EventRoundSettled, func(any) {
		calls.Add(1)
	})

	bus.Publish(event.EventRoundSettled, event.RoundSettled{Balance: 42})
	bus.Publish(event.EventSoundCue, event.SoundCue{Cue: event.CueWin})
	bus.Wait()

	if calls.Load() != 2 {
		t.Errorf("Expected 2 handler calls, got %d", calls.Load())
	}
	payload, ok := got.Load().(event.RoundSettled)
	if !ok || payload.Balance != 42 {
		t.Errorf("Unexpected payload: %#v", got.Load())
	}
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := event.NewBus()
	bus.Publish("nobody.listens", nil)
	bus.Wait()
}
