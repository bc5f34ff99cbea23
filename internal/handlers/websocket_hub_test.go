package handlers

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWebSocketHub_DropsSlowClient(t *testing.T) {
	hub := NewWebSocketHub(zap.NewNop())

	slow := &Client{SessionID: "slow", send: make(chan *Message, 1)}
	fast := &Client{SessionID: "fast", send: make(chan *Message, 8)}
	hub.register(slow)
	hub.register(fast)

	done := make(chan struct{})
	go func() {
		hub.BroadcastGameUpdate("crash_1", 1, 1.01)
		hub.BroadcastGameUpdate("crash_1", 2, 1.02)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a client that is not reading")
	}

	if n := hub.ClientCount(); n != 1 {
		t.Fatalf("Expected the slow client to be dropped, %d clients remain", n)
	}
	if len(fast.send) != 2 {
		t.Errorf("Fast client should have both updates queued, got %d", len(fast.send))
	}

	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("Dropped client's queue should be closed")
	}

	// Messages to a dropped client are discarded.
	hub.sendTo(slow, &Message{Type: MessagePong})
	hub.unregister(slow)
}
