package event

import "sync"

type Handler func(payload any)

// Bus is an in-process publish/subscribe hub. Handlers run on their own goroutine,
// so a slow consumer never blocks the publisher.
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) Publish(event string, payload any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if hs, ok := b.handlers[event]; ok {
		for _, h := range hs {
			b.wg.Add(1)
			go func(h Handler) {
				defer b.wg.Done()
				h(payload)
			}(h)
		}
	}
}

// Wait blocks until every handler started so far has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}
