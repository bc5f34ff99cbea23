package services

// Broadcaster pushes live round updates to connected clients.
type Broadcaster interface {
	BroadcastGameUpdate(roundID string, step int, multiplier float64)
	BroadcastGameCrash(roundID string, crashPoint float64)
	BroadcastBalance(balance int64)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastGameUpdate(string, int, float64) {}
func (nopBroadcaster) BroadcastGameCrash(string, float64)       {}
func (nopBroadcaster) BroadcastBalance(int64)                   {}
