package games

import (
	"sync"

	"vela-casino/internal/models"
)

// Registry holds the tables the casino offers, in display order.
type Registry struct {
	mu     sync.RWMutex
	order  []models.GameType
	tables map[models.GameType]Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[models.GameType]Table)}
}

// DefaultRegistry returns the four house games.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Roulette{})
	r.Register(Slots{})
	r.Register(Dice{})
	r.Register(Crash{})
	return r
}

func (r *Registry) Register(t Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[t.Type()]; !ok {
		r.order = append(r.order, t.Type())
	}
	r.tables[t.Type()] = t
}

func (r *Registry) Table(gameType models.GameType) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[gameType]
	return t, ok
}

func (r *Registry) Instant(gameType models.GameType) (InstantGame, bool) {
	t, ok := r.Table(gameType)
	if !ok {
		return nil, false
	}
	g, ok := t.(InstantGame)
	return g, ok
}

func (r *Registry) List() []models.GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.GameInfo, 0, len(r.order))
	for _, gt := range r.order {
		t := r.tables[gt]
		l := t.Limits()
		out = append(out, models.GameInfo{Type: gt, Name: t.Name(), MinBet: l.Min, MaxBet: l.Max})
	}
	return out
}
