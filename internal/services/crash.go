package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vela-casino/internal/event"
	"vela-casino/internal/games"
	"vela-casino/internal/models"

	"go.uber.org/zap"
)

// crashRound is one open crash position. The settled flag is the single guard that
// makes the clock tick and the player's cash-out mutually exclusive.
type crashRound struct {
	mu sync.Mutex

	id         string
	bet        int64
	crashPoint float64
	crashStep  int
	step       int
	status     models.CrashStatus
	payout     int64
	startedAt  time.Time
	lastUpdate time.Time
	endedAt    *time.Time

	settled bool
	stop    chan struct{}
}

func (r *crashRound) snapshot() models.CrashSnapshot {
	snap := models.CrashSnapshot{
		ID:         r.id,
		Bet:        r.bet,
		Step:       r.step,
		Multiplier: games.Multiplier(r.step),
		Status:     r.status,
		Payout:     r.payout,
		StartedAt:  r.startedAt,
		EndedAt:    r.endedAt,
	}
	if r.settled {
		snap.CrashPoint = r.crashPoint
	}
	return snap
}

// finish marks the round settled and stops its clock. Callers hold r.mu.
func (r *crashRound) finish(status models.CrashStatus, payout int64) {
	now := time.Now()
	r.settled = true
	r.status = status
	r.payout = payout
	r.endedAt = &now
	r.lastUpdate = now
	close(r.stop)
}

// StartCrash opens a crash position for bet. The crash point is drawn up front and
// kept hidden until the round ends.
func (ge *GameEngine) StartCrash(ctx context.Context, bet int64) (models.CrashSnapshot, error) {
	table, ok := ge.registry.Table(models.GameTypeCrash)
	if !ok {
		return models.CrashSnapshot{}, fmt.Errorf("%w: %s", models.ErrUnknownGame, models.GameTypeCrash)
	}

	if err := ge.begin(models.GameTypeCrash); err != nil {
		return models.CrashSnapshot{}, err
	}
	if err := ge.acceptBet(ctx, table, bet); err != nil {
		ge.transition(models.GameTypeCrash, models.StateIdle)
		return models.CrashSnapshot{}, err
	}

	crashPoint := games.GenerateCrashPoint(ge.rng)
	now := time.Now()
	round := &crashRound{
		id:         models.GenerateRoundID(),
		bet:        bet,
		crashPoint: crashPoint,
		crashStep:  games.CrashStep(crashPoint),
		status:     models.CrashStatusRunning,
		startedAt:  now,
		lastUpdate: now,
		stop:       make(chan struct{}),
	}

	ge.mu.Lock()
	ge.rounds[round.id] = round
	ge.states[models.GameTypeCrash] = models.StateAwaitingOutcome
	ge.mu.Unlock()

	ge.logger.Info("crash round started",
		zap.String("round_id", round.id),
		zap.Int64("bet", bet),
	)
	ge.bus.Publish(event.EventCrashStarted, event.CrashStarted{RoundID: round.id, Bet: bet})

	if ge.tickInterval > 0 {
		go ge.runCrashRound(round)
	}

	round.mu.Lock()
	defer round.mu.Unlock()
	return round.snapshot(), nil
}

func (ge *GameEngine) runCrashRound(round *crashRound) {
	ticker := time.NewTicker(ge.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap, err := ge.Tick(round.id)
			if err != nil || snap.Status != models.CrashStatusRunning {
				return
			}
		case <-round.stop:
			return
		}
	}
}

// Tick advances a round's clock by one step and crashes it once the crash point is reached.
// Ticks on a settled round return ErrRoundSettled and change nothing.
// Clients are notified after the round lock is released.
func (ge *GameEngine) Tick(roundID string) (models.CrashSnapshot, error) {
	round, err := ge.round(roundID)
	if err != nil {
		return models.CrashSnapshot{}, err
	}

	round.mu.Lock()
	if round.settled {
		snap := round.snapshot()
		round.mu.Unlock()
		return snap, models.ErrRoundSettled
	}

	round.step++
	round.lastUpdate = time.Now()

	if round.step >= round.crashStep {
		notify := ge.crashLocked(round)
		snap := round.snapshot()
		round.mu.Unlock()
		notify()
		return snap, nil
	}

	snap := round.snapshot()
	round.mu.Unlock()

	ge.currentBroadcaster().BroadcastGameUpdate(snap.ID, snap.Step, snap.Multiplier)
	return snap, nil
}

// CashOut closes the position at the current multiplier. A round that has already
// crashed, including one that crashed on the step the cash-out was aimed at, stays lost.
func (ge *GameEngine) CashOut(ctx context.Context, roundID string) (models.CrashSnapshot, error) {
	round, err := ge.round(roundID)
	if err != nil {
		return models.CrashSnapshot{}, err
	}

	round.mu.Lock()
	if round.settled {
		snap := round.snapshot()
		round.mu.Unlock()
		return snap, models.ErrRoundSettled
	}

	settlement := (games.Crash{}).Settle(round.bet, round.step, round.crashStep)
	account, entry, err := ge.ledger.SettleRound(context.WithoutCancel(ctx), models.NewHistoryEntry{
		Game:   (games.Crash{}).Name(),
		Bet:    round.bet,
		Result: resultOf(settlement),
		Payout: settlement.Payout,
	})
	if err != nil {
		// The round stays open; the clock may still crash it.
		snap := round.snapshot()
		round.mu.Unlock()
		return snap, fmt.Errorf("failed to process cashout: %w", err)
	}

	status := models.CrashStatusCashedOut
	if !settlement.Won {
		status = models.CrashStatusCrashed
	}
	round.finish(status, settlement.Payout)
	ge.endRound()
	snap := round.snapshot()
	round.mu.Unlock()

	ge.logger.Info("crash round cashed out",
		zap.String("round_id", snap.ID),
		zap.Int("step", snap.Step),
		zap.String("multiplier", models.FormatMultiplier(snap.Multiplier)),
		zap.Int64("payout", settlement.Payout),
	)
	ge.publishSettled(models.GameTypeCrash, entry, settlement, account.Balance)
	return snap, nil
}

// CrashStatus returns the current view of a round.
func (ge *GameEngine) CrashStatus(roundID string) (models.CrashSnapshot, error) {
	round, err := ge.round(roundID)
	if err != nil {
		return models.CrashSnapshot{}, err
	}
	round.mu.Lock()
	defer round.mu.Unlock()
	return round.snapshot(), nil
}

// crashLocked settles the round as lost and records it. Callers hold round.mu and
// must call the returned notify func after releasing it.
func (ge *GameEngine) crashLocked(round *crashRound) (notify func()) {
	round.finish(models.CrashStatusCrashed, 0)
	ge.endRound()

	id, crashPoint, bet := round.id, round.crashPoint, round.bet
	account, entry, err := ge.ledger.SettleRound(context.Background(), models.NewHistoryEntry{
		Game:   (games.Crash{}).Name(),
		Bet:    bet,
		Result: models.ResultLoss,
	})

	return func() {
		ge.currentBroadcaster().BroadcastGameCrash(id, crashPoint)
		if err != nil {
			ge.logger.Error("failed to record crashed round",
				zap.String("round_id", id),
				zap.Error(err),
			)
			return
		}

		ge.logger.Info("crash round crashed",
			zap.String("round_id", id),
			zap.String("crash_point", models.FormatMultiplier(crashPoint)),
			zap.Int64("bet", bet),
		)
		ge.publishSettled(models.GameTypeCrash, entry, models.Settlement{}, account.Balance)
	}
}

func (ge *GameEngine) endRound() {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	ge.states[models.GameTypeCrash] = models.StateIdle
}

func (ge *GameEngine) round(roundID string) (*crashRound, error) {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	round, ok := ge.rounds[roundID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrRoundNotFound, roundID)
	}
	return round, nil
}

func (ge *GameEngine) snapshotRounds() []*crashRound {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	rounds := make([]*crashRound, 0, len(ge.rounds))
	for _, r := range ge.rounds {
		rounds = append(rounds, r)
	}
	return rounds
}

// CleanupStaleRounds crashes open rounds that have not advanced within maxAge and
// forgets settled rounds that ended more than maxAge ago. It returns the number of
// open rounds it crashed.
func (ge *GameEngine) CleanupStaleRounds(maxAge time.Duration) int {
	crashed := 0
	var forget []string

	for _, round := range ge.snapshotRounds() {
		notify := func() {}
		round.mu.Lock()
		switch {
		case !round.settled && time.Since(round.lastUpdate) > maxAge:
			ge.logger.Warn("crashing stale round", zap.String("round_id", round.id))
			notify = ge.crashLocked(round)
			crashed++
		case round.settled && round.endedAt != nil && time.Since(*round.endedAt) > maxAge:
			forget = append(forget, round.id)
		}
		round.mu.Unlock()
		notify()
	}

	if len(forget) > 0 {
		ge.mu.Lock()
		for _, id := range forget {
			delete(ge.rounds, id)
		}
		ge.mu.Unlock()
	}
	return crashed
}

// Close stops every crash clock. Open rounds are settled as crashed so the debited
// stakes are recorded.
func (ge *GameEngine) Close() {
	ge.mu.Lock()
	if ge.closed {
		ge.mu.Unlock()
		return
	}
	ge.closed = true
	ge.mu.Unlock()

	for _, round := range ge.snapshotRounds() {
		notify := func() {}
		round.mu.Lock()
		if !round.settled {
			notify = ge.crashLocked(round)
		}
		round.mu.Unlock()
		notify()
	}
}
