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

type EngineOptions struct {
	// TickInterval is the crash clock period. Zero disables the clock; rounds then
	// only advance through Tick.
	TickInterval time.Duration
	// RevealDelay is the pause between accepting a bet and drawing its outcome.
	RevealDelay time.Duration
	Source      games.Source
	Registry    *games.Registry
	Bus         *event.Bus
	Broadcaster Broadcaster
	Logger      *zap.Logger
}

// GameEngine runs game sessions: validate, debit, draw, settle, record.
// Each game has its own session state and accepts one bet at a time.
type GameEngine struct {
	ledger      *LedgerStore
	registry    *games.Registry
	rng         games.Source
	bus         *event.Bus
	broadcaster Broadcaster
	logger      *zap.Logger

	tickInterval time.Duration
	revealDelay  time.Duration

	mu     sync.Mutex
	states map[models.GameType]models.SessionState
	rounds map[string]*crashRound
	closed bool
}

func NewGameEngine(ledger *LedgerStore, opts EngineOptions) *GameEngine {
	ge := &GameEngine{
		ledger:       ledger,
		registry:     opts.Registry,
		rng:          opts.Source,
		bus:          opts.Bus,
		broadcaster:  opts.Broadcaster,
		logger:       opts.Logger,
		tickInterval: opts.TickInterval,
		revealDelay:  opts.RevealDelay,
		states:       make(map[models.GameType]models.SessionState),
		rounds:       make(map[string]*crashRound),
	}
	if ge.registry == nil {
		ge.registry = games.DefaultRegistry()
	}
	if ge.rng == nil {
		ge.rng = games.NewSource(0)
	}
	if ge.bus == nil {
		ge.bus = event.NewBus()
	}
	if ge.broadcaster == nil {
		ge.broadcaster = nopBroadcaster{}
	}
	if ge.logger == nil {
		ge.logger = zap.NewNop()
	}
	return ge
}

func (ge *GameEngine) SetBroadcaster(b Broadcaster) {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	ge.broadcaster = b
}

func (ge *GameEngine) Games() []models.GameInfo {
	return ge.registry.List()
}

// State reports the session state of a game.
func (ge *GameEngine) State(gameType models.GameType) models.SessionState {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return ge.stateLocked(gameType)
}

func (ge *GameEngine) stateLocked(gameType models.GameType) models.SessionState {
	if s, ok := ge.states[gameType]; ok {
		return s
	}
	return models.StateIdle
}

// DiceMultiplier previews the dice payout multiplier before a roll.
func (ge *GameEngine) DiceMultiplier(target int, prediction models.Prediction) (float64, error) {
	sel := models.Selection{Prediction: prediction, Target: target}
	if err := (games.Dice{}).ValidateSelection(sel); err != nil {
		return 0, err
	}
	return games.DiceMultiplier(target, prediction), nil
}

// Play runs one round of an instant game (roulette, slots, dice).
// Once the stake is debited the round always settles; ctx only bounds validation.
func (ge *GameEngine) Play(ctx context.Context, gameType models.GameType, bet int64, sel models.Selection) (*models.RoundReport, error) {
	game, ok := ge.registry.Instant(gameType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownGame, gameType)
	}

	if err := ge.begin(gameType); err != nil {
		return nil, err
	}

	if err := game.ValidateSelection(sel); err != nil {
		ge.transition(gameType, models.StateIdle)
		return nil, err
	}
	if err := ge.acceptBet(ctx, game, bet); err != nil {
		ge.transition(gameType, models.StateIdle)
		return nil, err
	}
	ge.transition(gameType, models.StateAwaitingOutcome)

	if ge.revealDelay > 0 {
		time.Sleep(ge.revealDelay)
	}

	outcome := game.Draw(ge.rng)
	settlement := game.Settle(bet, sel, outcome)
	ge.transition(gameType, models.StateSettled)

	account, entry, err := ge.ledger.SettleRound(context.WithoutCancel(ctx), models.NewHistoryEntry{
		Game:   game.Name(),
		Bet:    bet,
		Result: resultOf(settlement),
		Payout: settlement.Payout,
	})
	ge.transition(gameType, models.StateIdle)
	if err != nil {
		ge.logger.Error("failed to settle round",
			zap.String("game", string(gameType)),
			zap.Int64("bet", bet),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to settle round: %w", err)
	}

	ge.publishSettled(gameType, entry, settlement, account.Balance)

	return &models.RoundReport{
		Game:       gameType,
		Bet:        bet,
		Selection:  sel,
		Outcome:    outcome,
		Settlement: settlement,
		Balance:    account.Balance,
		Entry:      entry,
	}, nil
}

// begin moves an idle game into validation.
func (ge *GameEngine) begin(gameType models.GameType) error {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	if ge.closed {
		return fmt.Errorf("game engine is closed")
	}
	if ge.stateLocked(gameType) != models.StateIdle {
		return fmt.Errorf("%w: %s", models.ErrSessionBusy, gameType)
	}
	ge.states[gameType] = models.StateValidating
	return nil
}

func (ge *GameEngine) transition(gameType models.GameType, state models.SessionState) {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	ge.states[gameType] = state
}

// acceptBet checks the table limits and the balance, then debits the stake.
func (ge *GameEngine) acceptBet(ctx context.Context, table games.Table, bet int64) error {
	if err := table.Limits().Check(bet); err != nil {
		return err
	}

	account, err := ge.ledger.GetAccount(ctx)
	if err != nil {
		return err
	}
	if bet > account.Balance {
		return fmt.Errorf("%w: have %d, need %d", models.ErrInsufficientBalance, account.Balance, bet)
	}

	balance, err := ge.ledger.AdjustBalance(ctx, -bet)
	if err != nil {
		return err
	}
	ge.bus.Publish(event.EventBalanceChanged, event.BalanceChanged{Balance: balance})
	ge.currentBroadcaster().BroadcastBalance(balance)
	return nil
}

func (ge *GameEngine) publishSettled(gameType models.GameType, entry models.HistoryEntry, settlement models.Settlement, balance int64) {
	ge.bus.Publish(event.EventRoundSettled, event.RoundSettled{
		Game:       gameType,
		Entry:      entry,
		Settlement: settlement,
		Balance:    balance,
	})
	ge.bus.Publish(event.EventBalanceChanged, event.BalanceChanged{Balance: balance})
	ge.currentBroadcaster().BroadcastBalance(balance)
}

func (ge *GameEngine) currentBroadcaster() Broadcaster {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return ge.broadcaster
}

func resultOf(s models.Settlement) models.RoundResult {
	if s.Won {
		return models.ResultWin
	}
	return models.ResultLoss
}
