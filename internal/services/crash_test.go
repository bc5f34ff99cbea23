package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vela-casino/internal/models"
	"vela-casino/internal/services"
)

// crashAt returns draws that put the crash point at 1 + 1.5*u inside the lowest tier.
func crashAt(u float64) *scriptedSource {
	return &scriptedSource{floats: []float64{0.1, u}}
}

func TestCrash_CashOutBeforeCrash(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	// crash point 1.75x, reached on step 75
	engine := newTestEngine(t, ledger, services.EngineOptions{Source: crashAt(0.5)})

	snap, err := engine.StartCrash(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to start round: %v", err)
	}
	if snap.Status != models.CrashStatusRunning || snap.Multiplier != 1.0 || snap.CrashPoint != 0 {
		t.Errorf("Unexpected opening snapshot: %+v", snap)
	}
	if mustAccount(t, ledger).Balance != 9900 {
		t.Error("Stake should be debited when the round starts")
	}
	if engine.State(models.GameTypeCrash) != models.StateAwaitingOutcome {
		t.Error("Crash session should await the outcome while running")
	}

	for i := 0; i < 49; i++ {
		if _, err := engine.Tick(snap.ID); err != nil {
			t.Fatalf("Tick %d failed: %v", i, err)
		}
	}

	result, err := engine.CashOut(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Failed to cash out: %v", err)
	}
	if result.Status != models.CrashStatusCashedOut || result.Step != 49 || result.Payout != 149 {
		t.Errorf("Cash-out at 1.49x on 100 should pay 149: %+v", result)
	}
	if result.CrashPoint != 1.75 || result.EndedAt == nil {
		t.Errorf("Crash point should be revealed once settled: %+v", result)
	}

	account := mustAccount(t, ledger)
	if account.Balance != 10049 || account.TotalWinnings != 149 || account.GamesPlayed != 1 {
		t.Errorf("Unexpected account after cash-out: %+v", account)
	}
	history := mustHistory(t, ledger)
	if len(history) != 1 || history[0].Game != "Stellar Crash" || history[0].Payout != 149 {
		t.Errorf("Unexpected history: %+v", history)
	}

	if _, err := engine.Tick(snap.ID); !errors.Is(err, models.ErrRoundSettled) {
		t.Errorf("Ticks after settlement should be no-ops, got %v", err)
	}
	if engine.State(models.GameTypeCrash) != models.StateIdle {
		t.Error("Crash session should be idle after settlement")
	}
}

func TestCrash_TieGoesToCrash(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	engine := newTestEngine(t, ledger, services.EngineOptions{Source: crashAt(0.5)})

	snap, err := engine.StartCrash(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}

	var last models.CrashSnapshot
	for i := 0; i < 75; i++ {
		last, err = engine.Tick(snap.ID)
		if err != nil {
			t.Fatalf("Tick %d failed: %v", i, err)
		}
	}
	if last.Status != models.CrashStatusCrashed || last.Step != 75 {
		t.Fatalf("Round should crash on step 75: %+v", last)
	}

	result, err := engine.CashOut(ctx, snap.ID)
	if !errors.Is(err, models.ErrRoundSettled) {
		t.Errorf("Cash-out on the crash step must lose, got %v", err)
	}
	if result.Status != models.CrashStatusCrashed || result.Payout != 0 {
		t.Errorf("Unexpected snapshot after late cash-out: %+v", result)
	}

	account := mustAccount(t, ledger)
	if account.Balance != 9900 || account.TotalLosses != 100 || account.TotalWinnings != 0 {
		t.Errorf("Crashed round should lose the stake: %+v", account)
	}
	history := mustHistory(t, ledger)
	if len(history) != 1 || history[0].Result != models.ResultLoss {
		t.Errorf("Expected one loss in history: %+v", history)
	}
}

func TestCrash_CashOutPaysDisplayedMultiplier(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	engine := newTestEngine(t, ledger, services.EngineOptions{Source: crashAt(0.5)})

	snap, err := engine.StartCrash(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 15; i++ {
		if _, err := engine.Tick(snap.ID); err != nil {
			t.Fatalf("Tick %d failed: %v", i, err)
		}
	}

	result, err := engine.CashOut(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Failed to cash out: %v", err)
	}
	if result.Step != 15 || result.Payout != 115 {
		t.Errorf("Cash-out at 1.15x on 100 should pay 115: %+v", result)
	}
	if balance := mustAccount(t, ledger).Balance; balance != 10015 {
		t.Errorf("Expected balance 10015, got %d", balance)
	}
}

func TestCrash_CashOutAtStart(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	// crash point 1.00x still allows the first tick
	engine := newTestEngine(t, ledger, services.EngineOptions{Source: crashAt(0)})

	snap, err := engine.StartCrash(ctx, 250)
	if err != nil {
		t.Fatal(err)
	}
	result, err := engine.CashOut(ctx, snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Payout != 250 || mustAccount(t, ledger).Balance != models.StartingBalance {
		t.Errorf("Cash-out at 1.00x should return the stake: %+v", result)
	}
}

func TestCrash_ClockSettlesOnce(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	engine := newTestEngine(t, ledger, services.EngineOptions{
		Source:       crashAt(0.02),
		TickInterval: time.Millisecond,
	})

	snap, err := engine.StartCrash(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			engine.CashOut(ctx, snap.ID)
		}()
		go func() {
			defer wg.Done()
			engine.Tick(snap.ID)
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for {
		status, err := engine.CrashStatus(snap.ID)
		if err != nil {
			t.Fatal(err)
		}
		if status.Status != models.CrashStatusRunning {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Round never settled")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)

	history := mustHistory(t, ledger)
	if len(history) != 1 {
		t.Fatalf("Round must settle exactly once, got %d history entries", len(history))
	}
	account := mustAccount(t, ledger)
	if account.GamesPlayed != 1 {
		t.Errorf("Expected one game played, got %d", account.GamesPlayed)
	}
	want := models.StartingBalance - 100 + history[0].Payout
	if account.Balance != want {
		t.Errorf("Expected balance %d, got %d", want, account.Balance)
	}
}

func TestCrash_Rejections(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	engine := newTestEngine(t, ledger, services.EngineOptions{Source: crashAt(0.5)})

	if _, err := engine.StartCrash(ctx, 5); !errors.Is(err, models.ErrBetOutOfRange) {
		t.Errorf("Expected ErrBetOutOfRange, got %v", err)
	}
	if _, err := engine.StartCrash(ctx, 5001); !errors.Is(err, models.ErrBetOutOfRange) {
		t.Errorf("Expected ErrBetOutOfRange, got %v", err)
	}

	if _, err := engine.StartCrash(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.StartCrash(ctx, 100); !errors.Is(err, models.ErrSessionBusy) {
		t.Errorf("Expected ErrSessionBusy for a second open round, got %v", err)
	}
	if _, err := engine.CashOut(ctx, "crash_missing"); !errors.Is(err, models.ErrRoundNotFound) {
		t.Errorf("Expected ErrRoundNotFound, got %v", err)
	}
	if mustAccount(t, ledger).Balance != 9900 {
		t.Error("Only the accepted round should be debited")
	}
}

func TestCrash_CleanupStaleRounds(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	engine := newTestEngine(t, ledger, services.EngineOptions{Source: crashAt(0.5)})

	snap, err := engine.StartCrash(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}

	if n := engine.CleanupStaleRounds(time.Hour); n != 0 {
		t.Errorf("Fresh round should not be reaped, got %d", n)
	}

	time.Sleep(5 * time.Millisecond)
	if n := engine.CleanupStaleRounds(time.Millisecond); n != 1 {
		t.Fatalf("Expected one stale round crashed, got %d", n)
	}
	status, err := engine.CrashStatus(snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.CrashStatusCrashed {
		t.Errorf("Stale round should be crashed: %+v", status)
	}
	if mustAccount(t, ledger).TotalLosses != 100 {
		t.Error("Reaped round should be recorded as a loss")
	}

	time.Sleep(5 * time.Millisecond)
	engine.CleanupStaleRounds(time.Millisecond)
	if _, err := engine.CrashStatus(snap.ID); !errors.Is(err, models.ErrRoundNotFound) {
		t.Errorf("Settled round should be forgotten, got %v", err)
	}
}

func TestCrash_CloseSettlesOpenRounds(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	engine := services.NewGameEngine(ledger, services.EngineOptions{
		Source:       crashAt(0.99),
		TickInterval: time.Hour,
	})

	snap, err := engine.StartCrash(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	engine.Close()
	engine.Close()

	status, err := engine.CrashStatus(snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.CrashStatusCrashed {
		t.Errorf("Open round should be crashed on close: %+v", status)
	}
	if len(mustHistory(t, ledger)) != 1 {
		t.Error("Closed round should be recorded once")
	}
	if _, err := engine.StartCrash(ctx, 100); err == nil {
		t.Error("Closed engine should refuse new rounds")
	}
}

// stalledBroadcaster blocks tick updates until release is closed, like a client
// with a full write buffer.
type stalledBroadcaster struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *stalledBroadcaster) BroadcastGameUpdate(string, int, float64) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
}

func (b *stalledBroadcaster) BroadcastGameCrash(string, float64) {}
func (b *stalledBroadcaster) BroadcastBalance(int64)             {}

func TestCrash_StalledBroadcastDoesNotBlockCashOut(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	b := &stalledBroadcaster{entered: make(chan struct{}), release: make(chan struct{})}
	engine := newTestEngine(t, ledger, services.EngineOptions{Source: crashAt(0.5), Broadcaster: b})
	defer close(b.release)

	snap, err := engine.StartCrash(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}

	go engine.Tick(snap.ID)
	select {
	case <-b.entered:
	case <-time.After(time.Second):
		t.Fatal("Tick never reached the broadcaster")
	}

	done := make(chan models.CrashSnapshot, 1)
	go func() {
		result, err := engine.CashOut(ctx, snap.ID)
		if err != nil {
			t.Errorf("Failed to cash out: %v", err)
		}
		done <- result
	}()

	select {
	case result := <-done:
		if result.Step != 1 || result.Payout != 101 {
			t.Errorf("Cash-out at 1.01x on 100 should pay 101: %+v", result)
		}
	case <-time.After(time.Second):
		t.Fatal("Cash-out blocked behind a stalled broadcast")
	}
}
