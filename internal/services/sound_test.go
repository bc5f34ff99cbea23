package services_test

import (
	"context"
	"sync"
	"testing"

	"vela-casino/internal/event"
	"vela-casino/internal/models"
	"vela-casino/internal/services"

	"go.uber.org/zap"
)

func TestRegisterSoundCues(t *testing.T) {
	ctx := context.Background()
	ledger := newLoggedInLedger(t)
	bus := event.NewBus()
	services.RegisterSoundCues(bus, ledger, zap.NewNop())

	var mu sync.Mutex
	var cues []string
	bus.Subscribe(event.EventSoundCue, func(payload any) {
		mu.Lock()
		defer mu.Unlock()
		cues = append(cues, payload.(event.SoundCue).Cue)
	})

	bus.Publish(event.EventRoundSettled, event.RoundSettled{Game: models.GameTypeDice, Settlement: models.Settlement{Won: true}})
	bus.Wait()
	bus.Publish(event.EventRoundSettled, event.RoundSettled{Game: models.GameTypeDice})
	bus.Wait()

	off := false
	if _, err := ledger.UpdateSettings(ctx, models.SettingsUpdate{SoundEnabled: &off}); err != nil {
		t.Fatal(err)
	}
	bus.Publish(event.EventRoundSettled, event.RoundSettled{Game: models.GameTypeDice, Settlement: models.Settlement{Won: true}})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(cues) != 2 || cues[0] != event.CueWin || cues[1] != event.CueLose {
		t.Errorf("Expected [win lose] with sound on and nothing with sound off, got %v", cues)
	}
}
