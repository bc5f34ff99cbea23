package services

import (
	"context"

	"vela-casino/internal/event"

	"go.uber.org/zap"
)

// RegisterSoundCues turns settled rounds into win/lose cues, honouring the soundEnabled setting.
func RegisterSoundCues(bus *event.Bus, ledger *LedgerStore, logger *zap.Logger) {
	bus.Subscribe(event.EventRoundSettled, func(payload any) {
		settled, ok := payload.(event.RoundSettled)
		if !ok {
			return
		}

		settings, err := ledger.GetSettings(context.Background())
		if err != nil {
			logger.Warn("failed to read settings for sound cue", zap.Error(err))
			return
		}
		if !settings.SoundEnabled {
			return
		}

		cue := event.CueLose
		if settled.Settlement.Won {
			cue = event.CueWin
		}
		logger.Debug("sound cue", zap.String("cue", cue), zap.String("game", string(settled.Game)))
		bus.Publish(event.EventSoundCue, event.SoundCue{Cue: cue, Game: settled.Game})
	})
}
