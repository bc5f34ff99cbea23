package event

import "vela-casino/internal/models"

const (
	EventRoundSettled   = "round.settled"
	EventCrashStarted   = "crash.started"
	EventBalanceChanged = "balance.changed"
	EventSoundCue       = "sound.cue"
	EventLedgerReset    = "ledger.reset"
)

// RoundSettled is published once per finished round, after the ledger commit.
type RoundSettled struct {
	Game       models.GameType     `json:"game"`
	Entry      models.HistoryEntry `json:"entry"`
	Settlement models.Settlement   `json:"settlement"`
	Balance    int64               `json:"balance"`
}

type CrashStarted struct {
	RoundID string `json:"roundId"`
	Bet     int64  `json:"bet"`
}

type BalanceChanged struct {
	Balance int64 `json:"balance"`
}

const (
	CueWin  = "win"
	CueLose = "lose"
)

type SoundCue struct {
	Cue  string          `json:"cue"`
	Game models.GameType `json:"game"`
}
