package models

import "time"

type GameType string

const (
	GameTypeRoulette GameType = "roulette"
	GameTypeSlots    GameType = "slots"
	GameTypeDice     GameType = "dice"
	GameTypeCrash    GameType = "crash"
)

type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

type Prediction string

const (
	PredictionOver  Prediction = "over"
	PredictionUnder Prediction = "under"
)

// Selection is the player's pick for a round. Which fields apply depends on the game:
// roulette uses Number or Color, dice uses Prediction and Target, slots and crash use none.
type Selection struct {
	Number     *int       `json:"number,omitempty"`
	Color      Color      `json:"color,omitempty"`
	Prediction Prediction `json:"prediction,omitempty"`
	Target     int        `json:"target,omitempty"`
}

// Outcome is the drawn result of a round.
type Outcome struct {
	Pocket     *int     `json:"pocket,omitempty"`
	Color      Color    `json:"color,omitempty"`
	Reels      []string `json:"reels,omitempty"`
	Roll       int      `json:"roll,omitempty"`
	CrashPoint float64  `json:"crashPoint,omitempty"`
}

// Settlement is what the payout engine decided for a round.
type Settlement struct {
	Won        bool    `json:"won"`
	Payout     int64   `json:"payout"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

type SessionState string

const (
	StateIdle            SessionState = "idle"
	StateValidating      SessionState = "validating"
	StateAwaitingOutcome SessionState = "awaiting_outcome"
	StateSettled         SessionState = "settled"
)

// RoundReport is returned to the caller after an instant game settles.
type RoundReport struct {
	Game       GameType     `json:"game"`
	Bet        int64        `json:"bet"`
	Selection  Selection    `json:"selection"`
	Outcome    Outcome      `json:"outcome"`
	Settlement Settlement   `json:"settlement"`
	Balance    int64        `json:"balance"`
	Entry      HistoryEntry `json:"entry"`
}

type CrashStatus string

const (
	CrashStatusRunning   CrashStatus = "running"
	CrashStatusCashedOut CrashStatus = "cashed_out"
	CrashStatusCrashed   CrashStatus = "crashed"
)

// CrashSnapshot is the externally visible state of a crash round.
// The crash point is only revealed once the round has ended.
type CrashSnapshot struct {
	ID         string      `json:"id"`
	Bet        int64       `json:"bet"`
	Step       int         `json:"step"`
	Multiplier float64     `json:"multiplier"`
	Status     CrashStatus `json:"status"`
	CrashPoint float64     `json:"crashPoint,omitempty"`
	Payout     int64       `json:"payout"`
	StartedAt  time.Time   `json:"startedAt"`
	EndedAt    *time.Time  `json:"endedAt,omitempty"`
}
