package models

import "time"

const HistoryCap = 100

type RoundResult string

const (
	ResultWin  RoundResult = "win"
	ResultLoss RoundResult = "loss"
)

// HistoryEntry is one completed game round. Entries are never modified after they are written.
type HistoryEntry struct {
	ID        string      `json:"id"`
	Game      string      `json:"game"`
	Bet       int64       `json:"bet"`
	Result    RoundResult `json:"result"`
	Payout    int64       `json:"payout"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewHistoryEntry is a history record before the store assigns its id and timestamp.
type NewHistoryEntry struct {
	Game   string      `json:"game"`
	Bet    int64       `json:"bet"`
	Result RoundResult `json:"result"`
	Payout int64       `json:"payout"`
}

type HistoryStats struct {
	Rounds  int     `json:"rounds"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"winRate"`
	Wagered int64   `json:"wagered"`
	PaidOut int64   `json:"paidOut"`
}

// ComputeHistoryStats summarises the stored history. WinRate is a percentage.
func ComputeHistoryStats(history []HistoryEntry) HistoryStats {
	var stats HistoryStats
	for _, h := range history {
		stats.Rounds++
		stats.Wagered += h.Bet
		if h.Result == ResultWin {
			stats.Wins++
			stats.PaidOut += h.Payout
		} else {
			stats.Losses++
		}
	}
	if stats.Rounds > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Rounds) * 100
	}
	return stats
}
