package models

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

type ProfileUpdateRequest struct {
	Username string `json:"username" binding:"required"`
}

type RoulettePlayRequest struct {
	Bet    int64  `json:"bet" binding:"required"`
	Number *int   `json:"number" binding:"omitempty,min=0,max=36"`
	Color  string `json:"color" binding:"omitempty,oneof=green red black"`
}

type SlotsPlayRequest struct {
	Bet int64 `json:"bet" binding:"required"`
}

type DicePlayRequest struct {
	Bet        int64  `json:"bet" binding:"required"`
	Target     int    `json:"target" binding:"required"`
	Prediction string `json:"prediction"`
}

type CrashStartRequest struct {
	Bet int64 `json:"bet" binding:"required"`
}

type CrashCashoutRequest struct {
	RoundID string `json:"round_id" binding:"required"`
}

type BalanceResponse struct {
	Balance       int64 `json:"balance"`
	GamesPlayed   int64 `json:"gamesPlayed"`
	TotalWinnings int64 `json:"totalWinnings"`
	TotalLosses   int64 `json:"totalLosses"`
}

type GameInfo struct {
	Type   GameType `json:"type"`
	Name   string   `json:"name"`
	MinBet int64    `json:"minBet"`
	MaxBet int64    `json:"maxBet"`
}
