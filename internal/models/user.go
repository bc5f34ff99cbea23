package models

import (
	"strings"
	"time"
)

const (
	StartingBalance   int64 = 10000
	MinUsernameLength       = 3
)

// Account is the single locally persisted player record.
type Account struct {
	Balance       int64     `json:"balance"`
	Username      string    `json:"username"`
	GamesPlayed   int64     `json:"gamesPlayed"`
	TotalWinnings int64     `json:"totalWinnings"`
	TotalLosses   int64     `json:"totalLosses"`
	CreatedAt     time.Time `json:"createdAt"`
	LastLogin     time.Time `json:"lastLogin"`
}

// AccountUpdate carries the fields of a partial account update. Nil fields are left untouched.
type AccountUpdate struct {
	Balance       *int64  `json:"balance,omitempty"`
	Username      *string `json:"username,omitempty"`
	GamesPlayed   *int64  `json:"gamesPlayed,omitempty"`
	TotalWinnings *int64  `json:"totalWinnings,omitempty"`
	TotalLosses   *int64  `json:"totalLosses,omitempty"`
}

func NewAccount(username string, now time.Time) *Account {
	return &Account{
		Balance:   StartingBalance,
		Username:  username,
		CreatedAt: now,
		LastLogin: now,
	}
}

// Apply merges the non-nil fields of u into a and refreshes LastLogin.
func (a *Account) Apply(u AccountUpdate, now time.Time) {
	if u.Balance != nil {
		a.Balance = *u.Balance
	}
	if u.Username != nil {
		a.Username = *u.Username
	}
	if u.GamesPlayed != nil {
		a.GamesPlayed = *u.GamesPlayed
	}
	if u.TotalWinnings != nil {
		a.TotalWinnings = *u.TotalWinnings
	}
	if u.TotalLosses != nil {
		a.TotalLosses = *u.TotalLosses
	}
	a.LastLogin = now
}

// NormalizeUsername trims the display name and checks the minimum length.
func NormalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if len([]rune(name)) < MinUsernameLength {
		return "", ErrInvalidUsername
	}
	return name, nil
}
