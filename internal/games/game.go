package games

import (
	"fmt"
	"math"

	"vela-casino/internal/models"
)

// Limits are a table's inclusive bet bounds.
type Limits struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func (l Limits) Check(bet int64) error {
	if bet < l.Min || bet > l.Max {
		return fmt.Errorf("%w: bet must be between %d and %d", models.ErrBetOutOfRange, l.Min, l.Max)
	}
	return nil
}

// Table describes a game the session runner can take bets for.
type Table interface {
	Type() models.GameType
	Name() string
	Limits() Limits
}

// InstantGame is a table whose outcome is drawn and settled in a single step.
type InstantGame interface {
	Table
	ValidateSelection(sel models.Selection) error
	Draw(src Source) models.Outcome
	Settle(bet int64, sel models.Selection, out models.Outcome) models.Settlement
}

func payout(bet int64, multiplier float64) int64 {
	return int64(math.Floor(float64(bet) * multiplier))
}

func win(bet, multiplier int64) models.Settlement {
	return models.Settlement{Won: true, Payout: bet * multiplier, Multiplier: float64(multiplier)}
}

func loss() models.Settlement {
	return models.Settlement{}
}
