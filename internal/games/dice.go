package games

import (
	"vela-casino/internal/models"
)

const (
	DiceFaces      = 100
	MinDiceTarget  = 2
	MaxDiceTarget  = 98
	DiceEdgeFactor = 0.95
)

// DiceMultiplier is the fair-odds multiplier less the house edge. It depends only on
// the target and prediction, so it can be shown before the roll.
func DiceMultiplier(target int, prediction models.Prediction) float64 {
	if prediction == models.PredictionOver {
		return (100 / float64(100-target)) * DiceEdgeFactor
	}
	return (100 / float64(target)) * DiceEdgeFactor
}

// Dice rolls 1-100 against an over/under target. A roll equal to the target always loses.
type Dice struct{}

func (Dice) Type() models.GameType { return models.GameTypeDice }
func (Dice) Name() string          { return "Quantum Dice" }
func (Dice) Limits() Limits        { return Limits{Min: 20, Max: 2000} }

func (Dice) ValidateSelection(sel models.Selection) error {
	if sel.Prediction == "" {
		return models.ErrNoSelection
	}
	if sel.Prediction != models.PredictionOver && sel.Prediction != models.PredictionUnder {
		return models.ErrInvalidSelection
	}
	if sel.Target < MinDiceTarget || sel.Target > MaxDiceTarget {
		return models.ErrInvalidSelection
	}
	return nil
}

func (Dice) Draw(src Source) models.Outcome {
	return models.Outcome{Roll: src.IntN(DiceFaces) + 1}
}

func (Dice) Settle(bet int64, sel models.Selection, out models.Outcome) models.Settlement {
	won := (sel.Prediction == models.PredictionOver && out.Roll > sel.Target) ||
		(sel.Prediction == models.PredictionUnder && out.Roll < sel.Target)
	if !won {
		return loss()
	}
	m := DiceMultiplier(sel.Target, sel.Prediction)
	return models.Settlement{Won: true, Payout: payout(bet, m), Multiplier: m}
}
