package games

import (
	"math"

	"vela-casino/internal/models"
)

const (
	// StepSize is how much the multiplier grows per tick.
	StepSize      = 0.01
	MinCrashPoint = 1.0
	MaxCrashPoint = 50.0
)

// crashTier is one band of the crash point mixture. Below is the cumulative
// probability bound for the band.
type crashTier struct {
	Below float64
	Lo    float64
	Hi    float64
}

var crashTiers = []crashTier{
	{Below: 0.50, Lo: 1.0, Hi: 2.5},
	{Below: 0.80, Lo: 2.5, Hi: 5.0},
	{Below: 0.95, Lo: 5.0, Hi: 10.0},
	{Below: 1.00, Lo: 10.0, Hi: 50.0},
}

// GenerateCrashPoint draws the multiplier at which a round ends:
// 50% in [1, 2.5), 30% in [2.5, 5), 15% in [5, 10), 5% in [10, 50).
func GenerateCrashPoint(src Source) float64 {
	r := src.Float64()
	tier := crashTiers[len(crashTiers)-1]
	for _, t := range crashTiers {
		if r < t.Below {
			tier = t
			break
		}
	}
	return tier.Lo + src.Float64()*(tier.Hi-tier.Lo)
}

// Multiplier returns the multiplier displayed at step (step 0 is 1.00x, step 50 is 1.50x).
func Multiplier(step int) float64 {
	if step < 0 {
		step = 0
	}
	return float64(100+step) / 100
}

// CrashStep returns the first tick whose multiplier reaches the crash point.
// The clock only checks after a tick, so a round never crashes at step 0.
func CrashStep(crashPoint float64) int {
	step := int(math.Ceil((crashPoint - 1) / StepSize))
	if step < 1 {
		step = 1
	}
	for step > 1 && Multiplier(step-1) >= crashPoint {
		step--
	}
	for Multiplier(step) < crashPoint {
		step++
	}
	return step
}

// Crash is the rising multiplier game.
type Crash struct{}

func (Crash) Type() models.GameType { return models.GameTypeCrash }
func (Crash) Name() string          { return "Stellar Crash" }
func (Crash) Limits() Limits        { return Limits{Min: 10, Max: 5000} }

// Settle resolves a cash-out requested at cashOutStep. Reaching the crash step first,
// or at the same step, is a loss.
func (Crash) Settle(bet int64, cashOutStep, crashStep int) models.Settlement {
	if cashOutStep >= crashStep {
		return loss()
	}
	if cashOutStep < 0 {
		cashOutStep = 0
	}
	// integer hundredths, so 1.15x on 100 pays 115
	return models.Settlement{
		Won:        true,
		Payout:     bet * int64(100+cashOutStep) / 100,
		Multiplier: Multiplier(cashOutStep),
	}
}
