package games

import "vela-casino/internal/models"

const (
	Pockets          = 37
	NumberMultiplier = 10
	ColorMultiplier  = 2
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true,
	12: true, 14: true, 16: true, 18: true, 19: true,
	21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// PocketColor derives the color of a wheel pocket.
func PocketColor(n int) models.Color {
	switch {
	case n == 0:
		return models.ColorGreen
	case redNumbers[n]:
		return models.ColorRed
	default:
		return models.ColorBlack
	}
}

// Roulette is a single-zero wheel with straight-up number and color bets.
type Roulette struct{}

func (Roulette) Type() models.GameType { return models.GameTypeRoulette }
func (Roulette) Name() string          { return "Cosmic Roulette" }
func (Roulette) Limits() Limits        { return Limits{Min: 10, Max: 1000} }

// ValidateSelection requires exactly one of a number or a color.
func (Roulette) ValidateSelection(sel models.Selection) error {
	hasNumber := sel.Number != nil
	hasColor := sel.Color != ""
	switch {
	case !hasNumber && !hasColor:
		return models.ErrNoSelection
	case hasNumber && hasColor:
		return models.ErrInvalidSelection
	case hasNumber && (*sel.Number < 0 || *sel.Number >= Pockets):
		return models.ErrInvalidSelection
	case hasColor && sel.Color != models.ColorGreen && sel.Color != models.ColorRed && sel.Color != models.ColorBlack:
		return models.ErrInvalidSelection
	}
	return nil
}

func (Roulette) Draw(src Source) models.Outcome {
	n := src.IntN(Pockets)
	return models.Outcome{Pocket: &n, Color: PocketColor(n)}
}

func (Roulette) Settle(bet int64, sel models.Selection, out models.Outcome) models.Settlement {
	if out.Pocket == nil {
		return loss()
	}
	if sel.Number != nil {
		if *sel.Number == *out.Pocket {
			return win(bet, NumberMultiplier)
		}
		return loss()
	}
	if sel.Color != "" && sel.Color == PocketColor(*out.Pocket) {
		return win(bet, ColorMultiplier)
	}
	return loss()
}
