package games

import "vela-casino/internal/models"

const (
	ReelCount      = 3
	PairMultiplier = 2
)

type Symbol struct {
	Glyph      string `json:"glyph"`
	Multiplier int64  `json:"multiplier"`
}

// Symbols is the reel alphabet, highest paying first.
var Symbols = []Symbol{
	{Glyph: "💎", Multiplier: 100},
	{Glyph: "💰", Multiplier: 50},
	{Glyph: "⭐", Multiplier: 30},
	{Glyph: "🔮", Multiplier: 20},
	{Glyph: "👑", Multiplier: 15},
	{Glyph: "🎰", Multiplier: 10},
	{Glyph: "💫", Multiplier: 5},
}

func symbolMultiplier(glyph string) (int64, bool) {
	for _, s := range Symbols {
		if s.Glyph == glyph {
			return s.Multiplier, true
		}
	}
	return 0, false
}

// Slots is a three reel machine. Three of a kind pays the symbol multiplier, any pair pays 2x.
type Slots struct{}

func (Slots) Type() models.GameType { return models.GameTypeSlots }
func (Slots) Name() string          { return "Crystal Slots" }
func (Slots) Limits() Limits        { return Limits{Min: 5, Max: 500} }

func (Slots) ValidateSelection(models.Selection) error { return nil }

func (Slots) Draw(src Source) models.Outcome {
	reels := make([]string, ReelCount)
	for i := range reels {
		reels[i] = Symbols[src.IntN(len(Symbols))].Glyph
	}
	return models.Outcome{Reels: reels}
}

func (Slots) Settle(bet int64, _ models.Selection, out models.Outcome) models.Settlement {
	if len(out.Reels) != ReelCount {
		return loss()
	}
	a, b, c := out.Reels[0], out.Reels[1], out.Reels[2]
	if a == b && b == c {
		if m, ok := symbolMultiplier(a); ok {
			return win(bet, m)
		}
		return loss()
	}
	if a == b || b == c || a == c {
		return win(bet, PairMultiplier)
	}
	return loss()
}
