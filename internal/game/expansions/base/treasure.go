package base

import (
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
)

func points(n int) effects.ScoreFunc {
	return func(effects.ScoreArgs) int { return n }
}

func basicCards() []effects.Module {
	return []effects.Module{
		{
			Definition: def("copper", "Copper", 0, cards.TypeTreasure),
			Play:       effects.Bonus{Treasure: 1}.Play(),
		},
		{
			Definition: def("silver", "Silver", 3, cards.TypeTreasure),
			Play:       effects.Bonus{Treasure: 2}.Play(),
		},
		{
			Definition: def("gold", "Gold", 6, cards.TypeTreasure),
			Play:       effects.Bonus{Treasure: 3}.Play(),
		},
		{Definition: def("estate", "Estate", 2, cards.TypeVictory), Score: points(1)},
		{Definition: def("duchy", "Duchy", 5, cards.TypeVictory), Score: points(3)},
		{Definition: def("province", "Province", 8, cards.TypeVictory), Score: points(6)},
		{Definition: def("curse", "Curse", 0, cards.TypeCurse), Score: points(-1)},
		{
			// Gardens is worth 1 per 10 cards owned, rounded down.
			Definition: def("gardens", "Gardens", 4, cards.TypeVictory),
			Score: func(args effects.ScoreArgs) int {
				return len(args.OwnedCards) / 10
			},
		},
	}
}
