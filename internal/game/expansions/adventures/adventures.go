// Package adventures holds the traveler card modules from Adventures.
package adventures

import (
	"context"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
)

// Register adds every Adventures card module to reg.
func Register(reg *effects.Registry) error {
	return reg.Register(Modules()...)
}

// Modules returns the Adventures card modules. The two traveler chains are
// Page, Treasure Hunter, Warrior, Hero, Champion and Peasant, Soldier,
// Fugitive, Disciple, Teacher.
func Modules() []effects.Module {
	return []effects.Module{
		traveler(def("page", "Page", 2, cards.TypeTraveler), "treasureHunter", effects.Bonus{Cards: 1, Actions: 1}.Play()),
		traveler(def("treasureHunter", "Treasure Hunter", 3, cards.TypeTraveler), "warrior", playTreasureHunter),
		traveler(def("warrior", "Warrior", 4, cards.TypeAttack, cards.TypeTraveler), "hero", playWarrior),
		traveler(def("hero", "Hero", 5, cards.TypeTraveler), "champion", playHero),
		{Definition: def("champion", "Champion", 6, cards.TypeDuration), Play: playChampion},

		traveler(def("peasant", "Peasant", 2, cards.TypeTraveler), "soldier", effects.Bonus{Buys: 1, Treasure: 1}.Play()),
		traveler(def("soldier", "Soldier", 3, cards.TypeAttack, cards.TypeTraveler), "fugitive", playSoldier),
		traveler(def("fugitive", "Fugitive", 4, cards.TypeTraveler), "disciple", playFugitive),
		traveler(def("disciple", "Disciple", 5, cards.TypeTraveler), "teacher", playDisciple),
		// Teacher's token placement needs the Reserve mat; it plays as a
		// one-shot grant of the four token bonuses.
		{Definition: def("teacher", "Teacher", 6), Play: effects.Bonus{Cards: 1, Actions: 1, Buys: 1, Treasure: 1}.Play()},
	}
}

func def(key, name string, cost int, types ...cards.Type) cards.Definition {
	return cards.Definition{
		Key:   key,
		Name:  name,
		Types: append([]cards.Type{cards.TypeAction}, types...),
		Cost:  cards.Cost{Treasure: cost},
	}
}

// traveler wires a card into its chain: discarding it from play offers the
// exchange for next, whose pile lives outside the supply.
func traveler(definition cards.Definition, next string, play effects.PlayFunc) effects.Module {
	return effects.Module{
		Definition: definition,
		Play:       play,
		LifeCycle: effects.LifeCycle{
			OnDiscarded: func(ctx context.Context, ec *effects.Context, args effects.LifeCycleArgs) error {
				return effects.ExchangeTraveler(ctx, ec, args, next)
			},
		},
		NonSupply: []string{next},
	}
}
