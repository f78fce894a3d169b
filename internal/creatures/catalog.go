// Package creatures holds the static species table. Stats are the minimal
// HP/attack/defense model the battle protocol exercises; there is no move
// data or type chart.
package creatures

import (
	"fmt"

	"github.com/freeeve/pokebattle/internal/model"
)

// Species is one entry in the catalog.
type Species struct {
	ID      int
	Name    string
	MaxHP   int
	Attack  int
	Defense int
}

var catalog = map[int]Species{
	1:  {ID: 1, Name: "Bulbasaur", MaxHP: 45, Attack: 49, Defense: 49},
	2:  {ID: 2, Name: "Ivysaur", MaxHP: 60, Attack: 62, Defense: 63},
	3:  {ID: 3, Name: "Venusaur", MaxHP: 80, Attack: 82, Defense: 83},
	4:  {ID: 4, Name: "Charmander", MaxHP: 39, Attack: 52, Defense: 43},
	5:  {ID: 5, Name: "Charmeleon", MaxHP: 58, Attack: 64, Defense: 58},
	6:  {ID: 6, Name: "Charizard", MaxHP: 78, Attack: 84, Defense: 78},
	7:  {ID: 7, Name: "Squirtle", MaxHP: 44, Attack: 48, Defense: 65},
	8:  {ID: 8, Name: "Wartortle", MaxHP: 59, Attack: 63, Defense: 80},
	9:  {ID: 9, Name: "Blastoise", MaxHP: 79, Attack: 83, Defense: 100},
	25: {ID: 25, Name: "Pikachu", MaxHP: 35, Attack: 55, Defense: 40},
	26: {ID: 26, Name: "Raichu", MaxHP: 60, Attack: 90, Defense: 55},
	39: {ID: 39, Name: "Jigglypuff", MaxHP: 115, Attack: 45, Defense: 20},
}

// Lookup returns the species for an id.
func Lookup(id int) (Species, bool) {
	s, ok := catalog[id]
	return s, ok
}

// BuildTeam resolves species ids into a fresh team at full HP, positions
// assigned 1..n in the order given.
func BuildTeam(speciesIDs []int) ([]*model.Creature, error) {
	team := make([]*model.Creature, 0, len(speciesIDs))
	for i, id := range speciesIDs {
		s, ok := catalog[id]
		if !ok {
			return nil, fmt.Errorf("unknown species id %d", id)
		}
		team = append(team, &model.Creature{
			Position:  i + 1,
			SpeciesID: s.ID,
			Name:      s.Name,
			MaxHP:     s.MaxHP,
			CurrentHP: s.MaxHP,
			Attack:    s.Attack,
			Defense:   s.Defense,
		})
	}
	return team, nil
}
