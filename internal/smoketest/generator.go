package smoketest

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/okian/pokecalc/internal/domain/dex"
	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/pkg/logger"
)

// Pools hold names valid from generation 5 onward so every matchup is
// accepted by any supported ruleset.
var (
	speciesPool = []string{
		"Gengar", "Chansey", "Blissey", "Snorlax", "Gyarados", "Dragonite",
		"Tyranitar", "Garchomp", "Heatran", "Metagross", "Scizor", "Skarmory",
		"Ferrothorn", "Excadrill", "Conkeldurr", "Volcarona", "Latios", "Magnezone",
	}
	movePool = []string{
		"Focus Blast", "Shadow Ball", "Thunderbolt", "Flamethrower", "Surf",
		"Ice Beam", "Energy Ball", "Draco Meteor", "Earth Power", "Dark Pulse",
		"Earthquake", "Outrage", "Close Combat", "Stone Edge", "Crunch",
		"Bullet Punch", "Iron Head", "Flare Blitz", "Waterfall", "Return", "U-turn",
	}
	itemPool   = []string{"", "Choice Specs", "Choice Band", "Life Orb", "Expert Belt", "Leftovers", "Charcoal", "Mystic Water"}
	naturePool = []string{"Hardy", "Timid", "Modest", "Adamant", "Jolly", "Bold", "Calm", "Careful"}
)

// generateRequests creates NumRequests random matchups.
func generateRequests(ctx context.Context, config *Config, stats *Stats) []model.Request {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Get().Info(ctx, "generating matchups",
		logger.Int("numRequests", config.NumRequests),
		logger.Any("seed", seed))

	rng := rand.New(rand.NewPCG(seed, seed>>1))
	reqs := make([]model.Request, config.NumRequests)
	for i := range reqs {
		reqs[i] = generateRequest(rng, config.Generation)
	}

	stats.RequestsGenerated = len(reqs)
	return reqs
}

// generateRequest builds one matchup with a random spread on each side.
func generateRequest(rng *rand.Rand, gen int) model.Request {
	return model.Request{
		Generation: gen,
		Attacker:   randomPokemon(rng, true),
		Defender:   randomPokemon(rng, false),
		Move:       model.MoveSpec{Name: pick(rng, movePool), Crit: rng.IntN(16) == 0},
	}
}

func randomPokemon(rng *rand.Rand, attacking bool) model.PokemonSpec {
	p := model.PokemonSpec{
		Name:   pick(rng, speciesPool),
		Nature: pick(rng, naturePool),
		EVs:    dex.StatTable{},
	}
	if attacking {
		p.Item = pick(rng, itemPool)
		p.EVs[dex.Atk] = 252
		p.EVs[dex.SpA] = 252
		if b := rng.IntN(3); b > 0 {
			p.Boosts = dex.StatTable{dex.SpA: b, dex.Atk: b}
		}
		return p
	}
	p.EVs[dex.HP] = 252
	if rng.IntN(2) == 0 {
		p.EVs[dex.Def] = 252
	} else {
		p.EVs[dex.SpD] = 252
	}
	return p
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.IntN(len(pool))]
}
