package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"rowduel/internal/game"
	gamelog "rowduel/internal/log"
)

// sim runs a headless match between two scripted seats and prints the
// event log. Useful for eyeballing balance changes to the card list.
func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "deck shuffle seed")
	maxTurns := flag.Int("max-turns", 200, "abort the match after this many turns")
	quiet := flag.Bool("quiet", false, "print only the result line")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	var logger gamelog.EventLogger
	if *quiet {
		logger = gamelog.NewMemoryLogger()
	} else {
		logger = gamelog.NewTextLogger(os.Stdout)
	}

	m := game.NewMatch(game.MatchConfig{
		Deck0:  game.BuildRandomDeck(game.Catalog(), rng),
		Deck1:  game.BuildRandomDeck(game.Catalog(), rng),
		Logger: logger,
	})

	for !m.Over() {
		var player int
		var phase game.Phase
		var turn int
		m.Inspect(func(s *game.GameState) {
			player, phase, turn = s.CurrentPlayer, s.Phase, s.Turn
		})
		if turn > *maxTurns {
			fmt.Printf("No winner after %d turns (seed %d)\n", *maxTurns, *seed)
			return
		}

		switch phase {
		case game.PhaseDraw:
			_ = m.AdvancePhase(player)
		case game.PhasePlay:
			if acted, _ := m.AutoPlayStep(player); !acted {
				_ = m.AdvancePhase(player)
			}
		case game.PhaseAttack:
			if acted, _ := m.AutoAttackStep(player); !acted {
				_ = m.AdvancePhase(player)
			}
		}
	}

	winner, result := m.Winner()
	fmt.Printf("Winner: P%d (%s), seed %d\n", winner+1, result, *seed)
}
