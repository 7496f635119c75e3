package game

import (
	"testing"

	"rowduel/internal/log"
)

// Test decks are built unshuffled so draw order is exactly the card list:
// the first five names form the opening hand, the rest are drawn in order.

func def(t *testing.T, name string) *CardDef {
	t.Helper()
	d := DefByName(name)
	if d == nil {
		t.Fatalf("unknown card name %q", name)
	}
	return d
}

// orderedDeck builds a full deck whose head is the named cards in order,
// padded to DeckSize with the filler card.
func orderedDeck(t *testing.T, filler string, names ...string) []*CardInstance {
	t.Helper()
	deck := make([]*CardInstance, 0, DeckSize)
	for i, name := range names {
		deck = append(deck, newInstance(def(t, name), i))
	}
	f := def(t, filler)
	for i := len(names); i < DeckSize; i++ {
		deck = append(deck, newInstance(f, i))
	}
	return deck
}

// newTestMatch starts a match with deterministic decks and a memory logger.
// Slinger filler keeps the padding harmless: 0 front attack, 1 HP.
func newTestMatch(t *testing.T, hand0, hand1 []string) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	m := NewMatch(MatchConfig{
		Deck0:  orderedDeck(t, "Slinger", hand0...),
		Deck1:  orderedDeck(t, "Slinger", hand1...),
		Logger: logger,
	})
	return m, logger
}

// toPlayPhase walks the turn player from the Draw phase into the Play
// phase, absorbing the automatic draw and energy gain.
func toPlayPhase(t *testing.T, m *Match, player int) {
	t.Helper()
	if err := m.AdvancePhase(player); err != nil {
		t.Fatalf("advance to play phase: %v", err)
	}
}

// toAttackPhase walks the turn player from the Draw phase to the Attack
// phase.
func toAttackPhase(t *testing.T, m *Match, player int) {
	t.Helper()
	toPlayPhase(t, m, player)
	if err := m.AdvancePhase(player); err != nil {
		t.Fatalf("advance to attack phase: %v", err)
	}
}

// grantEnergy cycles whole turns until the given player has at least n
// energy at the start of their Play phase, then leaves them there.
func grantEnergy(t *testing.T, m *Match, player, n int) {
	t.Helper()
	for i := 0; i < 8*MaxEnergy; i++ {
		var current, energy int
		var phase Phase
		m.Inspect(func(s *GameState) {
			current = s.CurrentPlayer
			phase = s.Phase
			energy = s.Players[player].CurrentEnergy
		})
		if current == player && phase == PhasePlay && energy >= n {
			return
		}
		if phase == PhaseDraw {
			toPlayPhase(t, m, current)
			continue
		}
		if err := m.EndTurn(current); err != nil {
			t.Fatalf("end turn while building energy: %v", err)
		}
	}
	t.Fatalf("could not reach %d energy for P%d", n, player+1)
}

// summon places the selected hand card by name at pos, failing the test on
// any rejection.
func summon(t *testing.T, m *Match, player int, name string, pos FieldPos) *CardInstance {
	t.Helper()
	idx := handIndex(t, m, player, name)
	if err := m.SelectHandCard(player, idx); err != nil {
		t.Fatalf("select %s: %v", name, err)
	}
	if err := m.PlayMonster(player, pos); err != nil {
		t.Fatalf("play %s: %v", name, err)
	}
	var card *CardInstance
	m.Inspect(func(s *GameState) {
		card = s.Players[player].Field.At(pos)
	})
	if card == nil || card.Def.Name != name {
		t.Fatalf("expected %s at %s", name, pos)
	}
	return card
}

func handIndex(t *testing.T, m *Match, player int, name string) int {
	t.Helper()
	idx := -1
	m.Inspect(func(s *GameState) {
		for i, c := range s.Players[player].Hand {
			if c.Def.Name == name {
				idx = i
				return
			}
		}
	})
	if idx < 0 {
		t.Fatalf("card %s not in P%d's hand", name, player+1)
	}
	return idx
}

func fieldCard(m *Match, player int, pos FieldPos) *CardInstance {
	var card *CardInstance
	m.Inspect(func(s *GameState) {
		card = s.Players[player].Field.At(pos)
	})
	return card
}

func specialHP(m *Match, player int) int {
	var hp int
	m.Inspect(func(s *GameState) {
		hp = s.Players[player].SpecialCardHP
	})
	return hp
}

func handSize(m *Match, player int) int {
	var n int
	m.Inspect(func(s *GameState) {
		n = len(s.Players[player].Hand)
	})
	return n
}

func energy(m *Match, player int) int {
	var e int
	m.Inspect(func(s *GameState) {
		e = s.Players[player].CurrentEnergy
	})
	return e
}
