package game

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckSize is the fixed number of card instances in every built deck.
const DeckSize = 40

// newInstance copies a definition into a playable instance. The index keeps
// duplicate definitions individually addressable within one deck.
func newInstance(def *CardDef, index int) *CardInstance {
	return &CardInstance{
		Def:       def,
		ID:        fmt.Sprintf("%s-%d", def.ID, index),
		CurrentHP: def.MaxHP,
	}
}

// shuffleDeck applies a uniform Fisher-Yates shuffle in place.
func shuffleDeck(deck []*CardInstance, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// BuildRandomDeck samples uniformly from the catalog until DeckSize
// instances exist, assigns unique instance ids, and shuffles.
func BuildRandomDeck(defs []*CardDef, rng *rand.Rand) []*CardInstance {
	deck := make([]*CardInstance, 0, DeckSize)
	for i := 0; i < DeckSize; i++ {
		deck = append(deck, newInstance(defs[rng.Intn(len(defs))], i))
	}
	shuffleDeck(deck, rng)
	return deck
}

// BuildImportedDeck builds a deck from a previously saved definition list
// (e.g. the deck-selection screen's output). The list must contain exactly
// DeckSize valid definitions; anything else falls back to a random deck.
func BuildImportedDeck(saved []*CardDef, defs []*CardDef, rng *rand.Rand) []*CardInstance {
	if len(saved) != DeckSize {
		return BuildRandomDeck(defs, rng)
	}
	deck := make([]*CardInstance, 0, DeckSize)
	for i, def := range saved {
		if def == nil || DefByID(def.ID) == nil {
			return BuildRandomDeck(defs, rng)
		}
		deck = append(deck, newInstance(def, i))
	}
	shuffleDeck(deck, rng)
	return deck
}

// --- Saved deck files ---

// DeckFile is the top-level YAML structure of a saved-decks file.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry is a single named deck.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is a card and its count within a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// ParseDeckFile parses a YAML deck file into deck name → definition list.
// Unknown card names make the containing deck malformed; the entry is
// returned as nil so callers fall back to a random deck.
func ParseDeckFile(path string) (map[string][]*CardDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	decks := make(map[string][]*CardDef)
	for _, deck := range df.Decks {
		decks[deck.Name] = expandDeckEntry(deck)
	}
	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int) (string, []*CardDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return "", nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	return df.Decks[n-1].Name, expandDeckEntry(df.Decks[n-1]), nil
}

func expandDeckEntry(deck DeckEntry) []*CardDef {
	var defs []*CardDef
	for _, entry := range deck.Cards {
		def := DefByName(entry.Name)
		if def == nil {
			return nil
		}
		for i := 0; i < entry.Count; i++ {
			defs = append(defs, def)
		}
	}
	return defs
}
