package game

import "fmt"

const (
	StartingHP        = 2000
	StartingSpecialHP = 20
	StartingEnergy    = 0
	MaxEnergy         = 10
	InitialHandSize   = 5
	RowSize           = 3
)

// Field is a player's two fixed-size rows. A slot holds at most one Monster
// instance; Spell instances never reach the field.
type Field struct {
	FrontRow [RowSize]*CardInstance
	BackRow  [RowSize]*CardInstance
}

// RowOf returns the named row.
func (f *Field) RowOf(row Row) *[RowSize]*CardInstance {
	if row == RowFront {
		return &f.FrontRow
	}
	return &f.BackRow
}

// At returns the card at the given position, or nil.
func (f *Field) At(pos FieldPos) *CardInstance {
	return f.RowOf(pos.Row)[pos.Index]
}

// Set places (or clears, with nil) a card at the given position.
func (f *Field) Set(pos FieldPos, ci *CardInstance) {
	f.RowOf(pos.Row)[pos.Index] = ci
}

// Monsters returns all occupied positions in field-scan order: front row
// first, then back row, left to right within each.
func (f *Field) Monsters() []FieldPos {
	var result []FieldPos
	for _, row := range []Row{RowFront, RowBack} {
		for i, ci := range f.RowOf(row) {
			if ci != nil {
				result = append(result, FieldPos{Row: row, Index: i})
			}
		}
	}
	return result
}

// FreeSlot returns the first empty slot index in the given row, or -1.
func (f *Field) FreeSlot(row Row) int {
	for i, ci := range f.RowOf(row) {
		if ci == nil {
			return i
		}
	}
	return -1
}

// FrontRowEmpty reports whether the front row has no monsters. The back row
// and the special card are only legal attack targets while this holds.
func (f *Field) FrontRowEmpty() bool {
	for _, ci := range f.FrontRow {
		if ci != nil {
			return false
		}
	}
	return true
}

// Find locates a card on the field by instance id.
func (f *Field) Find(id string) (FieldPos, bool) {
	for _, pos := range f.Monsters() {
		if f.At(pos).ID == id {
			return pos, true
		}
	}
	return FieldPos{}, false
}

// PlayerState is one player's entire state.
type PlayerState struct {
	HP            int
	SpecialCardHP int // the player's life total; ≤ 0 ends the match
	CurrentEnergy int
	MaxEnergy     int

	Deck      []*CardInstance // head of the slice is drawn first
	Hand      []*CardInstance
	Graveyard []*CardInstance
	Field     Field
}

// NewPlayerState moves the first InitialHandSize cards of the built deck
// into hand (preserving order) and sets the fixed starting totals.
func NewPlayerState(deck []*CardInstance) *PlayerState {
	p := &PlayerState{
		HP:            StartingHP,
		SpecialCardHP: StartingSpecialHP,
		CurrentEnergy: StartingEnergy,
		MaxEnergy:     MaxEnergy,
		Deck:          deck,
	}
	for i := 0; i < InitialHandSize && len(p.Deck) > 0; i++ {
		p.Hand = append(p.Hand, p.Deck[0])
		p.Deck = p.Deck[1:]
	}
	return p
}

// Draw removes the head of the deck and adds it to the hand. Returns nil if
// the deck is empty; drawing from an empty deck is not a loss condition.
func (p *PlayerState) Draw() *CardInstance {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, card)
	return card
}

// RemoveFromHand removes a card from the hand by instance id.
func (p *PlayerState) RemoveFromHand(id string) {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// SendToGraveyard appends a card to the graveyard. Destroyed monsters stay
// there; nothing ever revives them.
func (p *PlayerState) SendToGraveyard(ci *CardInstance) {
	p.Graveyard = append(p.Graveyard, ci)
}

// GainEnergy raises current energy by n, capped at MaxEnergy.
func (p *PlayerState) GainEnergy(n int) {
	p.CurrentEnergy += n
	if p.CurrentEnergy > p.MaxEnergy {
		p.CurrentEnergy = p.MaxEnergy
	}
}

// PayEnergy deducts a cost. Callers validate affordability first; this
// guards the never-negative invariant regardless.
func (p *PlayerState) PayEnergy(cost int) error {
	if cost > p.CurrentEnergy {
		return ErrInsufficientEnergy
	}
	p.CurrentEnergy -= cost
	return nil
}

// --- GameState ---

// GameState is the complete state of one match.
type GameState struct {
	Players       [2]*PlayerState
	CurrentPlayer int // 0 or 1
	Turn          int // 1-based, incremented on every player switch
	Phase         Phase

	Over   bool
	Winner int // 0, 1, or -1 while undecided
	Result string
}

// NewGameState builds a fresh match state from two built decks.
func NewGameState(deck0, deck1 []*CardInstance) *GameState {
	return &GameState{
		Players: [2]*PlayerState{
			NewPlayerState(deck0),
			NewPlayerState(deck1),
		},
		CurrentPlayer: 0,
		Turn:          1,
		Phase:         PhaseDraw,
		Winner:        -1,
	}
}

// Opponent returns the index of the other player.
func (gs *GameState) Opponent(player int) int {
	return 1 - player
}

// Current returns the PlayerState for the turn player.
func (gs *GameState) Current() *PlayerState {
	return gs.Players[gs.CurrentPlayer]
}

// CheckWinCondition marks the match over when a player's special card HP
// has dropped to 0 or below. Returns true if the match is over. The stored
// HP is not clamped at zero; only the ≤ 0 check matters.
func (gs *GameState) CheckWinCondition() bool {
	if gs.Over {
		return true
	}
	for p := 0; p < 2; p++ {
		if gs.Players[p].SpecialCardHP <= 0 {
			gs.Over = true
			gs.Winner = gs.Opponent(p)
			gs.Result = fmt.Sprintf("P%d wins: P%d's special card was destroyed", gs.Winner+1, p+1)
			return true
		}
	}
	return false
}
