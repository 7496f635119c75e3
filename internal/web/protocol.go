package web

// Message types for the JSON protocol over the WebSocket.

import "rowduel/internal/game"

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "new_game"
	DeckNumber int `json:"deck_number,omitempty"`

	// For "select_hand" and "cast_spell"
	Index int `json:"index,omitempty"`

	// For "play_card", "select_attacker", "attack", "request_move",
	// "confirm_move", and targeted spells
	Pos    *game.FieldPos `json:"pos,omitempty"`
	Target *game.FieldPos `json:"target,omitempty"`

	// For "attack": strike the special card directly
	SpecialCard bool `json:"special_card,omitempty"`

	// For "activate_effect"
	ActivatorID string `json:"activator_id,omitempty"`
	TargetID    string `json:"target_id,omitempty"`
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"` // "state", "error", "info", "game_over"

	MatchID string     `json:"match_id,omitempty"`
	State   *StateView `json:"state,omitempty"`
	Message string     `json:"message,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// CardView describes one card for the client.
type CardView struct {
	InstanceID  string `json:"instance_id"`
	DefID       string `json:"def_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Cost        int    `json:"cost"`
	FrontAttack int    `json:"front_attack,omitempty"`
	BackAttack  int    `json:"back_attack,omitempty"`
	HP          int    `json:"hp,omitempty"`
	MaxHP       int    `json:"max_hp,omitempty"`
	Buff        int    `json:"buff,omitempty"`
	HasEffect   bool   `json:"has_effect,omitempty"`
	EffectUsed  bool   `json:"effect_used,omitempty"`
	Attacked    bool   `json:"attacked,omitempty"`
}

// SlotView describes a single field slot.
type SlotView struct {
	Empty bool      `json:"empty,omitempty"`
	Card  *CardView `json:"card,omitempty"`
}

// PlayerView shows one side of the board. The hand is only populated for
// the viewer's own seat.
type PlayerView struct {
	HP            int        `json:"hp"`
	SpecialCardHP int        `json:"special_card_hp"`
	Energy        int        `json:"energy"`
	MaxEnergy     int        `json:"max_energy"`
	HandCount     int        `json:"hand_count"`
	Hand          []CardView `json:"hand,omitempty"`
	FrontRow      []SlotView `json:"front_row"`
	BackRow       []SlotView `json:"back_row"`
	DeckCount     int        `json:"deck_count"`
	GraveCount    int        `json:"grave_count"`
}

// StateView is the game state from one seat's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"is_your_turn"`

	SelectedHand    int             `json:"selected_hand"`
	PendingAttacker *game.FieldPos  `json:"pending_attacker,omitempty"`
	PendingMove     *game.FieldPos  `json:"pending_move,omitempty"`
	PendingDiscard  *DiscardPending `json:"pending_discard,omitempty"`
}

// DiscardPending reports an in-progress discard-draw spell.
type DiscardPending struct {
	SpellID string   `json:"spell_id"`
	Picks   []string `json:"picks"`
}

// BuildStateView renders the match from one seat's perspective.
func BuildStateView(m *game.Match, seat int) *StateView {
	view := &StateView{SelectedHand: m.SelectedHand()}
	view.PendingAttacker = m.PendingAttacker()
	view.PendingMove = m.PendingMove()
	if spellID, picks := m.PendingDiscard(); spellID != "" {
		view.PendingDiscard = &DiscardPending{SpellID: spellID, Picks: picks}
	}

	m.Inspect(func(s *game.GameState) {
		view.Turn = s.Turn
		view.Phase = s.Phase.String()
		view.IsYourTurn = s.CurrentPlayer == seat
		view.You = buildPlayerView(s.Players[seat], true)
		view.Opponent = buildPlayerView(s.Players[s.Opponent(seat)], false)
	})

	// Per-card turn flags live on the match, not the state.
	annotate := func(slots []SlotView) {
		for i := range slots {
			if c := slots[i].Card; c != nil {
				c.Buff = m.AttackBuff(c.InstanceID)
				c.Attacked = m.HasAttacked(c.InstanceID)
			}
		}
	}
	annotate(view.You.FrontRow)
	annotate(view.You.BackRow)
	annotate(view.Opponent.FrontRow)
	annotate(view.Opponent.BackRow)
	return view
}

func buildPlayerView(p *game.PlayerState, own bool) PlayerView {
	pv := PlayerView{
		HP:            p.HP,
		SpecialCardHP: p.SpecialCardHP,
		Energy:        p.CurrentEnergy,
		MaxEnergy:     p.MaxEnergy,
		HandCount:     len(p.Hand),
		DeckCount:     len(p.Deck),
		GraveCount:    len(p.Graveyard),
		FrontRow:      buildRowView(p.Field.RowOf(game.RowFront)),
		BackRow:       buildRowView(p.Field.RowOf(game.RowBack)),
	}
	if own {
		for _, c := range p.Hand {
			pv.Hand = append(pv.Hand, buildCardView(c))
		}
	}
	return pv
}

func buildRowView(row *[game.RowSize]*game.CardInstance) []SlotView {
	slots := make([]SlotView, game.RowSize)
	for i, c := range row {
		if c == nil {
			slots[i] = SlotView{Empty: true}
		} else {
			cv := buildCardView(c)
			slots[i] = SlotView{Card: &cv}
		}
	}
	return slots
}

func buildCardView(c *game.CardInstance) CardView {
	return CardView{
		InstanceID:  c.ID,
		DefID:       c.Def.ID,
		Name:        c.Def.Name,
		Description: c.Def.Description,
		Kind:        c.Def.Kind.String(),
		Cost:        c.Def.Cost,
		FrontAttack: c.Def.FrontAttack,
		BackAttack:  c.Def.BackAttack,
		HP:          c.CurrentHP,
		MaxHP:       c.Def.MaxHP,
		HasEffect:   c.Def.Effect != game.MonsterEffectNone,
		EffectUsed:  c.UsedEffectThisTurn,
	}
}
