package game

import (
	"fmt"
	"strings"

	"rowduel/internal/log"
)

// --- Summoning ---

// PlayMonster plays the selected hand card to an empty slot on the acting
// player's field, paying its energy cost. The monster cannot move for the
// rest of this turn.
func (m *Match) PlayMonster(player int, pos FieldPos) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhasePlay); err != nil {
		return err
	}

	p := m.state.Players[player]
	if m.selectedHand < 0 || m.selectedHand >= len(p.Hand) {
		return ErrNoSelection
	}
	card := p.Hand[m.selectedHand]
	if card.Def.Kind != KindMonster {
		return ErrIllegalTarget
	}
	if card.Def.Cost > p.CurrentEnergy {
		return ErrInsufficientEnergy
	}
	if p.Field.At(pos) != nil {
		return ErrSlotOccupied
	}

	_ = p.PayEnergy(card.Def.Cost)
	p.RemoveFromHand(card.ID)
	p.Field.Set(pos, card)
	m.summonedIDs[card.ID] = true
	m.selectedHand = -1

	m.log(log.NewSummonEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name, pos.String()))
	m.signal()
	return nil
}

// --- Combat ---

// SelectAttacker records a pending attacker for the two-step attack
// interaction. Selecting the same monster again cancels the selection.
func (m *Match) SelectAttacker(player int, pos FieldPos) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhaseAttack); err != nil {
		return err
	}

	card := m.state.Players[player].Field.At(pos)
	if card == nil {
		return ErrSlotEmpty
	}
	if m.attackedIDs[card.ID] {
		return ErrAlreadyAttacked
	}
	if m.pendingAttacker != nil && *m.pendingAttacker == pos {
		m.pendingAttacker = nil
	} else {
		p := pos
		m.pendingAttacker = &p
	}
	m.signal()
	return nil
}

// ResolveAttack applies the pending attacker's attack to a target on the
// opponent's side. The back row and the special card are only targetable
// while the opponent's front row is entirely empty.
func (m *Match) ResolveAttack(player int, target AttackTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhaseAttack); err != nil {
		return err
	}
	if m.pendingAttacker == nil {
		return ErrNoSelection
	}

	attackerPos := *m.pendingAttacker
	attacker := m.state.Players[player].Field.At(attackerPos)
	if attacker == nil {
		m.pendingAttacker = nil
		return ErrSlotEmpty
	}
	if m.attackedIDs[attacker.ID] {
		m.pendingAttacker = nil
		return ErrAlreadyAttacked
	}

	opp := m.state.Opponent(player)
	defender := m.state.Players[opp]
	damage := attacker.AttackFor(attackerPos.Row) + m.buffs[attacker.ID]

	if target.SpecialCard {
		if !defender.Field.FrontRowEmpty() {
			return ErrBackRowProtected
		}
		m.dealSpecialCardDamage(player, opp, attacker, damage)
	} else {
		victim := defender.Field.At(target.Pos)
		if victim == nil {
			return ErrSlotEmpty
		}
		if target.Pos.Row == RowBack && !defender.Field.FrontRowEmpty() {
			return ErrBackRowProtected
		}
		m.dealMonsterDamage(player, opp, attacker, victim, target.Pos, damage)
	}

	m.attackedIDs[attacker.ID] = true
	m.pendingAttacker = nil
	m.checkWin()
	m.signal()
	return nil
}

// dealMonsterDamage applies combat damage to a field monster. Monsters at
// 0 HP or below move to their owner's graveyard and free the slot.
func (m *Match) dealMonsterDamage(player, owner int, attacker, victim *CardInstance, pos FieldPos, damage int) {
	m.log(log.NewAttackEvent(m.state.Turn, player, attacker.Def.Name, victim.Def.Name, damage))
	victim.CurrentHP -= damage
	if victim.CurrentHP <= 0 {
		f := &m.state.Players[owner].Field
		f.Set(pos, nil)
		m.state.Players[owner].SendToGraveyard(victim)
		m.log(log.NewDestroyEvent(m.state.Turn, m.state.Phase.String(), owner, victim.Def.Name))
	}
}

// dealSpecialCardDamage applies direct damage to a player's special card.
// The stored HP may go negative; the win check runs on ≤ 0.
func (m *Match) dealSpecialCardDamage(player, owner int, attacker *CardInstance, damage int) {
	p := m.state.Players[owner]
	p.SpecialCardHP -= damage
	m.log(log.NewSpecialCardHitEvent(m.state.Turn, player, attacker.Def.Name, damage, p.SpecialCardHP))
}

// --- Movement ---

// RequestMove starts the two-step relocation of one of the acting player's
// field monsters. Freshly summoned monsters cannot move until next turn.
func (m *Match) RequestMove(player int, pos FieldPos) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhasePlay); err != nil {
		return err
	}

	card := m.state.Players[player].Field.At(pos)
	if card == nil {
		return ErrSlotEmpty
	}
	if m.summonedIDs[card.ID] {
		return ErrSummonedThisTurn
	}
	if m.movedIDs[card.ID] {
		return ErrAlreadyMoved
	}
	p := pos
	m.pendingMove = &p
	m.signal()
	return nil
}

// ConfirmMove completes a pending relocation into an empty slot. Choosing
// the source slot again cancels the move without side effects.
func (m *Match) ConfirmMove(player int, dest FieldPos) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhasePlay); err != nil {
		return err
	}
	if m.pendingMove == nil {
		return ErrNoSelection
	}

	src := *m.pendingMove
	if src == dest {
		m.pendingMove = nil
		m.signal()
		return nil
	}

	f := &m.state.Players[player].Field
	card := f.At(src)
	if card == nil {
		m.pendingMove = nil
		return ErrSlotEmpty
	}
	if m.movedIDs[card.ID] {
		m.pendingMove = nil
		return ErrAlreadyMoved
	}
	if f.At(dest) != nil {
		return ErrSlotOccupied
	}

	f.Set(src, nil)
	f.Set(dest, card)
	m.movedIDs[card.ID] = true
	m.pendingMove = nil

	m.log(log.NewMoveEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name, src.String(), dest.String()))
	m.signal()
	return nil
}

// --- Spells ---

// CastSpell casts the spell at the given hand index. Targeted spells take
// a position on the caster's own field. The returned message carries
// non-fatal warnings (e.g. the deck running out mid-draw).
func (m *Match) CastSpell(player, handIndex int, target *FieldPos) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhasePlay); err != nil {
		return "", err
	}

	p := m.state.Players[player]
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return "", ErrNoSelection
	}
	card := p.Hand[handIndex]
	if card.Def.Kind != KindSpell {
		return "", ErrIllegalTarget
	}
	if card.Def.Cost > p.CurrentEnergy {
		return "", ErrInsufficientEnergy
	}

	switch card.Def.Spell {
	case SpellAttackBuff:
		if target == nil {
			return "", ErrIllegalTarget
		}
		victim := p.Field.At(*target)
		if victim == nil || victim.Def.Kind != KindMonster {
			return "", ErrIllegalTarget
		}
		_ = p.PayEnergy(card.Def.Cost)
		p.RemoveFromHand(card.ID)
		p.SendToGraveyard(card)
		m.buffs[victim.ID]++
		m.selectedHand = -1
		m.log(log.NewSpellCastEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name))
		m.log(log.NewBuffEvent(m.state.Turn, m.state.Phase.String(), player, victim.Def.Name, m.buffs[victim.ID]))
		m.signal()
		return "", nil

	case SpellExtraDraw:
		_ = p.PayEnergy(card.Def.Cost)
		p.RemoveFromHand(card.ID)
		p.SendToGraveyard(card)
		drawn := m.drawCardsLocked(player, 2)
		m.selectedHand = -1
		m.log(log.NewSpellCastEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name))
		m.signal()
		if drawn < 2 {
			return ErrDeckExhausted.Error(), nil
		}
		return "", nil

	case SpellDiscardDraw:
		// The spell itself never counts toward the discard requirement.
		if len(p.Hand)-1 < 2 {
			return "", ErrInsufficientHand
		}
		m.pendingSpell = card
		m.discardPicks = nil
		m.selectedHand = -1
		m.signal()
		return "", nil

	default:
		// Unrecognized spell identity: the card is not consumed and no
		// energy is paid.
		return "", ErrUnknownSpell
	}
}

// toggleDiscardLocked flips the discard flag on a hand card while a
// discard-draw spell is pending. The spell itself cannot be chosen.
func (m *Match) toggleDiscardLocked(card *CardInstance) error {
	if card.ID == m.pendingSpell.ID {
		return ErrIllegalTarget
	}
	for i, id := range m.discardPicks {
		if id == card.ID {
			m.discardPicks = append(m.discardPicks[:i], m.discardPicks[i+1:]...)
			m.signal()
			return nil
		}
	}
	if len(m.discardPicks) >= 2 {
		return ErrIllegalTarget
	}
	m.discardPicks = append(m.discardPicks, card.ID)
	m.signal()
	return nil
}

// ConfirmDiscard resolves a pending discard-draw spell as one atomic
// update: both picks to the graveyard, two cards drawn, the spell to the
// graveyard, its cost paid.
func (m *Match) ConfirmDiscard(player int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhasePlay); err != nil {
		return "", err
	}
	if m.pendingSpell == nil {
		return "", ErrNoSelection
	}
	if len(m.discardPicks) != 2 {
		return "", ErrNoSelection
	}

	p := m.state.Players[player]
	spell := m.pendingSpell
	if spell.Def.Cost > p.CurrentEnergy {
		return "", ErrInsufficientEnergy
	}

	// A pick can leave the hand between toggle and confirm (e.g. another
	// spell was cast in the meantime). Drop stale picks and make the
	// player choose again rather than discard fewer than two.
	picked := make([]*CardInstance, 0, len(m.discardPicks))
	for _, id := range m.discardPicks {
		for _, c := range p.Hand {
			if c.ID == id {
				picked = append(picked, c)
				break
			}
		}
	}
	if len(picked) != 2 {
		ids := make([]string, len(picked))
		for i, c := range picked {
			ids[i] = c.ID
		}
		m.discardPicks = ids
		m.signal()
		return "", ErrNoSelection
	}

	for _, c := range picked {
		p.RemoveFromHand(c.ID)
		p.SendToGraveyard(c)
		m.log(log.NewDiscardEvent(m.state.Turn, m.state.Phase.String(), player, c.Def.Name))
	}
	drawn := m.drawCardsLocked(player, 2)
	p.RemoveFromHand(spell.ID)
	p.SendToGraveyard(spell)
	_ = p.PayEnergy(spell.Def.Cost)

	m.log(log.NewSpellCastEvent(m.state.Turn, m.state.Phase.String(), player, spell.Def.Name))
	m.pendingSpell = nil
	m.discardPicks = nil
	m.signal()
	if drawn < 2 {
		return ErrDeckExhausted.Error(), nil
	}
	return "", nil
}

// DeclineDiscard abandons a pending discard-draw spell, clearing the
// partial selection without any effect.
func (m *Match) DeclineDiscard(player int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pendingSpell == nil {
		return ErrNoSelection
	}
	m.pendingSpell = nil
	m.discardPicks = nil
	m.signal()
	return nil
}

// drawCardsLocked draws up to n cards and returns how many actually came.
func (m *Match) drawCardsLocked(player, n int) int {
	p := m.state.Players[player]
	drawn := 0
	for i := 0; i < n; i++ {
		card := p.Draw()
		if card == nil {
			break
		}
		m.log(log.NewDrawEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name))
		drawn++
	}
	return drawn
}

// --- Monster effects ---

// ActivateEffect activates a support monster's once-per-turn healing
// effect on an allied monster. The heal is +1 HP, capped at the target's
// catalog-defined maximum. Returns a human-readable result message.
func (m *Match) ActivateEffect(player int, activatorID, targetID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhasePlay); err != nil {
		return "", err
	}

	f := &m.state.Players[player].Field
	actPos, ok := f.Find(activatorID)
	if !ok {
		return "", ErrIllegalTarget
	}
	activator := f.At(actPos)
	if activator.Def.Effect != MonsterEffectHealAlly {
		return "", ErrIllegalTarget
	}
	if activator.UsedEffectThisTurn {
		return "", ErrEffectAlreadyUsed
	}

	tgtPos, ok := f.Find(targetID)
	if !ok {
		return "", ErrIllegalTarget
	}
	target := f.At(tgtPos)
	if target.Def.Kind != KindMonster {
		return "", ErrIllegalTarget
	}

	// Max HP comes from the catalog entry behind the instance id.
	def := DefByID(strings.SplitN(target.ID, "-", 2)[0])
	if def == nil || def.Kind != KindMonster {
		return "", ErrIllegalTarget
	}
	if target.CurrentHP >= def.MaxHP {
		return "", ErrMaxHPReached
	}

	target.CurrentHP++
	if target.CurrentHP > def.MaxHP {
		target.CurrentHP = def.MaxHP
	}
	activator.UsedEffectThisTurn = true

	m.log(log.NewHealEvent(m.state.Turn, m.state.Phase.String(), player, target.Def.Name, target.CurrentHP))
	m.signal()
	return fmt.Sprintf("%s restores %s to %d HP", activator.Def.Name, target.Def.Name, target.CurrentHP), nil
}
