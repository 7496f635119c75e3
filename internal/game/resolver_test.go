package game

import (
	"errors"
	"testing"

	"rowduel/internal/log"
)

// --- Summoning ---

func TestPlayMonsterPaysCostAndOccupiesSlot(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Soldier"}, nil)
	grantEnergy(t, m, 0, 2)

	before := energy(m, 0)
	soldier := summon(t, m, 0, "Soldier", FieldPos{Row: RowFront, Index: 1})

	if got := energy(m, 0); got != before-2 {
		t.Errorf("energy = %d, want %d", got, before-2)
	}
	if soldier.CurrentHP != 7 {
		t.Errorf("Soldier HP = %d, want 7", soldier.CurrentHP)
	}
	if got := len(logger.EventsOfType(log.EventSummon)); got != 1 {
		t.Errorf("summon events = %d, want 1", got)
	}
	if m.SelectedHand() != -1 {
		t.Error("selection should clear after a summon")
	}
}

func TestPlayMonsterRejections(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Soldier", "Colossus", "Battle Chant"}, nil)
	grantEnergy(t, m, 0, 2)

	pos := FieldPos{Row: RowFront, Index: 0}

	// No selection yet.
	if err := m.PlayMonster(0, pos); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}

	// A spell cannot be summoned.
	_ = m.SelectHandCard(0, handIndex(t, m, 0, "Battle Chant"))
	if err := m.PlayMonster(0, pos); !errors.Is(err, ErrIllegalTarget) {
		t.Errorf("expected ErrIllegalTarget for a spell, got %v", err)
	}
	_ = m.CancelPending(0)

	// Colossus costs 3, we hold 2.
	_ = m.SelectHandCard(0, handIndex(t, m, 0, "Colossus"))
	if err := m.PlayMonster(0, pos); !errors.Is(err, ErrInsufficientEnergy) {
		t.Errorf("expected ErrInsufficientEnergy, got %v", err)
	}
	_ = m.CancelPending(0)

	// Occupied slot. Slinger costs nothing, so only the slot check fires.
	summon(t, m, 0, "Soldier", pos)
	grantEnergy(t, m, 0, 1)
	_ = m.SelectHandCard(0, handIndex(t, m, 0, "Slinger"))
	if err := m.PlayMonster(0, pos); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected ErrSlotOccupied, got %v", err)
	}
}

// --- Combat ---

// attackWith drives the two-step attack interaction.
func attackWith(t *testing.T, m *Match, player int, attacker FieldPos, target AttackTarget) error {
	t.Helper()
	if err := m.SelectAttacker(player, attacker); err != nil {
		return err
	}
	return m.ResolveAttack(player, target)
}

func TestAttackDamagesAndDestroys(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Brute"}, []string{"Scout"})
	grantEnergy(t, m, 0, 1)
	summon(t, m, 0, "Brute", FieldPos{Row: RowFront, Index: 0})
	_ = m.EndTurn(0)

	grantEnergy(t, m, 1, 1)
	scoutPos := FieldPos{Row: RowFront, Index: 1}
	summon(t, m, 1, "Scout", scoutPos)
	_ = m.EndTurn(1)

	toAttackPhase(t, m, 0)
	err := attackWith(t, m, 0, FieldPos{Row: RowFront, Index: 0}, AttackTarget{Pos: scoutPos})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}

	// Brute hits for 4, Scout has 3 HP: destroyed.
	if fieldCard(m, 1, scoutPos) != nil {
		t.Error("Scout should have been destroyed")
	}
	m.Inspect(func(s *GameState) {
		if len(s.Players[1].Graveyard) != 1 {
			t.Errorf("graveyard = %d cards, want 1", len(s.Players[1].Graveyard))
		}
	})
	destroys := logger.EventsOfType(log.EventDestroy)
	if len(destroys) != 1 || destroys[0].Card != "Scout" {
		t.Errorf("expected a destroy event for Scout, got %v", destroys)
	}
}

func TestAttackSurvivorKeepsDamage(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Goblin Attacker"}, []string{"Stone Golem"})
	grantEnergy(t, m, 0, 1)
	summon(t, m, 0, "Goblin Attacker", FieldPos{Row: RowFront, Index: 0})
	_ = m.EndTurn(0)

	grantEnergy(t, m, 1, 2)
	golemPos := FieldPos{Row: RowFront, Index: 0}
	golem := summon(t, m, 1, "Stone Golem", golemPos)
	_ = m.EndTurn(1)

	toAttackPhase(t, m, 0)
	if err := attackWith(t, m, 0, FieldPos{Row: RowFront, Index: 0}, AttackTarget{Pos: golemPos}); err != nil {
		t.Fatalf("attack: %v", err)
	}

	// Goblin hits for 2 against 13 HP.
	if golem.CurrentHP != 11 {
		t.Errorf("Golem HP = %d, want 11", golem.CurrentHP)
	}
	if fieldCard(m, 1, golemPos) == nil {
		t.Error("a surviving monster must stay on the field")
	}
}

func TestBackRowProtectedWhileFrontRowOccupied(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Brute"}, []string{"Footman", "Hunter"})
	grantEnergy(t, m, 0, 1)
	summon(t, m, 0, "Brute", FieldPos{Row: RowFront, Index: 0})
	_ = m.EndTurn(0)

	grantEnergy(t, m, 1, 1)
	summon(t, m, 1, "Footman", FieldPos{Row: RowFront, Index: 0})
	grantEnergy(t, m, 1, 1)
	hunterPos := FieldPos{Row: RowBack, Index: 0}
	summon(t, m, 1, "Hunter", hunterPos)
	_ = m.EndTurn(1)

	toAttackPhase(t, m, 0)
	attacker := FieldPos{Row: RowFront, Index: 0}

	err := attackWith(t, m, 0, attacker, AttackTarget{Pos: hunterPos})
	if !errors.Is(err, ErrBackRowProtected) {
		t.Fatalf("expected ErrBackRowProtected, got %v", err)
	}

	err = m.ResolveAttack(0, AttackTarget{SpecialCard: true})
	if !errors.Is(err, ErrBackRowProtected) {
		t.Fatalf("special card should be protected too, got %v", err)
	}
}

func TestAttackOncePerTurn(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Brute"}, nil)
	grantEnergy(t, m, 0, 1)
	brutePos := FieldPos{Row: RowFront, Index: 0}
	brute := summon(t, m, 0, "Brute", brutePos)
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)

	toAttackPhase(t, m, 0)
	if err := attackWith(t, m, 0, brutePos, AttackTarget{SpecialCard: true}); err != nil {
		t.Fatalf("first attack: %v", err)
	}
	if !m.HasAttacked(brute.ID) {
		t.Fatal("attacker should be marked for the turn")
	}
	if err := m.SelectAttacker(0, brutePos); !errors.Is(err, ErrAlreadyAttacked) {
		t.Fatalf("expected ErrAlreadyAttacked, got %v", err)
	}

	// The flag resets with the next turn.
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)
	toAttackPhase(t, m, 0)
	if err := attackWith(t, m, 0, brutePos, AttackTarget{SpecialCard: true}); err != nil {
		t.Fatalf("attack on a later turn: %v", err)
	}
}

func TestBackRowAttackerUsesBackAttack(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Sorcerer"}, nil)
	grantEnergy(t, m, 0, 2)
	sorcPos := FieldPos{Row: RowBack, Index: 0}
	summon(t, m, 0, "Sorcerer", sorcPos)
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)

	toAttackPhase(t, m, 0)
	if err := attackWith(t, m, 0, sorcPos, AttackTarget{SpecialCard: true}); err != nil {
		t.Fatalf("attack: %v", err)
	}

	// Sorcerer: 0 front / 5 back.
	if got := specialHP(m, 1); got != StartingSpecialHP-5 {
		t.Errorf("special card HP = %d, want %d", got, StartingSpecialHP-5)
	}
}

func TestLethalDirectAttackWins(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Colossus"}, nil)
	grantEnergy(t, m, 0, 3)
	colPos := FieldPos{Row: RowFront, Index: 0}
	summon(t, m, 0, "Colossus", colPos)

	// 20 special HP / 8 damage per hit: the third strike is lethal.
	for i := 0; i < 3; i++ {
		_ = m.EndTurn(0)
		_ = m.EndTurn(1)
		toAttackPhase(t, m, 0)
		if err := attackWith(t, m, 0, colPos, AttackTarget{SpecialCard: true}); err != nil {
			t.Fatalf("strike %d: %v", i+1, err)
		}
	}

	if !m.Over() {
		t.Fatal("match should be over")
	}
	winner, _ := m.Winner()
	if winner != 0 {
		t.Fatalf("winner = %d, want 0", winner)
	}
	if got := specialHP(m, 1); got != -4 {
		t.Errorf("special card HP = %d, want -4 (no clamping)", got)
	}
	wins := logger.EventsOfType(log.EventWin)
	if len(wins) != 1 || wins[0].Player != 0 {
		t.Errorf("expected one win event for P1, got %v", wins)
	}

	// Everything after the win is rejected.
	if err := m.EndTurn(0); !errors.Is(err, ErrMatchOver) {
		t.Errorf("expected ErrMatchOver, got %v", err)
	}
}

// --- Movement ---

func TestMoveBlockedOnSummonTurn(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Soldier"}, nil)
	grantEnergy(t, m, 0, 2)
	pos := FieldPos{Row: RowFront, Index: 0}
	summon(t, m, 0, "Soldier", pos)

	if err := m.RequestMove(0, pos); !errors.Is(err, ErrSummonedThisTurn) {
		t.Fatalf("expected ErrSummonedThisTurn, got %v", err)
	}
}

func TestMoveRelocatesOncePerTurn(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Balancer"}, nil)
	grantEnergy(t, m, 0, 2)
	src := FieldPos{Row: RowFront, Index: 0}
	balancer := summon(t, m, 0, "Balancer", src)
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)
	toPlayPhase(t, m, 0)

	dest := FieldPos{Row: RowBack, Index: 2}
	if err := m.RequestMove(0, src); err != nil {
		t.Fatalf("request move: %v", err)
	}
	if err := m.ConfirmMove(0, dest); err != nil {
		t.Fatalf("confirm move: %v", err)
	}

	if fieldCard(m, 0, src) != nil {
		t.Error("source slot should be empty after the move")
	}
	if got := fieldCard(m, 0, dest); got == nil || got.ID != balancer.ID {
		t.Error("monster should occupy the destination")
	}
	if len(logger.EventsOfType(log.EventMove)) != 1 {
		t.Error("expected one move event")
	}

	// Second move the same turn is rejected.
	if err := m.RequestMove(0, dest); !errors.Is(err, ErrAlreadyMoved) {
		t.Fatalf("expected ErrAlreadyMoved, got %v", err)
	}
}

func TestMoveSameSlotCancels(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Balancer"}, nil)
	grantEnergy(t, m, 0, 2)
	pos := FieldPos{Row: RowFront, Index: 0}
	summon(t, m, 0, "Balancer", pos)
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)
	toPlayPhase(t, m, 0)

	if err := m.RequestMove(0, pos); err != nil {
		t.Fatal(err)
	}
	if err := m.ConfirmMove(0, pos); err != nil {
		t.Fatalf("same-slot confirm should cancel cleanly: %v", err)
	}
	if m.PendingMove() != nil {
		t.Fatal("pending move should be cleared")
	}

	// Cancelling does not consume the per-turn move.
	if err := m.RequestMove(0, pos); err != nil {
		t.Fatalf("move after cancel: %v", err)
	}
	if err := m.ConfirmMove(0, FieldPos{Row: RowFront, Index: 2}); err != nil {
		t.Fatalf("confirm after cancel: %v", err)
	}
}

func TestMoveIntoOccupiedSlotRejected(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Footman", "Scout"}, nil)
	grantEnergy(t, m, 0, 1)
	a := FieldPos{Row: RowFront, Index: 0}
	b := FieldPos{Row: RowFront, Index: 1}
	summon(t, m, 0, "Footman", a)
	summon(t, m, 0, "Scout", b)
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)
	toPlayPhase(t, m, 0)

	if err := m.RequestMove(0, a); err != nil {
		t.Fatal(err)
	}
	if err := m.ConfirmMove(0, b); !errors.Is(err, ErrSlotOccupied) {
		t.Fatalf("expected ErrSlotOccupied, got %v", err)
	}
}

// --- Spells ---

func TestAttackBuffStacksAndApplies(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Footman", "Battle Chant", "Battle Chant"}, nil)
	grantEnergy(t, m, 0, 2)
	pos := FieldPos{Row: RowFront, Index: 0}
	footman := summon(t, m, 0, "Footman", pos)
	grantEnergy(t, m, 0, 2)

	for i := 0; i < 2; i++ {
		idx := handIndex(t, m, 0, "Battle Chant")
		if _, err := m.CastSpell(0, idx, &pos); err != nil {
			t.Fatalf("cast %d: %v", i+1, err)
		}
	}
	if got := m.AttackBuff(footman.ID); got != 2 {
		t.Fatalf("buff = %d, want 2 after stacking", got)
	}

	if err := m.AdvancePhase(0); err != nil {
		t.Fatal(err)
	}
	if err := attackWith(t, m, 0, pos, AttackTarget{SpecialCard: true}); err != nil {
		t.Fatalf("attack: %v", err)
	}

	// Footman hits for 2 base + 2 buff.
	if got := specialHP(m, 1); got != StartingSpecialHP-4 {
		t.Errorf("special card HP = %d, want %d", got, StartingSpecialHP-4)
	}
}

func TestAttackBuffRequiresOwnFieldTarget(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Battle Chant"}, nil)
	grantEnergy(t, m, 0, 1)

	idx := handIndex(t, m, 0, "Battle Chant")
	if _, err := m.CastSpell(0, idx, nil); !errors.Is(err, ErrIllegalTarget) {
		t.Fatalf("expected ErrIllegalTarget without a target, got %v", err)
	}
	empty := FieldPos{Row: RowFront, Index: 0}
	if _, err := m.CastSpell(0, idx, &empty); !errors.Is(err, ErrIllegalTarget) {
		t.Fatalf("expected ErrIllegalTarget for an empty slot, got %v", err)
	}

	// The failed casts consumed nothing.
	if got := energy(m, 0); got != 1 {
		t.Errorf("energy = %d, want 1", got)
	}
	if got := handSize(m, 0); got != 6 {
		t.Errorf("hand = %d cards, want 6", got)
	}
}

func TestExtraDrawSpell(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Insight"}, nil)
	grantEnergy(t, m, 0, 1)

	before := handSize(m, 0)
	idx := handIndex(t, m, 0, "Insight")
	warn, err := m.CastSpell(0, idx, nil)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if warn != "" {
		t.Errorf("unexpected warning %q", warn)
	}

	// Spell leaves the hand, two cards arrive.
	if got := handSize(m, 0); got != before+1 {
		t.Errorf("hand = %d cards, want %d", got, before+1)
	}
	m.Inspect(func(s *GameState) {
		if len(s.Players[0].Graveyard) != 1 {
			t.Errorf("graveyard = %d, want the spent spell", len(s.Players[0].Graveyard))
		}
	})
	if len(logger.EventsOfType(log.EventSpellCast)) != 1 {
		t.Error("expected a spell cast event")
	}
}

func TestExtraDrawWarnsOnExhaustedDeck(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Insight"}, nil)
	grantEnergy(t, m, 0, 1)

	// Empty the deck out from under the spell.
	m.Inspect(func(s *GameState) {
		s.Players[0].Deck = nil
	})

	idx := handIndex(t, m, 0, "Insight")
	warn, err := m.CastSpell(0, idx, nil)
	if err != nil {
		t.Fatalf("cast should still complete: %v", err)
	}
	if warn == "" {
		t.Error("expected a deck-exhausted warning")
	}
}

func TestDiscardDrawFullFlow(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Triage"}, nil)
	grantEnergy(t, m, 0, 1)

	idx := handIndex(t, m, 0, "Triage")
	if _, err := m.CastSpell(0, idx, nil); err != nil {
		t.Fatalf("cast: %v", err)
	}
	spellID, picks := m.PendingDiscard()
	if spellID == "" || len(picks) != 0 {
		t.Fatalf("expected a pending discard with no picks, got %q %v", spellID, picks)
	}

	// The spell itself cannot be picked.
	if err := m.SelectHandCard(0, handIndex(t, m, 0, "Triage")); !errors.Is(err, ErrIllegalTarget) {
		t.Fatalf("expected ErrIllegalTarget picking the spell, got %v", err)
	}

	// Confirm with fewer than two picks is rejected.
	if _, err := m.ConfirmDiscard(0); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	// Pick two fillers; a re-click untoggles, so toggle one an extra time.
	var fillerIdx []int
	m.Inspect(func(s *GameState) {
		for i, c := range s.Players[0].Hand {
			if c.Def.Name == "Slinger" {
				fillerIdx = append(fillerIdx, i)
			}
		}
	})
	if len(fillerIdx) < 2 {
		t.Fatal("test deck should hold filler cards")
	}
	_ = m.SelectHandCard(0, fillerIdx[0])
	_ = m.SelectHandCard(0, fillerIdx[0]) // untoggle
	_ = m.SelectHandCard(0, fillerIdx[0])
	_ = m.SelectHandCard(0, fillerIdx[1])
	if _, picks := m.PendingDiscard(); len(picks) != 2 {
		t.Fatalf("picks = %d, want 2", len(picks))
	}

	beforeHand := handSize(m, 0)
	beforeEnergy := energy(m, 0)
	if _, err := m.ConfirmDiscard(0); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Net effect: -2 discards, +2 draws, -1 spell.
	if got := handSize(m, 0); got != beforeHand-1 {
		t.Errorf("hand = %d cards, want %d", got, beforeHand-1)
	}
	if got := energy(m, 0); got != beforeEnergy-1 {
		t.Errorf("energy = %d, want %d", got, beforeEnergy-1)
	}
	m.Inspect(func(s *GameState) {
		if len(s.Players[0].Graveyard) != 3 {
			t.Errorf("graveyard = %d cards, want 3 (two discards plus the spell)", len(s.Players[0].Graveyard))
		}
	})
	if got := len(logger.EventsOfType(log.EventDiscard)); got != 2 {
		t.Errorf("discard events = %d, want 2", got)
	}
	if spellID, _ := m.PendingDiscard(); spellID != "" {
		t.Error("pending spell should be cleared")
	}
}

func TestConfirmDiscardRejectsStalePicks(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Triage", "Insight"}, nil)
	grantEnergy(t, m, 0, 2)

	if _, err := m.CastSpell(0, handIndex(t, m, 0, "Triage"), nil); err != nil {
		t.Fatalf("cast: %v", err)
	}

	// Pick the other spell and a filler monster.
	insightIdx := handIndex(t, m, 0, "Insight")
	if err := m.SelectHandCard(0, insightIdx); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if err := m.SelectHandCard(0, handIndex(t, m, 0, "Slinger")); err != nil {
		t.Fatalf("pick: %v", err)
	}

	// Cast the picked spell out from under the pending discard.
	if _, err := m.CastSpell(0, handIndex(t, m, 0, "Insight"), nil); err != nil {
		t.Fatalf("intervening cast: %v", err)
	}

	// The stale pick must not resolve as a one-card discard.
	if _, err := m.ConfirmDiscard(0); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	_, picks := m.PendingDiscard()
	if len(picks) != 1 {
		t.Fatalf("stale pick should be dropped, picks = %d", len(picks))
	}
	if got := len(logger.EventsOfType(log.EventDiscard)); got != 0 {
		t.Fatalf("discard events = %d, want 0", got)
	}

	// Re-picking a second card lets the spell resolve normally.
	otherIdx := -1
	m.Inspect(func(s *GameState) {
		for i, c := range s.Players[0].Hand {
			if c.Def.Name == "Slinger" && c.ID != picks[0] {
				otherIdx = i
				break
			}
		}
	})
	if otherIdx < 0 {
		t.Fatal("test deck should hold a second filler card")
	}
	if err := m.SelectHandCard(0, otherIdx); err != nil {
		t.Fatalf("re-pick: %v", err)
	}
	if _, err := m.ConfirmDiscard(0); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := len(logger.EventsOfType(log.EventDiscard)); got != 2 {
		t.Errorf("discard events = %d, want 2", got)
	}
	if spellID, _ := m.PendingDiscard(); spellID != "" {
		t.Error("pending spell should be cleared")
	}
}

func TestDiscardDrawNeedsTwoOtherCards(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Triage"}, nil)
	grantEnergy(t, m, 0, 1)

	// Shrink the hand to the spell plus one other card.
	m.Inspect(func(s *GameState) {
		p := s.Players[0]
		for len(p.Hand) > 2 {
			last := p.Hand[len(p.Hand)-1]
			if last.Def.Name == "Triage" {
				p.Hand = append([]*CardInstance{last}, p.Hand[:len(p.Hand)-1]...)
				continue
			}
			p.Hand = p.Hand[:len(p.Hand)-1]
		}
	})

	idx := handIndex(t, m, 0, "Triage")
	if _, err := m.CastSpell(0, idx, nil); !errors.Is(err, ErrInsufficientHand) {
		t.Fatalf("expected ErrInsufficientHand, got %v", err)
	}
}

func TestDeclineDiscardRestoresState(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Triage"}, nil)
	grantEnergy(t, m, 0, 1)

	idx := handIndex(t, m, 0, "Triage")
	if _, err := m.CastSpell(0, idx, nil); err != nil {
		t.Fatal(err)
	}
	beforeHand := handSize(m, 0)
	beforeEnergy := energy(m, 0)

	if err := m.DeclineDiscard(0); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if got := handSize(m, 0); got != beforeHand {
		t.Errorf("hand changed on decline: %d", got)
	}
	if got := energy(m, 0); got != beforeEnergy {
		t.Errorf("energy changed on decline: %d", got)
	}
	if spellID, _ := m.PendingDiscard(); spellID != "" {
		t.Error("pending spell should be cleared")
	}
}

func TestUnknownSpellIsRejectedUntouched(t *testing.T) {
	m, _ := newTestMatch(t, nil, nil)
	grantEnergy(t, m, 0, 1)

	// A spell definition the resolver has no behavior for.
	mystery := &CardDef{ID: "s999", Name: "Mystery", Kind: KindSpell, Cost: 1}
	m.Inspect(func(s *GameState) {
		s.Players[0].Hand = append(s.Players[0].Hand, &CardInstance{Def: mystery, ID: "s999-0"})
	})

	before := handSize(m, 0)
	idx := handIndex(t, m, 0, "Mystery")
	if _, err := m.CastSpell(0, idx, nil); !errors.Is(err, ErrUnknownSpell) {
		t.Fatalf("expected ErrUnknownSpell, got %v", err)
	}
	if got := handSize(m, 0); got != before {
		t.Error("an unknown spell must stay in hand")
	}
	if got := energy(m, 0); got != 1 {
		t.Error("an unknown spell must not cost energy")
	}
}

// --- Monster effects ---

func TestMonkHealsDamagedAlly(t *testing.T) {
	m, logger := newTestMatch(t, []string{"Monk", "Stone Golem"}, []string{"Goblin Attacker"})
	grantEnergy(t, m, 0, 2)
	golemPos := FieldPos{Row: RowFront, Index: 0}
	golem := summon(t, m, 0, "Stone Golem", golemPos)
	grantEnergy(t, m, 0, 1)
	monk := summon(t, m, 0, "Monk", FieldPos{Row: RowBack, Index: 0})
	_ = m.EndTurn(0)

	grantEnergy(t, m, 1, 1)
	summon(t, m, 1, "Goblin Attacker", FieldPos{Row: RowFront, Index: 0})
	if err := m.AdvancePhase(1); err != nil {
		t.Fatal(err)
	}
	if err := attackWith(t, m, 1, FieldPos{Row: RowFront, Index: 0}, AttackTarget{Pos: golemPos}); err != nil {
		t.Fatalf("opponent attack: %v", err)
	}
	if golem.CurrentHP != 11 {
		t.Fatalf("Golem HP = %d after taking 2, want 11", golem.CurrentHP)
	}
	_ = m.EndTurn(1)

	toPlayPhase(t, m, 0)
	msg, err := m.ActivateEffect(0, monk.ID, golem.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if golem.CurrentHP != 12 {
		t.Errorf("Golem HP = %d after heal, want 12", golem.CurrentHP)
	}
	if msg == "" {
		t.Error("expected a result message")
	}
	if len(logger.EventsOfType(log.EventHeal)) != 1 {
		t.Error("expected a heal event")
	}

	// Once per turn.
	if _, err := m.ActivateEffect(0, monk.ID, golem.ID); !errors.Is(err, ErrEffectAlreadyUsed) {
		t.Fatalf("expected ErrEffectAlreadyUsed, got %v", err)
	}

	// The flag clears next turn.
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)
	toPlayPhase(t, m, 0)
	if _, err := m.ActivateEffect(0, monk.ID, golem.ID); err != nil {
		t.Fatalf("heal on a later turn: %v", err)
	}
}

func TestMonkHealCapsAtCatalogMax(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Monk", "Footman"}, nil)
	grantEnergy(t, m, 0, 1)
	footman := summon(t, m, 0, "Footman", FieldPos{Row: RowFront, Index: 0})
	grantEnergy(t, m, 0, 1)
	monk := summon(t, m, 0, "Monk", FieldPos{Row: RowBack, Index: 0})
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)
	toPlayPhase(t, m, 0)

	if _, err := m.ActivateEffect(0, monk.ID, footman.ID); !errors.Is(err, ErrMaxHPReached) {
		t.Fatalf("expected ErrMaxHPReached at full HP, got %v", err)
	}
	if footman.CurrentHP != footman.Def.MaxHP {
		t.Error("a rejected heal must not change HP")
	}
}

func TestActivateEffectRequiresEffectMonster(t *testing.T) {
	m, _ := newTestMatch(t, []string{"Soldier", "Footman"}, nil)
	grantEnergy(t, m, 0, 2)
	soldier := summon(t, m, 0, "Soldier", FieldPos{Row: RowFront, Index: 0})
	grantEnergy(t, m, 0, 1)
	footman := summon(t, m, 0, "Footman", FieldPos{Row: RowFront, Index: 1})
	_ = m.EndTurn(0)
	_ = m.EndTurn(1)
	toPlayPhase(t, m, 0)

	if _, err := m.ActivateEffect(0, soldier.ID, footman.ID); !errors.Is(err, ErrIllegalTarget) {
		t.Fatalf("expected ErrIllegalTarget for a plain monster, got %v", err)
	}
}
