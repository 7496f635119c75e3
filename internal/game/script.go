package game

import (
	"context"
	"time"

	"rowduel/internal/log"
)

// DriverConfig paces the automated parts of a match: the human seat's
// automatic Draw-phase advance and the scripted seat's step-by-step turn.
type DriverConfig struct {
	HumanSeat  int
	ScriptSeat int

	// StepDelay spaces out the scripted seat's actions so a spectator can
	// follow them. DrawAdvanceDelay holds the human seat briefly in the
	// Draw phase before moving on. Zero delays run the match flat out.
	StepDelay        time.Duration
	DrawAdvanceDelay time.Duration
}

// Driver runs the automated mutations of a match: it advances the human
// seat out of the Draw phase and plays the scripted seat's entire turn,
// one paced step at a time.
//
// Every step captures the match generation before sleeping and abandons
// its action if the generation moved, so a turn ended early (or a match
// torn down) never receives a stale step.
type Driver struct {
	m   *Match
	cfg DriverConfig
}

func NewDriver(m *Match, cfg DriverConfig) *Driver {
	return &Driver{m: m, cfg: cfg}
}

// Run drives the match until it ends or ctx is cancelled. It blocks; run
// it on its own goroutine.
func (d *Driver) Run(ctx context.Context) {
	ch := d.m.Subscribe()
	for {
		if d.m.Over() {
			return
		}
		d.step(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ch:
		}
	}
}

// step performs at most one automated action for the current state. Steps
// that act trigger a subscriber signal, which schedules the next step.
func (d *Driver) step(ctx context.Context) {
	var player int
	var phase Phase
	var over bool
	d.m.Inspect(func(s *GameState) {
		player, phase, over = s.CurrentPlayer, s.Phase, s.Over
	})
	if over {
		return
	}

	switch {
	case player == d.cfg.HumanSeat && phase == PhaseDraw:
		gen := d.m.Generation()
		if !d.pause(ctx, d.cfg.DrawAdvanceDelay) {
			return
		}
		if d.m.Generation() != gen {
			return
		}
		_ = d.m.AdvancePhase(player)

	case player == d.cfg.ScriptSeat:
		gen := d.m.Generation()
		if !d.pause(ctx, d.cfg.StepDelay) {
			return
		}
		if d.m.Generation() != gen {
			return
		}
		switch phase {
		case PhaseDraw:
			_ = d.m.AdvancePhase(player)
		case PhasePlay:
			if acted, _ := d.m.AutoPlayStep(player); !acted {
				_ = d.m.AdvancePhase(player)
			}
		case PhaseAttack:
			if acted, _ := d.m.AutoAttackStep(player); !acted {
				_ = d.m.AdvancePhase(player)
			}
		}
	}
}

func (d *Driver) pause(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// --- Scripted decision steps ---

// AutoPlayStep performs one scripted Play-phase action: summon the first
// affordable monster in hand to its preferred row. A monster with a higher
// back attack prefers the back row, everything else the front. If the
// preferred row is full the card is discarded instead, mirroring a player
// clearing dead weight from hand. Returns false when no affordable monster
// remains.
func (m *Match) AutoPlayStep(player int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhasePlay); err != nil {
		return false, err
	}

	p := m.state.Players[player]
	var card *CardInstance
	for _, c := range p.Hand {
		if c.Def.Kind == KindMonster && c.Def.Cost <= p.CurrentEnergy {
			card = c
			break
		}
	}
	if card == nil {
		return false, nil
	}

	row := RowFront
	if card.Def.BackAttack > card.Def.FrontAttack {
		row = RowBack
	}
	idx := p.Field.FreeSlot(row)
	if idx < 0 {
		p.RemoveFromHand(card.ID)
		p.SendToGraveyard(card)
		m.log(log.NewDiscardEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name))
		m.signal()
		return true, nil
	}

	pos := FieldPos{Row: row, Index: idx}
	_ = p.PayEnergy(card.Def.Cost)
	p.RemoveFromHand(card.ID)
	p.Field.Set(pos, card)
	m.summonedIDs[card.ID] = true

	m.log(log.NewSummonEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name, pos.String()))
	m.signal()
	return true, nil
}

// AutoAttackStep performs one scripted Attack-phase action: the next field
// monster that has not attacked yet strikes the first occupied slot in the
// opponent's front row, or the special card directly once that row is
// clear. Returns false when every monster has attacked.
func (m *Match) AutoAttackStep(player int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, PhaseAttack); err != nil {
		return false, err
	}

	p := m.state.Players[player]
	var attacker *CardInstance
	var attackerPos FieldPos
	for _, pos := range p.Field.Monsters() {
		c := p.Field.At(pos)
		if !m.attackedIDs[c.ID] {
			attacker, attackerPos = c, pos
			break
		}
	}
	if attacker == nil {
		return false, nil
	}

	opp := m.state.Opponent(player)
	defender := m.state.Players[opp]
	damage := attacker.AttackFor(attackerPos.Row) + m.buffs[attacker.ID]

	struck := false
	for i := 0; i < RowSize; i++ {
		pos := FieldPos{Row: RowFront, Index: i}
		if victim := defender.Field.At(pos); victim != nil {
			m.dealMonsterDamage(player, opp, attacker, victim, pos, damage)
			struck = true
			break
		}
	}
	if !struck {
		m.dealSpecialCardDamage(player, opp, attacker, damage)
	}

	m.attackedIDs[attacker.ID] = true
	m.checkWin()
	m.signal()
	return true, nil
}
