package game

import (
	"sync"

	"rowduel/internal/log"
)

// MatchConfig holds everything needed to start a match. Decks come from the
// deck builder; the deck-selection flow hands its result in here rather
// than through any shared storage.
type MatchConfig struct {
	Deck0  []*CardInstance // player 1 (the human seat)
	Deck1  []*CardInstance // player 2 (the scripted seat)
	Logger log.EventLogger
}

// Match orchestrates one game between the two seats. It owns the GameState
// plus the transient interaction state (selections, pending actions,
// per-turn tracking) that never persists across turns.
//
// All mutation goes through methods that lock, validate against the current
// state, and either fully apply or return a rejection with nothing changed.
type Match struct {
	mu     sync.Mutex
	state  *GameState
	logger log.EventLogger

	// gen increments whenever the turn player or phase changes, and when
	// the match closes. Paced automation steps capture it before sleeping
	// and abandon their update if it moved on.
	gen int

	// Transient interaction state.
	selectedHand    int // index into the selecting player's hand, -1 if none
	pendingAttacker *FieldPos
	pendingMove     *FieldPos
	pendingSpell    *CardInstance // discard-draw spell awaiting selection
	discardPicks    []string      // instance ids toggled for discard

	// Per-turn tracking, cleared on every player switch.
	attackedIDs map[string]bool
	movedIDs    map[string]bool
	summonedIDs map[string]bool
	buffs       map[string]int // instance id → additive attack bonus

	subs []chan struct{}
}

// NewMatch creates a match from two built decks.
func NewMatch(cfg MatchConfig) *Match {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	m := &Match{
		state:        NewGameState(cfg.Deck0, cfg.Deck1),
		logger:       logger,
		selectedHand: -1,
		attackedIDs:  make(map[string]bool),
		movedIDs:     make(map[string]bool),
		summonedIDs:  make(map[string]bool),
		buffs:        make(map[string]int),
	}
	m.logger.Log(log.NewTurnEvent(m.state.Turn, m.state.CurrentPlayer))
	return m
}

// --- Subscriptions ---

// Subscribe returns a channel that receives a signal after every state
// mutation. The channel is buffered; slow consumers coalesce signals.
func (m *Match) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// signal wakes subscribers. Called with mu held; sends never block.
func (m *Match) signal() {
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (m *Match) log(ev log.GameEvent) {
	m.logger.Log(ev)
}

// --- Read access ---

// Inspect runs fn with the lock held so view builders read a consistent
// snapshot. fn must not call back into the match.
func (m *Match) Inspect(fn func(*GameState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state)
}

// Generation returns the current automation generation counter.
func (m *Match) Generation() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// Over reports whether the match has ended.
func (m *Match) Over() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Over
}

// Winner returns the winning player index, or -1 while undecided.
func (m *Match) Winner() (int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Winner, m.state.Result
}

// SelectedHand returns the selecting player's chosen hand index, -1 if none.
func (m *Match) SelectedHand() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedHand
}

// PendingAttacker returns the position of the chosen attacker, if any.
func (m *Match) PendingAttacker() *FieldPos {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pendingAttacker == nil {
		return nil
	}
	p := *m.pendingAttacker
	return &p
}

// PendingMove returns the source position of a pending relocation, if any.
func (m *Match) PendingMove() *FieldPos {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pendingMove == nil {
		return nil
	}
	p := *m.pendingMove
	return &p
}

// PendingDiscard returns the pending discard-draw spell id and the ids
// currently flagged for discard.
func (m *Match) PendingDiscard() (string, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pendingSpell == nil {
		return "", nil
	}
	picks := make([]string, len(m.discardPicks))
	copy(picks, m.discardPicks)
	return m.pendingSpell.ID, picks
}

// AttackBuff returns the temporary attack bonus for an instance id.
func (m *Match) AttackBuff(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffs[id]
}

// HasAttacked reports whether the monster already attacked this turn.
func (m *Match) HasAttacked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attackedIDs[id]
}

// --- Guards ---

// guard validates the basic preconditions shared by every player intent.
// phase < 0 skips the phase check.
func (m *Match) guard(player int, phase Phase) error {
	if m.state.Over {
		return ErrMatchOver
	}
	if m.state.CurrentPlayer != player {
		return ErrNotYourTurn
	}
	if phase >= 0 && m.state.Phase != phase {
		return ErrWrongPhase
	}
	return nil
}

// checkWin runs the terminal-condition observer after any mutation that can
// change special card HP. Once it fires, every later guard rejects.
func (m *Match) checkWin() {
	if m.state.Over {
		return
	}
	if m.state.CheckWinCondition() {
		m.gen++
		m.log(log.NewWinEvent(m.state.Turn, m.state.Phase.String(), m.state.Winner, m.state.Result))
	}
}

// --- Phase machine ---

// AdvancePhase moves the acting player's turn to the next phase.
// Draw → Play also runs the automatic draw and energy regeneration;
// Attack → Draw hands the turn to the other player.
func (m *Match) AdvancePhase(player int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, -1); err != nil {
		return err
	}

	switch m.state.Phase {
	case PhaseDraw:
		p := m.state.Current()
		if card := p.Draw(); card != nil {
			m.log(log.NewDrawEvent(m.state.Turn, m.state.Phase.String(), player, card.Def.Name))
		}
		p.GainEnergy(1)
		m.log(log.NewEnergyGainEvent(m.state.Turn, m.state.Phase.String(), player, p.CurrentEnergy))
		m.state.Phase = PhasePlay
	case PhasePlay:
		m.state.Phase = PhaseAttack
	case PhaseAttack:
		m.switchTurnLocked()
		m.gen++
		m.signal()
		return nil
	}

	m.gen++
	m.log(log.NewPhaseChangeEvent(m.state.Turn, m.state.Phase.String()))
	m.signal()
	return nil
}

// EndTurn ends the acting player's turn from any phase.
func (m *Match) EndTurn(player int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, -1); err != nil {
		return err
	}
	m.switchTurnLocked()
	m.gen++
	m.signal()
	return nil
}

// switchTurnLocked hands the turn to the other player and applies the
// turn-start reset. Applying the reset twice in a row is a no-op.
func (m *Match) switchTurnLocked() {
	m.state.CurrentPlayer = m.state.Opponent(m.state.CurrentPlayer)
	m.state.Turn++
	m.state.Phase = PhaseDraw
	m.resetTurnLocked()
	m.log(log.NewTurnEvent(m.state.Turn, m.state.CurrentPlayer))
}

// resetTurnLocked clears all per-turn tracking and every field card's
// once-per-turn effect flag, for both players.
func (m *Match) resetTurnLocked() {
	m.attackedIDs = make(map[string]bool)
	m.movedIDs = make(map[string]bool)
	m.summonedIDs = make(map[string]bool)
	m.buffs = make(map[string]int)
	m.selectedHand = -1
	m.pendingAttacker = nil
	m.pendingMove = nil
	m.pendingSpell = nil
	m.discardPicks = nil

	for p := 0; p < 2; p++ {
		f := &m.state.Players[p].Field
		for _, pos := range f.Monsters() {
			f.At(pos).UsedEffectThisTurn = false
		}
	}
}

// --- Selection intents ---

// SelectHandCard toggles selection of a hand card. While a discard-draw
// spell is pending, the same click instead toggles the card's discard flag.
func (m *Match) SelectHandCard(player, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(player, -1); err != nil {
		return err
	}
	hand := m.state.Players[player].Hand
	if index < 0 || index >= len(hand) {
		return ErrNoSelection
	}

	if m.pendingSpell != nil {
		return m.toggleDiscardLocked(hand[index])
	}

	if m.selectedHand == index {
		m.selectedHand = -1
	} else {
		m.selectedHand = index
	}
	m.signal()
	return nil
}

// CancelPending clears any pending selection, attacker, or move without
// side effects.
func (m *Match) CancelPending(player int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CurrentPlayer != player {
		return ErrNotYourTurn
	}
	m.selectedHand = -1
	m.pendingAttacker = nil
	m.pendingMove = nil
	m.signal()
	return nil
}

// Close ends the match administratively (session teardown, "play again").
// Straggler automation steps see the bumped generation and no-op.
func (m *Match) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Over {
		m.state.Over = true
		m.state.Result = "match abandoned"
	}
	m.gen++
	m.signal()
}
