package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for recording match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

// Events returns a snapshot of all logged events. Loggers are read
// concurrently with match mutations, so callers get a copy.
func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	for len(phase) < 13 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw Phase",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, playerName(player)),
	}
}

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws a card", playerName(player)),
	}
}

func NewEnergyGainEvent(turn int, phase string, player, energy int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEnergyGain,
		Details: fmt.Sprintf("%s energy: %d", playerName(player), energy),
	}
}

func NewSummonEvent(turn int, phase string, player int, cardName, pos string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSummon,
		Card:    cardName,
		Details: fmt.Sprintf("%s summons %s to %s", playerName(player), cardName, pos),
	}
}

func NewAttackEvent(turn int, player int, attacker, defender string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Attack Phase",
		Player:  player,
		Type:    EventAttack,
		Card:    attacker,
		Details: fmt.Sprintf("%s attacks: %s → %s (%d damage)", playerName(player), attacker, defender, damage),
	}
}

func NewSpecialCardHitEvent(turn int, player int, attacker string, damage, remaining int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Attack Phase",
		Player:  player,
		Type:    EventSpecialCardHit,
		Card:    attacker,
		Details: fmt.Sprintf("%s hits the special card with %s (%d damage, %d HP left)", playerName(player), attacker, damage, remaining),
	}
}

func NewDestroyEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDestroy,
		Card:    cardName,
		Details: fmt.Sprintf("%s is destroyed and sent to %s's graveyard", cardName, playerName(player)),
	}
}

func NewMoveEvent(turn int, phase string, player int, cardName, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventMove,
		Card:    cardName,
		Details: fmt.Sprintf("%s moves %s: %s → %s", playerName(player), cardName, from, to),
	}
}

func NewSpellCastEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSpellCast,
		Card:    cardName,
		Details: fmt.Sprintf("%s casts %s", playerName(player), cardName),
	}
}

func NewBuffEvent(turn int, phase string, player int, cardName string, total int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventBuff,
		Card:    cardName,
		Details: fmt.Sprintf("%s's attack is raised (+%d this turn)", cardName, total),
	}
}

func NewHealEvent(turn int, phase string, player int, cardName string, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHeal,
		Card:    cardName,
		Details: fmt.Sprintf("%s is healed to %d HP", cardName, hp),
	}
}

func NewDiscardEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s discards %s", playerName(player), cardName),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", playerName(winner), reason),
	}
}
