package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventPhaseChange
	EventDraw
	EventEnergyGain
	EventSummon
	EventAttack
	EventSpecialCardHit
	EventDestroy
	EventMove
	EventSpellCast
	EventBuff
	EventHeal
	EventDiscard
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventNewTurn:
		return "NewTurn"
	case EventPhaseChange:
		return "PhaseChange"
	case EventDraw:
		return "Draw"
	case EventEnergyGain:
		return "EnergyGain"
	case EventSummon:
		return "Summon"
	case EventAttack:
		return "Attack"
	case EventSpecialCardHit:
		return "SpecialCardHit"
	case EventDestroy:
		return "Destroy"
	case EventMove:
		return "Move"
	case EventSpellCast:
		return "SpellCast"
	case EventBuff:
		return "Buff"
	case EventHeal:
		return "Heal"
	case EventDiscard:
		return "Discard"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent is a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // current phase name
	Player  int       // acting player (0 or 1)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
