package game

import "fmt"

// --- Enums ---

type Phase int

const (
	PhaseDraw Phase = iota
	PhasePlay
	PhaseAttack
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "Draw Phase"
	case PhasePlay:
		return "Play Phase"
	case PhaseAttack:
		return "Attack Phase"
	default:
		return "Unknown"
	}
}

type Row int

const (
	RowFront Row = iota
	RowBack
)

func (r Row) String() string {
	if r == RowFront {
		return "front"
	}
	return "back"
}

type CardKind int

const (
	KindMonster CardKind = iota
	KindSpell
)

func (k CardKind) String() string {
	if k == KindMonster {
		return "Monster"
	}
	return "Spell"
}

// SpellEffect is the tagged behavior of a Spell card. The original design
// dispatched on id prefixes; spells carry their effect explicitly instead.
type SpellEffect int

const (
	SpellNone SpellEffect = iota
	SpellAttackBuff
	SpellExtraDraw
	SpellDiscardDraw
)

func (s SpellEffect) String() string {
	switch s {
	case SpellAttackBuff:
		return "AttackBuff"
	case SpellExtraDraw:
		return "ExtraDraw"
	case SpellDiscardDraw:
		return "DiscardDraw"
	default:
		return "None"
	}
}

// MonsterEffect is the tagged once-per-turn field effect of a Monster.
type MonsterEffect int

const (
	MonsterEffectNone MonsterEffect = iota
	MonsterEffectHealAlly
)

// --- Card definition (static, from the catalog) ---

// CardDef is an immutable master card definition.
type CardDef struct {
	ID          string // catalog id, e.g. "m001", "s002"
	Name        string
	Description string
	Kind        CardKind
	Cost        int

	// Monster stats
	FrontAttack int
	BackAttack  int
	MaxHP       int
	Race        string
	Effect      MonsterEffect

	// Spell behavior
	Spell SpellEffect
}

func (c *CardDef) String() string {
	return c.Name
}

// --- CardInstance (runtime copy of a definition, unique within a match) ---

// CardInstance is a CardDef copied into a deck. Duplicate definitions in a
// 40-card deck stay individually addressable through the instance ID.
type CardInstance struct {
	Def *CardDef
	ID  string // Def.ID plus an instance suffix, e.g. "m001-17"

	// Monster runtime state
	CurrentHP          int
	UsedEffectThisTurn bool
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	if ci.Def.Kind == KindMonster {
		return fmt.Sprintf("%s (HP %d/%d)", ci.Def.Name, ci.CurrentHP, ci.Def.MaxHP)
	}
	return ci.Def.Name
}

// AttackFor returns the base attack stat for the given row.
func (ci *CardInstance) AttackFor(row Row) int {
	if row == RowFront {
		return ci.Def.FrontAttack
	}
	return ci.Def.BackAttack
}

// --- Field positions ---

// FieldPos identifies one slot on a player's field.
type FieldPos struct {
	Row   Row `json:"row"`
	Index int `json:"index"`
}

func (p FieldPos) String() string {
	return fmt.Sprintf("%s-%d", p.Row, p.Index+1)
}

// AttackTarget is either a monster slot on the defender's field or the
// defender's special card.
type AttackTarget struct {
	SpecialCard bool
	Pos         FieldPos
}
