package game

import "errors"

// Resolver rejections. Every operation either installs a new valid state or
// leaves the state untouched and returns one of these; nothing in this
// package panics across the resolver boundary. The error text doubles as the
// user-facing message.
var (
	ErrNotYourTurn        = errors.New("it is not your turn")
	ErrWrongPhase         = errors.New("that action is not legal in this phase")
	ErrMatchOver          = errors.New("the match is over")
	ErrInsufficientEnergy = errors.New("not enough energy")
	ErrIllegalTarget      = errors.New("illegal target")
	ErrBackRowProtected   = errors.New("the back row cannot be targeted while the front row is occupied")
	ErrSlotOccupied       = errors.New("that slot is occupied")
	ErrSlotEmpty          = errors.New("that slot is empty")
	ErrAlreadyAttacked    = errors.New("this monster has already attacked this turn")
	ErrAlreadyMoved       = errors.New("this monster has already moved this turn")
	ErrSummonedThisTurn   = errors.New("a monster cannot move on the turn it was summoned")
	ErrEffectAlreadyUsed  = errors.New("this effect has already been used this turn")
	ErrMaxHPReached       = errors.New("this monster is already at full HP")
	ErrInsufficientHand   = errors.New("not enough other cards in hand")
	ErrDeckExhausted      = errors.New("the deck is empty")
	ErrUnknownSpell       = errors.New("this spell has no known effect")
	ErrNoSelection        = errors.New("no card selected")
)
