package web

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"rowduel/internal/game"
	gamelog "rowduel/internal/log"
)

// The human always plays seat 0; the scripted opponent holds seat 1.
const (
	humanSeat  = 0
	scriptSeat = 1
)

// Session owns one WebSocket connection and the match it is playing.
// Starting a new game tears down the previous match, so automation from
// the old one can never touch the new board.
type Session struct {
	id   string
	srv  *Server
	conn *websocket.Conn

	mu           sync.Mutex // guards writes to conn and match swaps
	match        *game.Match
	cancelDriver context.CancelFunc
}

func newSession(srv *Server, conn *websocket.Conn) *Session {
	return &Session{
		id:   uuid.NewString(),
		srv:  srv,
		conn: conn,
	}
}

// Run reads client messages until the connection drops.
func (s *Session) Run(ctx context.Context) {
	defer s.teardown()
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(ctx, "malformed message")
			continue
		}
		s.handle(ctx, msg)
	}
}

func (s *Session) handle(ctx context.Context, msg ClientMessage) {
	if msg.Type == "new_game" {
		s.startGame(ctx, msg.DeckNumber)
		return
	}

	s.mu.Lock()
	m := s.match
	s.mu.Unlock()
	if m == nil {
		s.sendError(ctx, "no game in progress")
		return
	}

	var info string
	var err error
	switch msg.Type {
	case "select_hand":
		err = m.SelectHandCard(humanSeat, msg.Index)
	case "play_card":
		if msg.Pos == nil {
			s.sendError(ctx, "missing position")
			return
		}
		err = m.PlayMonster(humanSeat, *msg.Pos)
	case "select_attacker":
		if msg.Pos == nil {
			s.sendError(ctx, "missing position")
			return
		}
		err = m.SelectAttacker(humanSeat, *msg.Pos)
	case "attack":
		target := game.AttackTarget{SpecialCard: msg.SpecialCard}
		if msg.Pos != nil {
			target.Pos = *msg.Pos
		}
		err = m.ResolveAttack(humanSeat, target)
	case "request_move":
		if msg.Pos == nil {
			s.sendError(ctx, "missing position")
			return
		}
		err = m.RequestMove(humanSeat, *msg.Pos)
	case "confirm_move":
		if msg.Pos == nil {
			s.sendError(ctx, "missing position")
			return
		}
		err = m.ConfirmMove(humanSeat, *msg.Pos)
	case "cast_spell":
		info, err = m.CastSpell(humanSeat, msg.Index, msg.Target)
	case "confirm_discard":
		info, err = m.ConfirmDiscard(humanSeat)
	case "decline_discard":
		err = m.DeclineDiscard(humanSeat)
	case "activate_effect":
		info, err = m.ActivateEffect(humanSeat, msg.ActivatorID, msg.TargetID)
	case "advance_phase":
		err = m.AdvancePhase(humanSeat)
	case "end_turn":
		err = m.EndTurn(humanSeat)
	case "cancel":
		err = m.CancelPending(humanSeat)
	default:
		s.sendError(ctx, "unknown message type: "+msg.Type)
		return
	}

	if err != nil {
		s.sendError(ctx, err.Error())
		return
	}
	if info != "" {
		s.send(ctx, ServerMessage{Type: "info", Message: info})
	}
}

// startGame replaces any running match with a fresh one. The deck number
// selects the human's deck from the decks file; 0 or an unknown number
// builds a random deck instead, as does the scripted seat.
func (s *Session) startGame(ctx context.Context, deckNumber int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	deck0 := s.loadDeck(deckNumber, rng)
	deck1 := game.BuildRandomDeck(game.Catalog(), rng)

	m := game.NewMatch(game.MatchConfig{
		Deck0:  deck0,
		Deck1:  deck1,
		Logger: gamelog.NewMemoryLogger(),
	})

	driverCtx, cancel := context.WithCancel(context.Background())
	driver := game.NewDriver(m, game.DriverConfig{
		HumanSeat:        humanSeat,
		ScriptSeat:       scriptSeat,
		StepDelay:        time.Duration(s.srv.cfg.OpponentStepDelayMS) * time.Millisecond,
		DrawAdvanceDelay: time.Duration(s.srv.cfg.DrawAdvanceDelayMS) * time.Millisecond,
	})

	s.mu.Lock()
	if s.cancelDriver != nil {
		s.cancelDriver()
	}
	if s.match != nil {
		s.match.Close()
	}
	s.match = m
	s.cancelDriver = cancel
	s.mu.Unlock()

	go driver.Run(driverCtx)
	go s.watch(driverCtx, m)

	s.send(ctx, ServerMessage{Type: "state", MatchID: s.id, State: BuildStateView(m, humanSeat)})
}

// loadDeck resolves the human's deck choice against the decks file,
// falling back to a random build when the file or entry is unusable.
func (s *Session) loadDeck(deckNumber int, rng *rand.Rand) []*game.CardInstance {
	if deckNumber > 0 && s.srv.decksFile != "" {
		if _, defs, err := game.DeckByNumber(s.srv.decksFile, deckNumber); err == nil {
			return game.BuildImportedDeck(defs, game.Catalog(), rng)
		}
		log.Printf("deck %d unavailable, using a random deck", deckNumber)
	}
	return game.BuildRandomDeck(game.Catalog(), rng)
}

// watch pushes a fresh state view to the client after every match
// mutation, and a final game_over once the match ends.
func (s *Session) watch(ctx context.Context, m *game.Match) {
	ch := m.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
		}
		s.send(ctx, ServerMessage{Type: "state", MatchID: s.id, State: BuildStateView(m, humanSeat)})
		if m.Over() {
			winner, result := m.Winner()
			s.send(ctx, ServerMessage{Type: "game_over", Winner: winner, Result: result})
			return
		}
	}
}

func (s *Session) send(ctx context.Context, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil {
		log.Printf("session %s write: %v", s.id, err)
	}
}

func (s *Session) sendError(ctx context.Context, msg string) {
	s.send(ctx, ServerMessage{Type: "error", Message: msg})
}

func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelDriver != nil {
		s.cancelDriver()
	}
	if s.match != nil {
		s.match.Close()
	}
}
