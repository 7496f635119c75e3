package mcp

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"rowduel/internal/game"
	gamelog "rowduel/internal/log"
	"rowduel/internal/web"
)

// GameSession holds one match played through the MCP tools. The model
// occupies seat 0; seat 1 runs the scripted opponent with zero pacing, so
// the opponent's whole turn resolves before the next tool call returns.
type GameSession struct {
	mu      sync.Mutex
	match   *game.Match
	logger  *gamelog.MemoryLogger
	cancel  context.CancelFunc
	drained int // events already reported to the model
}

// NewGameSession builds a match against the scripted opponent. deckNumber
// selects a deck from the decks file; 0 means a random deck.
func NewGameSession(decksFile string, deckNumber int) (*GameSession, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var deck0 []*game.CardInstance
	if deckNumber > 0 {
		_, defs, err := game.DeckByNumber(decksFile, deckNumber)
		if err != nil {
			return nil, err
		}
		deck0 = game.BuildImportedDeck(defs, game.Catalog(), rng)
	} else {
		deck0 = game.BuildRandomDeck(game.Catalog(), rng)
	}
	deck1 := game.BuildRandomDeck(game.Catalog(), rng)

	logger := gamelog.NewMemoryLogger()
	m := game.NewMatch(game.MatchConfig{Deck0: deck0, Deck1: deck1, Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	driver := game.NewDriver(m, game.DriverConfig{HumanSeat: 0, ScriptSeat: 1})
	go driver.Run(ctx)

	return &GameSession{match: m, logger: logger, cancel: cancel}, nil
}

func (s *GameSession) close() {
	s.cancel()
	s.match.Close()
}

// EventView is a simplified game event for the model.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase,omitempty"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// drainEvents returns the events logged since the last drain.
func (s *GameSession) drainEvents() []EventView {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.logger.Events()
	views := []EventView{}
	for _, ev := range events[s.drained:] {
		views = append(views, EventView{
			Turn:    ev.Turn,
			Phase:   ev.Phase,
			Player:  ev.Player,
			Type:    ev.Type.String(),
			Card:    ev.Card,
			Details: ev.Details,
		})
	}
	s.drained = len(events)
	return views
}

// ToolResponse is the JSON payload returned by every game tool.
type ToolResponse struct {
	State    *web.StateView `json:"state,omitempty"`
	Events   []EventView    `json:"events"`
	Message  string         `json:"message,omitempty"`
	GameOver bool           `json:"game_over,omitempty"`
	Winner   int            `json:"winner,omitempty"`
	Result   string         `json:"result,omitempty"`
}

// settle waits briefly for the scripted opponent to finish its automated
// turn, then builds the response the tool call returns.
func (s *GameSession) settle(message string) *ToolResponse {
	s.waitForSeat(0, 2*time.Second)

	resp := &ToolResponse{
		State:   web.BuildStateView(s.match, 0),
		Message: message,
	}
	if s.match.Over() {
		resp.GameOver = true
		resp.Winner, resp.Result = s.match.Winner()
	}
	resp.Events = s.drainEvents()
	return resp
}

// waitForSeat blocks until it is the given seat's turn, the match ends,
// or the timeout lapses. The zero-delay driver makes this near-instant.
func (s *GameSession) waitForSeat(seat int, timeout time.Duration) {
	ch := s.match.Subscribe()
	deadline := time.After(timeout)
	for {
		var current int
		var over bool
		s.match.Inspect(func(st *game.GameState) {
			current, over = st.CurrentPlayer, st.Over
		})
		if over || current == seat {
			return
		}
		select {
		case <-ch:
		case <-deadline:
			return
		}
	}
}

func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal response"}`
	}
	return string(data)
}
