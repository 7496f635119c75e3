package mcp

import (
	"context"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rowduel/internal/game"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// decksFile is the path to the decks YAML file, set by main.
var decksFile string

// SetDecksFile sets the path to the decks YAML file.
func SetDecksFile(path string) {
	decksFile = path
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(attackTool(), handleAttack)
	s.AddTool(moveTool(), handleMove)
	s.AddTool(castSpellTool(), handleCastSpell)
	s.AddTool(discardAndDrawTool(), handleDiscardAndDraw)
	s.AddTool(activateEffectTool(), handleActivateEffect)
	s.AddTool(advancePhaseTool(), handleAdvancePhase)
	s.AddTool(endTurnTool(), handleEndTurn)
}

func parseRow(s string) (game.Row, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return game.RowFront, true
	case "back":
		return game.RowBack, true
	}
	return 0, false
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new match against the scripted opponent. You play seat 0 and go first. "+
			"Replaces any match already in progress."),
		mcp.WithNumber("deck_number", mcp.Description("Deck number (1-indexed from the decks YAML file); omit or 0 for a random deck")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current board state from your perspective plus events since the last call. Read-only."),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a monster from your hand to an empty slot on your field. Play phase only; pays the card's energy cost."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index of the monster in your hand")),
		mcp.WithString("row", mcp.Required(), mcp.Description("'front' or 'back'")),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("0-based slot index within the row")),
	)
}

func attackTool() mcp.Tool {
	return mcp.NewTool("attack",
		mcp.WithDescription("Attack with one of your field monsters. Attack phase only; each monster attacks once per turn. "+
			"The opponent's back row and special card are only targetable while their front row is empty."),
		mcp.WithString("attacker_row", mcp.Required(), mcp.Description("'front' or 'back'")),
		mcp.WithNumber("attacker_slot", mcp.Required(), mcp.Description("0-based slot of your attacker")),
		mcp.WithString("target", mcp.Required(), mcp.Description("'special' to strike the special card, or '<row> <slot>' e.g. 'front 1'")),
	)
}

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Relocate one of your field monsters to an empty slot. Play phase only; once per monster per turn, "+
			"and not on the turn it was summoned."),
		mcp.WithString("from_row", mcp.Required(), mcp.Description("'front' or 'back'")),
		mcp.WithNumber("from_slot", mcp.Required(), mcp.Description("0-based source slot")),
		mcp.WithString("to_row", mcp.Required(), mcp.Description("'front' or 'back'")),
		mcp.WithNumber("to_slot", mcp.Required(), mcp.Description("0-based destination slot")),
	)
}

func castSpellTool() mcp.Tool {
	return mcp.NewTool("cast_spell",
		mcp.WithDescription("Cast a spell from your hand. Play phase only. The attack-buff spell needs a target on your own field; "+
			"the discard-draw spell opens a pending selection resolved via discard_and_draw."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index of the spell in your hand")),
		mcp.WithString("target_row", mcp.Description("'front' or 'back' (targeted spells only)")),
		mcp.WithNumber("target_slot", mcp.Description("0-based slot of the target (targeted spells only)")),
	)
}

func discardAndDrawTool() mcp.Tool {
	return mcp.NewTool("discard_and_draw",
		mcp.WithDescription("Resolve a pending discard-draw spell: discard exactly two hand cards, then draw two. "+
			"Pass an empty string to cancel the spell instead."),
		mcp.WithString("hand_indices", mcp.Required(), mcp.Description("Space-separated 0-based hand indices of the two cards to discard (e.g. '0 2'), or '' to cancel")),
	)
}

func activateEffectTool() mcp.Tool {
	return mcp.NewTool("activate_effect",
		mcp.WithDescription("Activate a support monster's once-per-turn effect on an allied monster. Play phase only."),
		mcp.WithString("activator_id", mcp.Required(), mcp.Description("Instance id of the monster with the effect")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Instance id of the allied monster to affect")),
	)
}

func advancePhaseTool() mcp.Tool {
	return mcp.NewTool("advance_phase",
		mcp.WithDescription("Advance your turn to the next phase. Draw → Play also draws a card and gains energy; "+
			"Attack → Draw hands the turn to the opponent, whose whole turn resolves before this returns."),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn immediately from any phase. The opponent's whole turn resolves before this returns."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		activeSession.close()
		activeSession = nil
	}

	deckNumber := request.GetInt("deck_number", 0)
	sess, err := NewGameSession(decksFile, deckNumber)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	activeSession = sess

	return mcp.NewToolResultText(respondJSON(sess.settle("Match started. You are seat 0 and go first."))), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.settle(""))), nil
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	row, ok := parseRow(request.GetString("row", ""))
	if !ok {
		return mcp.NewToolResultError("row must be 'front' or 'back'"), nil
	}
	handIndex := request.GetInt("hand_index", -1)
	slot := request.GetInt("slot", -1)
	if slot < 0 || slot >= game.RowSize {
		return mcp.NewToolResultErrorf("slot must be 0-%d", game.RowSize-1), nil
	}

	if err := sess.match.SelectHandCard(0, handIndex); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := sess.match.PlayMonster(0, game.FieldPos{Row: row, Index: slot}); err != nil {
		_ = sess.match.CancelPending(0)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.settle(""))), nil
}

func handleAttack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	attackerRow, ok := parseRow(request.GetString("attacker_row", ""))
	if !ok {
		return mcp.NewToolResultError("attacker_row must be 'front' or 'back'"), nil
	}
	attackerSlot := request.GetInt("attacker_slot", -1)
	if attackerSlot < 0 || attackerSlot >= game.RowSize {
		return mcp.NewToolResultErrorf("attacker_slot must be 0-%d", game.RowSize-1), nil
	}

	var target game.AttackTarget
	targetStr := strings.TrimSpace(request.GetString("target", ""))
	if strings.EqualFold(targetStr, "special") {
		target.SpecialCard = true
	} else {
		parts := strings.Fields(targetStr)
		if len(parts) != 2 {
			return mcp.NewToolResultError("target must be 'special' or '<row> <slot>'"), nil
		}
		row, ok := parseRow(parts[0])
		if !ok {
			return mcp.NewToolResultError("target row must be 'front' or 'back'"), nil
		}
		slot, err := strconv.Atoi(parts[1])
		if err != nil || slot < 0 || slot >= game.RowSize {
			return mcp.NewToolResultErrorf("target slot must be 0-%d", game.RowSize-1), nil
		}
		target.Pos = game.FieldPos{Row: row, Index: slot}
	}

	if err := sess.match.SelectAttacker(0, game.FieldPos{Row: attackerRow, Index: attackerSlot}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := sess.match.ResolveAttack(0, target); err != nil {
		_ = sess.match.CancelPending(0)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.settle(""))), nil
}

func handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	fromRow, ok := parseRow(request.GetString("from_row", ""))
	if !ok {
		return mcp.NewToolResultError("from_row must be 'front' or 'back'"), nil
	}
	toRow, ok := parseRow(request.GetString("to_row", ""))
	if !ok {
		return mcp.NewToolResultError("to_row must be 'front' or 'back'"), nil
	}
	from := game.FieldPos{Row: fromRow, Index: request.GetInt("from_slot", -1)}
	to := game.FieldPos{Row: toRow, Index: request.GetInt("to_slot", -1)}
	if from.Index < 0 || from.Index >= game.RowSize || to.Index < 0 || to.Index >= game.RowSize {
		return mcp.NewToolResultErrorf("slots must be 0-%d", game.RowSize-1), nil
	}

	if err := sess.match.RequestMove(0, from); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := sess.match.ConfirmMove(0, to); err != nil {
		_ = sess.match.CancelPending(0)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.settle(""))), nil
}

func handleCastSpell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	handIndex := request.GetInt("hand_index", -1)
	var target *game.FieldPos
	if rowStr := request.GetString("target_row", ""); rowStr != "" {
		row, ok := parseRow(rowStr)
		if !ok {
			return mcp.NewToolResultError("target_row must be 'front' or 'back'"), nil
		}
		slot := request.GetInt("target_slot", -1)
		if slot < 0 || slot >= game.RowSize {
			return mcp.NewToolResultErrorf("target_slot must be 0-%d", game.RowSize-1), nil
		}
		target = &game.FieldPos{Row: row, Index: slot}
	}

	info, err := sess.match.CastSpell(0, handIndex, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.settle(info))), nil
}

func handleDiscardAndDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	if spellID, _ := sess.match.PendingDiscard(); spellID == "" {
		return mcp.NewToolResultError("No discard spell is pending. Cast one with cast_spell first."), nil
	}

	indicesStr := strings.TrimSpace(request.GetString("hand_indices", ""))
	if indicesStr == "" {
		if err := sess.match.DeclineDiscard(0); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(respondJSON(sess.settle("Spell cancelled."))), nil
	}

	for _, p := range strings.Fields(indicesStr) {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid index '%s': must be an integer.", p), nil
		}
		if err := sess.match.SelectHandCard(0, idx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	info, err := sess.match.ConfirmDiscard(0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.settle(info))), nil
}

func handleActivateEffect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	info, err := sess.match.ActivateEffect(0,
		request.GetString("activator_id", ""),
		request.GetString("target_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.settle(info))), nil
}

func handleAdvancePhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	if err := sess.match.AdvancePhase(0); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp := sess.settle("")
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	if err := sess.match.EndTurn(0); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp := sess.settle("")
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
